package dom

import (
	"strconv"
	"strings"
	"time"
)

// HiddenClass is the single class used for show/hide toggling.
const HiddenClass = "d-none"

// Show makes the target visible: removes the hidden class and sets
// aria-hidden to false. Idempotent; no-op on an unresolved target.
func (d *Document) Show(target interface{}) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	el.RemoveClass(HiddenClass)
	el.SetAttr("aria-hidden", "false")
}

// Hide makes the target hidden: adds the hidden class and sets
// aria-hidden to true. Idempotent; no-op on an unresolved target.
func (d *Document) Hide(target interface{}) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	el.AddClass(HiddenClass)
	el.SetAttr("aria-hidden", "true")
}

// Toggle shows a hidden target and hides a visible one.
func (d *Document) Toggle(target interface{}) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	if el.HasClass(HiddenClass) {
		d.Show(el)
	} else {
		d.Hide(el)
	}
}

// ShowIf shows the target when condition holds, hides it otherwise.
func (d *Document) ShowIf(target interface{}, condition bool) {
	if condition {
		d.Show(target)
	} else {
		d.Hide(target)
	}
}

// HideIf is the logical negation of ShowIf.
func (d *Document) HideIf(target interface{}, condition bool) {
	d.ShowIf(target, !condition)
}

// IsVisible reports whether the target carries none of the three hiding
// mechanisms: the hidden class, an inline display:none, or the native
// hidden attribute. An unresolved target is not visible.
func (d *Document) IsVisible(target interface{}) bool {
	el := d.Resolve(target)
	if el == nil {
		return false
	}
	if el.HasClass(HiddenClass) {
		return false
	}
	if styleProp(el, "display") == "none" {
		return false
	}
	if _, hidden := el.Attr("hidden"); hidden {
		return false
	}
	return true
}

// FadeIn shows the target and transitions its opacity from 0 to 1 over
// the given duration. The starting opacity is written and flushed
// before the transition starts, otherwise both writes would coalesce
// and nothing would animate.
func (d *Document) FadeIn(target interface{}, duration time.Duration) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	setStyleProp(el, "opacity", "0")
	d.Show(el)
	forceReflow(el)
	setStyleProp(el, "transition", "opacity "+durationCSS(duration))
	setStyleProp(el, "opacity", "1")
	d.timers.schedule(duration, func() {
		removeStyleProp(el, "transition")
		removeStyleProp(el, "opacity")
	})
}

// FadeOut transitions the target's opacity to 0 over the given duration,
// applies the hidden class only once the duration has elapsed, then
// invokes onComplete if present.
func (d *Document) FadeOut(target interface{}, duration time.Duration, onComplete func()) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	setStyleProp(el, "opacity", "1")
	forceReflow(el)
	setStyleProp(el, "transition", "opacity "+durationCSS(duration))
	setStyleProp(el, "opacity", "0")
	d.timers.schedule(duration, func() {
		d.Hide(el)
		removeStyleProp(el, "transition")
		removeStyleProp(el, "opacity")
		if onComplete != nil {
			onComplete()
		}
	})
}

// forceReflow flushes pending style writes so the upcoming transition
// animates from the values written just above.
func forceReflow(el *Element) {
	_, _ = el.Attr("style")
}

func durationCSS(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return strconv.FormatInt(ms, 10) + "ms"
}

// styleProp reads one property out of the inline style attribute.
func styleProp(el *Element, name string) string {
	style, _ := el.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if strings.TrimSpace(key) == name {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

func setStyleProp(el *Element, name, value string) {
	decls := parseStyle(el)
	replaced := false
	for i := range decls {
		if decls[i][0] == name {
			decls[i][1] = value
			replaced = true
			break
		}
	}
	if !replaced {
		decls = append(decls, [2]string{name, value})
	}
	writeStyle(el, decls)
}

func removeStyleProp(el *Element, name string) {
	decls := parseStyle(el)
	kept := decls[:0]
	for _, decl := range decls {
		if decl[0] != name {
			kept = append(kept, decl)
		}
	}
	writeStyle(el, kept)
}

func parseStyle(el *Element) [][2]string {
	style, _ := el.Attr("style")
	var decls [][2]string
	for _, decl := range strings.Split(style, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		decls = append(decls, [2]string{strings.TrimSpace(key), strings.TrimSpace(val)})
	}
	return decls
}

func writeStyle(el *Element, decls [][2]string) {
	if len(decls) == 0 {
		el.RemoveAttr("style")
		return
	}
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		parts = append(parts, decl[0]+": "+decl[1])
	}
	el.SetAttr("style", strings.Join(parts, "; "))
}
