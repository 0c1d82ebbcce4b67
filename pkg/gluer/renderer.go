package gluer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/blankbase/blankbase/pkg/dom"
)

// Marker attributes understood by the populator. A marker element
// carries data-field naming the item field to read, plus optional
// attributes steering how the value lands in the DOM.
const (
	FieldAttr      = "data-field"
	FormatAttr     = "data-format"
	TargetAttrName = "data-attr"
	TargetAttrOf   = "data-attr-of" // "parent" or "child"
	TrueClassAttr  = "data-true-class"
	FalseClassAttr = "data-false-class"
	TrueTextAttr   = "data-true-text"
	FalseTextAttr  = "data-false-text"

	// BoneAttr tags structural anchors inside rendered rows for event
	// delegation matching.
	BoneAttr = "data-bone"

	itemDataKey = "gluer:item"
)

// Format hints for non-boolean values.
const (
	FormatDate     = "date"
	FormatDateTime = "datetime"
	FormatHTML     = "html"
)

// Renderer populates HTML templates from Items and renders item lists
// into containers.
type Renderer struct {
	doc    *dom.Document
	logger *zap.Logger
}

// NewRenderer returns a Renderer bound to doc. A nil logger is replaced
// with a no-op logger.
func NewRenderer(doc *dom.Document, logger *zap.Logger) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Renderer{doc: doc, logger: logger.Named("gluer")}
}

// BeforeAppendFunc lets a caller customize each rendered row before it
// is appended to the container.
type BeforeAppendFunc func(row *dom.Element, item Item, index int)

// Render clears the container, then for each item clones the template's
// row, populates it, invokes beforeAppend if present, tags its bones
// with a back-reference to the item and appends it. Missing template or
// container aborts the call with an error log; nothing is rendered.
func (r *Renderer) Render(templateID, containerID string, items []Item, beforeAppend BeforeAppendFunc) {
	tmpl := r.doc.Resolve(templateID)
	if tmpl == nil {
		r.logger.Error("render: template not found", zap.String("template", templateID))
		return
	}
	container := r.doc.Resolve(containerID)
	if container == nil {
		r.logger.Error("render: container not found", zap.String("container", containerID))
		return
	}
	proto := tmpl.FirstElementChild()
	if proto == nil {
		r.logger.Error("render: template has no row element", zap.String("template", templateID))
		return
	}

	container.Clear()
	for i, item := range items {
		row := proto.Clone()
		r.Populate(row, item)
		if beforeAppend != nil {
			beforeAppend(row, item, i)
		}
		tagBones(row, item)
		container.AppendChild(row)
	}
}

// Populate applies every marker found within root (root itself
// included) against item, in place.
func (r *Renderer) Populate(root *dom.Element, item Item) {
	for _, marker := range markersIn(root) {
		r.applyMarker(marker, item)
	}
}

// Update re-applies bindings to an already rendered row or container in
// place, optionally restricted to the named fields. Rows are never
// re-cloned or reordered; only bound sub-elements mutate.
func (r *Renderer) Update(target interface{}, item Item, fields ...string) {
	root := r.doc.Resolve(target)
	if root == nil {
		return
	}
	subset := make(map[string]bool, len(fields))
	for _, f := range fields {
		subset[camelKey(f)] = true
	}
	for _, marker := range markersIn(root) {
		name, _ := marker.Attr(FieldAttr)
		if len(subset) > 0 && !subset[camelKey(name)] {
			continue
		}
		r.applyMarker(marker, item)
	}
}

// BoneItem returns the item attached to a bone element at render time,
// or nil when none is attached.
func BoneItem(bone *dom.Element) Item {
	if bone == nil {
		return nil
	}
	if v, ok := bone.Data(itemDataKey); ok {
		if item, ok := v.(Item); ok {
			return item
		}
	}
	return nil
}

func markersIn(root *dom.Element) []*dom.Element {
	markers := root.QueryAll("[" + FieldAttr + "]")
	if _, ok := root.Attr(FieldAttr); ok {
		markers = append([]*dom.Element{root}, markers...)
	}
	return markers
}

func tagBones(row *dom.Element, item Item) {
	bones := row.QueryAll("[" + BoneAttr + "]")
	if _, ok := row.Attr(BoneAttr); ok {
		bones = append(bones, row)
	}
	for _, bone := range bones {
		bone.SetData(itemDataKey, item)
	}
}

func (r *Renderer) applyMarker(marker *dom.Element, item Item) {
	name, _ := marker.Attr(FieldAttr)
	value, _ := item.Field(name)
	format := marker.AttrOr(FormatAttr, "")

	// Boolean class/text pairs take precedence over format handling.
	if b, ok := value.(bool); ok && hasBoolMarkers(marker) {
		applyBool(marker, b)
		return
	}

	if attrName, ok := marker.Attr(TargetAttrName); ok && attrName != "" {
		applyAttr(marker, attrName, value)
		return
	}

	// Content binding.
	if value == nil {
		marker.SetText("")
		return
	}
	if format == FormatHTML {
		marker.SetHTML(stringify(value))
		return
	}
	marker.SetText(formatValue(value, format))
}

func hasBoolMarkers(el *dom.Element) bool {
	for _, attr := range []string{TrueClassAttr, FalseClassAttr, TrueTextAttr, FalseTextAttr} {
		if _, ok := el.Attr(attr); ok {
			return true
		}
	}
	return false
}

// applyBool swaps the opposite side's class set out, applies the
// matching side's classes, and sets the display text when both text
// overrides are declared.
func applyBool(el *dom.Element, value bool) {
	trueClasses := splitClasses(el.AttrOr(TrueClassAttr, ""))
	falseClasses := splitClasses(el.AttrOr(FalseClassAttr, ""))
	if value {
		el.RemoveClass(falseClasses...)
		el.AddClass(trueClasses...)
	} else {
		el.RemoveClass(trueClasses...)
		el.AddClass(falseClasses...)
	}

	trueText, hasTrue := el.Attr(TrueTextAttr)
	falseText, hasFalse := el.Attr(FalseTextAttr)
	if hasTrue && hasFalse {
		if value {
			el.SetText(trueText)
		} else {
			el.SetText(falseText)
		}
	}
}

// applyAttr binds the value onto an attribute of the marker's parent,
// first element child, or the marker itself, depending on data-attr-of.
// A nil value removes the attribute outright.
func applyAttr(marker *dom.Element, attrName string, value interface{}) {
	target := marker
	switch marker.AttrOr(TargetAttrOf, "") {
	case "parent":
		target = marker.Parent()
	case "child":
		target = marker.FirstElementChild()
	}
	if target == nil {
		return
	}
	if value == nil {
		target.RemoveAttr(attrName)
		return
	}
	target.SetAttr(attrName, stringify(value))
}

func splitClasses(s string) []string {
	return strings.Fields(s)
}

// formatValue renders a non-nil value as display text, honoring the
// date and datetime format hints for time values.
func formatValue(value interface{}, format string) string {
	switch format {
	case FormatDate:
		if t, ok := asTime(value); ok {
			return t.Format("Jan 2, 2006")
		}
	case FormatDateTime:
		if t, ok := asTime(value); ok {
			return t.Format("Jan 2, 2006 3:04 PM")
		}
	}
	return stringify(value)
}

func asTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format("Jan 2, 2006")
	default:
		return fmt.Sprintf("%v", v)
	}
}
