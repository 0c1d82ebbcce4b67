package dom

// Busy-state toggling for interactive elements: SetBusy disables the
// element and swaps its content for a spinner plus label, ClearBusy
// restores exactly what was there before.

const (
	// BusyLabelAttr lets markup override the busy label per element.
	BusyLabelAttr = "data-busy-label"

	// DefaultBusyLabel is used when no override is present.
	DefaultBusyLabel = "Loading…"

	busyContentKey = "dom:busy-content"
)

// SetBusy disables the target and replaces its content with a spinner
// and label. The prior content is cached so ClearBusy can restore it.
// Calling SetBusy on an element that is already busy is a no-op, so the
// cached content is never overwritten with the spinner markup.
func (d *Document) SetBusy(target interface{}) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	if _, busy := el.Data(busyContentKey); busy {
		return
	}
	el.SetData(busyContentKey, el.InnerHTML())

	label := el.AttrOr(BusyLabelAttr, DefaultBusyLabel)
	el.Clear()
	spinner := d.CreateElement("span")
	spinner.SetAttr("class", "spinner-border spinner-border-sm")
	spinner.SetAttr("aria-hidden", "true")
	text := d.CreateElement("span")
	text.SetText(" " + label)
	el.AppendChild(spinner)
	el.AppendChild(text)

	el.SetAttr("disabled", "disabled")
	el.SetAttr("aria-busy", "true")
}

// ClearBusy restores the content cached by SetBusy and re-enables the
// target. The cache is cleared after restoration so a stale snapshot
// can never be restored twice. No-op when the target is not busy.
func (d *Document) ClearBusy(target interface{}) {
	el := d.Resolve(target)
	if el == nil {
		return
	}
	cached, busy := el.Data(busyContentKey)
	if !busy {
		return
	}
	content, _ := cached.(string)
	el.SetHTML(content)
	el.ClearData(busyContentKey)
	el.RemoveAttr("disabled")
	el.RemoveAttr("aria-busy")
}
