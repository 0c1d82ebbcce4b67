package dom

// Event is a synthetic DOM event dispatched through the document. It
// bubbles from its target up to the root unless a handler stops it.
type Event struct {
	eventType string
	target    *Element
	current   *Element
	stopped   bool
}

// Type returns the event type, e.g. "click".
func (ev *Event) Type() string { return ev.eventType }

// Target returns the element the event was dispatched on.
func (ev *Event) Target() *Element { return ev.target }

// CurrentTarget returns the element whose listener is currently running.
func (ev *Event) CurrentTarget() *Element { return ev.current }

// StopPropagation prevents the event from bubbling further up the tree.
func (ev *Event) StopPropagation() { ev.stopped = true }

// HandlerFunc handles one dispatched event.
type HandlerFunc func(*Event)

// Listener is the removable handle returned by On.
type Listener struct {
	eventType string
	fn        HandlerFunc
}

// On registers a listener for eventType on the element and returns a
// handle usable with Off.
func (e *Element) On(eventType string, fn HandlerFunc) *Listener {
	l := &Listener{eventType: eventType, fn: fn}
	m := e.doc.listeners[e.node]
	if m == nil {
		m = make(map[string][]*Listener)
		e.doc.listeners[e.node] = m
	}
	m[eventType] = append(m[eventType], l)
	return l
}

// Off removes a previously registered listener. Removing a listener
// that is already gone is a no-op.
func (e *Element) Off(l *Listener) {
	if l == nil {
		return
	}
	m := e.doc.listeners[e.node]
	list := m[l.eventType]
	for i, candidate := range list {
		if candidate == l {
			m[l.eventType] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// Dispatch fires an event of the given type on the element and bubbles
// it through the element's ancestors.
func (e *Element) Dispatch(eventType string) {
	ev := &Event{eventType: eventType, target: e}
	for n := e.node; n != nil && !ev.stopped; n = n.Parent {
		listeners := e.doc.listeners[n][eventType]
		if len(listeners) == 0 {
			continue
		}
		ev.current = e.doc.wrap(n)
		// Snapshot so handlers may add or remove listeners mid-dispatch.
		snapshot := append([]*Listener(nil), listeners...)
		for _, l := range snapshot {
			l.fn(ev)
			if ev.stopped {
				break
			}
		}
	}
}

// Click is shorthand for Dispatch("click").
func (e *Element) Click() { e.Dispatch("click") }
