package dom

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// Window models the piece of browser chrome the UI layer depends on:
// the current location and a history stack with pushState/popstate
// semantics. Like the Document it belongs to the page goroutine.
type Window struct {
	doc      *Document
	logger   *zap.Logger
	entries  []historyEntry
	index    int
	popstate []func(state interface{})
}

type historyEntry struct {
	location *url.URL
	state    interface{}
}

// NewWindow creates a window positioned at rawurl with a single history
// entry carrying no state.
func NewWindow(doc *Document, rawurl string) (*Window, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("parsing window location: %w", err)
	}
	logger := zap.NewNop()
	if doc != nil {
		logger = doc.logger
	}
	return &Window{
		doc:     doc,
		logger:  logger.Named("window"),
		entries: []historyEntry{{location: u}},
	}, nil
}

// Document returns the window's document.
func (w *Window) Document() *Document { return w.doc }

// Location returns a copy of the current URL.
func (w *Window) Location() *url.URL {
	u := *w.entries[w.index].location
	return &u
}

// PushState appends a new history entry for rawurl (resolved against
// the current location) carrying state, and moves to it. Entries ahead
// of the current position are discarded, as a browser would.
func (w *Window) PushState(state interface{}, rawurl string) {
	ref, err := url.Parse(rawurl)
	if err != nil {
		w.logger.Debug("invalid pushState url", zap.String("url", rawurl), zap.Error(err))
		return
	}
	next := w.entries[w.index].location.ResolveReference(ref)
	w.entries = append(w.entries[:w.index+1], historyEntry{location: next, state: state})
	w.index = len(w.entries) - 1
}

// ReplaceState swaps the current entry's URL and state in place.
func (w *Window) ReplaceState(state interface{}, rawurl string) {
	ref, err := url.Parse(rawurl)
	if err != nil {
		w.logger.Debug("invalid replaceState url", zap.String("url", rawurl), zap.Error(err))
		return
	}
	next := w.entries[w.index].location.ResolveReference(ref)
	w.entries[w.index] = historyEntry{location: next, state: state}
}

// State returns the state carried by the current history entry.
func (w *Window) State() interface{} {
	return w.entries[w.index].state
}

// OnPopState registers a handler invoked with the entry's state every
// time the window navigates through history (Back or Forward).
func (w *Window) OnPopState(fn func(state interface{})) {
	w.popstate = append(w.popstate, fn)
}

// Back navigates one entry backwards and fires popstate. No-op at the
// start of history.
func (w *Window) Back() {
	if w.index == 0 {
		return
	}
	w.index--
	w.firePopState()
}

// Forward navigates one entry forwards and fires popstate. No-op at the
// end of history.
func (w *Window) Forward() {
	if w.index >= len(w.entries)-1 {
		return
	}
	w.index++
	w.firePopState()
}

// HistoryLength returns the number of history entries.
func (w *Window) HistoryLength() int { return len(w.entries) }

func (w *Window) firePopState() {
	state := w.entries[w.index].state
	// Snapshot so handlers may register further handlers mid-dispatch.
	handlers := make([]func(interface{}), len(w.popstate))
	copy(handlers, w.popstate)
	for _, fn := range handlers {
		fn(state)
	}
}
