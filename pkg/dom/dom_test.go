package dom

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<!DOCTYPE html>
<html>
<body>
  <div id="panel" class="card">
    <span id="label">hello</span>
  </div>
  <button id="save" data-busy-label="Saving…">Save</button>
  <button id="load">Load</button>
  <ul id="list">
    <li class="row"><a class="btn-edit" id="edit1">edit</a></li>
    <li class="row"><a class="btn-edit" id="edit2">edit</a></li>
  </ul>
  <div id="gone" class="d-none"></div>
  <div id="inline" style="display: none"></div>
  <div id="native" hidden></div>
</body>
</html>`

func newDoc(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(page, nil)
	require.NoError(t, err)
	return doc
}

func TestResolve(t *testing.T) {
	doc := newDoc(t)

	assert.NotNil(t, doc.Resolve("#panel"))
	assert.NotNil(t, doc.Resolve("panel"), "bare id token resolves")
	assert.NotNil(t, doc.Resolve("ul li.row"))
	assert.Nil(t, doc.Resolve("#missing"))
	assert.Nil(t, doc.Resolve(""))
	assert.Nil(t, doc.Resolve(nil))

	el := doc.Resolve("#panel")
	assert.True(t, el.Same(doc.Resolve(el)), "element passes through")
}

func TestResolveAll(t *testing.T) {
	doc := newDoc(t)

	rows := doc.ResolveAll("li.row")
	require.Len(t, rows, 2)

	// The slice is a snapshot, not a live collection.
	rows[0].Remove()
	assert.Len(t, rows, 2)
	assert.Len(t, doc.ResolveAll("li.row"), 1)
}

func TestShowHideIdempotent(t *testing.T) {
	doc := newDoc(t)
	panel := doc.Resolve("#panel")

	doc.Hide(panel)
	assert.True(t, panel.HasClass(HiddenClass))
	assert.Equal(t, "true", panel.AttrOr("aria-hidden", ""))

	doc.Show(panel)
	before := panel.OuterHTML()
	doc.Show(panel)
	assert.Equal(t, before, panel.OuterHTML(), "second show is a no-op")
	assert.False(t, panel.HasClass(HiddenClass))
	assert.Equal(t, "false", panel.AttrOr("aria-hidden", ""))
}

func TestToggleAndConditionals(t *testing.T) {
	doc := newDoc(t)

	doc.Toggle("#panel")
	assert.False(t, doc.IsVisible("#panel"))
	doc.Toggle("#panel")
	assert.True(t, doc.IsVisible("#panel"))

	doc.ShowIf("#panel", false)
	assert.False(t, doc.IsVisible("#panel"))
	doc.HideIf("#panel", false)
	assert.True(t, doc.IsVisible("#panel"))

	// Unresolved targets are silent no-ops.
	doc.Toggle("#missing")
	doc.Show("#missing")
	doc.Hide(nil)
}

func TestIsVisibleMechanisms(t *testing.T) {
	doc := newDoc(t)

	assert.True(t, doc.IsVisible("#panel"))
	assert.False(t, doc.IsVisible("#gone"), "hidden class")
	assert.False(t, doc.IsVisible("#inline"), "inline display:none")
	assert.False(t, doc.IsVisible("#native"), "native hidden attribute")
	assert.False(t, doc.IsVisible("#missing"))
}

func TestFadeOutAppliesHiddenAfterDuration(t *testing.T) {
	doc := newDoc(t)
	panel := doc.Resolve("#panel")

	completed := false
	doc.FadeOut(panel, 200*time.Millisecond, func() { completed = true })

	assert.False(t, panel.HasClass(HiddenClass), "hidden class is deferred")
	style, _ := panel.Attr("style")
	assert.Contains(t, style, "opacity 200ms")
	doc.Advance(199 * time.Millisecond)
	assert.False(t, completed)
	doc.Advance(time.Millisecond)
	assert.True(t, completed)
	assert.True(t, panel.HasClass(HiddenClass))
}

func TestFadeInEndsVisible(t *testing.T) {
	doc := newDoc(t)
	doc.Hide("#panel")

	doc.FadeIn("#panel", 150*time.Millisecond)
	assert.True(t, doc.IsVisible("#panel"))
	doc.Advance(150 * time.Millisecond)
	assert.True(t, doc.IsVisible("#panel"))
	_, hasStyle := doc.Resolve("#panel").Attr("style")
	assert.False(t, hasStyle, "transition styles cleaned up")
}

func TestBusyRoundTrip(t *testing.T) {
	doc := newDoc(t)
	save := doc.Resolve("#save")
	original := save.InnerHTML()

	doc.SetBusy(save)
	_, disabled := save.Attr("disabled")
	assert.True(t, disabled)
	assert.Contains(t, save.Text(), "Saving…", "per-element label override")

	// A second SetBusy must not clobber the cached content.
	doc.SetBusy(save)

	doc.ClearBusy(save)
	assert.Equal(t, original, save.InnerHTML())
	_, disabled = save.Attr("disabled")
	assert.False(t, disabled)

	// The cache is cleared; a stray ClearBusy cannot restore stale content.
	save.SetText("changed")
	doc.ClearBusy(save)
	assert.Equal(t, "changed", save.Text())
}

func TestBusyDefaultLabel(t *testing.T) {
	doc := newDoc(t)
	doc.SetBusy("#load")
	assert.Contains(t, doc.Resolve("#load").Text(), DefaultBusyLabel)
}

func TestEventBubbling(t *testing.T) {
	doc := newDoc(t)
	list := doc.Resolve("#list")

	var got []string
	list.On("click", func(ev *Event) {
		got = append(got, "list:"+ev.Target().ID())
	})
	doc.Resolve("#edit2").Click()

	require.Equal(t, []string{"list:edit2"}, got)
}

func TestStopPropagation(t *testing.T) {
	doc := newDoc(t)

	outer := 0
	doc.Resolve("#list").On("click", func(*Event) { outer++ })
	doc.Resolve("#edit1").On("click", func(ev *Event) { ev.StopPropagation() })

	doc.Resolve("#edit1").Click()
	assert.Zero(t, outer)

	doc.Resolve("#edit2").Click()
	assert.Equal(t, 1, outer)
}

func TestOffRemovesListener(t *testing.T) {
	doc := newDoc(t)
	btn := doc.Resolve("#load")

	calls := 0
	l := btn.On("click", func(*Event) { calls++ })
	btn.Click()
	btn.Off(l)
	btn.Click()

	assert.Equal(t, 1, calls)
}

func TestRemoveReleasesBookkeeping(t *testing.T) {
	doc := newDoc(t)
	row := doc.Resolve("li.row")
	row.SetData("k", 1)

	row.Remove()
	_, ok := row.Data("k")
	assert.False(t, ok)
}

func TestSetTextReleasesReplacedSubtree(t *testing.T) {
	doc := newDoc(t)
	panel := doc.Resolve("#panel")
	label := doc.Resolve("#label")
	label.SetData("k", 1)
	label.On("click", func(*Event) {})

	panel.SetText("replaced")
	_, ok := label.Data("k")
	assert.False(t, ok)
	assert.Len(t, doc.listeners[label.node], 0)

	panel.SetHTML("<em>again</em>")
	assert.Equal(t, "again", panel.Text())
}

func TestCloneDropsBookkeeping(t *testing.T) {
	doc := newDoc(t)
	row := doc.Resolve("li.row")
	row.SetData("k", 1)

	clone := row.Clone()
	assert.Nil(t, clone.Parent())
	_, ok := clone.Data("k")
	assert.False(t, ok)
	assert.Equal(t, row.OuterHTML(), clone.OuterHTML())
}

func TestWindowHistory(t *testing.T) {
	doc := newDoc(t)
	win, err := NewWindow(doc, "https://example.test/members?page=1")
	require.NoError(t, err)

	var popped []interface{}
	win.OnPopState(func(state interface{}) { popped = append(popped, state) })

	win.PushState("two", "/members?page=2")
	win.PushState("three", "/members?page=3")
	assert.Equal(t, "page=3", win.Location().RawQuery)
	assert.Equal(t, 3, win.HistoryLength())

	win.Back()
	assert.Equal(t, "page=2", win.Location().RawQuery)
	require.Equal(t, []interface{}{"two"}, popped)

	// Pushing from the middle discards the forward entries.
	win.PushState("four", "/members?page=4")
	assert.Equal(t, 3, win.HistoryLength())

	win.Forward() // already at the end
	assert.Len(t, popped, 1)

	win.Back()
	win.Back()
	win.Back() // already at the start
	assert.Equal(t, "page=1", win.Location().RawQuery)
	assert.Len(t, popped, 3)
}

func TestPopStateHandlerRegisteredMidDispatch(t *testing.T) {
	doc := newDoc(t)
	win, err := NewWindow(doc, "https://example.test/members")
	require.NoError(t, err)

	var fired []string
	win.OnPopState(func(state interface{}) {
		fired = append(fired, "outer")
		win.OnPopState(func(interface{}) { fired = append(fired, "inner") })
	})

	win.PushState(nil, "/members?page=2")
	win.Back()
	assert.Equal(t, []string{"outer"}, fired, "a handler added during dispatch waits for the next navigation")

	win.Forward()
	assert.Equal(t, []string{"outer", "outer", "inner"}, fired)
}
