package gluer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blankbase/blankbase/pkg/dom"
)

const delegationPage = `<!DOCTYPE html>
<html>
<body>
  <template id="member-row">
    <tr data-bone="member-row">
      <td data-field="name"></td>
      <td><button class="btn-edit"><span class="icon"></span></button>
          <button class="btn-delete">x</button></td>
    </tr>
  </template>
  <table><tbody id="list"></tbody></table>
  <ul id="static-list">
    <li data-bone="note" data-note-id="7" data-author-name="Ada">first</li>
  </ul>
</body>
</html>`

func newGluer(t *testing.T) (*dom.Document, *Renderer, *Gluer) {
	t.Helper()
	doc, err := dom.Parse(delegationPage, nil)
	require.NoError(t, err)
	return doc, NewRenderer(doc, nil), New(doc, nil)
}

func editGlueprint(handler EventHandler) Glueprint {
	return Glueprint{
		BoneID:            "member-row",
		ContainerSelector: "#list",
		Events: []EventSpec{
			{Type: "click", ChildSelector: ".btn-edit", Handler: handler},
		},
	}
}

func TestRegisterRejectsMalformed(t *testing.T) {
	_, _, g := newGluer(t)
	noop := func(*dom.Event, *dom.Element, Item) {}

	g.Register("", editGlueprint(noop))
	g.Register("a", Glueprint{ContainerSelector: "#list", Events: []EventSpec{{Type: "click", Handler: noop}}})
	g.Register("b", Glueprint{BoneID: "x", Events: []EventSpec{{Type: "click", Handler: noop}}})
	g.Register("c", Glueprint{BoneID: "x", ContainerSelector: "#list"})
	g.Register("d", Glueprint{BoneID: "x", ContainerSelector: "#list", Events: []EventSpec{{Type: "click"}}})

	assert.Empty(t, g.glueprints)
}

func TestDelegationTargetsTheClickedRow(t *testing.T) {
	doc, r, g := newGluer(t)

	var calls []string
	g.Register("member-edit", editGlueprint(func(_ *dom.Event, bone *dom.Element, item Item) {
		name, _ := item.Field("name")
		calls = append(calls, name.(string))
	}))

	r.Render("member-row", "list", []Item{
		NewItem(map[string]interface{}{"Name": "Alice"}),
		NewItem(map[string]interface{}{"Name": "Bob"}),
	}, nil)

	// Click a nested element inside row 2's edit button.
	doc.Resolve("#list").Children()[1].Query(".btn-edit .icon").Click()
	require.Equal(t, []string{"Bob"}, calls, "handler fires once, for row 2 only")

	// A click outside the child selector is skipped.
	doc.Resolve("#list").Children()[0].Query(".btn-delete").Click()
	assert.Equal(t, []string{"Bob"}, calls)
}

func TestRowsRenderedAfterWiringStillDispatch(t *testing.T) {
	doc, r, g := newGluer(t)

	hits := 0
	g.Register("member-edit", editGlueprint(func(*dom.Event, *dom.Element, Item) { hits++ }))

	r.Render("member-row", "list", []Item{NewItem(map[string]interface{}{"Name": "Alice"})}, nil)
	doc.Resolve("#list").Query(".btn-edit").Click()

	r.Render("member-row", "list", []Item{
		NewItem(map[string]interface{}{"Name": "Bob"}),
		NewItem(map[string]interface{}{"Name": "Eve"}),
	}, nil)
	doc.Resolve("#list").Children()[1].Query(".btn-edit").Click()

	assert.Equal(t, 2, hits, "one container listener covers past and future rows")
}

func TestSharedListenerPerContainerAndType(t *testing.T) {
	_, _, g := newGluer(t)
	noop := func(*dom.Event, *dom.Element, Item) {}

	g.Register("edit", editGlueprint(noop))
	g.Register("delete", Glueprint{
		BoneID:            "member-row",
		ContainerSelector: "#list",
		Events: []EventSpec{
			{Type: "click", ChildSelector: ".btn-delete", Handler: noop},
			{Type: "mouseover", Handler: noop},
		},
	})

	assert.Equal(t, 2, g.ListenerCount("list"), "click is shared; mouseover adds one")
}

func TestReregisterOverwrites(t *testing.T) {
	doc, r, g := newGluer(t)

	var got []string
	g.Register("member-edit", editGlueprint(func(*dom.Event, *dom.Element, Item) {
		got = append(got, "old")
	}))
	g.Register("member-edit", editGlueprint(func(*dom.Event, *dom.Element, Item) {
		got = append(got, "new")
	}))

	r.Render("member-row", "list", []Item{NewItem(map[string]interface{}{"Name": "Alice"})}, nil)
	doc.Resolve("#list").Query(".btn-edit").Click()

	assert.Equal(t, []string{"new"}, got)
}

func TestWireAllExistingBackfillsServerRenderedBones(t *testing.T) {
	doc, _, g := newGluer(t)

	var items []Item
	g.Register("note-click", Glueprint{
		BoneID:            "note",
		ContainerSelector: "#static-list",
		Events: []EventSpec{
			{Type: "click", Handler: func(_ *dom.Event, _ *dom.Element, item Item) {
				items = append(items, item)
			}},
		},
	})
	g.WireAllExisting()

	doc.Resolve("#static-list").FirstElementChild().Click()
	require.Len(t, items, 1)

	noteID, _ := items[0].Field("noteId")
	assert.Equal(t, "7", noteID, "hyphenated data attributes become camelCase keys")
	author, _ := items[0].Field("authorName")
	assert.Equal(t, "Ada", author)
	_, reserved := items[0].Field("bone")
	assert.False(t, reserved, "bookkeeping attributes are skipped")
}

func TestWireAllExistingKeepsRenderedAssociations(t *testing.T) {
	doc, r, g := newGluer(t)

	var names []interface{}
	g.Register("member-edit", editGlueprint(func(_ *dom.Event, _ *dom.Element, item Item) {
		name, _ := item.Field("name")
		names = append(names, name)
	}))
	r.Render("member-row", "list", []Item{NewItem(map[string]interface{}{"Name": "Alice"})}, nil)

	g.WireAllExisting()
	doc.Resolve("#list").Query(".btn-edit").Click()

	require.Equal(t, []interface{}{"Alice"}, names, "render-time association survives backfill")
}

func TestUnwire(t *testing.T) {
	doc, r, g := newGluer(t)

	hits := 0
	g.Register("member-edit", editGlueprint(func(*dom.Event, *dom.Element, Item) { hits++ }))
	r.Render("member-row", "list", []Item{NewItem(map[string]interface{}{"Name": "Alice"})}, nil)

	g.Unwire("list")
	doc.Resolve("#list").Query(".btn-edit").Click()
	assert.Zero(t, hits)
	assert.Zero(t, g.ListenerCount("list"))

	// Unwiring an unknown container is a safe no-op.
	g.Unwire("nothing-here")
}

func TestDispatchWithoutBoneIsSilent(t *testing.T) {
	doc, _, g := newGluer(t)
	g.Register("member-edit", editGlueprint(func(*dom.Event, *dom.Element, Item) {
		t.Fatal("handler must not fire without a matching bone")
	}))

	// The container itself has no bone ancestor.
	doc.Resolve("#list").Click()
}
