package dom

import (
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element is a live handle onto one element node of a Document. Two
// handles are interchangeable when they point at the same node.
type Element struct {
	node *html.Node
	doc  *Document
}

// Document returns the owning document.
func (e *Element) Document() *Document { return e.doc }

// Tag returns the lower-case tag name.
func (e *Element) Tag() string { return e.node.Data }

// ID returns the element's id attribute, or "".
func (e *Element) ID() string { return attrVal(e.node, "id") }

// Same reports whether both handles point at the same underlying node.
func (e *Element) Same(other *Element) bool {
	return other != nil && e.node == other.node
}

// Attr returns the named attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// AttrNames returns the names of all attributes in document order.
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		names = append(names, a.Key)
	}
	return names
}

// AttrOr returns the named attribute value, or fallback when absent.
func (e *Element) AttrOr(name, fallback string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return fallback
}

// SetAttr sets or replaces the named attribute.
func (e *Element) SetAttr(name, value string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Key == name {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes the named attribute if present.
func (e *Element) RemoveAttr(name string) {
	for i := range e.node.Attr {
		if e.node.Attr[i].Key == name {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

// HasClass reports whether the class list contains name.
func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(attrVal(e.node, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

// AddClass appends each class not already present.
func (e *Element) AddClass(names ...string) {
	classes := strings.Fields(attrVal(e.node, "class"))
	for _, name := range names {
		if name == "" {
			continue
		}
		found := false
		for _, c := range classes {
			if c == name {
				found = true
				break
			}
		}
		if !found {
			classes = append(classes, name)
		}
	}
	e.SetAttr("class", strings.Join(classes, " "))
}

// RemoveClass drops each named class if present.
func (e *Element) RemoveClass(names ...string) {
	classes := strings.Fields(attrVal(e.node, "class"))
	kept := classes[:0]
	for _, c := range classes {
		drop := false
		for _, name := range names {
			if c == name {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Text returns the concatenated text content of the subtree.
func (e *Element) Text() string {
	var sb strings.Builder
	walk(e.node, func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
	})
	return sb.String()
}

// SetText replaces the element's children with a single text node,
// releasing the replaced subtree's bookkeeping. Text nodes are rendered
// escaped, so this is the safe binding path.
func (e *Element) SetText(s string) {
	e.Clear()
	e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
}

// SetHTML replaces the element's children with nodes parsed from raw
// markup, releasing the replaced subtree's bookkeeping. The caller is
// responsible for sanitizing the input.
func (e *Element) SetHTML(markup string) {
	nodes, err := html.ParseFragment(strings.NewReader(markup), fragmentContext())
	if err != nil {
		e.doc.logger.Debug("invalid markup fragment", zap.Error(err))
		return
	}
	e.Clear()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
}

// InnerHTML serializes the element's children.
func (e *Element) InnerHTML() string {
	var sb strings.Builder
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		html.Render(&sb, c)
	}
	return sb.String()
}

// OuterHTML serializes the element itself.
func (e *Element) OuterHTML() string {
	var sb strings.Builder
	html.Render(&sb, e.node)
	return sb.String()
}

// Parent returns the parent element, or nil at the tree root.
func (e *Element) Parent() *Element {
	for p := e.node.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return e.doc.wrap(p)
		}
	}
	return nil
}

// FirstElementChild returns the first child that is an element, or nil.
func (e *Element) FirstElementChild() *Element {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return e.doc.wrap(c)
		}
	}
	return nil
}

// Children returns the element children as a snapshot slice.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// AppendChild attaches child as the element's last child. A child that
// is still attached elsewhere is detached first.
func (e *Element) AppendChild(child *Element) {
	if child == nil {
		return
	}
	if child.node.Parent != nil {
		child.node.Parent.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
}

// Remove detaches the element from its parent and releases listener and
// expando bookkeeping for the whole subtree.
func (e *Element) Remove() {
	e.doc.detach(e.node)
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Clear removes all children, releasing their bookkeeping.
func (e *Element) Clear() {
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		e.doc.detach(c)
	}
	e.clearChildren()
}

// Clone returns a detached deep copy of the element. Listener and
// expando state is not copied.
func (e *Element) Clone() *Element {
	return e.doc.wrap(cloneNode(e.node))
}

// Matches reports whether the element matches the selector.
func (e *Element) Matches(selector string) bool {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		e.doc.logger.Debug("invalid selector", zap.String("selector", selector), zap.Error(err))
		return false
	}
	return sel.Match(e.node)
}

// Closest walks from the element up through its ancestors and returns
// the first one matching the selector, or nil.
func (e *Element) Closest(selector string) *Element {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		e.doc.logger.Debug("invalid selector", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	for n := e.node; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && sel.Match(n) {
			return e.doc.wrap(n)
		}
	}
	return nil
}

// Query returns the first descendant matching the selector, or nil.
func (e *Element) Query(selector string) *Element {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		e.doc.logger.Debug("invalid selector", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	return e.doc.wrap(cascadia.Query(e.node, sel))
}

// QueryAll returns every descendant matching the selector.
func (e *Element) QueryAll(selector string) []*Element {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		e.doc.logger.Debug("invalid selector", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	nodes := cascadia.QueryAll(e.node, sel)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, e.doc.wrap(n))
	}
	return out
}

// SetData attaches an expando value to the element under key. Expando
// state lives until the element is removed from the document.
func (e *Element) SetData(key string, value interface{}) {
	m := e.doc.expando[e.node]
	if m == nil {
		m = make(map[string]interface{})
		e.doc.expando[e.node] = m
	}
	m[key] = value
}

// Data returns the expando value for key and whether it is set.
func (e *Element) Data(key string) (interface{}, bool) {
	v, ok := e.doc.expando[e.node][key]
	return v, ok
}

// ClearData drops the expando value for key.
func (e *Element) ClearData(key string) {
	delete(e.doc.expando[e.node], key)
}

func (e *Element) clearChildren() {
	for e.node.FirstChild != nil {
		e.node.RemoveChild(e.node.FirstChild)
	}
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:     n.Type,
		DataAtom: n.DataAtom,
		Data:     n.Data,
		Attr:     append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

// fragmentContext is the parse context for markup fragments: an
// unattached <body>, so any flow content parses the obvious way.
func fragmentContext() *html.Node {
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}
