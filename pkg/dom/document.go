// Package dom provides an in-memory HTML document model for the headless
// UI layer: element resolution by CSS selector, class-based visibility,
// fade transitions driven by a deterministic timer queue, busy-state
// toggling and bubbling event dispatch.
//
// The document wraps golang.org/x/net/html nodes directly and keeps
// per-node bookkeeping (listeners, expando data) in side tables, so a
// subtree removed from the tree releases its bookkeeping with it.
// A Document and everything attached to it is owned by a single
// goroutine (the page loop); none of its methods are safe for
// concurrent use.
package dom

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is the root of a parsed HTML tree plus the side tables that
// carry listener and expando state for its nodes.
type Document struct {
	root   *html.Node
	logger *zap.Logger

	listeners map[*html.Node]map[string][]*Listener
	expando   map[*html.Node]map[string]interface{}
	timers    *timerQueue
}

// Parse builds a Document from an HTML source string. A nil logger is
// replaced with a no-op logger.
func Parse(source string, logger *zap.Logger) (*Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	root, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return &Document{
		root:      root,
		logger:    logger.Named("dom"),
		listeners: make(map[*html.Node]map[string][]*Listener),
		expando:   make(map[*html.Node]map[string]interface{}),
		timers:    newTimerQueue(),
	}, nil
}

// Root returns the document's root element (the <html> element).
func (d *Document) Root() *Element {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return d.wrap(n)
		}
	}
	return nil
}

// Body returns the document's <body> element, or nil.
func (d *Document) Body() *Element {
	n := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.DataAtom == atom.Body
	})
	return d.wrap(n)
}

// Resolve accepts a CSS selector string, a bare id token or an *Element
// and returns the single matching element, or nil. It never panics on
// unmatched or malformed input; selector parse failures are logged at
// debug level and yield nil.
func (d *Document) Resolve(target interface{}) *Element {
	switch v := target.(type) {
	case nil:
		return nil
	case *Element:
		return v
	case string:
		return d.resolveSelector(v)
	default:
		d.logger.Debug("unsupported resolve target", zap.String("type", fmt.Sprintf("%T", target)))
		return nil
	}
}

// ResolveAll returns every element matching the selector, as an
// independent snapshot slice.
func (d *Document) ResolveAll(selector string) []*Element {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		d.logger.Debug("invalid selector", zap.String("selector", selector), zap.Error(err))
		return nil
	}
	nodes := cascadia.QueryAll(d.root, sel)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// GetElementByID returns the element whose id attribute equals id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	n := findFirst(d.root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrVal(n, "id") == id
	})
	return d.wrap(n)
}

// CreateElement returns a detached element with the given tag name.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	return d.wrap(&html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	})
}

func (d *Document) resolveSelector(s string) *Element {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	// A bare token is treated as an id lookup first, the way callers pass
	// container ids around.
	if isBareToken(s) {
		if el := d.GetElementByID(s); el != nil {
			return el
		}
	}
	sel, err := cascadia.Parse(s)
	if err != nil {
		d.logger.Debug("invalid selector", zap.String("selector", s), zap.Error(err))
		return nil
	}
	return d.wrap(cascadia.Query(d.root, sel))
}

func isBareToken(s string) bool {
	return !strings.ContainsAny(s, "#.[]:>+~ *,")
}

func (d *Document) wrap(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	return &Element{node: n, doc: d}
}

// detach drops all listener and expando bookkeeping for n and its
// entire subtree. Called whenever a subtree leaves the document.
func (d *Document) detach(n *html.Node) {
	walk(n, func(n *html.Node) {
		delete(d.listeners, n)
		delete(d.expando, n)
	})
}

// walk visits n and every descendant in document order.
func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
