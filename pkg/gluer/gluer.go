package gluer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/blankbase/blankbase/pkg/dom"
)

// EventHandler handles a delegated event. It receives the event, the
// bone element the event resolved to, and the item attached to that
// bone at render time (an empty Item when none is attached).
type EventHandler func(ev *dom.Event, bone *dom.Element, item Item)

// EventSpec is one (event type, optional child selector, handler)
// entry of a glueprint.
type EventSpec struct {
	Type          string
	ChildSelector string
	Handler       EventHandler
}

// Glueprint is a named declarative delegation registration: which bone
// id to match, which container to listen on, and which events to route.
type Glueprint struct {
	BoneID            string
	ContainerSelector string
	Events            []EventSpec
}

// Gluer is the event-delegation registry. It keeps exactly one real
// listener per (container, event type) pair, shared by every glueprint
// interested in that pair. Construct one per document at startup; it is
// not a process-wide singleton.
type Gluer struct {
	doc    *dom.Document
	logger *zap.Logger

	glueprints map[string]*Glueprint
	// containers maps container id -> event type -> shared listener.
	containers map[string]map[string]*sharedListener
	// order preserves registration order per (container id, event type)
	// so dispatch is deterministic.
	order map[string]map[string][]string
	idSeq int
}

type sharedListener struct {
	element *dom.Element
	handle  *dom.Listener
}

// New returns an empty registry bound to doc. A nil logger is replaced
// with a no-op logger.
func New(doc *dom.Document, logger *zap.Logger) *Gluer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gluer{
		doc:        doc,
		logger:     logger.Named("gluer"),
		glueprints: make(map[string]*Glueprint),
		containers: make(map[string]map[string]*sharedListener),
		order:      make(map[string]map[string][]string),
	}
}

// Register validates and stores a glueprint under name, overwriting any
// prior definition with that name. A malformed glueprint (missing bone
// id, container selector or events, or an event entry without type or
// handler) is reported and dropped. When the container already exists
// in the document its delegated listeners are wired immediately;
// otherwise WireAllExisting picks it up later.
func (g *Gluer) Register(name string, gp Glueprint) {
	if name == "" || gp.BoneID == "" || gp.ContainerSelector == "" || len(gp.Events) == 0 {
		g.logger.Error("rejecting malformed glueprint",
			zap.String("name", name),
			zap.String("bone", gp.BoneID),
			zap.String("container", gp.ContainerSelector),
			zap.Int("events", len(gp.Events)))
		return
	}
	for _, spec := range gp.Events {
		if spec.Type == "" || spec.Handler == nil {
			g.logger.Error("rejecting glueprint with malformed event entry",
				zap.String("name", name), zap.String("type", spec.Type))
			return
		}
	}
	g.glueprints[name] = &gp

	if container := g.doc.Resolve(gp.ContainerSelector); container != nil {
		g.wire(name, &gp, container)
	}
}

// WireAllExisting wires delegation for every container referenced by a
// registered glueprint, and back-fills bone-to-item associations for
// bones already present in the markup (server-rendered rows) by reading
// their data attributes into a synthesized item. An association set by
// a prior render is never overwritten.
func (g *Gluer) WireAllExisting() {
	for name, gp := range g.glueprints {
		container := g.doc.Resolve(gp.ContainerSelector)
		if container == nil {
			g.logger.Debug("container not present yet", zap.String("glueprint", name))
			continue
		}
		g.wire(name, gp, container)
		g.backfill(container, gp.BoneID)
	}
}

// Unwire removes every delegated listener attached for containerID and
// forgets its glueprint associations. Safe no-op on a container with no
// active wiring.
func (g *Gluer) Unwire(containerID string) {
	byType, ok := g.containers[containerID]
	if !ok {
		return
	}
	for _, shared := range byType {
		shared.element.Off(shared.handle)
	}
	delete(g.containers, containerID)
	delete(g.order, containerID)
}

// ListenerCount reports the number of real listeners currently attached
// for containerID.
func (g *Gluer) ListenerCount(containerID string) int {
	return len(g.containers[containerID])
}

func (g *Gluer) wire(name string, gp *Glueprint, container *dom.Element) {
	cid := g.containerID(container)
	for _, spec := range gp.Events {
		g.ensureListener(cid, container, spec.Type)
		g.track(cid, spec.Type, name)
	}
}

// containerID returns the container element's id, assigning one when
// the markup has none, since unwiring is keyed by container id.
func (g *Gluer) containerID(container *dom.Element) string {
	if id := container.ID(); id != "" {
		return id
	}
	g.idSeq++
	id := fmt.Sprintf("gluer-c%d", g.idSeq)
	container.SetAttr("id", id)
	return id
}

// ensureListener lazily creates the one shared listener for the
// (container, event type) pair on first use.
func (g *Gluer) ensureListener(cid string, container *dom.Element, eventType string) {
	byType := g.containers[cid]
	if byType == nil {
		byType = make(map[string]*sharedListener)
		g.containers[cid] = byType
	}
	if _, exists := byType[eventType]; exists {
		return
	}
	handle := container.On(eventType, func(ev *dom.Event) {
		g.dispatch(cid, container, ev)
	})
	byType[eventType] = &sharedListener{element: container, handle: handle}
}

func (g *Gluer) track(cid, eventType, name string) {
	byType := g.order[cid]
	if byType == nil {
		byType = make(map[string][]string)
		g.order[cid] = byType
	}
	for _, existing := range byType[eventType] {
		if existing == name {
			return
		}
	}
	byType[eventType] = append(byType[eventType], name)
}

// dispatch routes one delegated event: for every glueprint sharing this
// (container, event type) pair, match the optional child selector, walk
// up to the nearest bone carrying the glueprint's bone id, look up the
// attached item and invoke the handler. Events with no matching bone
// are silently ignored; that is the common case, not an error.
func (g *Gluer) dispatch(cid string, container *dom.Element, ev *dom.Event) {
	target := ev.Target()
	if target == nil {
		return
	}
	for _, name := range g.order[cid][ev.Type()] {
		gp, ok := g.glueprints[name]
		if !ok {
			continue
		}
		for _, spec := range gp.Events {
			if spec.Type != ev.Type() {
				continue
			}
			matched := target
			if spec.ChildSelector != "" {
				matched = closestWithin(target, spec.ChildSelector, container)
				if matched == nil {
					continue
				}
			}
			bone := matched.Closest("[" + BoneAttr + "=\"" + gp.BoneID + "\"]")
			if bone == nil {
				continue
			}
			item := BoneItem(bone)
			if item == nil {
				item = Item{}
			}
			spec.Handler(ev, bone, item)
		}
	}
}

// closestWithin returns the nearest element, from target up to and
// excluding container's parent, matching selector; nil when the event
// target is not inside a matching element.
func closestWithin(target *dom.Element, selector string, container *dom.Element) *dom.Element {
	el := target.Closest(selector)
	if el == nil {
		return nil
	}
	// The match must sit inside the container the listener is bound to.
	for p := el; p != nil; p = p.Parent() {
		if p.Same(container) {
			return el
		}
	}
	return nil
}

// backfill synthesizes items for bones that were rendered server-side:
// each bone's data attributes become item fields, hyphenated names
// converted to camelCase, reserved bookkeeping attributes skipped.
func (g *Gluer) backfill(container *dom.Element, boneID string) {
	for _, bone := range container.QueryAll("[" + BoneAttr + "=\"" + boneID + "\"]") {
		if existing := BoneItem(bone); existing != nil {
			continue
		}
		item := Item{}
		for _, attr := range boneDataAttrs(bone) {
			item[hyphensToCamel(attr.name)] = attr.value
		}
		bone.SetData(itemDataKey, item)
	}
}

type dataAttr struct {
	name  string
	value string
}

func boneDataAttrs(bone *dom.Element) []dataAttr {
	var out []dataAttr
	for _, name := range bone.AttrNames() {
		if !strings.HasPrefix(name, "data-") || name == BoneAttr {
			continue
		}
		v, _ := bone.Attr(name)
		out = append(out, dataAttr{name: strings.TrimPrefix(name, "data-"), value: v})
	}
	return out
}
