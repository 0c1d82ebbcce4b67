package paging

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/blankbase/blankbase/pkg/dom"
)

// State is the navigation triple mirrored into the URL and carried as
// history state for fast popstate restoration.
type State struct {
	Page          int
	SortBy        string
	SortDirection string
}

// PageChangeFunc is the caller-supplied callback that performs the list
// roundtrip. The caller completes the cycle by calling Render with the
// fresh metadata.
type PageChangeFunc func(page int, sortBy, sortDirection string)

// SortConfig enables column-sort header wiring.
type SortConfig struct {
	// HeaderSelector matches the sortable header elements.
	HeaderSelector string
	// ColumnAttr names the attribute carrying the column name.
	ColumnAttr string
	// IndicatorSelector matches the glyph element inside a header; one
	// is created when missing.
	IndicatorSelector string
	GlyphAscending    string
	GlyphDescending   string
	GlyphNone         string
}

// Options configures a Controller. Zero values fall back to the
// conventional defaults noted per field.
type Options struct {
	ControlsID  string // container for the Previous/pages/Next strip
	SummaryID   string // "Showing X to Y of Z records" target
	IndicatorID string // "Page P of N" target

	PageParam          string // default "page"
	SortByParam        string // default "sortBy"
	SortDirectionParam string // default "sortDirection"

	DefaultPage          int    // default 1
	DefaultSortBy        string
	DefaultSortDirection string // default Ascending

	WindowRadius int // page buttons on each side of current, default 2

	Sorting *SortConfig // nil disables sort header handling
}

// Controller renders pagination controls from Metadata, keeps the URL
// query string in sync via history pushes, and restores state on
// browser back/forward navigation.
//
// Page-change requests are serialized: a trigger arriving while an
// earlier request is still outstanding (callback invoked, Render not
// yet called) is dropped, so out-of-order completions cannot leave the
// URL reflecting a stale request.
type Controller struct {
	win    *dom.Window
	doc    *dom.Document
	logger *zap.Logger
	opts   Options

	onPageChange PageChangeFunc
	current      State
	meta         Metadata
	pending      bool
}

// NewController builds a controller bound to win's document, applies
// option defaults, wires sortable headers when sorting is enabled, and
// registers the popstate handler.
func NewController(win *dom.Window, opts Options, onPageChange PageChangeFunc, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	applyDefaults(&opts)
	c := &Controller{
		win:          win,
		doc:          win.Document(),
		logger:       logger.Named("paging"),
		opts:         opts,
		onPageChange: onPageChange,
		current: State{
			Page:          opts.DefaultPage,
			SortBy:        opts.DefaultSortBy,
			SortDirection: opts.DefaultSortDirection,
		},
	}

	win.OnPopState(func(state interface{}) {
		if st, ok := state.(State); ok {
			c.request(st.Page, st.SortBy, st.SortDirection)
			return
		}
		st := c.StateFromURL()
		c.request(st.Page, st.SortBy, st.SortDirection)
	})

	c.wireSortHeaders()
	return c
}

func applyDefaults(opts *Options) {
	if opts.PageParam == "" {
		opts.PageParam = "page"
	}
	if opts.SortByParam == "" {
		opts.SortByParam = "sortBy"
	}
	if opts.SortDirectionParam == "" {
		opts.SortDirectionParam = "sortDirection"
	}
	if opts.DefaultPage < 1 {
		opts.DefaultPage = 1
	}
	if opts.DefaultSortDirection == "" {
		opts.DefaultSortDirection = Ascending
	}
	if opts.WindowRadius <= 0 {
		opts.WindowRadius = 2
	}
	if s := opts.Sorting; s != nil {
		if s.HeaderSelector == "" {
			s.HeaderSelector = "th[data-sort]"
		}
		if s.ColumnAttr == "" {
			s.ColumnAttr = "data-sort"
		}
		if s.IndicatorSelector == "" {
			s.IndicatorSelector = ".sort-indicator"
		}
		if s.GlyphAscending == "" {
			s.GlyphAscending = "▲"
		}
		if s.GlyphDescending == "" {
			s.GlyphDescending = "▼"
		}
	}
}

// StateFromURL parses the navigation triple out of the current URL,
// falling back to the configured defaults for absent or unparsable
// parameters.
func (c *Controller) StateFromURL() State {
	q := c.win.Location().Query()
	st := State{
		Page:          c.opts.DefaultPage,
		SortBy:        c.opts.DefaultSortBy,
		SortDirection: c.opts.DefaultSortDirection,
	}
	if raw := q.Get(c.opts.PageParam); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page >= 1 {
			st.Page = page
		}
	}
	if v := q.Get(c.opts.SortByParam); v != "" {
		st.SortBy = v
	}
	if v := q.Get(c.opts.SortDirectionParam); v != "" {
		st.SortDirection = NormalizeDirection(v)
	}
	return st
}

// UpdateURL pushes a new history entry encoding the triple under the
// configured parameter names, carrying the triple as history state.
func (c *Controller) UpdateURL(page int, sortBy, sortDirection string) {
	u := c.win.Location()
	q := u.Query()
	q.Set(c.opts.PageParam, strconv.Itoa(page))
	if sortBy != "" {
		q.Set(c.opts.SortByParam, sortBy)
		q.Set(c.opts.SortDirectionParam, sortDirection)
	} else {
		q.Del(c.opts.SortByParam)
		q.Del(c.opts.SortDirectionParam)
	}
	u.RawQuery = q.Encode()
	c.win.PushState(State{Page: page, SortBy: sortBy, SortDirection: sortDirection}, u.String())
}

// Render completes a page-change cycle: adopts the fresh metadata and
// sort state, pushes the URL, then writes the DOM in a fixed order
// (summary and page indicator, the control strip, sort indicators) so
// callers observe a fully consistent UI afterward.
func (c *Controller) Render(meta Metadata, sortBy, sortDirection string) {
	c.pending = false
	c.meta = meta
	c.current = State{
		Page:          meta.PageNumber,
		SortBy:        sortBy,
		SortDirection: NormalizeDirection(sortDirection),
	}
	c.UpdateURL(c.current.Page, c.current.SortBy, c.current.SortDirection)
	c.renderSummary()
	c.renderControls()
	c.renderSortIndicators()
}

// HandleColumnClick toggles the sort direction when the clicked column
// is already active (case-insensitive match) and adopts the new column
// ascending otherwise, then requests page 1 with the new sort state.
func (c *Controller) HandleColumnClick(column string) {
	if c.opts.Sorting == nil || column == "" {
		return
	}
	direction := Ascending
	if strings.EqualFold(column, c.current.SortBy) && c.current.SortDirection == Ascending {
		direction = Descending
	}
	c.request(1, column, direction)
}

// Current returns the most recently rendered navigation state.
func (c *Controller) Current() State { return c.current }

func (c *Controller) request(page int, sortBy, sortDirection string) {
	if c.onPageChange == nil {
		return
	}
	if c.pending {
		c.logger.Debug("page change dropped, request outstanding",
			zap.Int("page", page), zap.String("sortBy", sortBy))
		return
	}
	c.pending = true
	c.onPageChange(page, sortBy, sortDirection)
}

func (c *Controller) renderSummary() {
	if summary := c.doc.Resolve(c.opts.SummaryID); summary != nil {
		summary.SetText(c.summaryText())
	}
	if indicator := c.doc.Resolve(c.opts.IndicatorID); indicator != nil {
		totalPages := c.meta.TotalPages
		if totalPages < 1 {
			totalPages = 1
		}
		indicator.SetText(fmt.Sprintf("Page %d of %d", c.current.Page, totalPages))
	}
}

func (c *Controller) summaryText() string {
	if c.meta.TotalCount == 0 {
		return "Showing 0 to 0 of 0 records"
	}
	first := (c.meta.PageNumber-1)*c.meta.PageSize + 1
	last := c.meta.PageNumber * c.meta.PageSize
	if last > c.meta.TotalCount {
		last = c.meta.TotalCount
	}
	return fmt.Sprintf("Showing %d to %d of %d records", first, last, c.meta.TotalCount)
}

// renderControls rebuilds the control strip: Previous, a windowed run
// of page buttons centered on the current page with ellipsis markers
// and explicit first/last buttons, then Next. An empty result set
// renders only the two disabled end buttons.
func (c *Controller) renderControls() {
	controls := c.doc.Resolve(c.opts.ControlsID)
	if controls == nil {
		c.logger.Error("controls container not found", zap.String("id", c.opts.ControlsID))
		return
	}
	controls.Clear()

	c.appendNavButton(controls, "Previous", "page-prev", c.meta.HasPreviousPage, c.current.Page-1)

	if c.meta.TotalPages > 0 {
		start := c.current.Page - c.opts.WindowRadius
		if start < 1 {
			start = 1
		}
		end := c.current.Page + c.opts.WindowRadius
		if end > c.meta.TotalPages {
			end = c.meta.TotalPages
		}
		if start > 1 {
			c.appendPageButton(controls, 1)
			if start > 2 {
				c.appendEllipsis(controls)
			}
		}
		for n := start; n <= end; n++ {
			c.appendPageButton(controls, n)
		}
		if end < c.meta.TotalPages {
			if end < c.meta.TotalPages-1 {
				c.appendEllipsis(controls)
			}
			c.appendPageButton(controls, c.meta.TotalPages)
		}
	}

	c.appendNavButton(controls, "Next", "page-next", c.meta.HasNextPage, c.current.Page+1)
}

func (c *Controller) appendNavButton(controls *dom.Element, label, class string, enabled bool, page int) {
	btn := c.doc.CreateElement("button")
	btn.SetAttr("type", "button")
	btn.SetAttr("class", "page-btn "+class)
	btn.SetText(label)
	if enabled {
		btn.On("click", func(*dom.Event) {
			c.request(page, c.current.SortBy, c.current.SortDirection)
		})
	} else {
		btn.SetAttr("disabled", "disabled")
	}
	controls.AppendChild(btn)
}

func (c *Controller) appendPageButton(controls *dom.Element, page int) {
	btn := c.doc.CreateElement("button")
	btn.SetAttr("type", "button")
	btn.SetAttr("class", "page-btn page-number")
	btn.SetText(strconv.Itoa(page))
	if page == c.current.Page {
		btn.AddClass("active")
		btn.SetAttr("aria-current", "page")
	}
	// Sort state rides along unchanged; plain pagination never resets it.
	btn.On("click", func(*dom.Event) {
		c.request(page, c.current.SortBy, c.current.SortDirection)
	})
	controls.AppendChild(btn)
}

func (c *Controller) appendEllipsis(controls *dom.Element) {
	span := c.doc.CreateElement("span")
	span.SetAttr("class", "page-ellipsis")
	span.SetAttr("aria-hidden", "true")
	span.SetText("…")
	controls.AppendChild(span)
}

func (c *Controller) wireSortHeaders() {
	s := c.opts.Sorting
	if s == nil {
		return
	}
	for _, header := range c.doc.ResolveAll(s.HeaderSelector) {
		column := header.AttrOr(s.ColumnAttr, "")
		if column == "" {
			continue
		}
		col := column
		header.On("click", func(*dom.Event) {
			c.HandleColumnClick(col)
		})
	}
}

// renderSortIndicators refreshes each sortable header's glyph: the
// active column shows the direction glyph, every other header shows the
// blank glyph.
func (c *Controller) renderSortIndicators() {
	s := c.opts.Sorting
	if s == nil {
		return
	}
	for _, header := range c.doc.ResolveAll(s.HeaderSelector) {
		glyph := s.GlyphNone
		if strings.EqualFold(header.AttrOr(s.ColumnAttr, ""), c.current.SortBy) {
			if c.current.SortDirection == Descending {
				glyph = s.GlyphDescending
			} else {
				glyph = s.GlyphAscending
			}
		}
		indicator := header.Query(s.IndicatorSelector)
		if indicator == nil {
			indicator = c.doc.CreateElement("span")
			indicator.SetAttr("class", strings.TrimPrefix(s.IndicatorSelector, "."))
			indicator.SetAttr("aria-hidden", "true")
			header.AppendChild(indicator)
		}
		indicator.SetText(glyph)
	}
}
