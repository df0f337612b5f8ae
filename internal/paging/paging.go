// Package paging splits consumption detail lists into fixed-size pages.
//
// A list whose last real page is exactly full gets one extra synthetic page that
// holds nothing but the "fully loaded" completion marker. Every other list shows
// the marker directly under the items of its last page.
package paging

import (
	"errors"
	"fmt"
)

// Defaults used by every detail list in the application.
const (
	DefaultItemsPerPage    = 5
	DefaultMaxVisiblePages = 3
	BaseMarkerHeight       = 56
)

// Construction errors. These signal programming errors in the caller.
var (
	ErrInvalidPageSize = errors.New("items per page must be positive")
	ErrInvalidPage     = errors.New("page out of range")
	ErrInvalidWindow   = errors.New("visible page count must be positive")
)

// Layout holds the pixel constants used to size the completion marker region.
type Layout struct {
	RowHeight  int
	Correction int
	BaseHeight int
}

// Layouts for the two kinds of detail list shown on a card.
var (
	DetailListLayout   = Layout{RowHeight: 101, Correction: -1, BaseHeight: BaseMarkerHeight}
	CategoryListLayout = Layout{RowHeight: 105, BaseHeight: BaseMarkerHeight}
)

type config struct {
	layout          Layout
	itemsPerPage    int
	startPage       int
	maxVisiblePages int
}

// Option configures a Pager.
type Option func(*config)

// WithItemsPerPage sets the fixed page size.
func WithItemsPerPage(n int) Option {
	return func(c *config) {
		c.itemsPerPage = n
	}
}

// WithStartPage starts the pager on the given page instead of page 1.
func WithStartPage(page int) Option {
	return func(c *config) {
		c.startPage = page
	}
}

// WithLayout sets the marker sizing constants.
func WithLayout(l Layout) Option {
	return func(c *config) {
		c.layout = l
	}
}

// WithMaxVisiblePages sets how many page numbers the window shows.
func WithMaxVisiblePages(n int) Option {
	return func(c *config) {
		c.maxVisiblePages = n
	}
}

func defaultConfig() config {
	return config{
		itemsPerPage:    DefaultItemsPerPage,
		startPage:       1,
		maxVisiblePages: DefaultMaxVisiblePages,
		layout:          DetailListLayout,
	}
}

// Pager tracks the current page of one detail list.
// A Pager is owned by a single view and is not safe for concurrent use.
type Pager[T any] struct {
	details         []T
	layout          Layout
	itemsPerPage    int
	maxVisiblePages int
	page            int
}

// New creates a pager positioned on page 1 unless WithStartPage says otherwise.
func New[T any](details []T, opts ...Option) (*Pager[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.itemsPerPage <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPageSize, cfg.itemsPerPage)
	}
	if cfg.maxVisiblePages <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, cfg.maxVisiblePages)
	}

	p := &Pager[T]{
		details:         details,
		layout:          cfg.layout,
		itemsPerPage:    cfg.itemsPerPage,
		maxVisiblePages: cfg.maxVisiblePages,
		page:            1,
	}

	if cfg.startPage < 1 {
		return nil, fmt.Errorf("%w: page %d", ErrInvalidPage, cfg.startPage)
	}
	// An empty list still has page 1.
	last := max(p.EffectivePageCount(), 1)
	if cfg.startPage > last {
		return nil, fmt.Errorf("%w: page %d of %d", ErrInvalidPage, cfg.startPage, last)
	}
	p.page = cfg.startPage

	return p, nil
}

// Len returns the number of records in the list.
func (p *Pager[T]) Len() int {
	return len(p.details)
}

// ItemsPerPage returns the page size.
func (p *Pager[T]) ItemsPerPage() int {
	return p.itemsPerPage
}

// CurrentPage returns the 1-based current page.
func (p *Pager[T]) CurrentPage() int {
	return p.page
}

// Layout returns the marker sizing constants.
func (p *Pager[T]) Layout() Layout {
	return p.layout
}

// RealPageCount returns the number of pages holding at least one record.
func (p *Pager[T]) RealPageCount() int {
	n := len(p.details)
	if n == 0 {
		return 0
	}
	return (n + p.itemsPerPage - 1) / p.itemsPerPage
}

// LastPageItemCount returns how many records sit on the last real page.
func (p *Pager[T]) LastPageItemCount() int {
	n := len(p.details)
	if n == 0 {
		return 0
	}
	if rem := n % p.itemsPerPage; rem != 0 {
		return rem
	}
	return p.itemsPerPage
}

// NeedsSyntheticPage reports whether the last real page is exactly full.
func (p *Pager[T]) NeedsSyntheticPage() bool {
	return p.RealPageCount() > 0 && p.LastPageItemCount() == p.itemsPerPage
}

// EffectivePageCount returns the number of navigable pages.
func (p *Pager[T]) EffectivePageCount() int {
	if p.NeedsSyntheticPage() {
		return p.RealPageCount() + 1
	}
	return p.RealPageCount()
}

// IsOnSyntheticPage reports whether the current page is the marker-only page.
func (p *Pager[T]) IsOnSyntheticPage() bool {
	return p.NeedsSyntheticPage() && p.page > p.RealPageCount()
}

// CurrentPageItems returns the records on the current page.
// The returned slice shares storage with the list and must not be modified.
func (p *Pager[T]) CurrentPageItems() []T {
	if p.IsOnSyntheticPage() {
		return nil
	}
	start := (p.page - 1) * p.itemsPerPage
	if start >= len(p.details) {
		return nil
	}
	end := min(start+p.itemsPerPage, len(p.details))
	return p.details[start:end:end]
}

// ShowCompletionMarker reports whether the current page carries the marker.
func (p *Pager[T]) ShowCompletionMarker() bool {
	if len(p.details) == 0 {
		return false
	}
	if p.IsOnSyntheticPage() {
		return true
	}
	return !p.NeedsSyntheticPage() && p.page == p.RealPageCount()
}

// MarkerHeight returns the pixel height reserved for the marker region.
func (p *Pager[T]) MarkerHeight() int {
	if len(p.details) <= p.itemsPerPage {
		return p.layout.BaseHeight
	}
	if p.IsOnSyntheticPage() {
		return p.itemsPerPage * p.layout.RowHeight
	}
	if last := p.LastPageItemCount(); p.page == p.RealPageCount() && last < p.itemsPerPage {
		return (p.itemsPerPage-last)*p.layout.RowHeight + p.layout.Correction
	}
	return p.layout.BaseHeight
}

// HasPrevious reports whether Previous would move.
func (p *Pager[T]) HasPrevious() bool {
	return p.page > 1
}

// HasNext reports whether Next would move.
func (p *Pager[T]) HasNext() bool {
	return p.page < p.EffectivePageCount()
}

// ShowControls reports whether the list is long enough to need page controls.
func (p *Pager[T]) ShowControls() bool {
	return len(p.details) > p.itemsPerPage && p.EffectivePageCount() > 1
}

// Previous moves one page back. It does nothing on page 1.
func (p *Pager[T]) Previous() {
	if p.page > 1 {
		p.page--
	}
}

// Next moves one page forward, onto the synthetic page when there is one.
// It does nothing on the last page.
func (p *Pager[T]) Next() {
	realPages := p.RealPageCount()
	switch {
	case p.page == realPages && p.NeedsSyntheticPage():
		p.page = realPages + 1
	case p.page < realPages:
		p.page++
	}
}

// Reset moves back to page 1.
func (p *Pager[T]) Reset() {
	p.page = 1
}

// PageWindow returns the page numbers to display around the current page.
func (p *Pager[T]) PageWindow() Window {
	total := p.EffectivePageCount()
	if total == 0 {
		return Window{}
	}

	half := p.maxVisiblePages / 2
	var start, end int
	switch {
	case p.page <= half+1:
		start = 1
		end = min(p.maxVisiblePages, total)
	case p.page >= total-half:
		start = max(1, total-p.maxVisiblePages+1)
		end = total
	default:
		start = p.page - half
		end = p.page + half
	}

	return Window{
		Start:   start,
		End:     end,
		Current: p.page,
		Total:   total,
	}
}

// Snapshot captures everything a renderer needs for the current page.
func (p *Pager[T]) Snapshot() State[T] {
	return State[T]{
		Items:        p.CurrentPageItems(),
		Window:       p.PageWindow(),
		Page:         p.page,
		Pages:        p.EffectivePageCount(),
		MarkerHeight: p.MarkerHeight(),
		ShowMarker:   p.ShowCompletionMarker(),
		Synthetic:    p.IsOnSyntheticPage(),
		HasPrevious:  p.HasPrevious(),
		HasNext:      p.HasNext(),
		ShowControls: p.ShowControls(),
	}
}

// State is a rendered view of a Pager at one point in time.
type State[T any] struct {
	Items        []T
	Window       Window
	Page         int
	Pages        int
	MarkerHeight int
	ShowMarker   bool
	Synthetic    bool
	HasPrevious  bool
	HasNext      bool
	ShowControls bool
}
