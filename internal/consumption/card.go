package consumption

import (
	"errors"
	"fmt"

	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/paging"
)

// ErrInvalidCategory is returned when a category index is out of range.
var ErrInvalidCategory = errors.New("category index out of range")

// NoCategory is the index reported when no category is selected or expanded.
const NoCategory = -1

// Card holds the view state of one consumption card.
type Card struct {
	details    *paging.Pager[model.DetailRecord]
	expanded   *paging.Registry[int, model.DetailRecord]
	categories []CategoryGroup
	record     model.ConsumptionRecord
	selected   int
	open       int
	showDetail bool
}

// NewCard builds the view state for record.
func NewCard(record model.ConsumptionRecord) (*Card, error) {
	details, err := paging.New(record.Details, paging.WithLayout(paging.DetailListLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to page details: %w", err)
	}

	c := &Card{
		record:   record,
		details:  details,
		expanded: paging.NewRegistry[int, model.DetailRecord](paging.WithLayout(paging.CategoryListLayout)),
		selected: NoCategory,
		open:     NoCategory,
	}
	if record.IsCategory {
		c.categories = GroupByCategory(record)
		if len(c.categories) > 0 {
			c.selected = 0
		}
	}
	return c, nil
}

// Record returns the record the card displays.
func (c *Card) Record() model.ConsumptionRecord {
	return c.record
}

// Title returns the card heading.
func (c *Card) Title() string {
	return Title(c.record)
}

// Categories returns the category breakdown, empty for non-category records.
func (c *Card) Categories() []CategoryGroup {
	return c.categories
}

// DetailsVisible reports whether the top-level detail list is shown.
// Highest-spend cards always show it.
func (c *Card) DetailsVisible() bool {
	return c.record.HasDetails() && (c.showDetail || c.record.IsHighest)
}

// ToggleDetails shows or hides the top-level detail list.
func (c *Card) ToggleDetails() {
	c.showDetail = !c.showDetail
}

// DetailPager returns the pager of the top-level detail list.
func (c *Card) DetailPager() *paging.Pager[model.DetailRecord] {
	return c.details
}

// ShowCompletionMarker reports whether the top-level list ends on the current page.
func (c *Card) ShowCompletionMarker() bool {
	if c.details.ShowCompletionMarker() {
		return true
	}
	return c.record.IsHighest && !c.details.NeedsSyntheticPage() && c.details.Len() > 0
}

// SelectedCategory returns the highlighted category index.
func (c *Card) SelectedCategory() int {
	return c.selected
}

// SelectNextCategory moves the highlight down, wrapping at the end.
func (c *Card) SelectNextCategory() {
	if len(c.categories) == 0 {
		return
	}
	c.selected = (c.selected + 1) % len(c.categories)
}

// SelectPreviousCategory moves the highlight up, wrapping at the start.
func (c *Card) SelectPreviousCategory() {
	if len(c.categories) == 0 {
		return
	}
	c.selected = (c.selected - 1 + len(c.categories)) % len(c.categories)
}

// ExpandedCategory returns the expanded category index, or NoCategory.
func (c *Card) ExpandedCategory() int {
	return c.open
}

// ToggleCategory expands category i, collapsing any other, or collapses it when
// it is already expanded. Expanding always starts on the first page.
func (c *Card) ToggleCategory(i int) error {
	if i < 0 || i >= len(c.categories) {
		return fmt.Errorf("%w: category %d of %d", ErrInvalidCategory, i, len(c.categories))
	}

	if c.open == i {
		c.expanded.Drop(i)
		c.open = NoCategory
		return nil
	}

	if c.open != NoCategory {
		c.expanded.Drop(c.open)
	}
	if _, err := c.expanded.Select(i, c.categories[i].Details); err != nil {
		return err
	}
	c.open = i
	c.selected = i
	return nil
}

// ToggleSelectedCategory toggles the highlighted category.
func (c *Card) ToggleSelectedCategory() error {
	if c.selected == NoCategory {
		return nil
	}
	return c.ToggleCategory(c.selected)
}

// CategoryPager returns the pager of category i when it is expanded.
func (c *Card) CategoryPager(i int) (*paging.Pager[model.DetailRecord], bool) {
	return c.expanded.Get(i)
}

// ActivePager is the pager that page navigation applies to: the expanded
// category when there is one, otherwise the top-level list.
func (c *Card) ActivePager() *paging.Pager[model.DetailRecord] {
	if c.open != NoCategory {
		if p, ok := c.expanded.Get(c.open); ok {
			return p
		}
	}
	return c.details
}

// NextPage advances the active pager.
func (c *Card) NextPage() {
	c.ActivePager().Next()
}

// PreviousPage moves the active pager back.
func (c *Card) PreviousPage() {
	c.ActivePager().Previous()
}
