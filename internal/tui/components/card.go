package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/card-insights/internal/consumption"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/paging"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
)

// CompletionText closes a detail list on its last page.
const CompletionText = "· end of list ·"

// CardModel renders one consumption card in the thread.
type CardModel struct {
	theme   themes.Theme
	card    *consumption.Card
	width   int
	focused bool
}

// NewCardModel wraps card for rendering.
func NewCardModel(card *consumption.Card, theme themes.Theme) CardModel {
	return CardModel{
		card:  card,
		theme: theme,
		width: 60,
	}
}

// Card returns the view state the model renders.
func (m CardModel) Card() *consumption.Card {
	return m.card
}

// SetWidth sets the outer width of the card.
func (m *CardModel) SetWidth(width int) {
	m.width = width
}

// SetFocused marks the card as the target of card keys.
func (m *CardModel) SetFocused(focused bool) {
	m.focused = focused
}

// MarkerLines converts a marker height in pixels to terminal lines,
// one line per row height and never less than one.
func MarkerLines(height, rowHeight int) int {
	if rowHeight <= 0 || height <= 0 {
		return 1
	}
	lines := (height + rowHeight - 1) / rowHeight
	return max(lines, 1)
}

// View renders the card.
func (m CardModel) View() string {
	record := m.card.Record()
	inner := max(m.width-4, 20)

	sections := []string{m.renderHeader(record, inner)}
	switch {
	case record.NoData:
		sections = append(sections, m.theme.Subtitle.Render("No matching purchases found."))
	default:
		sections = append(sections, m.renderSummary(record))
		if len(record.TwoStoresInfo) > 0 {
			sections = append(sections, m.renderStores(record.TwoStoresInfo))
		} else if stores := consumption.StoreBreakdown(record); len(stores) > 1 {
			sections = append(sections, m.renderStoreBreakdown(stores))
		}
		if record.HasChart {
			sections = append(sections, m.renderSeries(record))
		}
		if len(m.card.Categories()) > 0 {
			sections = append(sections, m.renderCategories(inner))
		}
		if m.card.DetailsVisible() {
			sections = append(sections, m.renderDetailList(m.card.DetailPager(), m.card.ShowCompletionMarker(), inner))
		} else if record.HasDetails() && !record.IsCategory {
			sections = append(sections, m.theme.Page.Render(fmt.Sprintf("%d details hidden", len(record.Details))))
		}
	}

	style := m.theme.Card
	if m.focused {
		style = m.theme.FocusedCard
	}
	return style.Width(m.width - 2).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m CardModel) renderHeader(record model.ConsumptionRecord, width int) string {
	title := m.theme.Title.Render(m.card.Title())
	period := m.theme.Subtitle.Render(record.Period)
	gap := width - lipgloss.Width(title) - lipgloss.Width(period)
	if gap < 1 {
		return lipgloss.JoinVertical(lipgloss.Left, title, period)
	}
	return title + strings.Repeat(" ", gap) + period
}

func (m CardModel) renderSummary(record model.ConsumptionRecord) string {
	var lines []string
	if record.StoreName != "" {
		lines = append(lines, m.theme.Bold.Render(record.StoreName))
	}
	lines = append(lines, fmt.Sprintf("%d purchases · total %s",
		record.Times, m.theme.Amount.Render(consumption.FormatAmount(record.Amount))))
	if record.HighestAmount != 0 {
		lines = append(lines, fmt.Sprintf("Highest %s on %s",
			consumption.FormatAmount(record.HighestAmount), record.HighestDate))
	}
	if record.SpecialStore != "" {
		lines = append(lines, m.theme.Italic.Render(record.SpecialStore))
	}
	return strings.Join(lines, "\n")
}

func (m CardModel) renderStores(stores []model.StoreInfo) string {
	lines := make([]string, 0, len(stores))
	for _, s := range stores {
		line := fmt.Sprintf("%-18s %3dx %10s", truncate(s.StoreName, 18), s.Times, consumption.FormatAmount(s.Amount))
		if s.HighestAmount != 0 {
			line += fmt.Sprintf("  max %s %s", consumption.FormatAmount(s.HighestAmount), s.HighestDate)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m CardModel) renderStoreBreakdown(stores []consumption.StoreSummary) string {
	lines := make([]string, 0, len(stores))
	for _, s := range stores {
		lines = append(lines, fmt.Sprintf("%-18s %3dx %10s", truncate(s.Name, 18), s.Times, consumption.FormatAmount(s.Amount)))
	}
	return strings.Join(lines, "\n")
}

// renderSeries summarizes the chart as text: points, peak and axis bound.
func (m CardModel) renderSeries(record model.ConsumptionRecord) string {
	if len(record.TwoStoresInfo) > 0 {
		series := consumption.SeriesForStores(record)
		points := make([][]consumption.Point, 0, len(series))
		lines := make([]string, 0, len(series)+1)
		for _, s := range series {
			points = append(points, s.Points)
			lines = append(lines, fmt.Sprintf("%s: %s", s.Name, describePoints(s.Points)))
		}
		lines = append(lines, m.theme.Page.Render("axis max "+consumption.FormatAmount(consumption.YAxisMax(points...))))
		return strings.Join(lines, "\n")
	}

	points := consumption.Series(record.Details)
	return fmt.Sprintf("Trend: %s  %s", describePoints(points),
		m.theme.Page.Render("axis max "+consumption.FormatAmount(consumption.YAxisMax(points))))
}

func describePoints(points []consumption.Point) string {
	if len(points) == 0 {
		return "no points"
	}
	peak := points[0]
	for _, p := range points[1:] {
		if p.Amount > peak.Amount {
			peak = p
		}
	}
	return fmt.Sprintf("%d points, %s to %s, peak %s on %s",
		len(points), points[0].Label, points[len(points)-1].Label,
		consumption.FormatAmount(peak.Amount), peak.Label)
}

func (m CardModel) renderCategories(width int) string {
	var lines []string
	for i, group := range m.card.Categories() {
		caret := "▸"
		if m.card.ExpandedCategory() == i {
			caret = "▾"
		}
		line := fmt.Sprintf("%s %s %-16s %3d%% %10s", caret, themes.GetCategoryIcon(group.Name),
			truncate(group.Name, 16), group.Percentage, consumption.FormatAmount(group.Amount))
		if m.focused && m.card.SelectedCategory() == i {
			line = m.theme.Selected.Render(line)
		}
		lines = append(lines, line)

		if pager, ok := m.card.CategoryPager(i); ok {
			lines = append(lines, indent(m.renderDetailList(pager, pager.ShowCompletionMarker(), width-2), 2))
		}
	}
	return strings.Join(lines, "\n")
}

func (m CardModel) renderDetailList(pager *paging.Pager[model.DetailRecord], marker bool, width int) string {
	var lines []string
	for _, d := range pager.CurrentPageItems() {
		lines = append(lines, m.renderDetail(d, width))
	}
	if marker {
		layout := pager.Layout()
		n := MarkerLines(pager.MarkerHeight(), layout.RowHeight)
		lines = append(lines, m.theme.Marker.Render(CompletionText))
		for i := 1; i < n; i++ {
			lines = append(lines, "")
		}
	}
	if pager.ShowControls() {
		lines = append(lines, m.renderControls(pager))
	}
	return strings.Join(lines, "\n")
}

func (m CardModel) renderDetail(d model.DetailRecord, width int) string {
	amount := consumption.FormatAmount(d.Amount)
	if d.IsRefund() {
		amount = m.theme.Refund.Render(amount)
	}
	card := ""
	if d.CardLastFour != "" {
		card = "*" + d.CardLastFour
	}
	storeWidth := max(width-10-1-5-1-10-2, 8)
	return fmt.Sprintf("%-10s %-*s %5s %10s", d.Date, storeWidth, truncate(d.Store, storeWidth), card, amount)
}

// renderControls draws "‹ 1 2 3 … ›" with the current page in bold.
func (m CardModel) renderControls(pager *paging.Pager[model.DetailRecord]) string {
	window := pager.PageWindow()
	parts := make([]string, 0, len(window.Pages())+4)

	prev := m.theme.Page.Render("‹")
	if pager.HasPrevious() {
		prev = m.theme.Normal.Render("‹")
	}
	parts = append(parts, prev)
	if window.LeadingEllipsis() {
		parts = append(parts, m.theme.Page.Render("…"))
	}
	for _, page := range window.Pages() {
		label := fmt.Sprintf("%d", page)
		if page == window.Current {
			parts = append(parts, m.theme.PageCurrent.Render(label))
		} else {
			parts = append(parts, m.theme.Page.Render(label))
		}
	}
	if window.TrailingEllipsis() {
		parts = append(parts, m.theme.Page.Render("…"))
	}
	next := m.theme.Page.Render("›")
	if pager.HasNext() {
		next = m.theme.Normal.Render("›")
	}
	parts = append(parts, next)
	return strings.Join(parts, " ")
}

func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n")
}
