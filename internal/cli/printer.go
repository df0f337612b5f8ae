package cli

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/Veraticus/card-insights/internal/consumption"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/storage"
	"github.com/Veraticus/card-insights/internal/tui/components"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ErrPageOutOfRange is returned when a requested detail page does not exist.
var ErrPageOutOfRange = errors.New("page out of range")

// DefaultWidth is the rendering width used when the terminal size is unknown.
const DefaultWidth = 80

// Printer renders threads, cards and listings as plain terminal output.
type Printer struct {
	w     io.Writer
	theme themes.Theme
	width int
}

// NewPrinter creates a printer writing to w. A non-positive width selects DefaultWidth.
func NewPrinter(w io.Writer, width int, theme themes.Theme) *Printer {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Printer{w: w, width: width, theme: theme}
}

// PrintItems writes a thread. Cards show their first page.
func (p *Printer) PrintItems(items []model.DialogItem) error {
	for _, item := range items {
		if item.Text != "" || !item.HasCard() {
			if _, err := fmt.Fprintln(p.w, components.RenderBubble(item, p.theme, p.width)); err != nil {
				return err
			}
		}
		if item.HasCard() {
			if err := p.PrintRecord(*item.Consumption, 1); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrintRecord writes a record as a card with its detail list opened at page (1-based).
// Category records list their groups instead and only have page 1.
func (p *Printer) PrintRecord(record model.ConsumptionRecord, page int) error {
	card, err := consumption.NewCard(record)
	if err != nil {
		return err
	}

	pages := 1
	if record.HasDetails() && !record.IsCategory {
		if !card.DetailsVisible() {
			card.ToggleDetails()
		}
		pages = card.DetailPager().EffectivePageCount()
	}
	if page < 1 || page > pages {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, page, pages)
	}
	for i := 1; i < page; i++ {
		card.NextPage()
	}

	view := components.NewCardModel(card, p.theme)
	view.SetWidth(min(p.width, 84))
	_, err = fmt.Fprintln(p.w, view.View())
	return err
}

// PrintSessions writes one row per stored conversation.
func (p *Printer) PrintSessions(sessions []storage.SessionSummary) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(p.w, FormatInfo("No conversations stored yet."))
		return err
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.ID,
			s.StartedAt.Local().Format("2006-01-02 15:04"),
			s.LastAt.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(s.Items),
		})
	}
	_, err := fmt.Fprintln(p.w, listTable([]string{"SESSION", "STARTED", "LAST", "ITEMS"}, rows, 3))
	return err
}

// PrintRecordList writes one row per stored record.
func (p *Printer) PrintRecordList(records []storage.RecordSummary) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(p.w, FormatInfo("No records stored yet."))
		return err
	}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.ID,
			string(r.ModuleType),
			r.Period,
			strconv.Itoa(r.Details),
			consumption.FormatAmount(r.Amount),
		})
	}
	_, err := fmt.Fprintln(p.w, listTable([]string{"ID", "MODULE", "PERIOD", "DETAILS", "AMOUNT"}, rows, 3, 4))
	return err
}

// listTable renders a bordered listing. Columns in rightAligned hold numbers.
func listTable(headers []string, rows [][]string, rightAligned ...int) string {
	header := TableHeaderStyle.BorderBottom(false).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#333"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			if slices.Contains(rightAligned, col) {
				return cell.Align(lipgloss.Right)
			}
			return cell
		}).
		Render()
}
