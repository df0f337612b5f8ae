// Package consumption derives the displays of a consumption card from its record.
package consumption

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Veraticus/card-insights/internal/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoreCategory is the name of the trailing bucket in a category breakdown.
const MoreCategory = "More"

// MaxNamedCategories is how many categories are listed before the rest fold into MoreCategory.
const MaxNamedCategories = 5

// Card titles.
const (
	TitleHighest  = "Highest Spend"
	TitleCategory = "Spending by Category"
	TitleStores   = "Store Overview"
	TitleOverview = "Spending Overview"
)

// CategoryGroup is one slice of a category breakdown.
type CategoryGroup struct {
	Name       string
	Details    []model.DetailRecord
	Amount     int64
	Percentage int
}

// StoreSummary counts the detail lines matching one store name.
type StoreSummary struct {
	Name   string
	Times  int
	Amount int64
}

// Point is one entry of a date series.
type Point struct {
	Label  string
	Amount int64
}

// NamedSeries is a date series labelled with the store it belongs to.
type NamedSeries struct {
	Name   string
	Points []Point
}

// GroupByCategory groups the record's details by category, largest first.
func GroupByCategory(record model.ConsumptionRecord) []CategoryGroup {
	if len(record.Details) == 0 {
		return nil
	}

	order := make([]string, 0)
	byName := make(map[string]*CategoryGroup)
	for _, d := range record.Details {
		g, ok := byName[d.Category]
		if !ok {
			g = &CategoryGroup{Name: d.Category}
			byName[d.Category] = g
			order = append(order, d.Category)
		}
		g.Details = append(g.Details, d)
		g.Amount += d.Amount
	}

	groups := make([]CategoryGroup, 0, len(order)+1)
	for _, name := range order {
		g := byName[name]
		g.Percentage = percentage(g.Amount, record.Amount)
		groups = append(groups, *g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return abs(groups[i].Amount) > abs(groups[j].Amount)
	})

	if record.HasNegativePie {
		return append(groups, CategoryGroup{Name: MoreCategory, Percentage: 100})
	}

	if len(groups) <= MaxNamedCategories {
		return groups
	}
	more := CategoryGroup{Name: MoreCategory}
	for _, g := range groups[MaxNamedCategories:] {
		more.Details = append(more.Details, g.Details...)
		more.Amount += g.Amount
	}
	more.Percentage = percentage(more.Amount, record.Amount)
	return append(groups[:MaxNamedCategories:MaxNamedCategories], more)
}

// StoreBreakdown matches details against each name in the record's store list.
func StoreBreakdown(record model.ConsumptionRecord) []StoreSummary {
	names := SplitStores(record.StoreName)
	out := make([]StoreSummary, 0, len(names))
	for _, name := range names {
		s := StoreSummary{Name: name}
		for _, d := range record.Details {
			if strings.Contains(d.Store, name) {
				s.Times++
				s.Amount += d.Amount
			}
		}
		out = append(out, s)
	}
	return out
}

// SplitStores splits a combined store label on "、" or ",".
func SplitStores(storeName string) []string {
	fields := strings.FieldsFunc(storeName, func(r rune) bool {
		return r == '、' || r == ','
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Series returns one point per detail in chronological order.
// Dates that cannot be parsed sort after all valid ones, keeping their input order.
func Series(details []model.DetailRecord) []Point {
	type dated struct {
		at time.Time
		p  Point
		ok bool
	}
	rows := make([]dated, len(details))
	for i, d := range details {
		at, err := time.Parse("2006/1/2", d.Date)
		rows[i] = dated{at: at, ok: err == nil, p: Point{Label: d.Date, Amount: d.Amount}}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].at.Before(rows[j].at)
	})

	points := make([]Point, len(rows))
	for i, r := range rows {
		points[i] = r.p
	}
	return points
}

// SeriesForStores returns one series per store in the record's store comparison.
// A record without a comparison yields a single series named after the record's store.
func SeriesForStores(record model.ConsumptionRecord) []NamedSeries {
	if !record.IsMultiStore() || len(record.TwoStoresInfo) == 0 {
		return []NamedSeries{{Name: record.StoreName, Points: Series(record.Details)}}
	}

	out := make([]NamedSeries, 0, len(record.TwoStoresInfo))
	for _, info := range record.TwoStoresInfo {
		var matched []model.DetailRecord
		for _, d := range record.Details {
			if strings.Contains(d.Store, info.StoreName) {
				matched = append(matched, d)
			}
		}
		out = append(out, NamedSeries{Name: info.StoreName, Points: Series(matched)})
	}
	return out
}

// YAxisMax rounds the largest amount across all series up to the next thousand.
func YAxisMax(series ...[]Point) int64 {
	var peak int64
	seen := false
	for _, s := range series {
		for _, p := range s {
			if !seen || p.Amount > peak {
				peak = p.Amount
				seen = true
			}
		}
	}
	if peak <= 0 {
		return 0
	}
	return (peak + 999) / 1000 * 1000
}

// Title picks the card heading for a record.
func Title(record model.ConsumptionRecord) string {
	switch {
	case record.IsHighest:
		return TitleHighest
	case record.IsCategory:
		return TitleCategory
	case record.IsMultiStore():
		return TitleStores
	default:
		return TitleOverview
	}
}

var printer = message.NewPrinter(language.English)

// FormatAmount prints n with thousands separators.
func FormatAmount(n int64) string {
	return printer.Sprintf("%d", n)
}

func percentage(amount, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(abs(amount)) / float64(abs(total)) * 100))
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
