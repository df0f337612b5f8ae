package consumption

import (
	"testing"

	"github.com/Veraticus/card-insights/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detail(date, store, category string, amount int64) model.DetailRecord {
	return model.DetailRecord{
		Date:         date,
		Store:        store,
		CardLastFour: "1234",
		Category:     category,
		Amount:       amount,
	}
}

func TestGroupByCategory(t *testing.T) {
	record := model.ConsumptionRecord{
		Amount:     1000,
		IsCategory: true,
		Details: []model.DetailRecord{
			detail("2025/01/01", "Grand Mall", "Department Store", 300),
			detail("2025/01/02", "City Parking", "Parking", 100),
			detail("2025/01/03", "Grand Mall", "Department Store", 300),
			detail("2025/01/04", "Cash Advance", "Loans", 300),
		},
	}

	groups := GroupByCategory(record)
	require.Len(t, groups, 3)

	assert.Equal(t, "Department Store", groups[0].Name)
	assert.Equal(t, int64(600), groups[0].Amount)
	assert.Equal(t, 60, groups[0].Percentage)
	assert.Len(t, groups[0].Details, 2)

	assert.Equal(t, "Loans", groups[1].Name)
	assert.Equal(t, 30, groups[1].Percentage)
	assert.Equal(t, "Parking", groups[2].Name)
	assert.Equal(t, 10, groups[2].Percentage)
}

func TestGroupByCategory_NegativePie(t *testing.T) {
	record := model.ConsumptionRecord{
		Amount:         -900,
		IsCategory:     true,
		HasNegativePie: true,
		Details: []model.DetailRecord{
			detail("2025/01/01", "Grand Mall", "Refunds", -600),
			detail("2025/01/02", "Airline", "Travel", -300),
		},
	}

	groups := GroupByCategory(record)
	require.Len(t, groups, 3)

	assert.Equal(t, "Refunds", groups[0].Name)
	assert.Equal(t, 67, groups[0].Percentage)
	assert.Equal(t, "Travel", groups[1].Name)
	assert.Equal(t, 33, groups[1].Percentage)

	more := groups[2]
	assert.Equal(t, MoreCategory, more.Name)
	assert.Zero(t, more.Amount)
	assert.Equal(t, 100, more.Percentage)
	assert.Empty(t, more.Details)
}

func TestGroupByCategory_FoldsTail(t *testing.T) {
	record := model.ConsumptionRecord{Amount: 2800, IsCategory: true}
	for i, c := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		record.Details = append(record.Details, detail("2025/01/01", "Store", c, int64(700-i*100)))
	}

	groups := GroupByCategory(record)
	require.Len(t, groups, MaxNamedCategories+1)

	assert.Equal(t, []string{"A", "B", "C", "D", "E", MoreCategory}, names(groups))
	more := groups[MaxNamedCategories]
	assert.Equal(t, int64(300), more.Amount)
	assert.Len(t, more.Details, 2)
	assert.Equal(t, 11, more.Percentage)
}

func TestGroupByCategory_Empty(t *testing.T) {
	assert.Nil(t, GroupByCategory(model.ConsumptionRecord{IsCategory: true}))
}

func TestGroupByCategory_ZeroTotal(t *testing.T) {
	record := model.ConsumptionRecord{
		Details: []model.DetailRecord{detail("2025/01/01", "Store", "A", 100)},
	}
	groups := GroupByCategory(record)
	require.Len(t, groups, 1)
	assert.Zero(t, groups[0].Percentage)
}

func TestStoreBreakdown(t *testing.T) {
	record := model.ConsumptionRecord{
		StoreName: "Coffee Co、Book Nook",
		Details: []model.DetailRecord{
			detail("2025/01/01", "Coffee Co Main St", "Dining", 120),
			detail("2025/01/02", "Book Nook", "Books", 450),
			detail("2025/01/03", "Coffee Co Airport", "Dining", 80),
			detail("2025/01/04", "Grocer", "Food", 999),
		},
	}

	got := StoreBreakdown(record)
	assert.Equal(t, []StoreSummary{
		{Name: "Coffee Co", Times: 2, Amount: 200},
		{Name: "Book Nook", Times: 1, Amount: 450},
	}, got)
}

func TestSplitStores(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "", want: []string{}},
		{in: "Coffee Co", want: []string{"Coffee Co"}},
		{in: "Coffee Co、Book Nook", want: []string{"Coffee Co", "Book Nook"}},
		{in: "Coffee Co, Book Nook,", want: []string{"Coffee Co", "Book Nook"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStores(tt.in))
		})
	}
}

func TestSeries_SortsByDate(t *testing.T) {
	details := []model.DetailRecord{
		detail("2025/01/15", "S", "C", 3),
		detail("2025/1/2", "S", "C", 1),
		detail("someday", "S", "C", 9),
		detail("2025/01/05", "S", "C", 2),
	}

	got := Series(details)
	assert.Equal(t, []Point{
		{Label: "2025/1/2", Amount: 1},
		{Label: "2025/01/05", Amount: 2},
		{Label: "2025/01/15", Amount: 3},
		{Label: "someday", Amount: 9},
	}, got)
	assert.Equal(t, "2025/01/15", details[0].Date, "input must not be reordered")
}

func TestSeriesForStores(t *testing.T) {
	record := model.ConsumptionRecord{
		MultipleStores: model.Bool(true),
		TwoStoresInfo: []model.StoreInfo{
			{StoreName: "Coffee Co"},
			{StoreName: "Book Nook"},
		},
		Details: []model.DetailRecord{
			detail("2025/01/03", "Coffee Co", "Dining", 80),
			detail("2025/01/02", "Book Nook", "Books", 450),
			detail("2025/01/01", "Coffee Co", "Dining", 120),
		},
	}

	series := SeriesForStores(record)
	require.Len(t, series, 2)
	assert.Equal(t, "Coffee Co", series[0].Name)
	assert.Equal(t, []Point{{Label: "2025/01/01", Amount: 120}, {Label: "2025/01/03", Amount: 80}}, series[0].Points)
	assert.Equal(t, "Book Nook", series[1].Name)
	assert.Len(t, series[1].Points, 1)

	assert.Equal(t, int64(1000), YAxisMax(series[0].Points, series[1].Points))
}

func TestSeriesForStores_SingleStore(t *testing.T) {
	record := model.ConsumptionRecord{
		StoreName: "Coffee Co",
		Details:   []model.DetailRecord{detail("2025/01/01", "Coffee Co", "Dining", 120)},
	}
	series := SeriesForStores(record)
	require.Len(t, series, 1)
	assert.Equal(t, "Coffee Co", series[0].Name)
}

func TestYAxisMax(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   int64
	}{
		{name: "empty", want: 0},
		{name: "exact thousand", points: []Point{{Amount: 3000}}, want: 3000},
		{name: "rounds up", points: []Point{{Amount: 100}, {Amount: 8001}}, want: 9000},
		{name: "all negative", points: []Point{{Amount: -500}}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YAxisMax(tt.points))
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, TitleHighest, Title(model.ConsumptionRecord{IsHighest: true, IsCategory: true}))
	assert.Equal(t, TitleCategory, Title(model.ConsumptionRecord{IsCategory: true}))
	assert.Equal(t, TitleStores, Title(model.ConsumptionRecord{MultipleStores: model.Bool(true)}))
	assert.Equal(t, TitleOverview, Title(model.ConsumptionRecord{MultipleStores: model.Bool(false)}))
	assert.Equal(t, TitleOverview, Title(model.ConsumptionRecord{}))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(0))
	assert.Equal(t, "999", FormatAmount(999))
	assert.Equal(t, "12,345", FormatAmount(12345))
	assert.Equal(t, "-1,234,567", FormatAmount(-1234567))
}

func names(groups []CategoryGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}
