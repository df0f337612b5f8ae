package components

import (
	"regexp"
	"strings"
	"testing"

	"github.com/Veraticus/card-insights/internal/consumption"
	"github.com/Veraticus/card-insights/internal/fixtures"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func details(n int) []model.DetailRecord {
	out := make([]model.DetailRecord, n)
	for i := range out {
		out[i] = model.DetailRecord{
			Date:         "2025/01/01",
			Store:        "Store " + string(rune('A'+i)),
			Amount:       int64(100 * (i + 1)),
			CardLastFour: "3489",
			Category:     "Dining",
		}
	}
	return out
}

func newCardModel(t *testing.T, record model.ConsumptionRecord) CardModel {
	t.Helper()
	card, err := consumption.NewCard(record)
	require.NoError(t, err)
	m := NewCardModel(card, themes.Default)
	m.SetWidth(72)
	return m
}

func TestMarkerLines(t *testing.T) {
	tests := []struct {
		name      string
		height    int
		rowHeight int
		want      int
	}{
		{name: "base height", height: 56, rowHeight: 101, want: 1},
		{name: "synthetic page", height: 505, rowHeight: 101, want: 5},
		{name: "two missing rows", height: 201, rowHeight: 101, want: 2},
		{name: "category rows", height: 315, rowHeight: 105, want: 3},
		{name: "zero row height", height: 56, rowHeight: 0, want: 1},
		{name: "zero height", height: 0, rowHeight: 101, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MarkerLines(tt.height, tt.rowHeight))
		})
	}
}

func TestCardModel_NoData(t *testing.T) {
	record, err := fixtures.Record(model.ModuleNoData)
	require.NoError(t, err)

	out := stripANSI(newCardModel(t, record).View())
	assert.Contains(t, out, "No matching purchases found.")
	assert.NotContains(t, out, "purchases · total")
}

func TestCardModel_DetailsHiddenUntilToggled(t *testing.T) {
	record := model.ConsumptionRecord{Period: "2025/01", Times: 7, Amount: 2800, Details: details(7)}
	m := newCardModel(t, record)

	out := stripANSI(m.View())
	assert.Contains(t, out, "7 details hidden")
	assert.NotContains(t, out, "Store A")

	m.Card().ToggleDetails()
	out = stripANSI(m.View())
	assert.Contains(t, out, "Store A")
	assert.Contains(t, out, "Store E")
	assert.NotContains(t, out, "Store F")
	assert.NotContains(t, out, CompletionText)
	assert.Contains(t, out, "‹ 1 2 ›")

	m.Card().NextPage()
	out = stripANSI(m.View())
	assert.Contains(t, out, "Store G")
	assert.Contains(t, out, CompletionText)
}

func TestCardModel_SyntheticPageShowsOnlyMarker(t *testing.T) {
	record := model.ConsumptionRecord{Times: 10, Amount: 5500, Details: details(10)}
	m := newCardModel(t, record)
	m.Card().ToggleDetails()

	m.Card().NextPage()
	out := stripANSI(m.View())
	assert.Contains(t, out, "Store J")
	assert.NotContains(t, out, CompletionText)

	m.Card().NextPage()
	out = stripANSI(m.View())
	assert.NotContains(t, out, "Store J")
	assert.Contains(t, out, CompletionText)
	assert.Contains(t, out, "‹ 1 2 3 ›")
}

func TestCardModel_PageWindowEllipsis(t *testing.T) {
	record := model.ConsumptionRecord{Details: details(26)}
	m := newCardModel(t, record)
	m.Card().ToggleDetails()

	out := stripANSI(m.View())
	assert.Contains(t, out, "‹ 1 2 3 … ›")

	for range 3 {
		m.Card().NextPage()
	}
	out = stripANSI(m.View())
	assert.Contains(t, out, "‹ … 3 4 5 … ›")
}

func TestCardModel_HighestAlwaysShowsDetails(t *testing.T) {
	record, err := fixtures.Record(model.ModuleHighest)
	require.NoError(t, err)

	out := stripANSI(newCardModel(t, record).View())
	assert.Contains(t, out, consumption.TitleHighest)
	assert.Contains(t, out, "2025/01/10 A merchant")
	assert.Contains(t, out, "15,000")
	assert.Contains(t, out, CompletionText)
}

func TestCardModel_Categories(t *testing.T) {
	record, err := fixtures.Record(model.ModuleCategory)
	require.NoError(t, err)
	m := newCardModel(t, record)
	m.SetFocused(true)

	out := stripANSI(m.View())
	assert.Contains(t, out, consumption.TitleCategory)
	groups := m.Card().Categories()
	require.NotEmpty(t, groups)
	for _, g := range groups {
		assert.Contains(t, out, g.Name)
	}
	assert.Contains(t, out, "▸")
	assert.NotContains(t, out, "▾")

	require.NoError(t, m.Card().ToggleSelectedCategory())
	out = stripANSI(m.View())
	assert.Contains(t, out, "▾")
	assert.Contains(t, out, groups[0].Details[0].Store)
}

func TestCardModel_Chart(t *testing.T) {
	record, err := fixtures.Record(model.ModuleChart)
	require.NoError(t, err)

	out := stripANSI(newCardModel(t, record).View())
	assert.Contains(t, out, "Trend: 5 points")
	assert.Contains(t, out, "axis max 10,000")
}

func TestCardModel_TwoStoresChart(t *testing.T) {
	record, err := fixtures.Record(model.ModuleTwoStoresChart)
	require.NoError(t, err)

	out := stripANSI(newCardModel(t, record).View())
	for _, s := range record.TwoStoresInfo {
		assert.Contains(t, out, s.StoreName)
	}
	assert.Contains(t, out, "axis max")
}

func TestRenderControls_CurrentPageIsBold(t *testing.T) {
	record := model.ConsumptionRecord{Details: details(12)}
	m := newCardModel(t, record)
	m.Card().ToggleDetails()

	out := m.renderControls(m.Card().DetailPager())
	assert.Contains(t, out, m.theme.PageCurrent.Render("1"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	got := truncate("a very long store name", 10)
	assert.True(t, strings.HasSuffix(got, "…"))
	assert.LessOrEqual(t, len([]rune(got)), 10)
}

func TestRenderBubble(t *testing.T) {
	t.Run("user", func(t *testing.T) {
		out := stripANSI(RenderBubble(model.DialogItem{Type: model.MessageUser, Text: "hello"}, themes.Default, 60))
		assert.Contains(t, out, "hello")
		assert.True(t, strings.HasPrefix(out, "          "), out)
		assert.True(t, strings.HasSuffix(strings.TrimRight(out, " "), "hello"), out)
	})

	t.Run("system extras", func(t *testing.T) {
		item := model.DialogItem{
			Type:          model.MessageSystem,
			Text:          "Here you go",
			Deeplink:      "app://bill",
			QuestionTitle: "Did you mean",
			RecommendQuestions: []model.QuestionSuggest{
				{QuestionContent: "Spending this month"},
			},
			WithFeedback:    true,
			FeedbackOptions: []model.FeedbackOption{{OptionID: "1", OptionContent: "Wrong"}},
		}
		out := stripANSI(RenderBubble(item, themes.Default, 60))
		assert.Contains(t, out, "Here you go")
		assert.Contains(t, out, "app://bill")
		assert.Contains(t, out, "Did you mean")
		assert.Contains(t, out, "• Spending this month")
		assert.Contains(t, out, "1 Wrong")
	})

	t.Run("go to action", func(t *testing.T) {
		item := model.DialogItem{Type: model.MessageSystem, Text: "Limit reached", ShowGoToAction: true}
		out := stripANSI(RenderBubble(item, themes.Default, 60))
		assert.Contains(t, out, "ctrl+r")
	})
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "one two\nthree", wrap("one two three", 8))
	assert.Equal(t, "a\n\nb", wrap("a\n\nb", 8))
}
