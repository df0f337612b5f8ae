package tui

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/Veraticus/card-insights/internal/api"
	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/consumption"
	"github.com/Veraticus/card-insights/internal/model"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

type failingBackend struct {
	api.Chatter
}

func (failingBackend) Initialize(context.Context, api.DeviceInfo, api.DeviceInfo) (*api.InitializeResponse, error) {
	return nil, errors.New("connection refused")
}

func newTestModel(t *testing.T, backend api.Chatter) Model {
	t.Helper()
	session := chat.NewSession(backend)
	m := New(context.Background(), NewConfig(session, WithSize(100, 40)))
	return update(t, m, m.start()())
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// ask types text, presses enter and feeds the answer back in.
func ask(t *testing.T, m Model, text string) Model {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = next.(Model)
	assert.Equal(t, text, m.pending)
	assert.Contains(t, stripANSI(m.renderThread()), text)
	return update(t, m, cmd())
}

func press(t *testing.T, m Model, keyType tea.KeyType) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: keyType})
}

func TestModel_StartShowsGreetingAndSuggestions(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))

	assert.True(t, m.ready)
	require.Len(t, m.snapshot.Items, 1)
	out := stripANSI(m.View())
	assert.Contains(t, out, "Ask me anything about your card spending")
	assert.Contains(t, out, "Try asking")
	assert.Contains(t, out, "3 How is my spending split?")
}

func TestModel_StartFailureShowsErrorScreen(t *testing.T) {
	m := newTestModel(t, failingBackend{})

	assert.True(t, m.snapshot.FrontendError)
	assert.Contains(t, stripANSI(m.View()), chat.FrontendErrorMessage)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(Model)
	assert.False(t, m.ready, "retry reopens the session")
	assert.NotNil(t, cmd)
}

func TestModel_AskRendersCardAndFocusesIt(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "spending by category")

	assert.Empty(t, m.pending)
	require.Len(t, m.cardOrder, 1)
	assert.Equal(t, 0, m.focused)
	out := stripANSI(m.renderThread())
	assert.Contains(t, out, consumption.TitleCategory)
	assert.NotContains(t, out, "Try asking")
}

func TestModel_BlankInputIsIgnored(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m.input.SetValue("   ")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, next.(Model).pending)
}

func TestModel_CardKeys(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "spending by category")
	card := m.focusedCard().Card()

	m = press(t, m, tea.KeyCtrlDown)
	assert.Equal(t, 1, card.SelectedCategory())
	m = press(t, m, tea.KeyCtrlUp)
	assert.Equal(t, 0, card.SelectedCategory())

	m = press(t, m, tea.KeyCtrlE)
	assert.Equal(t, 0, card.ExpandedCategory())
	pager, ok := card.CategoryPager(0)
	require.True(t, ok)

	m = press(t, m, tea.KeyCtrlN)
	want := min(2, pager.EffectivePageCount())
	assert.Equal(t, want, pager.CurrentPage())
	m = press(t, m, tea.KeyCtrlP)
	assert.Equal(t, 1, pager.CurrentPage())

	m = press(t, m, tea.KeyCtrlE)
	assert.Equal(t, consumption.NoCategory, card.ExpandedCategory())

	assert.False(t, card.DetailsVisible())
	_ = press(t, m, tea.KeyCtrlD)
	assert.True(t, card.DetailsVisible())
}

func TestModel_TabCyclesCards(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "one store")
	m = ask(t, m, "highest")
	require.Len(t, m.cardOrder, 2)
	assert.Equal(t, 1, m.focused)

	m = press(t, m, tea.KeyTab)
	assert.Equal(t, 0, m.focused)
	m = press(t, m, tea.KeyTab)
	assert.Equal(t, 1, m.focused)
}

func TestModel_ResetClearsThread(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "category")
	require.NotEmpty(t, m.cardOrder)

	m = press(t, m, tea.KeyCtrlR)
	assert.Empty(t, m.snapshot.Items)
	assert.Empty(t, m.cardOrder)
	assert.Empty(t, m.cards)
	assert.Equal(t, -1, m.focused)
}

func TestModel_TokenLimitClearsThread(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "category")
	m = ask(t, m, "limit")

	require.Len(t, m.snapshot.Items, 1)
	assert.True(t, m.snapshot.Items[0].ShowGoToAction)
	assert.Empty(t, m.cardOrder)
}

func TestModel_IdleTimeoutStatus(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "idle")

	assert.True(t, m.snapshot.IdleTimedOut)
	assert.Contains(t, stripANSI(m.View()), "timed out")
}

func TestModel_FeedbackAndComment(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	m = ask(t, m, "highest")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	require.NotNil(t, cmd)
	m = update(t, next.(Model), cmd())

	last := m.snapshot.Items[len(m.snapshot.Items)-1]
	require.NotEmpty(t, last.FeedbackOptions)
	assert.Contains(t, stripANSI(m.renderThread()), "Why?")

	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})
	require.NotNil(t, cmd)
	m = update(t, next.(Model), cmd())
	assert.NoError(t, m.lastError)
	assert.Equal(t, "Thanks for the feedback.", m.status)
}

func TestModel_FeedbackWithoutAnswer(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to give feedback on yet.", next.(Model).status)
}

func TestModel_IntroductionFromSuggestion(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))
	before := len(m.snapshot.Items)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}, Alt: true})
	require.NotNil(t, cmd)
	m = update(t, next.(Model), cmd())

	require.Len(t, m.snapshot.Items, before+2)
	assert.Equal(t, model.MessageUser, m.snapshot.Items[before].Type)
	assert.True(t, m.snapshot.Items[before].IsIntroduction)
}

func TestModel_QuitAndResize(t *testing.T) {
	m := newTestModel(t, api.NewMockClient(0))

	m = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Equal(t, 60, m.viewport.Width)
	assert.Positive(t, m.viewport.Height)
	assert.LessOrEqual(t, m.viewport.Height, 20)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}

func TestAltDigit(t *testing.T) {
	tests := []struct {
		name  string
		msg   tea.KeyMsg
		want  int
		found bool
	}{
		{name: "alt+3", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}, Alt: true}, want: 3, found: true},
		{name: "plain digit", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}}},
		{name: "alt+0", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}, Alt: true}},
		{name: "alt+letter", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}, Alt: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := altDigit(tt.msg)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestRun_RequiresSession(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), NewConfig(nil)), ErrNoSession)
}

func TestKeyMap_Help(t *testing.T) {
	k := DefaultKeyMap()
	assert.NotEmpty(t, k.ShortHelp())
	for _, col := range k.FullHelp() {
		assert.NotEmpty(t, col)
	}
}
