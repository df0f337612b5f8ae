// Package tui is the terminal chat client: a scrolling thread of bubbles and
// consumption cards above a text input.
package tui

import (
	"context"
	"log/slog"
	"unicode"

	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/consumption"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/tui/components"
	"github.com/Veraticus/card-insights/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	inputHeight  = 3
	maxCardWidth = 84
)

// Model holds the main TUI state.
type Model struct {
	ctx       context.Context
	theme     themes.Theme
	lastError error
	session   *chat.Session
	cards     map[string]*components.CardModel
	snapshot  chat.Snapshot
	pending   string
	status    string
	config    Config
	keymap    KeyMap
	cardOrder []string
	help      help.Model
	input     textarea.Model
	viewport  viewport.Model
	spinner   spinner.Model
	focused   int
	width     int
	height    int
	quitting  bool
	ready     bool
}

// New creates the chat model. ctx bounds every backend call it makes.
func New(ctx context.Context, cfg Config) Model {
	input := textarea.New()
	input.Placeholder = "Ask about your card spending…"
	input.ShowLineNumbers = false
	input.CharLimit = 500
	input.SetHeight(inputHeight)
	input.KeyMap.InsertNewline = DefaultKeyMap().Newline
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		ctx:      background(ctx),
		config:   cfg,
		theme:    cfg.Theme,
		keymap:   DefaultKeyMap(),
		session:  cfg.Session,
		cards:    make(map[string]*components.CardModel),
		focused:  -1,
		input:    input,
		spinner:  spin,
		help:     h,
		viewport: viewport.New(cfg.Width, cfg.Height),
		width:    cfg.Width,
		height:   cfg.Height,
	}
	m.resize()
	return m
}

// Init starts the session and the cursor blink.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, m.start())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshContent(false)
		return m, nil

	case startedMsg:
		m.ready = true
		m.lastError = msg.err
		m.sync(true)
		return m, nil

	case answerMsg:
		m.pending = ""
		m.lastError = msg.err
		if msg.err != nil {
			slog.Warn("question failed", "error", msg.err)
		}
		m.sync(true)
		return m, nil

	case feedbackMsg:
		if msg.err != nil {
			m.lastError = msg.err
		} else {
			m.status = "Tell us what went wrong with alt+number."
		}
		m.sync(false)
		return m, nil

	case commentMsg:
		m.lastError = msg.err
		if msg.err == nil {
			m.status = "Thanks for the feedback."
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.pending != "" {
			m.refreshContent(true)
		}
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		return m.reset()

	case key.Matches(msg, m.keymap.Send):
		return m.submit()

	case key.Matches(msg, m.keymap.Feedback):
		return m.feedback()

	case key.Matches(msg, m.keymap.FocusCard):
		m.focusNext()
		m.refreshContent(false)
		return m, nil

	case key.Matches(msg, m.keymap.NextPage, m.keymap.PrevPage, m.keymap.ToggleDetails,
		m.keymap.NextCategory, m.keymap.PrevCategory, m.keymap.ToggleCategory):
		m.handleCardKey(msg)
		m.refreshContent(false)
		return m, nil

	case key.Matches(msg, m.keymap.ScrollUp, m.keymap.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if n, ok := altDigit(msg); ok {
		return m.choose(n)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit sends the input as a question.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if m.pending != "" || !m.ready || isBlank(text) {
		return m, nil
	}
	m.pending = text
	m.status = ""
	m.lastError = nil
	m.input.Reset()
	m.refreshContent(true)
	return m, m.ask(text)
}

// reset starts a new conversation, reopening the session when it failed to load.
func (m Model) reset() (tea.Model, tea.Cmd) {
	if m.pending != "" {
		return m, nil
	}
	failed := m.snapshot.FrontendError
	m.session.Reset()
	m.status = ""
	m.lastError = nil
	m.sync(false)
	if failed {
		m.ready = false
		return m, m.start()
	}
	return m, nil
}

// feedback asks for thumbs-down reasons on the latest answer that accepts feedback.
func (m Model) feedback() (tea.Model, tea.Cmd) {
	items := m.snapshot.Items
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].WithFeedback && items[i].RequestID != "" {
			return m, m.requestFeedback(items[i].RequestID)
		}
	}
	m.status = "Nothing to give feedback on yet."
	return m, nil
}

// choose picks option n (1-based): a feedback reason when one is pending,
// otherwise an introduction question on a fresh thread.
func (m Model) choose(n int) (tea.Model, tea.Cmd) {
	items := m.snapshot.Items
	for i := len(items) - 1; i >= 0; i-- {
		if len(items[i].FeedbackOptions) > 0 {
			if n > len(items[i].FeedbackOptions) {
				return m, nil
			}
			return m, m.sendComment(items[i].RequestID, items[i].FeedbackOptions[n-1])
		}
	}

	suggestions := m.session.Suggestions()
	if !hasUserMessage(items) && n <= len(suggestions) {
		return m, m.introduce(suggestions[n-1])
	}
	return m, nil
}

func (m *Model) handleCardKey(msg tea.KeyMsg) {
	card := m.focusedCard()
	if card == nil {
		return
	}
	c := card.Card()
	switch {
	case key.Matches(msg, m.keymap.NextPage):
		c.NextPage()
	case key.Matches(msg, m.keymap.PrevPage):
		c.PreviousPage()
	case key.Matches(msg, m.keymap.ToggleDetails):
		c.ToggleDetails()
	case key.Matches(msg, m.keymap.NextCategory):
		c.SelectNextCategory()
	case key.Matches(msg, m.keymap.PrevCategory):
		c.SelectPreviousCategory()
	case key.Matches(msg, m.keymap.ToggleCategory):
		if err := c.ToggleSelectedCategory(); err != nil {
			m.lastError = err
		}
	}
}

func (m *Model) focusedCard() *components.CardModel {
	if m.focused < 0 || m.focused >= len(m.cardOrder) {
		return nil
	}
	return m.cards[m.cardOrder[m.focused]]
}

func (m *Model) focusNext() {
	if len(m.cardOrder) == 0 {
		m.focused = -1
		return
	}
	m.focused = (m.focused + 1) % len(m.cardOrder)
}

// sync reloads the thread from the session and builds state for new cards.
// New cards take focus.
func (m *Model) sync(scrollToBottom bool) {
	if m.session == nil {
		return
	}
	m.snapshot = m.session.Snapshot()

	order := make([]string, 0, len(m.cardOrder))
	seen := make(map[string]bool)
	added := false
	for _, item := range m.snapshot.Items {
		if !item.HasCard() {
			continue
		}
		if _, ok := m.cards[item.ID]; !ok {
			card, err := consumption.NewCard(*item.Consumption)
			if err != nil {
				slog.Error("failed to build card", "error", err, "item_id", item.ID)
				continue
			}
			cm := components.NewCardModel(card, m.theme)
			m.cards[item.ID] = &cm
			added = true
		}
		seen[item.ID] = true
		order = append(order, item.ID)
	}
	for id := range m.cards {
		if !seen[id] {
			delete(m.cards, id)
		}
	}
	m.cardOrder = order

	switch {
	case len(order) == 0:
		m.focused = -1
	case added || m.focused >= len(order) || m.focused < 0:
		m.focused = len(order) - 1
	}
	m.refreshContent(scrollToBottom)
}

// resize lays out the viewport above the input and help lines.
func (m *Model) resize() {
	helpHeight := 1
	if m.help.ShowAll {
		helpHeight = len(m.keymap.FullHelp()[0])
	}
	m.help.Width = m.width
	m.input.SetWidth(max(m.width-2, 10))
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-inputHeight-helpHeight-3, 3)
}

func (m *Model) refreshContent(scrollToBottom bool) {
	m.viewport.SetContent(m.renderThread())
	if scrollToBottom {
		m.viewport.GotoBottom()
	}
}

func (m Model) cardWidth() int {
	return min(max(m.width-2, 30), maxCardWidth)
}

func altDigit(msg tea.KeyMsg) (int, bool) {
	if !msg.Alt || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '0'), true
}

func hasUserMessage(items []model.DialogItem) bool {
	for _, item := range items {
		if item.Type == model.MessageUser {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
