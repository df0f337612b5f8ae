package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/tui/components"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return m.renderLoading()
	}
	if m.snapshot.FrontendError {
		return m.renderFrontendError()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewport.View(),
		m.renderStatus(),
		m.input.View(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderLoading() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		m.spinner.View()+" "+m.theme.StatusPending.Render("Connecting…"))
}

func (m Model) renderFrontendError() string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.StatusError.Render(chat.FrontendErrorMessage),
		"",
		m.theme.Subtitle.Render("ctrl+r to retry · esc to quit"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m Model) renderStatus() string {
	switch {
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.pending != "":
		return m.spinner.View() + " " + m.theme.StatusPending.Render("Thinking…")
	case m.snapshot.IdleTimedOut:
		return m.theme.StatusInfo.Render("The conversation timed out. Your next question starts a new one.")
	case m.status != "":
		return m.theme.StatusInfo.Render(m.status)
	default:
		return ""
	}
}

// renderThread lays out every bubble and card, plus the question in flight.
func (m Model) renderThread() string {
	var blocks []string
	items := m.snapshot.Items

	if !hasUserMessage(items) {
		if intro := m.renderSuggestions(); intro != "" {
			blocks = append(blocks, intro)
		}
	}

	focusedID := ""
	if m.focused >= 0 && m.focused < len(m.cardOrder) {
		focusedID = m.cardOrder[m.focused]
	}

	for _, item := range items {
		if item.Text != "" || !item.HasCard() {
			blocks = append(blocks, components.RenderBubble(item, m.theme, m.width))
		}
		if card, ok := m.cards[item.ID]; ok {
			card.SetWidth(m.cardWidth())
			card.SetFocused(item.ID == focusedID)
			blocks = append(blocks, card.View())
		}
	}

	if m.pending != "" {
		blocks = append(blocks, components.RenderBubble(model.DialogItem{
			Type: model.MessageUser,
			Text: m.pending,
		}, m.theme, m.width))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderSuggestions() string {
	suggestions := m.session.Suggestions()
	if len(suggestions) == 0 {
		return ""
	}
	lines := []string{m.theme.Subtitle.Render("Try asking (alt+number):")}
	for i, q := range suggestions[:min(len(suggestions), 9)] {
		lines = append(lines, m.theme.Suggestion.Render(fmt.Sprintf("%d %s", i+1, q.QuestionContent)))
	}
	return strings.Join(lines, "\n")
}
