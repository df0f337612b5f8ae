package tui

import (
	"context"

	"github.com/Veraticus/card-insights/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

// start opens the backend session.
func (m Model) start() tea.Cmd {
	session, ctx := m.session, m.ctx
	device, version := m.config.Device, m.config.Version
	return func() tea.Msg {
		_, err := session.Start(ctx, device, version)
		return startedMsg{err: err}
	}
}

// ask sends a question to the backend.
func (m Model) ask(text string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		items, err := session.Ask(ctx, text)
		return answerMsg{items: items, err: err}
	}
}

// introduce answers a suggested question locally.
func (m Model) introduce(q model.QuestionSuggest) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		items, _ := session.Introduction(ctx, q)
		return answerMsg{items: items}
	}
}

// requestFeedback fetches thumbs-down reasons for an answer.
func (m Model) requestFeedback(requestID string) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		options, err := session.Feedback(ctx, requestID)
		return feedbackMsg{requestID: requestID, options: options, err: err}
	}
}

// sendComment submits the chosen reason.
func (m Model) sendComment(requestID string, option model.FeedbackOption) tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return commentMsg{err: session.Comment(ctx, requestID, option)}
	}
}

// background gives commands a context when the model was built without one.
func background(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
