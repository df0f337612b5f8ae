package tui

import "github.com/Veraticus/card-insights/internal/model"

// startedMsg reports the outcome of opening the backend session.
type startedMsg struct {
	err error
}

// answerMsg carries what a question added to the thread.
type answerMsg struct {
	err   error
	items []model.DialogItem
}

// feedbackMsg carries the thumbs-down reasons for an answer.
type feedbackMsg struct {
	err       error
	requestID string
	options   []model.FeedbackOption
}

// commentMsg reports whether a feedback reason was accepted.
type commentMsg struct {
	err error
}
