// Package chat holds the conversation state and drives it against a backend.
package chat

import (
	"time"

	"github.com/Veraticus/card-insights/internal/api"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/google/uuid"
)

// FrontendErrorMessage is shown when the client itself fails to start.
const FrontendErrorMessage = "The assistant failed to load. Please try again later."

// Dialog is the state of one conversation thread.
// It is not safe for concurrent use; Session serializes access.
type Dialog struct {
	now             func() time.Time
	input           string
	lastQuestionID  string
	history         []model.DialogItem
	loading         bool
	idleTimeout     bool
	frontendError   bool
	showConsumption bool
}

// NewDialog returns an empty conversation.
func NewDialog() *Dialog {
	return &Dialog{now: time.Now}
}

// History returns a copy of the thread.
func (d *Dialog) History() []model.DialogItem {
	out := make([]model.DialogItem, len(d.history))
	copy(out, d.history)
	return out
}

// Len returns the number of items in the thread.
func (d *Dialog) Len() int {
	return len(d.history)
}

// Input returns the pending input text.
func (d *Dialog) Input() string {
	return d.input
}

// SetInput replaces the pending input text.
func (d *Dialog) SetInput(text string) {
	d.input = text
}

// Loading reports whether an answer is pending.
func (d *Dialog) Loading() bool {
	return d.loading
}

// StartLoading marks an answer as pending.
func (d *Dialog) StartLoading() {
	d.loading = true
}

// StopLoading clears the pending flag.
func (d *Dialog) StopLoading() {
	d.loading = false
}

// IdleTimedOut reports whether the backend signed the user out.
func (d *Dialog) IdleTimedOut() bool {
	return d.idleTimeout
}

// FrontendErrorVisible reports whether the load-failure screen is up.
func (d *Dialog) FrontendErrorVisible() bool {
	return d.frontendError
}

// ConsumptionDetailsVisible reports the global details toggle.
func (d *Dialog) ConsumptionDetailsVisible() bool {
	return d.showConsumption
}

// ToggleConsumptionDetails flips the global details toggle.
func (d *Dialog) ToggleConsumptionDetails() {
	d.showConsumption = !d.showConsumption
}

// AddUserMessage appends a question. An empty questionID gets a generated one.
// Asking again clears the idle timeout.
func (d *Dialog) AddUserMessage(text, questionID string) model.DialogItem {
	d.idleTimeout = false
	if questionID == "" {
		questionID = "q_" + uuid.NewString()
	}
	d.lastQuestionID = questionID
	return d.append(model.DialogItem{
		Type:       model.MessageUser,
		Text:       text,
		QuestionID: questionID,
	})
}

// AddSystemMessage appends a plain answer.
func (d *Dialog) AddSystemMessage(text string) model.DialogItem {
	return d.append(model.DialogItem{
		Type:       model.MessageSystem,
		Text:       text,
		QuestionID: d.lastQuestionID,
	})
}

// ApplyResponse folds a backend answer into the thread and returns the items it added.
func (d *Dialog) ApplyResponse(resp *api.ChatResponse) []model.DialogItem {
	switch {
	case resp.Code.IsSuccess():
		return []model.DialogItem{d.append(d.successItem(resp))}

	case resp.Code == api.CodeTokenLimit:
		d.history = nil
		return []model.DialogItem{d.append(model.DialogItem{
			Type:           model.MessageSystem,
			Text:           errorText(resp),
			RequestID:      resp.RequestID,
			ShowGoToAction: true,
		})}

	case resp.Code == api.CodeIdleTimeout:
		d.history = nil
		d.idleTimeout = true
		d.input = ""
		return []model.DialogItem{d.append(model.DialogItem{
			Type: model.MessageSystem,
			Text: api.SystemResponse(api.CodeIdleTimeout),
		})}

	default:
		return []model.DialogItem{d.append(model.DialogItem{
			Type:       model.MessageSystem,
			Text:       errorText(resp),
			QuestionID: d.lastQuestionID,
			RequestID:  resp.RequestID,
		})}
	}
}

func (d *Dialog) successItem(resp *api.ChatResponse) model.DialogItem {
	item := model.DialogItem{
		Type:         model.MessageSystem,
		Text:         resp.Text(),
		QuestionID:   d.lastQuestionID,
		RequestID:    resp.RequestID,
		WithFeedback: resp.RequestID != "",
	}
	if resp.Module != nil {
		record := resp.Module.Data
		item.Consumption = &record
		item.ModuleType = resp.Module.Type
	}
	if msg := resp.ResponseMessage; msg != nil {
		item.Deeplink = msg.Deeplink
		switch {
		case len(msg.QuestionSuggest) > 0:
			item.RecommendQuestions = msg.QuestionSuggest
		case len(msg.SimilarQuestion) > 0:
			item.RecommendQuestions = msg.SimilarQuestion
			item.QuestionTitle = "Did you mean"
		}
	}
	return item
}

func errorText(resp *api.ChatResponse) string {
	if resp.ResponseMessage != nil && resp.ResponseMessage.ErrorMessage != "" {
		return resp.ResponseMessage.ErrorMessage
	}
	if text := api.SystemResponse(resp.Code); text != "" {
		return text
	}
	if resp.Message != "" {
		return resp.Message
	}
	return api.SystemResponse(api.CodeSystemError)
}

// ShowFrontendError replaces the thread with the load-failure message.
func (d *Dialog) ShowFrontendError() model.DialogItem {
	d.history = nil
	d.frontendError = true
	d.input = ""
	return d.append(model.DialogItem{
		Type: model.MessageSystem,
		Text: FrontendErrorMessage,
	})
}

// Reset starts over: the thread, the input, the details toggle and both
// error screens are cleared.
func (d *Dialog) Reset() {
	d.history = nil
	d.frontendError = false
	d.idleTimeout = false
	d.input = ""
	d.showConsumption = false
	d.lastQuestionID = ""
}

// Introduction appends the question and answer of an introduction suggestion.
// Nothing is added unless both texts are present.
func (d *Dialog) Introduction(q model.QuestionSuggest) ([]model.DialogItem, bool) {
	if q.QuestionContent == "" || q.QuestionText == "" {
		return nil, false
	}
	questionID := "q_" + uuid.NewString()
	user := d.append(model.DialogItem{
		Type:           model.MessageUser,
		Text:           q.QuestionContent,
		QuestionID:     questionID,
		IsIntroduction: true,
	})
	system := d.append(model.DialogItem{
		Type:           model.MessageSystem,
		Text:           q.QuestionText,
		QuestionID:     questionID,
		IsIntroduction: true,
	})
	return []model.DialogItem{user, system}, true
}

// SetFeedbackOptions attaches thumbs-down reasons to the item answering requestID.
func (d *Dialog) SetFeedbackOptions(requestID string, options []model.FeedbackOption) bool {
	for i := len(d.history) - 1; i >= 0; i-- {
		if d.history[i].RequestID == requestID {
			d.history[i].FeedbackOptions = options
			return true
		}
	}
	return false
}

func (d *Dialog) append(item model.DialogItem) model.DialogItem {
	item.ID = uuid.NewString()
	item.CreatedAt = d.now()
	d.history = append(d.history, item)
	return item
}
