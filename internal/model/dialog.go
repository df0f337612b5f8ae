package model

import "time"

// MessageType distinguishes the two sides of the conversation.
type MessageType string

// Message senders.
const (
	MessageUser   MessageType = "user"
	MessageSystem MessageType = "system"
)

// QuestionSuggest is a suggested question and the reply shown when it is picked.
type QuestionSuggest struct {
	QuestionContent string `json:"questionContent" yaml:"questionContent"`
	QuestionText    string `json:"questionText"    yaml:"questionText"`
}

// FeedbackOption is one reason a user can give for a thumbs-down.
type FeedbackOption struct {
	OptionID      string `json:"optionId"`
	OptionContent string `json:"optionCentent"`
}

// DialogItem is one bubble in the conversation thread.
type DialogItem struct {
	CreatedAt          time.Time
	Consumption        *ConsumptionRecord
	ID                 string
	Text               string
	QuestionID         string
	RequestID          string
	Deeplink           string
	QuestionTitle      string
	Type               MessageType
	ModuleType         ModuleType
	RecommendQuestions []QuestionSuggest
	FeedbackOptions    []FeedbackOption
	IsIntroduction     bool
	ShowGoToAction     bool
	WithFeedback       bool
}

// HasCard reports whether the item renders a consumption card.
func (d DialogItem) HasCard() bool {
	return d.Consumption != nil
}
