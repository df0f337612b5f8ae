package api

import (
	"context"

	"github.com/Veraticus/card-insights/internal/model"
)

// DeviceInfo is a (name, detail) pair sent as "name,detail".
type DeviceInfo [2]string

func (d DeviceInfo) String() string {
	return d[0] + "," + d[1]
}

// ProfileResponse identifies the customer behind a login code.
type ProfileResponse struct {
	CustomerID string `json:"customerId"`
}

// URLObject is a link shown on the welcome screen.
type URLObject struct {
	URLText    string `json:"urlText"`
	URLLink    string `json:"urlLink,omitempty"`
	URLContent string `json:"urlContent,omitempty"`
}

// InitializeResponse opens a chat session.
type InitializeResponse struct {
	SessionID          string                  `json:"sessionId"`
	ReturnCode         string                  `json:"returnCode"`
	ReturnDesc         string                  `json:"returnDesc"`
	GreetContent       string                  `json:"greetContent"`
	HeaderDescription  string                  `json:"headerDescription"`
	URLObject          []URLObject             `json:"urlObject,omitempty"`
	QuestionSuggest    []model.QuestionSuggest `json:"questionSuggest,omitempty"`
	RequestLimitAmount int                     `json:"requestLimitAmount"`
	UsedAmount         int                     `json:"usedAmount"`
}

// ResponseMessage is the generated answer of a chat turn.
type ResponseMessage struct {
	GenText         string                  `json:"genText"`
	ErrorMessage    string                  `json:"errorMessage,omitempty"`
	Deeplink        string                  `json:"deeplink,omitempty"`
	Tid             string                  `json:"tid,omitempty"`
	QuestionSuggest []model.QuestionSuggest `json:"questionSuggest,omitempty"`
	SimilarQuestion []model.QuestionSuggest `json:"similarQuestion,omitempty"`
}

// ConsumptionModule is a card attached to a chat answer.
type ConsumptionModule struct {
	Type           model.ModuleType        `json:"type"`
	SystemResponse string                  `json:"systemResponse"`
	Data           model.ConsumptionRecord `json:"data"`
}

// ChatResponse is the answer to one question.
type ChatResponse struct {
	Module             *ConsumptionModule `json:"consumptionModule,omitempty"`
	ResponseMessage    *ResponseMessage   `json:"responseMessageObject,omitempty"`
	Code               Code               `json:"code"`
	Message            string             `json:"message"`
	RequestID          string             `json:"requestId,omitempty"`
	PurchaseSummary    string             `json:"purchaseSummary,omitempty"`
	RequestLimitAmount int                `json:"requestLimitAmount,omitempty"`
	UsedAmount         int                `json:"usedAmount,omitempty"`
}

// Text returns the plain answer text of a successful response.
func (r *ChatResponse) Text() string {
	switch {
	case r.Module != nil && r.Module.SystemResponse != "":
		return r.Module.SystemResponse
	case r.ResponseMessage != nil && r.ResponseMessage.GenText != "":
		return r.ResponseMessage.GenText
	default:
		return r.Message
	}
}

// FeedbackResponse lists the reasons a user can give for a thumbs-down.
type FeedbackResponse struct {
	Code            Code                   `json:"code"`
	Message         string                 `json:"message"`
	FeedbackComment []model.FeedbackOption `json:"feedbackComment,omitempty"`
}

// CommentResponse acknowledges a feedback comment.
type CommentResponse struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// Chatter is a chat backend.
type Chatter interface {
	Initialize(ctx context.Context, device, version DeviceInfo) (*InitializeResponse, error)
	Chat(ctx context.Context, input string) (*ChatResponse, error)
	Feedback(ctx context.Context, requestID string) (*FeedbackResponse, error)
	Comment(ctx context.Context, requestID, optionID, content string) (*CommentResponse, error)
}
