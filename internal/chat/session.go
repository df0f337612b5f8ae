package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Veraticus/card-insights/internal/api"
	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/google/uuid"
)

// ErrEmptyQuestion is returned when Ask is given only whitespace.
var ErrEmptyQuestion = errors.New("question is empty")

// ErrBackendRejected is returned by Ask when the backend failed in a way that
// asking again will not fix. The thread still gets a system error message.
var ErrBackendRejected = errors.New("chat backend rejected the question")

// HistoryStore persists conversation items.
type HistoryStore interface {
	AppendDialogItems(ctx context.Context, sessionID string, items []model.DialogItem) error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHistoryStore persists every item the session adds.
func WithHistoryStore(store HistoryStore) SessionOption {
	return func(s *Session) {
		s.store = store
	}
}

// WithSessionID fixes the local session ID instead of generating one.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// Session couples a Dialog with the backend that answers it.
type Session struct {
	backend     api.Chatter
	store       HistoryStore
	dialog      *Dialog
	id          string
	suggestions []model.QuestionSuggest
	mu          sync.Mutex
}

// NewSession creates a session against backend.
func NewSession(backend api.Chatter, opts ...SessionOption) *Session {
	s := &Session{
		backend: backend,
		dialog:  NewDialog(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	return s
}

// ID returns the session ID used for persistence.
func (s *Session) ID() string {
	return s.id
}

// Dialog returns the underlying conversation.
// Callers must not use it while an Ask is in flight.
func (s *Session) Dialog() *Dialog {
	return s.dialog
}

// Suggestions returns the introduction questions offered by the backend.
func (s *Session) Suggestions() []model.QuestionSuggest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestions
}

// Snapshot is a consistent view of the conversation for rendering.
type Snapshot struct {
	Items         []model.DialogItem
	Loading       bool
	IdleTimedOut  bool
	FrontendError bool
}

// Snapshot copies the thread and its flags. It is safe to call while Ask runs.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Items:         s.dialog.History(),
		Loading:       s.dialog.Loading(),
		IdleTimedOut:  s.dialog.IdleTimedOut(),
		FrontendError: s.dialog.FrontendErrorVisible(),
	}
}

// Start opens the backend session and posts its greeting.
// A backend failure puts the dialog on the load-failure screen.
func (s *Session) Start(ctx context.Context, device, version api.DeviceInfo) ([]model.DialogItem, error) {
	resp, err := s.backend.Initialize(ctx, device, version)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		item := s.dialog.ShowFrontendError()
		s.persist(ctx, []model.DialogItem{item})
		return []model.DialogItem{item}, fmt.Errorf("failed to start chat session: %w", err)
	}

	s.suggestions = resp.QuestionSuggest
	if resp.GreetContent == "" {
		return nil, nil
	}
	items := []model.DialogItem{s.dialog.AddSystemMessage(resp.GreetContent)}
	s.persist(ctx, items)
	return items, nil
}

// Ask sends one question and returns every item it added to the thread.
func (s *Session) Ask(ctx context.Context, text string) ([]model.DialogItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuestion
	}

	s.mu.Lock()
	question := s.dialog.AddUserMessage(text, "")
	s.dialog.SetInput("")
	s.dialog.StartLoading()
	s.mu.Unlock()

	resp, err := s.backend.Chat(ctx, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog.StopLoading()

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.persist(context.WithoutCancel(ctx), []model.DialogItem{question})
			return []model.DialogItem{question}, ctxErr
		}
		resp = &api.ChatResponse{Code: api.CodeSystemError}
		fields := common.Fields{"session_id": s.id}
		if !common.IsTransient(err) {
			common.LogError(ctx, err, "chat backend rejected question", fields)
			added := append([]model.DialogItem{question}, s.dialog.ApplyResponse(resp)...)
			s.persist(ctx, added)
			return added, fmt.Errorf("%w: %w", ErrBackendRejected, err)
		}
		common.LogWarn(ctx, err, "chat backend unavailable", fields)
	}

	added := append([]model.DialogItem{question}, s.dialog.ApplyResponse(resp)...)
	s.persist(ctx, added)
	return added, nil
}

// Introduction posts the canned answer of a suggested question.
func (s *Session) Introduction(ctx context.Context, q model.QuestionSuggest) ([]model.DialogItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, ok := s.dialog.Introduction(q)
	if ok {
		s.persist(ctx, items)
	}
	return items, ok
}

// Feedback reports an unhelpful answer and attaches the follow-up options to it.
func (s *Session) Feedback(ctx context.Context, requestID string) ([]model.FeedbackOption, error) {
	resp, err := s.backend.Feedback(ctx, requestID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.dialog.SetFeedbackOptions(requestID, resp.FeedbackComment)
	s.mu.Unlock()
	return resp.FeedbackComment, nil
}

// Comment sends the reason picked for an unhelpful answer.
func (s *Session) Comment(ctx context.Context, requestID string, option model.FeedbackOption) error {
	resp, err := s.backend.Comment(ctx, requestID, option.OptionID, option.OptionContent)
	if err != nil {
		return err
	}
	if !resp.Code.IsSuccess() {
		return fmt.Errorf("comment rejected with code %s", resp.Code)
	}
	return nil
}

// Reset clears the conversation. Persisted history is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog.Reset()
}

func (s *Session) persist(ctx context.Context, items []model.DialogItem) {
	if s.store == nil || len(items) == 0 {
		return
	}
	if err := s.store.AppendDialogItems(ctx, s.id, items); err != nil {
		common.LogError(ctx, err, "failed to persist dialog items", common.Fields{
			"session_id": s.id,
			"count":      len(items),
		})
	}
}
