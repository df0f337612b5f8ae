package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/card-insights/internal/fixtures"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/google/uuid"
)

// DefaultMockDelay is how long the mock backend takes to answer.
const DefaultMockDelay = 3 * time.Second

type mockRoute struct {
	fixture  string
	module   model.ModuleType
	code     Code
	keywords []string
}

func (r mockRoute) matches(input string) bool {
	for _, kw := range r.keywords {
		if !strings.Contains(input, kw) {
			return false
		}
	}
	return true
}

// Routes are tried in order. The two-keyword limit errors come first so that
// a question like "two stores over" is not answered with a card.
var mockRoutes = []mockRoute{
	{keywords: []string{"store", "over"}, code: CodeStoreLimit},
	{keywords: []string{"category", "over"}, code: CodeMultipleCategories},

	{keywords: []string{"negative pie"}, module: model.ModuleCategory, fixture: fixtures.NegativePie},
	{keywords: []string{"one store"}, module: model.ModuleOneStoreChart},
	{keywords: []string{"one line"}, module: model.ModuleChart},
	{keywords: []string{"no line"}, module: model.ModuleDate},
	{keywords: []string{"two stores"}, module: model.ModuleTwoStores},
	{keywords: []string{"two lines"}, module: model.ModuleTwoStoresChart},
	{keywords: []string{"category"}, module: model.ModuleCategory},
	{keywords: []string{"highest"}, module: model.ModuleHighest},
	{keywords: []string{"amount over"}, module: model.ModuleAmountCount},
	{keywords: []string{"no data"}, module: model.ModuleNoData},

	{keywords: []string{"system"}, code: CodeSystemError},
	{keywords: []string{"business"}, code: CodeBusinessKeyword},
	{keywords: []string{"sensitive"}, code: CodeSensitiveData},
	{keywords: []string{"keyword"}, code: CodeKeyword},
	{keywords: []string{"topic"}, code: CodeTopicContent},
	{keywords: []string{"limit"}, code: CodeTokenLimit},
	{keywords: []string{"idle"}, code: CodeIdleTimeout},
	{keywords: []string{"similarity"}, code: CodeLowSimilarity},
}

// mockFeedbackOptions are offered after a thumbs-down.
var mockFeedbackOptions = []model.FeedbackOption{
	{OptionID: "1", OptionContent: "The answer was wrong"},
	{OptionID: "2", OptionContent: "The answer did not match my question"},
	{OptionID: "3", OptionContent: "The answer was hard to understand"},
	{OptionID: "4", OptionContent: "Other"},
}

var mockSuggestions = []model.QuestionSuggest{
	{QuestionContent: "What did I spend last month?", QuestionText: "Ask about a period, for example \"one line January\"."},
	{QuestionContent: "Where did I spend the most?", QuestionText: "Ask for your highest spend, for example \"highest this month\"."},
	{QuestionContent: "How is my spending split?", QuestionText: "Ask for a category breakdown, for example \"category January\"."},
}

// MockClient answers questions offline by keyword.
type MockClient struct {
	delay time.Duration

	mu        sync.Mutex
	sessionID string
	requestID string
}

// NewMockClient creates a mock backend that waits delay before each answer.
// A negative delay selects DefaultMockDelay.
func NewMockClient(delay time.Duration) *MockClient {
	if delay < 0 {
		delay = DefaultMockDelay
	}
	return &MockClient{delay: delay}
}

// Initialize opens a fake session.
func (m *MockClient) Initialize(ctx context.Context, _, _ DeviceInfo) (*InitializeResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessionID = uuid.NewString()
	sessionID := m.sessionID
	m.mu.Unlock()

	return &InitializeResponse{
		SessionID:          sessionID,
		ReturnCode:         string(CodeSuccess),
		GreetContent:       "Hi! Ask me anything about your card spending.",
		HeaderDescription:  "Answers cover the last 12 months of billed purchases.",
		QuestionSuggest:    mockSuggestions,
		RequestLimitAmount: 50,
	}, nil
}

// Chat routes input to a canned answer after the configured delay.
func (m *MockClient) Chat(ctx context.Context, input string) (*ChatResponse, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	m.mu.Lock()
	m.requestID = requestID
	m.mu.Unlock()

	resp, err := m.answer(input)
	if err != nil {
		return nil, err
	}
	resp.RequestID = requestID
	slog.Debug("mock chat answered", "code", resp.Code, "has_module", resp.Module != nil)
	return resp, nil
}

// RequestID returns the request ID of the last answer.
func (m *MockClient) RequestID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestID
}

func (m *MockClient) answer(input string) (*ChatResponse, error) {
	lower := strings.ToLower(input)
	for _, route := range mockRoutes {
		if !route.matches(lower) {
			continue
		}
		if route.module == "" {
			return &ChatResponse{Code: route.code, Message: SystemResponse(route.code)}, nil
		}

		key := route.fixture
		if key == "" {
			key = string(route.module)
		}
		f, err := fixtures.Get(key)
		if err != nil {
			return nil, fmt.Errorf("mock fixture: %w", err)
		}
		return &ChatResponse{
			Code:    CodeSuccess,
			Message: defaultSuccessMessage,
			Module: &ConsumptionModule{
				Type:           route.module,
				Data:           f.Record,
				SystemResponse: f.Response,
			},
		}, nil
	}

	return &ChatResponse{
		Code:    CodeSuccess,
		Message: defaultSuccessMessage,
		ResponseMessage: &ResponseMessage{
			GenText: fmt.Sprintf("Your question %q was received.", input),
		},
	}, nil
}

// Feedback returns the fixed thumbs-down options.
func (m *MockClient) Feedback(ctx context.Context, _ string) (*FeedbackResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &FeedbackResponse{
		Code:            CodeSuccess,
		Message:         defaultSuccessMessage,
		FeedbackComment: mockFeedbackOptions,
	}, nil
}

// Comment accepts any comment.
func (m *MockClient) Comment(ctx context.Context, _, _, _ string) (*CommentResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &CommentResponse{Code: CodeSuccess, Message: defaultSuccessMessage}, nil
}

func (m *MockClient) wait(ctx context.Context) error {
	if m.delay == 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	_ Chatter = (*Client)(nil)
	_ Chatter = (*MockClient)(nil)
)
