package api

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/card-insights/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClient_Routes(t *testing.T) {
	tests := []struct {
		input    string
		module   model.ModuleType
		code     Code
		negative bool
	}{
		{input: "Show the negative pie", module: model.ModuleCategory, code: CodeSuccess, negative: true},
		{input: "one store this month", module: model.ModuleOneStoreChart, code: CodeSuccess},
		{input: "one line January", module: model.ModuleChart, code: CodeSuccess},
		{input: "no line please", module: model.ModuleDate, code: CodeSuccess},
		{input: "compare two stores", module: model.ModuleTwoStores, code: CodeSuccess},
		{input: "two lines", module: model.ModuleTwoStoresChart, code: CodeSuccess},
		{input: "spending by category", module: model.ModuleCategory, code: CodeSuccess},
		{input: "my HIGHEST purchase", module: model.ModuleHighest, code: CodeSuccess},
		{input: "amount over 1000", module: model.ModuleAmountCount, code: CodeSuccess},
		{input: "no data", module: model.ModuleNoData, code: CodeSuccess},
		{input: "three stores over the limit", code: CodeStoreLimit},
		{input: "each category over time", code: CodeMultipleCategories},
		{input: "system", code: CodeSystemError},
		{input: "business", code: CodeBusinessKeyword},
		{input: "sensitive", code: CodeSensitiveData},
		{input: "bad keyword", code: CodeKeyword},
		{input: "off topic", code: CodeTopicContent},
		{input: "limit", code: CodeTokenLimit},
		{input: "idle", code: CodeIdleTimeout},
		{input: "similarity", code: CodeLowSimilarity},
	}

	m := NewMockClient(0)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			resp, err := m.Chat(context.Background(), tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.code, resp.Code)
			assert.NotEmpty(t, resp.RequestID)
			assert.Equal(t, resp.RequestID, m.RequestID())
			if tt.module == "" {
				assert.Nil(t, resp.Module)
				assert.Equal(t, SystemResponse(tt.code), resp.Message)
				return
			}
			require.NotNil(t, resp.Module)
			assert.Equal(t, tt.module, resp.Module.Type)
			assert.NotEmpty(t, resp.Module.SystemResponse)
			assert.Equal(t, tt.negative, resp.Module.Data.HasNegativePie)
		})
	}
}

func TestMockClient_Echo(t *testing.T) {
	resp, err := NewMockClient(0).Chat(context.Background(), "hello there")
	require.NoError(t, err)

	assert.Equal(t, CodeSuccess, resp.Code)
	assert.Nil(t, resp.Module)
	assert.Contains(t, resp.Text(), "hello there")
}

func TestMockClient_DelayHonoursContext(t *testing.T) {
	m := NewMockClient(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := m.Chat(ctx, "highest")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestMockClient_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultMockDelay, NewMockClient(-1).delay)
	assert.Equal(t, 50*time.Millisecond, NewMockClient(50*time.Millisecond).delay)
}

func TestMockClient_SessionAndFeedback(t *testing.T) {
	m := NewMockClient(0)
	ctx := context.Background()

	session, err := m.Initialize(ctx, DeviceInfo{}, DeviceInfo{})
	require.NoError(t, err)
	assert.NotEmpty(t, session.SessionID)
	assert.NotEmpty(t, session.QuestionSuggest)

	fb, err := m.Feedback(ctx, "req")
	require.NoError(t, err)
	assert.NotEmpty(t, fb.FeedbackComment)

	cm, err := m.Comment(ctx, "req", fb.FeedbackComment[0].OptionID, fb.FeedbackComment[0].OptionContent)
	require.NoError(t, err)
	assert.Equal(t, CodeSuccess, cm.Code)
}

func TestSystemResponse(t *testing.T) {
	for _, code := range []Code{
		CodeSystemError, CodeBusinessKeyword, CodeSensitiveData, CodeKeyword, CodeTopicContent,
		CodeTokenLimit, CodeIdleTimeout, CodeStoreLimit, CodeMultipleCategories, CodeLowSimilarity,
	} {
		assert.NotEmpty(t, SystemResponse(code), code)
		assert.True(t, code.Known())
		assert.False(t, code.IsSuccess())
	}

	assert.Empty(t, SystemResponse(CodeSuccess))
	assert.Empty(t, SystemResponse("999"))
	assert.True(t, CodeSuccess.IsSuccess())
	assert.True(t, Code("").IsSuccess())
	assert.False(t, Code("999").Known())
}
