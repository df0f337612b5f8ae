package chat_test

import (
	"context"
	"testing"

	"github.com/Veraticus/card-insights/internal/api"
	"github.com/Veraticus/card-insights/internal/chat"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/Veraticus/card-insights/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_PersistsToSQLite(t *testing.T) {
	store := testutil.SetupTestDB(t)
	ctx := context.Background()
	s := chat.NewSession(api.NewMockClient(0), chat.WithHistoryStore(store))

	_, err := s.Start(ctx, api.DeviceInfo{"ios", "17"}, api.DeviceInfo{"app", "1.0"})
	require.NoError(t, err)
	_, err = s.Ask(ctx, "spending by category")
	require.NoError(t, err)

	history, err := store.GetDialogHistory(ctx, s.ID())
	require.NoError(t, err)
	live := s.Snapshot().Items
	require.Len(t, history, len(live))

	var card *model.DialogItem
	for i := range history {
		assert.Equal(t, live[i].ID, history[i].ID)
		assert.Equal(t, live[i].Text, history[i].Text)
		if history[i].HasCard() {
			card = &history[i]
		}
	}
	require.NotNil(t, card)
	assert.Equal(t, model.ModuleCategory, card.ModuleType)
	assert.True(t, card.Consumption.IsCategory)
	assert.NotEmpty(t, card.Consumption.Details)

	sessions, err := store.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, s.ID(), sessions[0].ID)
	assert.Equal(t, len(live), sessions[0].Items)
}
