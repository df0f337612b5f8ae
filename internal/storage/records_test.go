package storage

import (
	"context"
	"testing"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/fixtures"
	"github.com/Veraticus/card-insights/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveRecord_RoundTripsFixtures(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	keys, err := fixtures.Keys()
	require.NoError(t, err)

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			moduleType := model.ModuleType(key)
			if key == fixtures.NegativePie {
				moduleType = model.ModuleCategory
			}
			fx, err := fixtures.Get(key)
			require.NoError(t, err)
			want := fx.Record
			if len(want.Details) == 0 {
				want.Details = nil
			}

			id, err := store.SaveRecord(ctx, "", moduleType, want)
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			got, err := store.GetRecord(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, id, got.ID)
			assert.Equal(t, moduleType, got.ModuleType)
			assert.False(t, got.CreatedAt.IsZero())
			assert.Equal(t, want, got.Record)
		})
	}
}

func TestSaveRecord_ReplacesExisting(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	first := model.ConsumptionRecord{
		Period: "2025/01",
		Times:  2,
		Amount: 300,
		Details: []model.DetailRecord{
			{Date: "2025/01/02", Store: "A", Amount: 100},
			{Date: "2025/01/03", Store: "B", Amount: 200},
		},
	}
	id, err := store.SaveRecord(ctx, "rec-1", model.ModuleDate, first)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", id)

	second := model.ConsumptionRecord{
		Period:  "2025/02",
		Times:   1,
		Amount:  50,
		Details: []model.DetailRecord{{Date: "2025/02/01", Store: "C", Amount: 50}},
	}
	_, err = store.SaveRecord(ctx, "rec-1", model.ModuleChart, second)
	require.NoError(t, err)

	got, err := store.GetRecord(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, model.ModuleChart, got.ModuleType)
	assert.Equal(t, second, got.Record)

	list, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].Details)
	assert.Equal(t, int64(50), list[0].Amount)
}

func TestSaveRecord_Validation(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name       string
		moduleType model.ModuleType
		wantErr    error
	}{
		{name: "unknown module", moduleType: "pie", wantErr: ErrInvalidModuleType},
		{name: "empty module", moduleType: "", wantErr: ErrInvalidModuleType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.SaveRecord(ctx, "", tt.moduleType, model.ConsumptionRecord{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	store := createTestStorage(t)

	_, err := store.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.GetRecord(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestListRecords(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	list, err := store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.SaveRecord(ctx, id, model.ModuleNoData, model.ConsumptionRecord{NoData: true})
		require.NoError(t, err)
	}

	list, err = store.ListRecords(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	for _, rs := range list {
		assert.Equal(t, model.ModuleNoData, rs.ModuleType)
		assert.Zero(t, rs.Details)
	}
}
