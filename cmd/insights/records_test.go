package main

import (
	"testing"
	"time"

	"github.com/Veraticus/card-insights/internal/common"
	"github.com/Veraticus/card-insights/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty", input: ""},
		{name: "dashes", input: "2025-01-31", want: time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)},
		{name: "slashes", input: "2025/01/31", want: time.Date(2025, 1, 31, 0, 0, 0, 0, time.Local)},
		{name: "garbage", input: "January", wantErr: true},
		{name: "bad day", input: "2025-02-30", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, common.UserMessage(err), tt.input)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestFilterFromFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		check   func(t *testing.T, f storage.TransactionFilter)
		wantErr error
	}{
		{
			name: "no flags",
			check: func(t *testing.T, f storage.TransactionFilter) {
				assert.True(t, f.From.IsZero())
				assert.True(t, f.To.IsZero())
				assert.Nil(t, f.MinAmount)
			},
		},
		{
			name: "all flags",
			args: []string{"--from", "2025-01-01", "--to", "2025-01-31", "--store", "star", "--category", "Dining", "--min-amount", "0"},
			check: func(t *testing.T, f storage.TransactionFilter) {
				assert.Equal(t, 2025, f.From.Year())
				assert.Equal(t, 31, f.To.Day())
				assert.Equal(t, "star", f.Store)
				assert.Equal(t, "Dining", f.Category)
				require.NotNil(t, f.MinAmount)
				assert.Zero(t, *f.MinAmount)
			},
		},
		{
			name:    "reversed range",
			args:    []string{"--from", "2025-02-01", "--to", "2025-01-01"},
			wantErr: storage.ErrInvalidDateRange,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := recordsCmd()
			require.NoError(t, cmd.ParseFlags(tt.args))

			filter, err := filterFromFlags(cmd)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, filter)
		})
	}
}
