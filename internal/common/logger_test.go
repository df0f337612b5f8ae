package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogHelpers(t *testing.T) {
	tests := []struct {
		name  string
		log   func(ctx context.Context)
		level string
		want  []string
	}{
		{
			name: "error",
			log: func(ctx context.Context) {
				LogError(ctx, errors.New("disk full"), "write failed", Fields{"count": 2})
			},
			level: "level=ERROR",
			want:  []string{`msg="write failed"`, `error="disk full"`, "count=2"},
		},
		{
			name: "warn",
			log: func(ctx context.Context) {
				LogWarn(ctx, ErrBackendUnavailable, "retrying", nil)
			},
			level: "level=WARN",
			want:  []string{"msg=retrying", "error="},
		},
		{
			name: "info",
			log: func(ctx context.Context) {
				LogInfo(ctx, "Processed file", Fields{"file": "bank.ofx"})
			},
			level: "level=INFO",
			want:  []string{`msg="Processed file"`, "file=bank.ofx"},
		},
		{
			name: "debug",
			log: func(ctx context.Context) {
				LogDebug(ctx, "Opened database", Fields{"path": "/tmp/x.db"})
			},
			level: "level=DEBUG",
			want:  []string{`msg="Opened database"`, "path=/tmp/x.db"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
			tt.log(WithLogger(context.Background(), logger))

			out := buf.String()
			assert.Contains(t, out, tt.level)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestLogHelpers_NilContextUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	var ctx context.Context
	LogInfo(ctx, "fallback", Fields{"k": "v"})

	assert.Contains(t, buf.String(), "msg=fallback")
	assert.Contains(t, buf.String(), "k=v")
}
