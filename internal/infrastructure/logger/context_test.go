package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestContextLogger(t *testing.T) {
	t.Run("missing logger yields nop", func(t *testing.T) {
		l := FromContext(context.Background())
		assert.NotNil(t, l)
	})

	t.Run("round trip through context", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		l := zap.New(core)

		ctx := WithContext(context.Background(), l)
		FromContext(ctx).Info("hello")
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("request id enrichment", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-1")

		assert.Equal(t, "req-1", GetRequestID(ctx))
		enriched.Info("tagged")
		entry := logs.All()[0]
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	})

	t.Run("run id enrichment", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		ctx, enriched := WithRunID(context.Background(), zap.New(core), "run-42")

		assert.Equal(t, "run-42", GetRunID(ctx))
		enriched.Info("tagged")
		assert.Equal(t, "run-42", logs.All()[0].ContextMap()["run_id"])
	})

	t.Run("absent ids are empty", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
		assert.Empty(t, GetRunID(context.Background()))
	})
}
