package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestNewLogger(t *testing.T) {
	t.Run("JSON_AddsSpanIDs", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, "prod")

		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     spanID,
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		log.InfoContext(ctx, "signup accepted", "role", "Teacher")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "signup accepted", record["msg"])
		assert.Equal(t, "Teacher", record["role"])
		assert.Equal(t, traceID.String(), record["trace_id"])
		assert.Equal(t, spanID.String(), record["span_id"])
	})

	t.Run("Text_ColorsErrors", func(t *testing.T) {
		var buf bytes.Buffer
		log := newLogger(&buf, "local")

		log.Error("database unreachable")
		assert.Contains(t, buf.String(), "\x1b[31mdatabase unreachable\x1b[0m")

		buf.Reset()
		log.Info("listening")
		assert.NotContains(t, buf.String(), "\x1b[31m")
		assert.NotContains(t, buf.String(), "trace_id")
	})
}
