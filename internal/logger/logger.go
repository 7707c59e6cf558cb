package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// New builds the process logger.
// In Kubernetes and in the dev/prod environments records are JSON so the log
// shipper can parse them; everywhere else a text handler is used and errors
// are printed in red. Every record carries trace_id/span_id when the context
// holds a valid OTel span.
func New() *slog.Logger {
	return newLogger(os.Stdout, os.Getenv("ENV"))
}

// NewWithServiceContext returns New() with service, version and environment
// attached to every record.
func NewWithServiceContext(serviceName, version string) *slog.Logger {
	return New().With(
		slog.String("service", serviceName),
		slog.String("version", version),
		slog.String("environment", os.Getenv("ENV")),
	)
}

func newLogger(w io.Writer, env string) *slog.Logger {
	_, inK8s := os.LookupEnv("KUBERNETES_SERVICE_HOST")

	var handler slog.Handler
	if inK8s || env == "prod" || env == "dev" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	} else {
		handler = &errorColorHandler{next: slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})}
	}
	return slog.New(&spanHandler{next: handler})
}

// errorColorHandler paints ERROR messages red for local terminals.
type errorColorHandler struct {
	next slog.Handler
}

func (h *errorColorHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *errorColorHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level < slog.LevelError {
		return h.next.Handle(ctx, r)
	}

	colored := slog.NewRecord(r.Time, r.Level, fmt.Sprintf("\x1b[31m%s\x1b[0m", r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		colored.AddAttrs(a)
		return true
	})
	return h.next.Handle(ctx, colored)
}

func (h *errorColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &errorColorHandler{next: h.next.WithAttrs(attrs)}
}

func (h *errorColorHandler) WithGroup(name string) slog.Handler {
	return &errorColorHandler{next: h.next.WithGroup(name)}
}

// spanHandler copies the OTel span identifiers from ctx onto the record.
type spanHandler struct {
	next slog.Handler
}

func (h *spanHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *spanHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *spanHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanHandler{next: h.next.WithAttrs(attrs)}
}

func (h *spanHandler) WithGroup(name string) slog.Handler {
	return &spanHandler{next: h.next.WithGroup(name)}
}
