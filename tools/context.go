package tools

import "context"

type traceKey struct{}

// WithTrace attaches a trace ID to the context. The dispatcher sets it
// before invoking a tool so tools can tag their own logging.
func WithTrace(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceKey{}, traceID)
}

// TraceFromContext returns the trace ID attached by the dispatcher, if any.
func TraceFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceKey{}).(string)
	return traceID
}
