package faults

import "context"

type contextKey string

const (
	rowKey       contextKey = "row"
	requestIDKey contextKey = "request_id"
)

// WithRow annotates ctx with the dataset row being processed.
func WithRow(ctx context.Context, row int) context.Context {
	return context.WithValue(ctx, rowKey, row)
}

// RowFromContext extracts the dataset row index if present.
func RowFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(rowKey).(int); ok {
		return v, true
	}
	return 0, false
}

// WithRequestID annotates ctx with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
