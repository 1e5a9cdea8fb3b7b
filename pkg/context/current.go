package context

import "context"

// Current holds request-scoped facts gathered by the HTTP middleware.
type Current struct {
	RequestID string
	ClientIP  string
	UserAgent string
	Method    string
	Path      string
	UserID    int
}

type contextKey string

const currentKey contextKey = "current"

func WithCurrent(ctx context.Context, current *Current) context.Context {
	return context.WithValue(ctx, currentKey, current)
}

func FromContext(ctx context.Context) (*Current, bool) {
	current, ok := ctx.Value(currentKey).(*Current)
	return current, ok && current != nil
}

// GetCurrent never returns nil; an empty Current stands in outside a request.
func GetCurrent(ctx context.Context) *Current {
	if current, ok := FromContext(ctx); ok {
		return current
	}

	return &Current{}
}

func RequestID(ctx context.Context) string {
	return GetCurrent(ctx).RequestID
}
