package reqctx

import (
	"context"
	"time"
)

// RequestMeta carries per-request provenance captured at the edge.
// ClientIP and UserAgent are written once onto every submission record.
type RequestMeta struct {
	RequestID   string
	ClientIP    string
	UserAgent   string
	RequestedAt time.Time
}

type ctxKey int

const metaKey ctxKey = iota

// WithRequestMeta attaches request metadata to the context.
func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

// RequestMetaFromContext retrieves request metadata from context.
func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(metaKey).(*RequestMeta)
	return meta, ok && meta != nil
}

// RequestIDFromContext retrieves the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) string {
	if meta, ok := RequestMetaFromContext(ctx); ok {
		return meta.RequestID
	}
	return ""
}
