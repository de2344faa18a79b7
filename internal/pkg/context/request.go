// Package context carries per-request values shared by the transport
// layer and the logger.
package context

import "context"

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyClientIP
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// GetRequestID returns "" when ctx has no request id.
func GetRequestID(ctx context.Context) string { return stringValue(ctx, keyRequestID) }

func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, keyClientIP, ip)
}

func GetClientIP(ctx context.Context) string { return stringValue(ctx, keyClientIP) }

func stringValue(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(key).(string)
	return s
}
