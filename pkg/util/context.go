package util

import (
	"context"
)

type key string

const (
	requestIDKey = key("x-request-id")
	clientIPKey  = key("x-forwarded-for")
)

// WithRequestID returns a context with a request id.
// It generates a new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generate()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from context.
// Returns an empty string if not present.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithClientIP returns a context with a client ip.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client ip from context.
// Returns an empty string if not present.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey).(string)
	return ip
}
