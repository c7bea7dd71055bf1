package spendapi

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const (
	// RequestIDKey is the context key for the request ID (uuid.UUID), echoed in the X-Request-ID header
	RequestIDKey contextKey = "RequestID"
	// RequestTimeKey is the context key for the time the request was received (time.Time)
	RequestTimeKey contextKey = "RequestTime"
)

// ContextWithRequestID returns a new request with a request ID in the context
func ContextWithRequestID(req *http.Request, requestId uuid.UUID) *http.Request {
	ctx := context.WithValue(req.Context(), RequestIDKey, requestId)
	return req.WithContext(ctx)
}

// RequestIDFromContext returns the request ID from the context if it exists
func RequestIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(RequestIDKey).(uuid.UUID)
	return id, ok
}

// ContextWithRequestTime returns a new request with the request time in the context
func ContextWithRequestTime(req *http.Request, requestTime time.Time) *http.Request {
	ctx := context.WithValue(req.Context(), RequestTimeKey, requestTime)
	return req.WithContext(ctx)
}

// RequestTimeFromContext returns the request time from the context if it exists
func RequestTimeFromContext(ctx context.Context) (time.Time, bool) {
	timestamp, ok := ctx.Value(RequestTimeKey).(time.Time)
	return timestamp, ok
}
