// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const (
	keyAPIKeyID   ctxKey = "api_key_id"
	keyClientName ctxKey = "client_name"
)

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, apiKeyID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if apiKeyID != "" {
		ctx = context.WithValue(ctx, keyAPIKeyID, apiKeyID)
	}
	return ctx
}

// WithClient annotates context with the admitted client name
func WithClient(ctx context.Context, clientName string) context.Context {
	if clientName != "" {
		ctx = context.WithValue(ctx, keyClientName, clientName)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// APIKeyID returns the admitted api key id on the context if present
func APIKeyID(ctx context.Context) string {
	if v, ok := ctx.Value(keyAPIKeyID).(string); ok {
		return v
	}
	return ""
}

// ClientName returns the admitted client name on the context if present
func ClientName(ctx context.Context) string {
	if v, ok := ctx.Value(keyClientName).(string); ok {
		return v
	}
	return ""
}
