// Package httpkit provides tiny HTTP helpers and adapters
package httpkit

import (
	"context"
	"net/http"
	"strings"

	perrs "scribe/internal/platform/errors"
)

// HeaderAPIKey is the request header carrying the client api key
const HeaderAPIKey = "X-API-Key"

// KeyFunc admits a raw api key and returns the key id and client name
// httpkit does not care how admission works, callers usually hit storage
type KeyFunc func(ctx context.Context, rawKey string) (keyID string, clientName string, err error)

// Port implements middleware.AuthPort by reading X-API-Key and delegating to a KeyFunc
type Port struct {
	admit KeyFunc
}

// NewPortFunc builds a Port from a simple admission function
func NewPortFunc(fn KeyFunc) *Port {
	return &Port{admit: fn}
}

// Parse extracts the api key from the X-API-Key header and admits it
// returns unauthorized when the header is missing or the admitter rejects it
func (p *Port) Parse(r *http.Request) (string, string, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
	if raw == "" {
		return "", "", perrs.Unauthorizedf("missing api key")
	}

	if p.admit == nil {
		return "", "", perrs.Unauthorizedf("invalid api key")
	}

	kid, client, err := p.admit(r.Context(), raw)
	if err != nil {
		return "", "", err
	}
	return kid, client, nil
}
