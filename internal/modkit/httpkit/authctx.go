package httpkit

import (
	"net/http"
	"strings"

	perrs "scribe/internal/platform/errors"
	pnet "scribe/internal/platform/net"
)

// KeyID returns the admitted api key id from the request context
func KeyID(r *http.Request) (string, error) {
	kid := pnet.APIKeyID(r.Context())
	if kid == "" {
		return "", perrs.Unauthorizedf("missing api key")
	}
	return kid, nil
}

// Client returns the admitted client name from the request context
func Client(r *http.Request) (string, error) {
	c := pnet.ClientName(r.Context())
	if c == "" {
		return "", perrs.Unauthorizedf("missing client identity")
	}
	return c, nil
}

// MustKeyID returns the admitted api key id or panics
func MustKeyID(r *http.Request) string {
	kid, err := KeyID(r)
	if err != nil {
		panic(err)
	}
	return kid
}

// MustClient returns the admitted client name or panics
func MustClient(r *http.Request) string {
	c, err := Client(r)
	if err != nil {
		panic(err)
	}
	return c
}

// RawKey returns the raw api key from the X-API-Key header
func RawKey(r *http.Request) (string, error) {
	raw := strings.TrimSpace(r.Header.Get(HeaderAPIKey))
	if raw == "" {
		return "", perrs.Unauthorizedf("missing api key")
	}
	return raw, nil
}

// MustRawKey returns the raw api key or panics
// only use on routes protected by the admission middleware
func MustRawKey(r *http.Request) string {
	raw, err := RawKey(r)
	if err != nil {
		panic(err)
	}
	return raw
}
