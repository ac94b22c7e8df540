package middleware

import (
	"net/http"

	pnet "scribe/internal/platform/net"
)

// AuthPort is a tiny seam the keys service implements
type AuthPort interface {
	// Parse returns the admitted key id and client name from the request or an error
	Parse(r *http.Request) (keyID string, clientName string, err error)
}

// Auth admits requests through the port when provided, otherwise passes through
func Auth(p AuthPort, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				next.ServeHTTP(w, r)
				return
			}
			kid, client, err := p.Parse(r)
			if err != nil {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
				return
			}
			ctx := pnet.WithClient(r.Context(), client)
			ctx = pnet.WithRequest(ctx, pnet.RequestID(ctx), kid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
