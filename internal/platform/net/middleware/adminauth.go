package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	perr "scribe/internal/platform/errors"
	pnet "scribe/internal/platform/net"
)

// HeaderAdminPassword guards the key management surface
const HeaderAdminPassword = "X-Admin-Password"

// AdminPassword gates requests behind a shared admin secret
// an empty secret means the surface is not configured and every request is refused
func AdminPassword(secret string, write func(w http.ResponseWriter, status int, body any)) func(http.Handler) http.Handler {
	secret = strings.TrimSpace(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			deny := func(err error) {
				status, body := pnet.Error(err, pnet.RequestID(r.Context()))
				write(w, status, body)
			}
			if secret == "" {
				deny(perr.Unavailablef("admin functionality not configured"))
				return
			}
			got := strings.TrimSpace(r.Header.Get(HeaderAdminPassword))
			if got == "" {
				deny(perr.Unauthorizedf("missing admin password"))
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				deny(perr.Forbiddenf("invalid admin password"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
