package api

import (
	"crypto/subtle"
	"net/http"
)

// WithAuth wraps next with API-key authentication. Mode "apikey" requires
// every request to carry the expected key in the configured header; any
// other mode passes requests through unchanged.
func WithAuth(mode, header, key string, next http.Handler) http.Handler {
	if mode != "apikey" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(header)
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			jsonErr(w, http.StatusUnauthorized, "invalid or missing API key")
			return
		}
		next.ServeHTTP(w, r)
	})
}
