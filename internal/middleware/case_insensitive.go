package middleware

import (
	"net/http"
	"strings"
)

// CaseInsensitiveMiddleware lowercases the URL path so method names match
// regardless of how the mobile client spells them.
// Example: /api/method/mobile_app.api.Get_Stock_Entries reaches get_stock_entries
func CaseInsensitiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.ToLower(r.URL.Path)
		if r.URL.RawPath != "" {
			r.URL.RawPath = strings.ToLower(r.URL.RawPath)
		}
		next.ServeHTTP(w, r)
	})
}
