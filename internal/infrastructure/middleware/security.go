package middleware

import "net/http"

// SecurityHeadersMiddleware sets baseline security headers on every
// response. The runtime script endpoint embeds on third-party pages, so
// no frame-ancestors restriction is applied there.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.URL.Path != "/js/foxx-popup.js" {
				w.Header().Set("X-Frame-Options", "DENY")
			}
			next.ServeHTTP(w, r)
		})
	}
}
