package api

import (
	"net/http"
	"strings"
)

// ResolveBaseURL computes the public base URL for a request, honoring
// reverse-proxy forwarding headers. Every component takes baseUrl as an
// explicit parameter; this is the single place it is derived.
func ResolveBaseURL(r *http.Request, fallback string) string {
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	if host == "" {
		return strings.TrimSuffix(fallback, "/")
	}

	proto := r.Header.Get("X-Forwarded-Proto")
	if proto == "" {
		if r.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}

	return proto + "://" + host
}
