package middleware

import (
	"net/http"
	"strings"
	"time"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/rs/zerolog"
)

// publicPrefixes are routes the popup runtime and monitoring hit without
// credentials.
var publicPrefixes = []string{
	"/health",
	"/metrics",
	"/swagger/",
	"/js/",
	"/api/popup-config/",
	"/api/subscribe/",
	"/api/unsubscribe/",
}

func isPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if path == strings.TrimSuffix(prefix, "/") || strings.HasPrefix(path, prefix) {
			return true
		}
	}
	// check-subscription lives under /api/stores/ but is called by the
	// unauthenticated runtime
	return strings.Contains(path, "/check-subscription/")
}

// AuthMiddleware creates the admin gate: it resolves X-API-Key or a
// session bearer token to a store and annotates the request context with
// the caller's store id and permissions. Public routes pass through.
func AuthMiddleware(storeRepo ports.StoreRepository, sessionRepo ports.SessionRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()

			if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
				store, err := storeRepo.GetStoreByAPIKey(ctx, apiKey)
				if err != nil {
					logger.Error().Err(err).Msg("API key lookup failed")
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				if store == nil {
					http.Error(w, "Invalid API key", http.StatusUnauthorized)
					return
				}
				ctx = domain.WithStoreID(ctx, store.ID)
				ctx = domain.WithPermissions(ctx, []string{domain.PermManageStore})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token := strings.TrimPrefix(auth, "Bearer ")
				session, err := sessionRepo.GetSessionByToken(ctx, token)
				if err != nil {
					logger.Error().Err(err).Msg("Session lookup failed")
					http.Error(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				if session == nil || session.Expired(time.Now()) {
					http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
					return
				}
				ctx = domain.WithStoreID(ctx, session.StoreID)
				ctx = domain.WithPermissions(ctx, []string{domain.PermManageStore})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			http.Error(w, "X-API-Key or Authorization header is required", http.StatusUnauthorized)
		})
	}
}
