package api

import (
	"encoding/json"
	"net/http"
	"net/url"

	"foxx-popup-service/internal/application"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PublicHandler serves the unauthenticated surface the deployed popup
// runtime talks to.
type PublicHandler struct {
	popupService      *application.PopupService
	subscriberService *application.SubscriberService
	appURL            string
	logger            zerolog.Logger
}

// NewPublicHandler creates the public gateway handler
func NewPublicHandler(
	popupService *application.PopupService,
	subscriberService *application.SubscriberService,
	appURL string,
	logger zerolog.Logger,
) *PublicHandler {
	return &PublicHandler{
		popupService:      popupService,
		subscriberService: subscriberService,
		appURL:            appURL,
		logger:            logger,
	}
}

// HandleRuntimeScript serves the popup runtime. Short cache lifetime so a
// redeployed runtime propagates within seconds.
func (h *PublicHandler) HandleRuntimeScript(w http.ResponseWriter, r *http.Request) {
	baseURL := ResolveBaseURL(r, h.appURL)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=15")
	w.Write([]byte(application.RuntimeScript(baseURL)))
}

// HandlePopupConfig serves the sanitized public configuration with CORS
// echoed to the validated origin.
func (h *PublicHandler) HandlePopupConfig(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = r.Header.Get("Referer")
	}

	config, err := h.popupService.GetPublicConfig(r.Context(), storeID, origin)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if allowOrigin := corsOrigin(origin); allowOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Vary", "Origin")
	}
	writeJSON(w, http.StatusOK, config)
}

// corsOrigin reduces the validated Origin or Referer value to the origin
// form suitable for Access-Control-Allow-Origin. A Referer carries a path,
// which must not be echoed.
func corsOrigin(validated string) string {
	if validated == "" {
		return ""
	}
	u, err := url.Parse(validated)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// HandleSubscribe captures a new subscription from the popup.
func (h *PublicHandler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	var input application.SubscribeInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.subscriberService.Subscribe(r.Context(), storeID, &input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":             true,
		"discount_code":       result.DiscountCode,
		"discount_percentage": result.DiscountPercentage,
	})
}

// HandleUnsubscribe deactivates a subscription.
func (h *PublicHandler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")

	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil || input.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.subscriberService.Unsubscribe(r.Context(), storeID, input.Email); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleCheckSubscription is the runtime's suppression lookup; it always
// answers 200 and reads false on any internal failure.
func (h *PublicHandler) HandleCheckSubscription(w http.ResponseWriter, r *http.Request) {
	storeID := chi.URLParam(r, "storeID")
	email := chi.URLParam(r, "email")

	isSubscribed := h.subscriberService.IsSubscribed(r.Context(), storeID, email)
	writeJSON(w, http.StatusOK, map[string]bool{"isSubscribed": isSubscribed})
}
