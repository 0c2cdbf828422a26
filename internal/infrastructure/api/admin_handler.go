package api

import (
	"encoding/json"
	"net/http"

	"foxx-popup-service/internal/application"
	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// AdminHandler serves the authenticated store-owner surface.
type AdminHandler struct {
	storeRepo         ports.StoreRepository
	scriptService     *application.ScriptService
	verifyService     *application.VerifyService
	popupService      *application.PopupService
	subscriberService *application.SubscriberService
	commerceService   *application.CommerceService
	appURL            string
	logger            zerolog.Logger
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(
	storeRepo ports.StoreRepository,
	scriptService *application.ScriptService,
	verifyService *application.VerifyService,
	popupService *application.PopupService,
	subscriberService *application.SubscriberService,
	commerceService *application.CommerceService,
	appURL string,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		storeRepo:         storeRepo,
		scriptService:     scriptService,
		verifyService:     verifyService,
		popupService:      popupService,
		subscriberService: subscriberService,
		commerceService:   commerceService,
		appURL:            appURL,
		logger:            logger,
	}
}

// authorizedStore loads the path store and checks the caller owns it.
func (h *AdminHandler) authorizedStore(w http.ResponseWriter, r *http.Request) *domain.Store {
	storeID := chi.URLParam(r, "storeID")
	if storeID == "" {
		writeError(w, http.StatusBadRequest, "storeID is required")
		return nil
	}

	callerStoreID := domain.GetStoreIDFromContext(r.Context())
	if callerStoreID == "" || callerStoreID != storeID {
		writeError(w, http.StatusForbidden, "not authorized for this store")
		return nil
	}

	store, err := h.storeRepo.GetStore(r.Context(), storeID)
	if err != nil {
		h.logger.Error().Err(err).Str("storeID", storeID).Msg("Store lookup failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
		return nil
	}
	if store == nil {
		writeError(w, http.StatusNotFound, "store not found")
		return nil
	}
	return store
}

// HandleIntegrationScript returns the snippet for the store, minting a
// new version only when ?regenerate=true or none is recorded.
func (h *AdminHandler) HandleIntegrationScript(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	forceRegenerate := r.URL.Query().Get("regenerate") == "true"
	baseURL := ResolveBaseURL(r, h.appURL)

	script, err := h.scriptService.Resolve(r.Context(), store, baseURL, forceRegenerate)
	if err != nil {
		h.logger.Error().Err(err).Str("storeID", store.ID).Msg("Failed to resolve integration script")
		writeError(w, http.StatusInternalServerError, "failed to generate integration script")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(script.SnippetHTML))
}

// HandleVerifyInstallation checks the store's target site for the
// currently active snippet. Always 200 with diagnostics, never a 5xx for
// unreachable storefronts.
func (h *AdminHandler) HandleVerifyInstallation(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	baseURL := ResolveBaseURL(r, h.appURL)
	result, err := h.verifyService.VerifyInstallation(r.Context(), store, baseURL)
	if err != nil {
		h.logger.Error().Err(err).Str("storeID", store.ID).Msg("Verification failed")
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HandleGetPopupConfig returns the full popup configuration.
func (h *AdminHandler) HandleGetPopupConfig(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	config, err := h.popupService.GetConfig(r.Context(), store.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, config)
}

// HandlePutPopupConfig saves the popup configuration.
func (h *AdminHandler) HandlePutPopupConfig(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	var config domain.PopupConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.popupService.SaveConfig(r.Context(), store.ID, &config); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleListSubscribers lists the store's subscribers.
func (h *AdminHandler) HandleListSubscribers(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	subscribers, err := h.subscriberService.ListSubscribers(r.Context(), store.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("storeID", store.ID).Msg("Failed to list subscribers")
		writeError(w, http.StatusInternalServerError, "failed to list subscribers")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"subscribers": subscribers})
}

// HandleCommerceVerify verifies and stores commerce credentials.
func (h *AdminHandler) HandleCommerceVerify(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	var input struct {
		ShopDomain  string `json:"shop_domain"`
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.commerceService.VerifyCredentials(r.Context(), store, input.ShopDomain, input.AccessToken); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleCommerceDiscount reports whether a discount code exists on the
// connected shop.
func (h *AdminHandler) HandleCommerceDiscount(w http.ResponseWriter, r *http.Request) {
	store := h.authorizedStore(w, r)
	if store == nil {
		return
	}

	code := chi.URLParam(r, "code")
	valid, err := h.commerceService.VerifyDiscountCode(r.Context(), store, code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"code": code, "valid": valid})
}
