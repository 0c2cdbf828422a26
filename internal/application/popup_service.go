package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/rs/zerolog"
)

const publicConfigCacheTTL = 30 * time.Second

// cachedPublicConfig bundles the projection with the store domains the
// origin check needs, so a cache hit avoids both lookups.
type cachedPublicConfig struct {
	Config       *domain.PublicPopupConfig `json:"config"`
	Domain       string                    `json:"domain"`
	CustomDomain string                    `json:"custom_domain"`
}

// PopupService serves popup configuration: the sanitized public
// projection for storefront pages and the full document for the admin UI.
type PopupService struct {
	storeRepo  ports.StoreRepository
	configRepo ports.PopupConfigRepository
	cache      ports.ConfigCache
	logger     zerolog.Logger
}

// NewPopupService creates a new popup configuration service
func NewPopupService(
	storeRepo ports.StoreRepository,
	configRepo ports.PopupConfigRepository,
	cache ports.ConfigCache,
	logger zerolog.Logger,
) *PopupService {
	return &PopupService{
		storeRepo:  storeRepo,
		configRepo: configRepo,
		cache:      cache,
		logger:     logger,
	}
}

// GetPublicConfig returns the unauthenticated projection for a store.
// When the caller sent an Origin or Referer, its hostname must relate to
// one of the store's domains; this is a best-effort allowlist for misdirected
// embeds, not a security boundary.
func (s *PopupService) GetPublicConfig(ctx context.Context, storeID, origin string) (*domain.PublicPopupConfig, error) {
	cached, err := s.lookupPublicConfig(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if origin != "" && !originAllowed(origin, cached.Domain, cached.CustomDomain) {
		return nil, ErrOriginNotAllowed
	}

	return cached.Config, nil
}

func (s *PopupService) lookupPublicConfig(ctx context.Context, storeID string) (*cachedPublicConfig, error) {
	cacheKey := "popup_config:" + storeID

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, cacheKey); err == nil && raw != "" {
			var cached cachedPublicConfig
			if err := json.Unmarshal([]byte(raw), &cached); err == nil && cached.Config != nil {
				return &cached, nil
			}
		}
	}

	store, err := s.storeRepo.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, ErrNotFound
	}

	config, err := s.configRepo.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrNotFound
	}

	cached := &cachedPublicConfig{
		Config:       config.ToPublic(store),
		Domain:       store.Domain,
		CustomDomain: store.CustomDomain,
	}

	if s.cache != nil {
		if raw, err := json.Marshal(cached); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(raw), publicConfigCacheTTL); err != nil {
				s.logger.Warn().Err(err).Str("storeID", storeID).Msg("Failed to cache popup config")
			}
		}
	}

	return cached, nil
}

// GetConfig returns the full popup configuration for the admin surface.
func (s *PopupService) GetConfig(ctx context.Context, storeID string) (*domain.PopupConfig, error) {
	config, err := s.configRepo.GetByStoreID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrNotFound
	}
	return config, nil
}

// SaveConfig saves the popup configuration and invalidates the public
// cache so storefronts pick the change up within one TTL.
func (s *PopupService) SaveConfig(ctx context.Context, storeID string, config *domain.PopupConfig) error {
	store, err := s.storeRepo.GetStore(ctx, storeID)
	if err != nil {
		return err
	}
	if store == nil {
		return ErrNotFound
	}

	config.StoreID = storeID
	if config.Trigger == "" {
		config.Trigger = domain.TriggerImmediate
	}
	if err := s.configRepo.Save(ctx, config); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, "popup_config:"+storeID); err != nil {
			s.logger.Warn().Err(err).Str("storeID", storeID).Msg("Failed to invalidate popup config cache")
		}
	}

	s.logger.Info().Str("storeID", storeID).Msg("Popup configuration saved")
	return nil
}

// originAllowed accepts an origin whose hostname equals, contains or is
// contained by one of the store's domains.
func originAllowed(origin, storeDomain, customDomain string) bool {
	originHost, err := domain.NormalizeHostname(origin)
	if err != nil {
		return false
	}
	for _, raw := range []string{customDomain, storeDomain} {
		if raw == "" {
			continue
		}
		host, err := domain.NormalizeHostname(raw)
		if err != nil {
			continue
		}
		if originHost == host || strings.Contains(originHost, host) || strings.Contains(host, originHost) {
			return true
		}
	}
	return false
}
