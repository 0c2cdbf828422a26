package application

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/rs/zerolog"
)

const versionSuffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ScriptService synthesizes the embeddable integration snippet and the
// popup runtime, and tracks which (version, timestamp) pair is active for
// a store.
type ScriptService struct {
	storeRepo ports.StoreRepository
	logger    zerolog.Logger
}

// NewScriptService creates a new script service
func NewScriptService(storeRepo ports.StoreRepository, logger zerolog.Logger) *ScriptService {
	return &ScriptService{
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// GenerateVersion mints a fresh version token and its paired timestamp.
// Token format: <first '-' segment of storeID>_<epochMillis>_<5 random chars>,
// unique per call without a central counter.
func GenerateVersion(storeID string, now time.Time) (string, string, error) {
	if storeID == "" {
		return "", "", fmt.Errorf("storeID is empty")
	}
	prefix := storeID
	if idx := strings.Index(storeID, "-"); idx > 0 {
		prefix = storeID[:idx]
	}

	suffix := make([]byte, 5)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(versionSuffixAlphabet))))
		if err != nil {
			return "", "", fmt.Errorf("failed to generate version suffix: %w", err)
		}
		suffix[i] = versionSuffixAlphabet[n.Int64()]
	}

	version := fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), string(suffix))
	timestamp := now.UTC().Format(time.RFC3339)
	return version, timestamp, nil
}

// Synthesize produces the snippet and runtime deterministically from its
// five inputs: identical inputs yield byte-identical output.
func (s *ScriptService) Synthesize(storeID, targetDomain, baseURL, version, timestamp string) (*domain.GeneratedScript, error) {
	if storeID == "" {
		return nil, fmt.Errorf("storeID is empty")
	}
	if version == "" || timestamp == "" {
		return nil, fmt.Errorf("version and timestamp are required")
	}
	hostname, err := domain.NormalizeHostname(targetDomain)
	if err != nil {
		return nil, fmt.Errorf("invalid target domain: %w", err)
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is empty")
	}

	src := fmt.Sprintf("%s%s?v=%s&id=%s",
		baseURL,
		domain.RuntimeScriptPath,
		url.QueryEscape(timestamp),
		url.QueryEscape(version),
	)

	snippet := fmt.Sprintf(`<!-- Foxx Newsletter Popup -->
<script>
(function() {
  var s = document.createElement('script');
  s.src = '%s';
  s.async = true;
  s.setAttribute('%s', '%s');
  s.setAttribute('%s', '%s');
  s.setAttribute('%s', '%s');
  s.setAttribute('%s', 'true');
  s.setAttribute('%s', '%s');
  s.setAttribute('%s', '%s');
  document.head.appendChild(s);
})();
</script>
<!-- End Foxx Newsletter Popup -->`,
		src,
		domain.AttrStoreID, storeID,
		domain.AttrIntegration, domain.IntegrationType,
		domain.AttrDomain, hostname,
		domain.AttrPopupConfig,
		domain.AttrScriptVersion, version,
		domain.AttrGeneratedAt, timestamp,
	)

	return &domain.GeneratedScript{
		SnippetHTML: snippet,
		RuntimeJS:   RuntimeScript(baseURL),
		Version:     version,
		Timestamp:   timestamp,
		BaseURL:     baseURL,
	}, nil
}

// Resolve decides whether to mint a new version or re-render the stored
// one. A new pair is minted when forceRegenerate is set or the store has
// none recorded; it is then persisted atomically on the store record.
// Reuse re-renders byte-identical output and writes nothing.
func (s *ScriptService) Resolve(ctx context.Context, store *domain.Store, baseURL string, forceRegenerate bool) (*domain.GeneratedScript, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	version := store.ActiveScriptVersion
	timestamp := store.ActiveScriptTimestamp
	minted := false

	if forceRegenerate || !store.HasActiveScript() {
		var err error
		version, timestamp, err = GenerateVersion(store.ID, time.Now())
		if err != nil {
			return nil, err
		}
		minted = true
	}

	script, err := s.Synthesize(store.ID, store.TargetDomain(), baseURL, version, timestamp)
	if err != nil {
		return nil, err
	}

	if minted {
		if err := s.storeRepo.SetActiveScript(ctx, store.ID, version, timestamp); err != nil {
			return nil, fmt.Errorf("failed to persist active script version: %w", err)
		}
		store.ActiveScriptVersion = version
		store.ActiveScriptTimestamp = timestamp

		s.logger.Info().
			Str("storeID", store.ID).
			Str("version", version).
			Str("timestamp", timestamp).
			Bool("forced", forceRegenerate).
			Msg("Minted new integration script version")
	}

	return script, nil
}
