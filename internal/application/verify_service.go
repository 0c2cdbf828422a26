package application

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/ports"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Some storefronts block unknown or empty agents, so candidate fetches
// present a realistic desktop browser.
const verifierUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// DefaultVerifyTimeout bounds each candidate fetch so one unreachable
// storefront cannot stall a verification request.
const DefaultVerifyTimeout = 5 * time.Second

const maxVerifyBodyBytes = 2 << 20

var verificationOutcomes = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "foxx_verification_outcomes_total",
		Help: "Installation verification outcomes by validation level.",
	},
	[]string{"outcome"},
)

// VerifyService answers whether the currently active integration snippet
// is live on the store's target site, by fetching its HTML and inspecting
// the injected script tag's attributes.
type VerifyService struct {
	storeRepo ports.StoreRepository
	client    *http.Client
	logger    zerolog.Logger
}

// NewVerifyService creates a new installation verifier
func NewVerifyService(storeRepo ports.StoreRepository, timeout time.Duration, logger zerolog.Logger) *VerifyService {
	if timeout <= 0 {
		timeout = DefaultVerifyTimeout
	}
	return &VerifyService{
		storeRepo: storeRepo,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}
}

// VerifyInstallation checks every candidate URL in order, stopping early
// on the first complete match, and persists the aggregate verified flag.
// Per-candidate network failures are diagnostics, never errors.
func (s *VerifyService) VerifyInstallation(ctx context.Context, store *domain.Store, baseURL string) (*domain.VerificationResult, error) {
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}

	candidates := s.candidateURLs(store)
	if len(candidates) == 0 {
		return &domain.VerificationResult{
			Installed: false,
			Message:   "No storefront URLs configured for this store",
		}, nil
	}

	// Comparison values: the stored pair when present, else a freshly
	// minted pair for stores that predate version tracking (those can
	// classify as outdated/incomplete but never complete).
	version := store.ActiveScriptVersion
	timestamp := store.ActiveScriptTimestamp
	if !store.HasActiveScript() {
		var err error
		version, timestamp, err = GenerateVersion(store.ID, time.Now())
		if err != nil {
			return nil, err
		}
	}
	wantDomain, err := domain.NormalizeHostname(store.TargetDomain())
	if err != nil {
		return nil, fmt.Errorf("invalid target domain: %w", err)
	}

	result := &domain.VerificationResult{}
	best := domain.ValidationMissing

	for _, candidate := range candidates {
		check := domain.URLCheck{URL: candidate}

		html, fetchErr := s.fetch(ctx, candidate)
		if fetchErr != nil {
			check.Error = fetchErr.Error()
			check.Status = domain.ValidationMissing.String()
			check.Message = "Could not fetch page"
			result.CheckedURLs = append(result.CheckedURLs, check)
			s.logger.Warn().
				Err(fetchErr).
				Str("storeID", store.ID).
				Str("url", candidate).
				Msg("Verification candidate fetch failed")
			continue
		}

		checks := inspectHTML(html, store.ID, wantDomain, version, timestamp, baseURL)
		level := classify(checks)

		check.Checks = checks
		check.Level = level
		check.Status = level.String()
		check.Message = levelMessage(level)
		result.CheckedURLs = append(result.CheckedURLs, check)

		if level > best {
			best = level
		}
		if level == domain.ValidationComplete {
			break
		}
	}

	result.Installed = best == domain.ValidationComplete
	result.IsOutdated = best == domain.ValidationOutdated
	result.Message = levelMessage(best)
	verificationOutcomes.WithLabelValues(best.String()).Inc()

	if err := s.storeRepo.SetVerified(ctx, store.ID, result.Installed); err != nil {
		// The result is still valid diagnostics; report it anyway.
		s.logger.Error().Err(err).Str("storeID", store.ID).Msg("Failed to persist verified flag")
	}
	store.IsVerified = result.Installed

	s.logger.Info().
		Str("storeID", store.ID).
		Str("outcome", best.String()).
		Int("candidates", len(result.CheckedURLs)).
		Msg("Installation verification finished")

	return result, nil
}

// candidateURLs orders the URLs to scan, custom domain first. A stored
// domain may carry an explicit scheme and port (dev and staging hosts);
// bare hostnames default to https.
func (s *VerifyService) candidateURLs(store *domain.Store) []string {
	var urls []string
	seen := map[string]bool{}
	for _, raw := range []string{store.CustomDomain, store.Domain} {
		if raw == "" {
			continue
		}
		candidate := strings.TrimSpace(raw)
		if !strings.Contains(candidate, "://") {
			candidate = "https://" + candidate
		}
		u, err := url.Parse(candidate)
		if err != nil || u.Host == "" {
			continue
		}
		target := u.Scheme + "://" + u.Host
		if seen[target] {
			continue
		}
		seen[target] = true
		urls = append(urls, target)
	}
	return urls
}

func (s *VerifyService) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", verifierUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxVerifyBodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	return string(body), nil
}

// attrLiteral is the exact text the snippet's loader uses to set one
// attribute, e.g. `'data-store-id', 'acme-1'`. The snippet injects its
// tag from inline JS, so the markers appear in the served page only as
// these literals, never as parsed DOM attributes.
func attrLiteral(name, value string) string {
	return "'" + name + "', '" + value + "'"
}

// inspectHTML runs the individual sub-checks against one fetched page.
// Each check accepts either form of a correct install: the snippet pasted
// verbatim (markers as setAttribute literals in the raw HTML) or a tag a
// theme renders statically (markers as real attributes, found by parsing).
func inspectHTML(html, storeID, wantDomain, wantVersion, wantTimestamp, baseURL string) *domain.ScriptChecks {
	expectedSrcPrefix := strings.TrimSuffix(baseURL, "/") + domain.RuntimeScriptPath

	checks := &domain.ScriptChecks{
		ScriptReference:  strings.Contains(html, domain.RuntimeScriptPath),
		StoreIDMatch:     strings.Contains(html, attrLiteral(domain.AttrStoreID, storeID)),
		DomainMatch:      strings.Contains(html, attrLiteral(domain.AttrDomain, wantDomain)),
		PopupConfigAttr:  strings.Contains(html, domain.AttrPopupConfig),
		IntegrationAttr:  strings.Contains(html, attrLiteral(domain.AttrIntegration, domain.IntegrationType)),
		VersionAttrFound: strings.Contains(html, domain.AttrScriptVersion) || strings.Contains(html, domain.AttrGeneratedAt),
		VersionMatch:     strings.Contains(html, attrLiteral(domain.AttrScriptVersion, wantVersion)),
		TimestampMatch:   strings.Contains(html, attrLiteral(domain.AttrGeneratedAt, wantTimestamp)),
		SrcURLMatch:      strings.Contains(html, expectedSrcPrefix),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return checks
	}

	doc.Find("script[" + domain.AttrStoreID + "]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr(domain.AttrStoreID)
		if id != storeID {
			return
		}
		checks.StoreIDMatch = true

		if v, ok := sel.Attr(domain.AttrDomain); ok && v == wantDomain {
			checks.DomainMatch = true
		}
		if _, ok := sel.Attr(domain.AttrPopupConfig); ok {
			checks.PopupConfigAttr = true
		}
		if v, ok := sel.Attr(domain.AttrIntegration); ok && v == domain.IntegrationType {
			checks.IntegrationAttr = true
		}

		version, hasVersion := sel.Attr(domain.AttrScriptVersion)
		generatedAt, hasGeneratedAt := sel.Attr(domain.AttrGeneratedAt)
		if hasVersion || hasGeneratedAt {
			checks.VersionAttrFound = true
		}
		if hasVersion && version == wantVersion {
			checks.VersionMatch = true
		}
		if hasGeneratedAt && generatedAt == wantTimestamp {
			checks.TimestampMatch = true
		}

		if src, ok := sel.Attr("src"); ok && strings.HasPrefix(src, expectedSrcPrefix) {
			checks.SrcURLMatch = true
		}
	})

	return checks
}

// classify maps the sub-checks onto the ordered validation level. An
// exact match on both version and timestamp is required for complete: the
// pair is minted together, so divergence signals a stale or copied
// snippet, never a current install.
func classify(c *domain.ScriptChecks) domain.ValidationLevel {
	markers := c.StoreIDMatch && c.DomainMatch && c.PopupConfigAttr && c.IntegrationAttr && c.SrcURLMatch

	switch {
	case markers && c.VersionMatch && c.TimestampMatch:
		return domain.ValidationComplete
	case markers && c.VersionAttrFound:
		return domain.ValidationOutdated
	case c.ScriptReference || c.StoreIDMatch:
		return domain.ValidationIncomplete
	default:
		return domain.ValidationMissing
	}
}

func levelMessage(level domain.ValidationLevel) string {
	switch level {
	case domain.ValidationComplete:
		return "Integration script is installed and current"
	case domain.ValidationOutdated:
		return "An older integration script is installed; replace it with the current snippet"
	case domain.ValidationIncomplete:
		return "Integration script found but required attributes are missing"
	default:
		return "Integration script not found on the page"
	}
}
