package application

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"foxx-popup-service/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVersion(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	version, timestamp, err := GenerateVersion("acme-store-42", now)
	require.NoError(t, err)

	parts := strings.Split(version, "_")
	require.Len(t, parts, 3)
	assert.Equal(t, "acme", parts[0])

	millis, err := strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli(), millis)

	assert.Len(t, parts[2], 5)
	for _, r := range parts[2] {
		assert.Contains(t, versionSuffixAlphabet, string(r))
	}

	assert.Equal(t, now.UTC().Format(time.RFC3339), timestamp)
}

func TestGenerateVersionNoHyphen(t *testing.T) {
	version, _, err := GenerateVersion("acmestore", time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(version, "acmestore_"))
}

func TestGenerateVersionEmptyStoreID(t *testing.T) {
	_, _, err := GenerateVersion("", time.Now())
	assert.Error(t, err)
}

func TestSynthesizeDeterministic(t *testing.T) {
	svc := NewScriptService(newFakeStoreRepo(), zerolog.Nop())

	first, err := svc.Synthesize("acme-1", "shop.example.com", "https://popup.foxx.dev/", "acme_1700000000000_ab12c", "2026-03-14T09:26:53Z")
	require.NoError(t, err)
	second, err := svc.Synthesize("acme-1", "shop.example.com", "https://popup.foxx.dev/", "acme_1700000000000_ab12c", "2026-03-14T09:26:53Z")
	require.NoError(t, err)

	assert.Equal(t, first.SnippetHTML, second.SnippetHTML)
	assert.Equal(t, first.RuntimeJS, second.RuntimeJS)
}

func TestSynthesizeSnippetContents(t *testing.T) {
	svc := NewScriptService(newFakeStoreRepo(), zerolog.Nop())

	script, err := svc.Synthesize("acme-1", "https://Shop.Example.com/landing", "https://popup.foxx.dev", "acme_1700000000000_ab12c", "2026-03-14T09:26:53Z")
	require.NoError(t, err)

	snippet := script.SnippetHTML
	assert.Contains(t, snippet, domain.AttrStoreID+"', 'acme-1")
	assert.Contains(t, snippet, domain.AttrIntegration+"', '"+domain.IntegrationType)
	assert.Contains(t, snippet, domain.AttrDomain+"', 'shop.example.com")
	assert.Contains(t, snippet, domain.AttrPopupConfig)
	assert.Contains(t, snippet, domain.AttrScriptVersion+"', 'acme_1700000000000_ab12c")
	assert.Contains(t, snippet, domain.AttrGeneratedAt+"', '2026-03-14T09:26:53Z")

	// Query values are URL-encoded; the RFC3339 colons must not appear raw.
	assert.Contains(t, snippet, "https://popup.foxx.dev/js/foxx-popup.js?v=2026-03-14T09%3A26%3A53Z&id=acme_1700000000000_ab12c")

	assert.Equal(t, "https://popup.foxx.dev", script.BaseURL)
	assert.Contains(t, script.RuntimeJS, "https://popup.foxx.dev")
	assert.NotContains(t, script.RuntimeJS, "__FOXX_BASE_URL__")
}

func TestSynthesizeRejectsBadInputs(t *testing.T) {
	svc := NewScriptService(newFakeStoreRepo(), zerolog.Nop())

	tests := []struct {
		name      string
		storeID   string
		domain    string
		baseURL   string
		version   string
		timestamp string
	}{
		{"empty store id", "", "shop.example.com", "https://popup.foxx.dev", "v", "t"},
		{"empty domain", "acme-1", "", "https://popup.foxx.dev", "v", "t"},
		{"empty base url", "acme-1", "shop.example.com", "", "v", "t"},
		{"empty version", "acme-1", "shop.example.com", "https://popup.foxx.dev", "", "t"},
		{"empty timestamp", "acme-1", "shop.example.com", "https://popup.foxx.dev", "v", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Synthesize(tc.storeID, tc.domain, tc.baseURL, tc.version, tc.timestamp)
			assert.Error(t, err)
		})
	}
}

func TestResolveMintsWhenNoneRecorded(t *testing.T) {
	store := &domain.Store{ID: "acme-1", Domain: "shop.example.com"}
	repo := newFakeStoreRepo(store)
	svc := NewScriptService(repo, zerolog.Nop())

	script, err := svc.Resolve(context.Background(), store, "https://popup.foxx.dev", false)
	require.NoError(t, err)
	require.NotEmpty(t, script.Version)
	require.NotEmpty(t, script.Timestamp)

	persisted, err := repo.GetStore(context.Background(), "acme-1")
	require.NoError(t, err)
	assert.Equal(t, script.Version, persisted.ActiveScriptVersion)
	assert.Equal(t, script.Timestamp, persisted.ActiveScriptTimestamp)
}

func TestResolveReusesRecordedPair(t *testing.T) {
	store := &domain.Store{
		ID:                    "acme-1",
		Domain:                "shop.example.com",
		ActiveScriptVersion:   "acme_1700000000000_ab12c",
		ActiveScriptTimestamp: "2026-03-14T09:26:53Z",
	}
	repo := newFakeStoreRepo(store)
	svc := NewScriptService(repo, zerolog.Nop())

	first, err := svc.Resolve(context.Background(), store, "https://popup.foxx.dev", false)
	require.NoError(t, err)
	second, err := svc.Resolve(context.Background(), store, "https://popup.foxx.dev", false)
	require.NoError(t, err)

	assert.Equal(t, "acme_1700000000000_ab12c", first.Version)
	assert.Equal(t, first.SnippetHTML, second.SnippetHTML)

	persisted, err := repo.GetStore(context.Background(), "acme-1")
	require.NoError(t, err)
	assert.Equal(t, "acme_1700000000000_ab12c", persisted.ActiveScriptVersion)
}

func TestResolveForceRegenerate(t *testing.T) {
	store := &domain.Store{
		ID:                    "acme-1",
		Domain:                "shop.example.com",
		ActiveScriptVersion:   "acme_1700000000000_ab12c",
		ActiveScriptTimestamp: "2026-03-14T09:26:53Z",
	}
	repo := newFakeStoreRepo(store)
	svc := NewScriptService(repo, zerolog.Nop())

	script, err := svc.Resolve(context.Background(), store, "https://popup.foxx.dev", true)
	require.NoError(t, err)
	assert.NotEqual(t, "acme_1700000000000_ab12c", script.Version)

	persisted, err := repo.GetStore(context.Background(), "acme-1")
	require.NoError(t, err)
	assert.Equal(t, script.Version, persisted.ActiveScriptVersion)
	assert.Equal(t, script.Timestamp, persisted.ActiveScriptTimestamp)
}
