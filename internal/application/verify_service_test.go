package application

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foxx-popup-service/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testVersion   = "acme_1700000000000_ab12c"
	testTimestamp = "2026-03-14T09:26:53Z"
)

// installedPage renders storefront HTML carrying the injected script tag
// with the given version pair, pinned to the server's own host.
func installedPage(baseURL, storeID, hostname, version, timestamp string) string {
	return fmt.Sprintf(`<html><head>
<script src="%s%s?v=x&id=y" async
  %s="%s" %s="%s" %s="%s" %s="true" %s="%s" %s="%s"></script>
</head><body>welcome</body></html>`,
		baseURL, domain.RuntimeScriptPath,
		domain.AttrStoreID, storeID,
		domain.AttrIntegration, domain.IntegrationType,
		domain.AttrDomain, hostname,
		domain.AttrPopupConfig,
		domain.AttrScriptVersion, version,
		domain.AttrGeneratedAt, timestamp,
	)
}

func serveHTML(t *testing.T, html *string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, *html)
	}))
	t.Cleanup(server.Close)
	return server
}

func verifiedStore(serverURL string) *domain.Store {
	return &domain.Store{
		ID:                    "acme-1",
		Domain:                serverURL,
		ActiveScriptVersion:   testVersion,
		ActiveScriptTimestamp: testTimestamp,
	}
}

func TestVerifyInstallationSynthesizedSnippet(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	repo := newFakeStoreRepo(store)

	// The snippet exactly as a store owner receives it: the markers live
	// inside the inline loader, not as attributes in the served HTML.
	script, err := NewScriptService(repo, zerolog.Nop()).
		Synthesize(store.ID, store.TargetDomain(), server.URL, testVersion, testTimestamp)
	require.NoError(t, err)
	page = `<html><head><title>storefront</title>
` + script.SnippetHTML + `
</head><body>welcome</body></html>`

	svc := NewVerifyService(repo, time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.True(t, result.Installed)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "complete", result.CheckedURLs[0].Status)

	checks := result.CheckedURLs[0].Checks
	require.NotNil(t, checks)
	assert.True(t, checks.StoreIDMatch)
	assert.True(t, checks.DomainMatch)
	assert.True(t, checks.PopupConfigAttr)
	assert.True(t, checks.IntegrationAttr)
	assert.True(t, checks.SrcURLMatch)
	assert.True(t, checks.VersionMatch)
	assert.True(t, checks.TimestampMatch)

	persisted, err := repo.GetStore(context.Background(), store.ID)
	require.NoError(t, err)
	assert.True(t, persisted.IsVerified)
}

func TestVerifyInstallationSynthesizedSnippetStale(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	repo := newFakeStoreRepo(store)

	// The page still carries a snippet from before the last regeneration.
	script, err := NewScriptService(repo, zerolog.Nop()).
		Synthesize(store.ID, store.TargetDomain(), server.URL, "acme_1600000000000_zz99z", "2025-01-01T00:00:00Z")
	require.NoError(t, err)
	page = `<html><head>` + script.SnippetHTML + `</head></html>`

	svc := NewVerifyService(repo, time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.False(t, result.Installed)
	assert.True(t, result.IsOutdated)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "outdated", result.CheckedURLs[0].Status)
}

func TestVerifyInstallationComplete(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	host, err := domain.NormalizeHostname(server.URL)
	require.NoError(t, err)
	page = installedPage(server.URL, store.ID, host, testVersion, testTimestamp)

	repo := newFakeStoreRepo(store)
	svc := NewVerifyService(repo, time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.True(t, result.Installed)
	assert.False(t, result.IsOutdated)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "complete", result.CheckedURLs[0].Status)

	checks := result.CheckedURLs[0].Checks
	require.NotNil(t, checks)
	assert.True(t, checks.StoreIDMatch)
	assert.True(t, checks.DomainMatch)
	assert.True(t, checks.IntegrationAttr)
	assert.True(t, checks.SrcURLMatch)
	assert.True(t, checks.VersionMatch)
	assert.True(t, checks.TimestampMatch)

	persisted, err := repo.GetStore(context.Background(), store.ID)
	require.NoError(t, err)
	assert.True(t, persisted.IsVerified)
}

func TestVerifyInstallationOutdated(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	host, err := domain.NormalizeHostname(server.URL)
	require.NoError(t, err)
	// A stale pair from a previous snippet: all markers present, wrong version.
	page = installedPage(server.URL, store.ID, host, "acme_1600000000000_zz99z", "2025-01-01T00:00:00Z")

	repo := newFakeStoreRepo(store)
	svc := NewVerifyService(repo, time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.False(t, result.Installed)
	assert.True(t, result.IsOutdated)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "outdated", result.CheckedURLs[0].Status)

	persisted, err := repo.GetStore(context.Background(), store.ID)
	require.NoError(t, err)
	assert.False(t, persisted.IsVerified)
}

func TestVerifyInstallationIncomplete(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	// The runtime path appears but the tag carries no attributes.
	page = `<html><head><script src="` + server.URL + domain.RuntimeScriptPath + `"></script></head></html>`

	svc := NewVerifyService(newFakeStoreRepo(store), time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.False(t, result.Installed)
	assert.False(t, result.IsOutdated)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "incomplete", result.CheckedURLs[0].Status)
}

func TestVerifyInstallationMissing(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	page = `<html><head><title>bare storefront</title></head><body></body></html>`

	svc := NewVerifyService(newFakeStoreRepo(store), time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.False(t, result.Installed)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "missing", result.CheckedURLs[0].Status)
}

func TestVerifyInstallationWrongStoreID(t *testing.T) {
	var page string
	server := serveHTML(t, &page)

	store := verifiedStore(server.URL)
	host, err := domain.NormalizeHostname(server.URL)
	require.NoError(t, err)
	// Another tenant's snippet on the page still references the runtime,
	// so this classifies as incomplete rather than missing.
	page = installedPage(server.URL, "other-2", host, testVersion, testTimestamp)

	svc := NewVerifyService(newFakeStoreRepo(store), time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err)

	assert.False(t, result.Installed)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, "incomplete", result.CheckedURLs[0].Status)
	assert.False(t, result.CheckedURLs[0].Checks.StoreIDMatch)
}

func TestVerifyInstallationFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	store := verifiedStore(server.URL)
	repo := newFakeStoreRepo(store)
	svc := NewVerifyService(repo, time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, server.URL)
	require.NoError(t, err, "fetch failures are diagnostics, not errors")

	assert.False(t, result.Installed)
	require.Len(t, result.CheckedURLs, 1)
	assert.NotEmpty(t, result.CheckedURLs[0].Error)
	assert.Equal(t, "missing", result.CheckedURLs[0].Status)
}

func TestVerifyInstallationCustomDomainFirst(t *testing.T) {
	var customPage, defaultPage string
	customServer := serveHTML(t, &customPage)
	defaultServer := serveHTML(t, &defaultPage)

	store := verifiedStore(defaultServer.URL)
	store.CustomDomain = customServer.URL

	// TargetDomain prefers the custom domain, so the snippet is pinned to
	// the custom host; the complete match there must short-circuit the scan.
	host, err := domain.NormalizeHostname(customServer.URL)
	require.NoError(t, err)
	customPage = installedPage(customServer.URL, store.ID, host, testVersion, testTimestamp)
	defaultPage = `<html></html>`

	svc := NewVerifyService(newFakeStoreRepo(store), time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, customServer.URL)
	require.NoError(t, err)

	assert.True(t, result.Installed)
	require.Len(t, result.CheckedURLs, 1)
	assert.Equal(t, customServer.URL, result.CheckedURLs[0].URL)
}

func TestVerifyInstallationNoDomains(t *testing.T) {
	store := &domain.Store{ID: "acme-1"}
	svc := NewVerifyService(newFakeStoreRepo(store), time.Second, zerolog.Nop())

	result, err := svc.VerifyInstallation(context.Background(), store, "https://popup.foxx.dev")
	require.NoError(t, err)
	assert.False(t, result.Installed)
	assert.Empty(t, result.CheckedURLs)
}

func TestClassifyOrdering(t *testing.T) {
	assert.True(t, domain.ValidationMissing < domain.ValidationIncomplete)
	assert.True(t, domain.ValidationIncomplete < domain.ValidationOutdated)
	assert.True(t, domain.ValidationOutdated < domain.ValidationComplete)
}

func TestClassify(t *testing.T) {
	markers := func() *domain.ScriptChecks {
		return &domain.ScriptChecks{
			ScriptReference: true,
			StoreIDMatch:    true,
			DomainMatch:     true,
			PopupConfigAttr: true,
			IntegrationAttr: true,
			SrcURLMatch:     true,
		}
	}

	current := markers()
	current.VersionAttrFound = true
	current.VersionMatch = true
	current.TimestampMatch = true
	assert.Equal(t, domain.ValidationComplete, classify(current))

	stale := markers()
	stale.VersionAttrFound = true
	stale.VersionMatch = true // timestamp diverged: the pair is minted together
	assert.Equal(t, domain.ValidationOutdated, classify(stale))

	partial := &domain.ScriptChecks{ScriptReference: true}
	assert.Equal(t, domain.ValidationIncomplete, classify(partial))

	assert.Equal(t, domain.ValidationMissing, classify(&domain.ScriptChecks{}))
}

func TestCandidateURLs(t *testing.T) {
	svc := NewVerifyService(newFakeStoreRepo(), time.Second, zerolog.Nop())

	tests := []struct {
		name  string
		store *domain.Store
		want  []string
	}{
		{
			name:  "bare hostname defaults to https",
			store: &domain.Store{Domain: "shop.example.com"},
			want:  []string{"https://shop.example.com"},
		},
		{
			name:  "explicit scheme and port preserved",
			store: &domain.Store{Domain: "http://localhost:3000"},
			want:  []string{"http://localhost:3000"},
		},
		{
			name:  "custom domain first",
			store: &domain.Store{Domain: "shop.example.com", CustomDomain: "www.acme.com"},
			want:  []string{"https://www.acme.com", "https://shop.example.com"},
		},
		{
			name:  "duplicates collapsed",
			store: &domain.Store{Domain: "shop.example.com", CustomDomain: "shop.example.com"},
			want:  []string{"https://shop.example.com"},
		},
		{
			name:  "no domains",
			store: &domain.Store{},
			want:  nil,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.candidateURLs(tc.store))
		})
	}
}
