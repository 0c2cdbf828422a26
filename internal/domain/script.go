package domain

// Attribute names set on the injected <script> tag. The installation
// verifier matches these verbatim against fetched storefront HTML, so they
// are a wire contract shared by the synthesizer, the runtime and the
// verifier.
const (
	AttrStoreID       = "data-store-id"
	AttrDomain        = "data-domain"
	AttrPopupConfig   = "data-popup-config"
	AttrIntegration   = "data-integration"
	AttrScriptVersion = "data-script-version"
	AttrGeneratedAt   = "data-generated-at"
)

// IntegrationType is the fixed value of the data-integration marker.
const IntegrationType = "foxx-newsletter"

// RuntimeScriptPath is the public path the snippet loads the popup
// runtime from, relative to the service base URL.
const RuntimeScriptPath = "/js/foxx-popup.js"

// GlobalLoadedFlag is the window-level dedup guard the runtime sets so
// repeated snippet includes are a no-op.
const GlobalLoadedFlag = "foxxNewsletterLoaded"

// GeneratedScript is the ephemeral result of one synthesis call. It is
// never persisted; only (Version, Timestamp) survive on the store record.
type GeneratedScript struct {
	SnippetHTML string `json:"snippet_html"`
	RuntimeJS   string `json:"-"`
	Version     string `json:"version"`
	Timestamp   string `json:"timestamp"` // RFC3339 UTC, paired 1:1 with Version
	BaseURL     string `json:"base_url"`
}
