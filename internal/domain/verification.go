package domain

// ValidationLevel is the ordered outcome of checking one URL for the
// integration snippet: Missing < Incomplete < Outdated < Complete.
type ValidationLevel int

const (
	ValidationMissing ValidationLevel = iota
	ValidationIncomplete
	ValidationOutdated
	ValidationComplete
)

func (l ValidationLevel) String() string {
	switch l {
	case ValidationComplete:
		return "complete"
	case ValidationOutdated:
		return "outdated"
	case ValidationIncomplete:
		return "incomplete"
	default:
		return "missing"
	}
}

// ScriptChecks holds the raw boolean sub-checks run against one page.
type ScriptChecks struct {
	ScriptReference  bool `json:"script_reference"`
	StoreIDMatch     bool `json:"store_id_match"`
	DomainMatch      bool `json:"domain_match"`
	PopupConfigAttr  bool `json:"popup_config_attr"`
	IntegrationAttr  bool `json:"integration_attr"`
	VersionMatch     bool `json:"version_match"`
	TimestampMatch   bool `json:"timestamp_match"`
	SrcURLMatch      bool `json:"src_url_match"`
	VersionAttrFound bool `json:"version_attr_found"` // Any version/timestamp attribute at all
}

// URLCheck is the per-candidate diagnostic returned to the caller.
type URLCheck struct {
	URL     string          `json:"url"`
	Level   ValidationLevel `json:"-"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
	Checks  *ScriptChecks   `json:"checks,omitempty"`
}

// VerificationResult aggregates all candidate URL checks for one store.
// Only Installed is persisted (as Store.IsVerified); the rest is
// diagnostic output for the admin UI.
type VerificationResult struct {
	Installed   bool       `json:"installed"`
	IsOutdated  bool       `json:"is_outdated,omitempty"`
	Message     string     `json:"message"`
	CheckedURLs []URLCheck `json:"checked_urls"`
}
