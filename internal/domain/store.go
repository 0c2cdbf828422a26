package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Store represents a tenant store account
type Store struct {
	ID           string `json:"id" bson:"_id"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	Domain       string `json:"domain" bson:"domain"`                               // Default storefront domain (e.g. myshop.myshopify.com)
	CustomDomain string `json:"custom_domain,omitempty" bson:"custom_domain"`       // Optional custom domain, preferred for verification
	APIKey       string `json:"-" bson:"api_key"`                                   // Admin API key, never serialized to callers

	// Integration script state. Version and timestamp are minted together
	// and are never updated independently.
	ActiveScriptVersion   string `json:"active_script_version,omitempty" bson:"active_script_version"`
	ActiveScriptTimestamp string `json:"active_script_timestamp,omitempty" bson:"active_script_timestamp"`
	IsVerified            bool   `json:"is_verified" bson:"is_verified"`

	// Commerce platform credentials (token stored encrypted)
	CommerceShopDomain  string `json:"commerce_shop_domain,omitempty" bson:"commerce_shop_domain"`
	CommerceAccessToken string `json:"-" bson:"commerce_access_token"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TargetDomain returns the domain verification and the snippet should be
// pinned to: the custom domain when configured, else the default domain.
func (s *Store) TargetDomain() string {
	if s.CustomDomain != "" {
		return s.CustomDomain
	}
	return s.Domain
}

// HasActiveScript reports whether a version/timestamp pair is recorded.
func (s *Store) HasActiveScript() bool {
	return s.ActiveScriptVersion != "" && s.ActiveScriptTimestamp != ""
}

// NormalizeHostname parses a domain or URL into a bare hostname.
// Accepts "example.com", "https://example.com/path" or "example.com/path".
func NormalizeHostname(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("domain is empty")
	}
	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("invalid domain %q", raw)
	}
	return strings.ToLower(u.Hostname()), nil
}
