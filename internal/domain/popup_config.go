package domain

import "time"

// Trigger policies for showing the popup
const (
	TriggerImmediate = "immediate"
	TriggerDelay     = "delay"
	TriggerScroll    = "scroll"
	TriggerExit      = "exit"
)

// PopupConfig is the full popup configuration a store owner edits
type PopupConfig struct {
	ID      string `json:"id" bson:"_id"`
	StoreID string `json:"store_id" bson:"store_id"`

	Title    string `json:"title" bson:"title"`
	Subtitle string `json:"subtitle" bson:"subtitle"`
	IsActive bool   `json:"is_active" bson:"is_active"`

	// Independently toggleable form fields
	CollectEmail   bool `json:"collect_email" bson:"collect_email"`
	CollectName    bool `json:"collect_name" bson:"collect_name"`
	CollectPhone   bool `json:"collect_phone" bson:"collect_phone"`
	CollectCompany bool `json:"collect_company" bson:"collect_company"`
	CollectAddress bool `json:"collect_address" bson:"collect_address"`

	// Store-specific email domain rules, applied client-side and on
	// subscribe. The built-in disposable-address blocklist is always
	// enforced and is not configurable.
	AllowedEmailDomains []string `json:"allowed_email_domains,omitempty" bson:"allowed_email_domains"`
	BlockedEmailDomains []string `json:"blocked_email_domains,omitempty" bson:"blocked_email_domains"`

	DiscountCode       string `json:"discount_code,omitempty" bson:"discount_code"`
	DiscountPercentage int    `json:"discount_percentage,omitempty" bson:"discount_percentage"`

	// Display trigger: immediate, delay, scroll or exit
	Trigger          string `json:"trigger" bson:"trigger"`
	TriggerDelaySecs int    `json:"trigger_delay_secs,omitempty" bson:"trigger_delay_secs"`
	TriggerScrollPct int    `json:"trigger_scroll_pct,omitempty" bson:"trigger_scroll_pct"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// PublicPopupConfig is the projection of PopupConfig safe for
// unauthenticated delivery to third-party pages. It carries no credentials
// and no internal identifier beyond the store id itself.
type PublicPopupConfig struct {
	StoreID  string `json:"store_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	IsActive bool   `json:"is_active"`

	CollectEmail   bool `json:"collect_email"`
	CollectName    bool `json:"collect_name"`
	CollectPhone   bool `json:"collect_phone"`
	CollectCompany bool `json:"collect_company"`
	CollectAddress bool `json:"collect_address"`

	AllowedEmailDomains []string `json:"allowed_email_domains,omitempty"`
	BlockedEmailDomains []string `json:"blocked_email_domains,omitempty"`

	DiscountCode       string `json:"discount_code,omitempty"`
	DiscountPercentage int    `json:"discount_percentage,omitempty"`

	Trigger          string `json:"trigger"`
	TriggerDelaySecs int    `json:"trigger_delay_secs,omitempty"`
	TriggerScrollPct int    `json:"trigger_scroll_pct,omitempty"`

	// Integration state the runtime needs to decide whether to render
	IsVerified      bool `json:"is_verified"`
	HasActiveScript bool `json:"has_active_script"`
}

// ToPublic builds the unauthenticated projection for a store.
func (c *PopupConfig) ToPublic(store *Store) *PublicPopupConfig {
	trigger := c.Trigger
	if trigger == "" {
		trigger = TriggerImmediate
	}
	return &PublicPopupConfig{
		StoreID:             c.StoreID,
		Title:               c.Title,
		Subtitle:            c.Subtitle,
		IsActive:            c.IsActive,
		CollectEmail:        c.CollectEmail,
		CollectName:         c.CollectName,
		CollectPhone:        c.CollectPhone,
		CollectCompany:      c.CollectCompany,
		CollectAddress:      c.CollectAddress,
		AllowedEmailDomains: c.AllowedEmailDomains,
		BlockedEmailDomains: c.BlockedEmailDomains,
		DiscountCode:        c.DiscountCode,
		DiscountPercentage:  c.DiscountPercentage,
		Trigger:             trigger,
		TriggerDelaySecs:    c.TriggerDelaySecs,
		TriggerScrollPct:    c.TriggerScrollPct,
		IsVerified:          store.IsVerified,
		HasActiveScript:     store.HasActiveScript(),
	}
}
