package entity

import (
	"time"

	"foxx-popup-service/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoPopupConfigDoc represents a popup configuration in MongoDB
type MongoPopupConfigDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	StoreID string             `bson:"store_id"`

	Title    string `bson:"title"`
	Subtitle string `bson:"subtitle"`
	IsActive bool   `bson:"is_active"`

	CollectEmail   bool `bson:"collect_email"`
	CollectName    bool `bson:"collect_name"`
	CollectPhone   bool `bson:"collect_phone"`
	CollectCompany bool `bson:"collect_company"`
	CollectAddress bool `bson:"collect_address"`

	AllowedEmailDomains []string `bson:"allowed_email_domains,omitempty"`
	BlockedEmailDomains []string `bson:"blocked_email_domains,omitempty"`

	DiscountCode       string `bson:"discount_code,omitempty"`
	DiscountPercentage int    `bson:"discount_percentage,omitempty"`

	Trigger          string `bson:"trigger"`
	TriggerDelaySecs int    `bson:"trigger_delay_secs,omitempty"`
	TriggerScrollPct int    `bson:"trigger_scroll_pct,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoPopupConfigDoc) ToDomain() *domain.PopupConfig {
	return &domain.PopupConfig{
		ID:                  d.ID.Hex(),
		StoreID:             d.StoreID,
		Title:               d.Title,
		Subtitle:            d.Subtitle,
		IsActive:            d.IsActive,
		CollectEmail:        d.CollectEmail,
		CollectName:         d.CollectName,
		CollectPhone:        d.CollectPhone,
		CollectCompany:      d.CollectCompany,
		CollectAddress:      d.CollectAddress,
		AllowedEmailDomains: d.AllowedEmailDomains,
		BlockedEmailDomains: d.BlockedEmailDomains,
		DiscountCode:        d.DiscountCode,
		DiscountPercentage:  d.DiscountPercentage,
		Trigger:             d.Trigger,
		TriggerDelaySecs:    d.TriggerDelaySecs,
		TriggerScrollPct:    d.TriggerScrollPct,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	}
}

// MongoPopupConfigDocFromDomain converts a domain entity to a MongoDB document
func MongoPopupConfigDocFromDomain(config *domain.PopupConfig) *MongoPopupConfigDoc {
	doc := &MongoPopupConfigDoc{
		StoreID:             config.StoreID,
		Title:               config.Title,
		Subtitle:            config.Subtitle,
		IsActive:            config.IsActive,
		CollectEmail:        config.CollectEmail,
		CollectName:         config.CollectName,
		CollectPhone:        config.CollectPhone,
		CollectCompany:      config.CollectCompany,
		CollectAddress:      config.CollectAddress,
		AllowedEmailDomains: config.AllowedEmailDomains,
		BlockedEmailDomains: config.BlockedEmailDomains,
		DiscountCode:        config.DiscountCode,
		DiscountPercentage:  config.DiscountPercentage,
		Trigger:             config.Trigger,
		TriggerDelaySecs:    config.TriggerDelaySecs,
		TriggerScrollPct:    config.TriggerScrollPct,
		CreatedAt:           config.CreatedAt,
		UpdatedAt:           config.UpdatedAt,
	}

	if config.ID != "" {
		if objID, err := primitive.ObjectIDFromHex(config.ID); err == nil {
			doc.ID = objID
		}
	}

	return doc
}
