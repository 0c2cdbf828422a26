package entity

import (
	"time"

	"foxx-popup-service/internal/domain"
)

// MongoStoreDoc represents a store in MongoDB
type MongoStoreDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	Domain       string `bson:"domain"`
	CustomDomain string `bson:"custom_domain,omitempty"`
	APIKey       string `bson:"api_key"`

	ActiveScriptVersion   string `bson:"active_script_version,omitempty"`
	ActiveScriptTimestamp string `bson:"active_script_timestamp,omitempty"`
	IsVerified            bool   `bson:"is_verified"`

	CommerceShopDomain  string `bson:"commerce_shop_domain,omitempty"`
	CommerceAccessToken string `bson:"commerce_access_token,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoStoreDoc) ToDomain() *domain.Store {
	return &domain.Store{
		ID:                    d.ID,
		Name:                  d.Name,
		Email:                 d.Email,
		Domain:                d.Domain,
		CustomDomain:          d.CustomDomain,
		APIKey:                d.APIKey,
		ActiveScriptVersion:   d.ActiveScriptVersion,
		ActiveScriptTimestamp: d.ActiveScriptTimestamp,
		IsVerified:            d.IsVerified,
		CommerceShopDomain:    d.CommerceShopDomain,
		CommerceAccessToken:   d.CommerceAccessToken,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

// MongoStoreDocFromDomain converts a domain entity to a MongoDB document
func MongoStoreDocFromDomain(store *domain.Store) *MongoStoreDoc {
	return &MongoStoreDoc{
		ID:                    store.ID,
		Name:                  store.Name,
		Email:                 store.Email,
		Domain:                store.Domain,
		CustomDomain:          store.CustomDomain,
		APIKey:                store.APIKey,
		ActiveScriptVersion:   store.ActiveScriptVersion,
		ActiveScriptTimestamp: store.ActiveScriptTimestamp,
		IsVerified:            store.IsVerified,
		CommerceShopDomain:    store.CommerceShopDomain,
		CommerceAccessToken:   store.CommerceAccessToken,
		CreatedAt:             store.CreatedAt,
		UpdatedAt:             store.UpdatedAt,
	}
}
