package entity

import (
	"time"

	"foxx-popup-service/internal/domain"
)

// MongoSubscriberDoc represents a subscriber in MongoDB
type MongoSubscriberDoc struct {
	ID      string `bson:"_id"`
	StoreID string `bson:"store_id"`
	Email   string `bson:"email"`

	Name    string `bson:"name,omitempty"`
	Phone   string `bson:"phone,omitempty"`
	Company string `bson:"company,omitempty"`
	Address string `bson:"address,omitempty"`

	SessionID string `bson:"session_id,omitempty"`

	IsActive       bool       `bson:"is_active"`
	UnsubscribedAt *time.Time `bson:"unsubscribed_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// ToDomain converts the MongoDB document to a domain entity
func (d *MongoSubscriberDoc) ToDomain() *domain.Subscriber {
	return &domain.Subscriber{
		ID:             d.ID,
		StoreID:        d.StoreID,
		Email:          d.Email,
		Name:           d.Name,
		Phone:          d.Phone,
		Company:        d.Company,
		Address:        d.Address,
		SessionID:      d.SessionID,
		IsActive:       d.IsActive,
		UnsubscribedAt: d.UnsubscribedAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// MongoSubscriberDocFromDomain converts a domain entity to a MongoDB document
func MongoSubscriberDocFromDomain(subscriber *domain.Subscriber) *MongoSubscriberDoc {
	return &MongoSubscriberDoc{
		ID:             subscriber.ID,
		StoreID:        subscriber.StoreID,
		Email:          subscriber.Email,
		Name:           subscriber.Name,
		Phone:          subscriber.Phone,
		Company:        subscriber.Company,
		Address:        subscriber.Address,
		SessionID:      subscriber.SessionID,
		IsActive:       subscriber.IsActive,
		UnsubscribedAt: subscriber.UnsubscribedAt,
		CreatedAt:      subscriber.CreatedAt,
		UpdatedAt:      subscriber.UpdatedAt,
	}
}
