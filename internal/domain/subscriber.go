package domain

import "time"

// Subscriber is a captured newsletter subscription for a store
type Subscriber struct {
	ID      string `json:"id" bson:"_id"`
	StoreID string `json:"store_id" bson:"store_id"`
	Email   string `json:"email" bson:"email"`

	Name    string `json:"name,omitempty" bson:"name"`
	Phone   string `json:"phone,omitempty" bson:"phone"`
	Company string `json:"company,omitempty" bson:"company"`
	Address string `json:"address,omitempty" bson:"address"`

	SessionID string `json:"session_id,omitempty" bson:"session_id"`

	IsActive       bool       `json:"is_active" bson:"is_active"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty" bson:"unsubscribed_at"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
