package ports

import (
	"context"
	"time"

	"foxx-popup-service/internal/domain"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// GetStore retrieves a store by id; returns (nil, nil) when absent
	GetStore(ctx context.Context, storeID string) (*domain.Store, error)

	// GetStoreByAPIKey retrieves a store by its admin API key
	GetStoreByAPIKey(ctx context.Context, apiKey string) (*domain.Store, error)

	// SaveStore saves or updates a store
	SaveStore(ctx context.Context, store *domain.Store) error

	// SetActiveScript writes the (version, timestamp) pair atomically.
	// Both values are set in a single update so the pairing invariant
	// cannot be half-applied.
	SetActiveScript(ctx context.Context, storeID, version, timestamp string) error

	// SetVerified updates the store's verified flag
	SetVerified(ctx context.Context, storeID string, verified bool) error

	// SetCommerceCredentials stores the commerce shop domain and the
	// encrypted access token
	SetCommerceCredentials(ctx context.Context, storeID, shopDomain, encryptedToken string) error
}

// PopupConfigRepository defines the interface for popup configuration
// persistence
type PopupConfigRepository interface {
	GetByStoreID(ctx context.Context, storeID string) (*domain.PopupConfig, error)
	Save(ctx context.Context, config *domain.PopupConfig) error
}

// SubscriberRepository defines the interface for subscriber persistence
type SubscriberRepository interface {
	// GetByStoreAndEmail retrieves a subscriber; returns (nil, nil) when absent
	GetByStoreAndEmail(ctx context.Context, storeID, email string) (*domain.Subscriber, error)
	Create(ctx context.Context, subscriber *domain.Subscriber) error
	Update(ctx context.Context, subscriber *domain.Subscriber) error
	ListByStore(ctx context.Context, storeID string) ([]*domain.Subscriber, error)
}

// SessionRepository defines the interface for admin session persistence
type SessionRepository interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error

	// DeleteExpired removes sessions past their expiry, returning the
	// number removed. Driven by the background sweep in main.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
