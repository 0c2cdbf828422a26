package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foxx-popup-service/internal/domain"
)

type fakeStoreRepo struct {
	mu     sync.Mutex
	stores map[string]*domain.Store
}

func newFakeStoreRepo(stores ...*domain.Store) *fakeStoreRepo {
	repo := &fakeStoreRepo{stores: map[string]*domain.Store{}}
	for _, s := range stores {
		copied := *s
		repo.stores[s.ID] = &copied
	}
	return repo
}

func (r *fakeStoreRepo) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[storeID]
	if !ok {
		return nil, nil
	}
	copied := *store
	return &copied, nil
}

func (r *fakeStoreRepo) GetStoreByAPIKey(ctx context.Context, apiKey string) (*domain.Store, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, store := range r.stores {
		if store.APIKey == apiKey {
			copied := *store
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) SaveStore(ctx context.Context, store *domain.Store) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *store
	r.stores[store.ID] = &copied
	return nil
}

func (r *fakeStoreRepo) SetActiveScript(ctx context.Context, storeID, version, timestamp string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[storeID]
	if !ok {
		return fmt.Errorf("store not found: %s", storeID)
	}
	store.ActiveScriptVersion = version
	store.ActiveScriptTimestamp = timestamp
	return nil
}

func (r *fakeStoreRepo) SetVerified(ctx context.Context, storeID string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[storeID]
	if !ok {
		return fmt.Errorf("store not found: %s", storeID)
	}
	store.IsVerified = verified
	return nil
}

func (r *fakeStoreRepo) SetCommerceCredentials(ctx context.Context, storeID, shopDomain, encryptedToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[storeID]
	if !ok {
		return fmt.Errorf("store not found: %s", storeID)
	}
	store.CommerceShopDomain = shopDomain
	store.CommerceAccessToken = encryptedToken
	return nil
}

type fakeConfigRepo struct {
	mu      sync.Mutex
	configs map[string]*domain.PopupConfig
}

func newFakeConfigRepo(configs ...*domain.PopupConfig) *fakeConfigRepo {
	repo := &fakeConfigRepo{configs: map[string]*domain.PopupConfig{}}
	for _, c := range configs {
		copied := *c
		repo.configs[c.StoreID] = &copied
	}
	return repo
}

func (r *fakeConfigRepo) GetByStoreID(ctx context.Context, storeID string) (*domain.PopupConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	config, ok := r.configs[storeID]
	if !ok {
		return nil, nil
	}
	copied := *config
	return &copied, nil
}

func (r *fakeConfigRepo) Save(ctx context.Context, config *domain.PopupConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *config
	r.configs[config.StoreID] = &copied
	return nil
}

type fakeSubscriberRepo struct {
	mu          sync.Mutex
	subscribers map[string]*domain.Subscriber // keyed by storeID+"|"+email
}

func newFakeSubscriberRepo() *fakeSubscriberRepo {
	return &fakeSubscriberRepo{subscribers: map[string]*domain.Subscriber{}}
}

func subscriberKey(storeID, email string) string {
	return storeID + "|" + email
}

func (r *fakeSubscriberRepo) GetByStoreAndEmail(ctx context.Context, storeID, email string) (*domain.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	subscriber, ok := r.subscribers[subscriberKey(storeID, email)]
	if !ok {
		return nil, nil
	}
	copied := *subscriber
	return &copied, nil
}

func (r *fakeSubscriberRepo) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subscriberKey(subscriber.StoreID, subscriber.Email)
	if _, exists := r.subscribers[key]; exists {
		return fmt.Errorf("duplicate subscriber")
	}
	copied := *subscriber
	r.subscribers[key] = &copied
	return nil
}

func (r *fakeSubscriberRepo) Update(ctx context.Context, subscriber *domain.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := subscriberKey(subscriber.StoreID, subscriber.Email)
	if _, exists := r.subscribers[key]; !exists {
		return fmt.Errorf("subscriber not found")
	}
	copied := *subscriber
	r.subscribers[key] = &copied
	return nil
}

func (r *fakeSubscriberRepo) ListByStore(ctx context.Context, storeID string) ([]*domain.Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Subscriber
	for _, subscriber := range r.subscribers {
		if subscriber.StoreID == storeID {
			copied := *subscriber
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	values  map[string]string
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	c.deletes = append(c.deletes, key)
	return nil
}
