package repository

import (
	"context"
	"fmt"
	"time"

	"foxx-popup-service/internal/domain"
	"foxx-popup-service/internal/infrastructure/repository/entity"
	"foxx-popup-service/internal/ports"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStoreRepository implements StoreRepository using MongoDB
type MongoStoreRepository struct {
	collection *mongo.Collection
}

// NewMongoStoreRepository creates a new MongoDB store repository
func NewMongoStoreRepository(db *mongo.Database) ports.StoreRepository {
	return &MongoStoreRepository{
		collection: db.Collection("stores"),
	}
}

// GetStore retrieves a store by id
func (r *MongoStoreRepository) GetStore(ctx context.Context, storeID string) (*domain.Store, error) {
	var doc entity.MongoStoreDoc
	err := r.collection.FindOne(ctx, bson.M{"_id": storeID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	return doc.ToDomain(), nil
}

// GetStoreByAPIKey retrieves a store by its admin API key
func (r *MongoStoreRepository) GetStoreByAPIKey(ctx context.Context, apiKey string) (*domain.Store, error) {
	var doc entity.MongoStoreDoc
	err := r.collection.FindOne(ctx, bson.M{"api_key": apiKey}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store by api key: %w", err)
	}
	return doc.ToDomain(), nil
}

// SaveStore saves or updates a store
func (r *MongoStoreRepository) SaveStore(ctx context.Context, store *domain.Store) error {
	doc := entity.MongoStoreDocFromDomain(store)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"_id": store.ID}
	update := bson.M{"$set": doc}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save store: %w", err)
	}
	return nil
}

// SetActiveScript writes the version/timestamp pair in one $set so the
// two fields can never diverge.
func (r *MongoStoreRepository) SetActiveScript(ctx context.Context, storeID, version, timestamp string) error {
	update := bson.M{"$set": bson.M{
		"active_script_version":   version,
		"active_script_timestamp": timestamp,
		"updated_at":              time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": storeID}, update)
	if err != nil {
		return fmt.Errorf("failed to set active script: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("store not found: %s", storeID)
	}
	return nil
}

// SetVerified updates the store's verified flag
func (r *MongoStoreRepository) SetVerified(ctx context.Context, storeID string, verified bool) error {
	update := bson.M{"$set": bson.M{
		"is_verified": verified,
		"updated_at":  time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": storeID}, update)
	if err != nil {
		return fmt.Errorf("failed to set verified flag: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("store not found: %s", storeID)
	}
	return nil
}

// SetCommerceCredentials stores the commerce shop domain and encrypted token
func (r *MongoStoreRepository) SetCommerceCredentials(ctx context.Context, storeID, shopDomain, encryptedToken string) error {
	update := bson.M{"$set": bson.M{
		"commerce_shop_domain":  shopDomain,
		"commerce_access_token": encryptedToken,
		"updated_at":            time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": storeID}, update)
	if err != nil {
		return fmt.Errorf("failed to set commerce credentials: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("store not found: %s", storeID)
	}
	return nil
}
