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

// MongoSubscriberRepository implements SubscriberRepository using MongoDB
type MongoSubscriberRepository struct {
	collection *mongo.Collection
}

// NewMongoSubscriberRepository creates a new MongoDB subscriber repository
func NewMongoSubscriberRepository(db *mongo.Database) ports.SubscriberRepository {
	return &MongoSubscriberRepository{
		collection: db.Collection("subscribers"),
	}
}

// GetByStoreAndEmail retrieves a subscriber by store and email
func (r *MongoSubscriberRepository) GetByStoreAndEmail(ctx context.Context, storeID, email string) (*domain.Subscriber, error) {
	var doc entity.MongoSubscriberDoc
	filter := bson.M{"store_id": storeID, "email": email}

	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return doc.ToDomain(), nil
}

// Create inserts a new subscriber, enforcing (store_id, email) uniqueness
func (r *MongoSubscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	doc := entity.MongoSubscriberDocFromDomain(subscriber)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "store_id", Value: 1}, {Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = r.collection.Indexes().CreateOne(ctx, indexModel)

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create subscriber: %w", err)
	}
	return nil
}

// Update saves an existing subscriber
func (r *MongoSubscriberRepository) Update(ctx context.Context, subscriber *domain.Subscriber) error {
	doc := entity.MongoSubscriberDocFromDomain(subscriber)
	doc.UpdatedAt = time.Now()

	// unsubscribed_at must be cleared on reactivation, so the whole
	// document is replaced rather than $set-merged.
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": subscriber.ID}, doc)
	if err != nil {
		return fmt.Errorf("failed to update subscriber: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("subscriber not found: %s", subscriber.ID)
	}
	return nil
}

// ListByStore retrieves all subscribers for a store
func (r *MongoSubscriberRepository) ListByStore(ctx context.Context, storeID string) ([]*domain.Subscriber, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"store_id": storeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	var subscribers []*domain.Subscriber
	for cursor.Next(ctx) {
		var doc entity.MongoSubscriberDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode subscriber: %w", err)
		}
		subscribers = append(subscribers, doc.ToDomain())
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return subscribers, nil
}
