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

// MongoPopupConfigRepository implements PopupConfigRepository using MongoDB
type MongoPopupConfigRepository struct {
	collection *mongo.Collection
}

// NewMongoPopupConfigRepository creates a new MongoDB popup config repository
func NewMongoPopupConfigRepository(db *mongo.Database) ports.PopupConfigRepository {
	return &MongoPopupConfigRepository{
		collection: db.Collection("popup_configs"),
	}
}

// GetByStoreID retrieves the popup configuration for a store
func (r *MongoPopupConfigRepository) GetByStoreID(ctx context.Context, storeID string) (*domain.PopupConfig, error) {
	var doc entity.MongoPopupConfigDoc
	err := r.collection.FindOne(ctx, bson.M{"store_id": storeID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get popup config: %w", err)
	}
	return doc.ToDomain(), nil
}

// Save saves or updates the popup configuration for a store
func (r *MongoPopupConfigRepository) Save(ctx context.Context, config *domain.PopupConfig) error {
	doc := entity.MongoPopupConfigDocFromDomain(config)
	doc.UpdatedAt = time.Now()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	opts := options.Update().SetUpsert(true)
	filter := bson.M{"store_id": config.StoreID}
	update := bson.M{"$set": bson.M{
		"store_id":              doc.StoreID,
		"title":                 doc.Title,
		"subtitle":              doc.Subtitle,
		"is_active":             doc.IsActive,
		"collect_email":         doc.CollectEmail,
		"collect_name":          doc.CollectName,
		"collect_phone":         doc.CollectPhone,
		"collect_company":       doc.CollectCompany,
		"collect_address":       doc.CollectAddress,
		"allowed_email_domains": doc.AllowedEmailDomains,
		"blocked_email_domains": doc.BlockedEmailDomains,
		"discount_code":         doc.DiscountCode,
		"discount_percentage":   doc.DiscountPercentage,
		"trigger":               doc.Trigger,
		"trigger_delay_secs":    doc.TriggerDelaySecs,
		"trigger_scroll_pct":    doc.TriggerScrollPct,
		"updated_at":            doc.UpdatedAt,
	}, "$setOnInsert": bson.M{
		"created_at": doc.CreatedAt,
	}}

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to save popup config: %w", err)
	}
	return nil
}
