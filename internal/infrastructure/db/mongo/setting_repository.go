package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicvoice/platform/internal/core/domain"
)

const collectionSettings = "settings"

type SettingRepository struct {
	col *mongo.Collection
}

func NewSettingRepository(db *mongo.Database) *SettingRepository {
	return &SettingRepository{col: db.Collection(collectionSettings)}
}

func (r *SettingRepository) Get(ctx context.Context, key string) (*domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Setting
	if err := r.col.FindOne(ctx, bson.M{"_id": key}).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, fmt.Errorf("find setting: %w", err)
	}
	return &s, nil
}

func (r *SettingRepository) GetAll(ctx context.Context) ([]*domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.Setting{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	return items, nil
}

// Set upserts the setting by key.
func (r *SettingRepository) Set(ctx context.Context, s *domain.Setting) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.Key}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set setting: %w", err)
	}
	return nil
}

func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("delete setting: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSettingNotFound
	}
	return nil
}
