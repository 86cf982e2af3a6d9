package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

const collectionVolunteers = "volunteers"

var volunteerSearchFields = []string{"name", "email", "city"}
var volunteerSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"status":    "status",
}

type VolunteerRepository struct {
	col *mongo.Collection
}

func NewVolunteerRepository(db *mongo.Database) *VolunteerRepository {
	return &VolunteerRepository{col: db.Collection(collectionVolunteers)}
}

func (r *VolunteerRepository) Create(ctx context.Context, v *domain.Volunteer) (*domain.Volunteer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	v.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert volunteer: %w", err)
	}
	return v, nil
}

func (r *VolunteerRepository) FindByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var v domain.Volunteer
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVolunteerNotFound
		}
		return nil, fmt.Errorf("find volunteer: %w", err)
	}
	return &v, nil
}

func (r *VolunteerRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Volunteer, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f, volunteerSearchFields)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count volunteers: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, listOptions(f, volunteerSortFields))
	if err != nil {
		return nil, 0, fmt.Errorf("list volunteers: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.Volunteer{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("list volunteers: %w", err)
	}
	return items, total, nil
}

func (r *VolunteerRepository) Update(ctx context.Context, v *domain.Volunteer) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": v.ID}, v)
	if err != nil {
		return fmt.Errorf("update volunteer: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVolunteerNotFound
	}
	return nil
}

func (r *VolunteerRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete volunteer: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrVolunteerNotFound
	}
	return nil
}

func (r *VolunteerRepository) CountByStatus(ctx context.Context) (*ports.StatusCounts, error) {
	return countByStatus(ctx, r.col)
}

// EnsureIndexes creates necessary indexes on the volunteers collection.
func (r *VolunteerRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "email", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
