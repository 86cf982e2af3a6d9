package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

const collectionMembers = "community_members"

var memberSearchFields = []string{"name", "email", "city"}
var memberSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"status":    "status",
}

type MemberRepository struct {
	col *mongo.Collection
}

func NewMemberRepository(db *mongo.Database) *MemberRepository {
	return &MemberRepository{col: db.Collection(collectionMembers)}
}

func (r *MemberRepository) Create(ctx context.Context, m *domain.CommunityMember) (*domain.CommunityMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrMemberExists
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (*domain.CommunityMember, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MemberRepository) FindByEmail(ctx context.Context, email string) (*domain.CommunityMember, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MemberRepository) findOne(ctx context.Context, filter bson.M) (*domain.CommunityMember, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.CommunityMember
	if err := r.col.FindOne(ctx, filter).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, fmt.Errorf("find member: %w", err)
	}
	return &m, nil
}

func (r *MemberRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.CommunityMember, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f, memberSearchFields)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, listOptions(f, memberSortFields))
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.CommunityMember{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	return items, total, nil
}

func (r *MemberRepository) Update(ctx context.Context, m *domain.CommunityMember) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrMemberNotFound
	}
	return nil
}

func (r *MemberRepository) CountByStatus(ctx context.Context) (*ports.StatusCounts, error) {
	return countByStatus(ctx, r.col)
}

// EnsureIndexes creates necessary indexes on the members collection.
func (r *MemberRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
