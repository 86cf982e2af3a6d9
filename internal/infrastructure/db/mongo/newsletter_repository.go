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

const (
	collectionSubscribers = "newsletter_subscribers"
	collectionCampaigns   = "newsletter_campaigns"
)

var subscriberSearchFields = []string{"email", "name"}
var subscriberSortFields = map[string]string{
	"createdAt": "created_at",
	"email":     "email",
	"status":    "status",
}

type SubscriberRepository struct {
	col *mongo.Collection
}

func NewSubscriberRepository(db *mongo.Database) *SubscriberRepository {
	return &SubscriberRepository{col: db.Collection(collectionSubscribers)}
}

func (r *SubscriberRepository) Create(ctx context.Context, s *domain.Subscriber) (*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	s.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadySubscribed
		}
		return nil, fmt.Errorf("insert subscriber: %w", err)
	}
	return s, nil
}

func (r *SubscriberRepository) FindByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *SubscriberRepository) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *SubscriberRepository) FindByToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	return r.findOne(ctx, bson.M{"unsubscribe_token": token})
}

func (r *SubscriberRepository) findOne(ctx context.Context, filter bson.M) (*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Subscriber
	if err := r.col.FindOne(ctx, filter).Decode(&s); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("find subscriber: %w", err)
	}
	return &s, nil
}

func (r *SubscriberRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Subscriber, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f, subscriberSearchFields)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count subscribers: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, listOptions(f, subscriberSortFields))
	if err != nil {
		return nil, 0, fmt.Errorf("list subscribers: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.Subscriber{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("list subscribers: %w", err)
	}
	return items, total, nil
}

// ListSubscribed returns the full current audience, unpaginated. Used only at
// campaign send time.
func (r *SubscriberRepository) ListSubscribed(ctx context.Context) ([]*domain.Subscriber, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"status": domain.Subscribed})
	if err != nil {
		return nil, fmt.Errorf("list subscribed: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.Subscriber{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("list subscribed: %w", err)
	}
	return items, nil
}

func (r *SubscriberRepository) Update(ctx context.Context, s *domain.Subscriber) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": s.ID}, s)
	if err != nil {
		return fmt.Errorf("update subscriber: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}

func (r *SubscriberRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSubscriberNotFound
	}
	return nil
}

func (r *SubscriberRepository) CountByStatus(ctx context.Context) (*ports.StatusCounts, error) {
	return countByStatus(ctx, r.col)
}

// EnsureIndexes creates necessary indexes on the subscribers collection.
func (r *SubscriberRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "unsubscribe_token", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

var campaignSearchFields = []string{"subject"}
var campaignSortFields = map[string]string{
	"createdAt": "created_at",
	"sentAt":    "sent_at",
	"subject":   "subject",
	"status":    "status",
}

type CampaignRepository struct {
	col *mongo.Collection
}

func NewCampaignRepository(db *mongo.Database) *CampaignRepository {
	return &CampaignRepository{col: db.Collection(collectionCampaigns)}
}

func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c.ID = primitive.NewObjectID().Hex()
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return c, nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, id string) (*domain.Campaign, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Campaign
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("find campaign: %w", err)
	}
	return &c, nil
}

func (r *CampaignRepository) List(ctx context.Context, f ports.ListFilter) ([]*domain.Campaign, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f, campaignSearchFields)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count campaigns: %w", err)
	}

	cursor, err := r.col.Find(ctx, filter, listOptions(f, campaignSortFields))
	if err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	defer cursor.Close(ctx)

	items := []*domain.Campaign{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("list campaigns: %w", err)
	}
	return items, total, nil
}

func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": c.ID}, c)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrCampaignNotFound
	}
	return nil
}

// IncrementSent atomically bumps the sent counter and returns the new value.
func (r *CampaignRepository) IncrementSent(ctx context.Context, id string, delta int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var updated struct {
		SentCount int64 `bson:"sent_count"`
	}
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"sent_count": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After).SetProjection(bson.M{"sent_count": 1}),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrCampaignNotFound
		}
		return 0, fmt.Errorf("increment sent count: %w", err)
	}
	return updated.SentCount, nil
}
