package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// SubscriberRepository defines the persistence interface for subscribers.
type SubscriberRepository interface {
	Create(ctx context.Context, s *domain.Subscriber) (*domain.Subscriber, error)
	FindByID(ctx context.Context, id string) (*domain.Subscriber, error)
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)
	FindByToken(ctx context.Context, token string) (*domain.Subscriber, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Subscriber, int64, error)
	ListSubscribed(ctx context.Context) ([]*domain.Subscriber, error)
	Update(ctx context.Context, s *domain.Subscriber) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

// CampaignRepository defines the persistence interface for campaigns.
type CampaignRepository interface {
	Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error)
	FindByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Campaign, int64, error)
	Update(ctx context.Context, c *domain.Campaign) error
	// IncrementSent atomically adds delta to the campaign's sent counter and
	// returns the new value.
	IncrementSent(ctx context.Context, id string, delta int64) (int64, error)
}

// CampaignDelivery is one unit of newsletter delivery work: a rendered
// campaign addressed to a single recipient.
type CampaignDelivery struct {
	CampaignID       string
	Subject          string
	HTML             string
	Email            string
	Name             string
	UnsubscribeToken string
}

// DeliveryService consumes CampaignDelivery jobs produced by the dispatcher.
type DeliveryService interface {
	Deliver(ctx context.Context, job CampaignDelivery) error
}

// SubscriberPage is one page of subscribers plus pagination metadata.
type SubscriberPage struct {
	Items      []*domain.Subscriber
	Pagination PageInfo
}

// CampaignPage is one page of campaigns plus pagination metadata.
type CampaignPage struct {
	Items      []*domain.Campaign
	Pagination PageInfo
}

// CampaignInput carries the editable fields of a campaign.
type CampaignInput struct {
	Subject      string
	BodyMarkdown string
}

// NewsletterService defines subscriber and campaign use cases. Subscribe and
// Unsubscribe are public; the rest serve the back office.
type NewsletterService interface {
	Subscribe(ctx context.Context, email, name string) (*domain.Subscriber, error)
	Unsubscribe(ctx context.Context, token string) error

	GetSubscriber(ctx context.Context, id string) (*domain.Subscriber, error)
	ListSubscribers(ctx context.Context, f ListFilter) (*SubscriberPage, error)
	DeleteSubscriber(ctx context.Context, id string) error
	SubscriberStats(ctx context.Context) (*StatusCounts, error)

	CreateCampaign(ctx context.Context, input CampaignInput) (*domain.Campaign, error)
	GetCampaign(ctx context.Context, id string) (*domain.Campaign, error)
	ListCampaigns(ctx context.Context, f ListFilter) (*CampaignPage, error)
	SendCampaign(ctx context.Context, id string) (*domain.Campaign, error)
}
