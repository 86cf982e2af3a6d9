package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

// SendDeduper abstracts the per-campaign delivery idempotency store (Redis).
type SendDeduper interface {
	AlreadySent(ctx context.Context, campaignID, email string) (bool, error)
	MarkSent(ctx context.Context, campaignID, email string) error
}

// EmailSender abstracts the outbound email provider.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// DeliveryQueue abstracts the sharded campaign dispatcher.
type DeliveryQueue interface {
	EnqueueBatch(jobs []ports.CampaignDelivery)
}

type newsletterService struct {
	subscribers ports.SubscriberRepository
	campaigns   ports.CampaignRepository
	queue       DeliveryQueue
	dedup       SendDeduper
	email       EmailSender
	baseURL     string // public site base URL for unsubscribe links
	log         zerolog.Logger
}

// NewNewsletterService returns a NewsletterService that is also the
// DeliveryService consumed by the dispatcher workers.
func NewNewsletterService(
	subscribers ports.SubscriberRepository,
	campaigns ports.CampaignRepository,
	queue DeliveryQueue,
	dedup SendDeduper,
	email EmailSender,
	baseURL string,
	log zerolog.Logger,
) interface {
	ports.NewsletterService
	ports.DeliveryService
} {
	return &newsletterService{
		subscribers: subscribers,
		campaigns:   campaigns,
		queue:       queue,
		dedup:       dedup,
		email:       email,
		baseURL:     strings.TrimRight(baseURL, "/"),
		log:         log,
	}
}

// Subscribe creates a subscriber, or resubscribes a previously unsubscribed
// email. Subscribing an already-subscribed email is rejected.
func (s *newsletterService) Subscribe(ctx context.Context, email, name string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	existing, err := s.subscribers.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrSubscriberNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == domain.Subscribed {
			return nil, domain.ErrAlreadySubscribed
		}
		existing.Status = domain.Subscribed
		existing.UnsubscribedAt = nil
		existing.UpdatedAt = time.Now().UTC()
		if err := s.subscribers.Update(ctx, existing); err != nil {
			return nil, err
		}
		s.log.Info().Str("subscriber_id", existing.ID).Msg("subscriber reactivated")
		return existing, nil
	}

	now := time.Now().UTC()
	subscriber := &domain.Subscriber{
		Email:            email,
		Name:             name,
		Status:           domain.Subscribed,
		UnsubscribeToken: uuid.NewString(),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.subscribers.Create(ctx, subscriber)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("failed to store subscriber")
		return nil, err
	}

	s.log.Info().Str("subscriber_id", created.ID).Msg("newsletter subscription created")
	return created, nil
}

// Unsubscribe flips the subscriber matching the opaque token. Idempotent:
// unsubscribing twice is not an error.
func (s *newsletterService) Unsubscribe(ctx context.Context, token string) error {
	subscriber, err := s.subscribers.FindByToken(ctx, token)
	if err != nil {
		return err
	}
	if subscriber.Status == domain.Unsubscribed {
		return nil
	}

	now := time.Now().UTC()
	subscriber.Status = domain.Unsubscribed
	subscriber.UnsubscribedAt = &now
	subscriber.UpdatedAt = now

	if err := s.subscribers.Update(ctx, subscriber); err != nil {
		return err
	}
	s.log.Info().Str("subscriber_id", subscriber.ID).Msg("subscriber unsubscribed")
	return nil
}

func (s *newsletterService) GetSubscriber(ctx context.Context, id string) (*domain.Subscriber, error) {
	return s.subscribers.FindByID(ctx, id)
}

func (s *newsletterService) ListSubscribers(ctx context.Context, f ports.ListFilter) (*ports.SubscriberPage, error) {
	f = f.Normalized()
	items, total, err := s.subscribers.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.SubscriberPage{Items: items, Pagination: ports.NewPageInfo(f.Page, f.Limit, total)}, nil
}

func (s *newsletterService) DeleteSubscriber(ctx context.Context, id string) error {
	return s.subscribers.Delete(ctx, id)
}

func (s *newsletterService) SubscriberStats(ctx context.Context) (*ports.StatusCounts, error) {
	return s.subscribers.CountByStatus(ctx)
}

func (s *newsletterService) CreateCampaign(ctx context.Context, input ports.CampaignInput) (*domain.Campaign, error) {
	if input.Subject == "" || input.BodyMarkdown == "" {
		return nil, fmt.Errorf("campaign subject and body are required")
	}

	now := time.Now().UTC()
	campaign := &domain.Campaign{
		Subject:      input.Subject,
		BodyMarkdown: input.BodyMarkdown,
		Status:       domain.CampaignDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.campaigns.Create(ctx, campaign)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("campaign_id", created.ID).Str("subject", created.Subject).Msg("campaign created")
	return created, nil
}

func (s *newsletterService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.campaigns.FindByID(ctx, id)
}

func (s *newsletterService) ListCampaigns(ctx context.Context, f ports.ListFilter) (*ports.CampaignPage, error) {
	f = f.Normalized()
	items, total, err := s.campaigns.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.CampaignPage{Items: items, Pagination: ports.NewPageInfo(f.Page, f.Limit, total)}, nil
}

// SendCampaign renders the campaign body, snapshots the subscribed audience
// and fans the deliveries out to the dispatcher. The call returns as soon as
// all jobs are enqueued; workers drive the campaign to "sent".
func (s *newsletterService) SendCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status != domain.CampaignDraft {
		return nil, domain.ErrCampaignNotDraft
	}

	html, err := renderMarkdown(campaign.BodyMarkdown)
	if err != nil {
		return nil, fmt.Errorf("render campaign body: %w", err)
	}

	audience, err := s.subscribers.ListSubscribed(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	campaign.BodyHTML = html
	campaign.Recipients = int64(len(audience))
	campaign.UpdatedAt = now

	if len(audience) == 0 {
		campaign.Status = domain.CampaignSent
		campaign.SentAt = &now
		if err := s.campaigns.Update(ctx, campaign); err != nil {
			return nil, err
		}
		s.log.Warn().Str("campaign_id", id).Msg("campaign sent to empty audience")
		return campaign, nil
	}

	campaign.Status = domain.CampaignSending
	if err := s.campaigns.Update(ctx, campaign); err != nil {
		return nil, err
	}

	jobs := make([]ports.CampaignDelivery, 0, len(audience))
	for _, sub := range audience {
		jobs = append(jobs, ports.CampaignDelivery{
			CampaignID:       campaign.ID,
			Subject:          campaign.Subject,
			HTML:             html,
			Email:            sub.Email,
			Name:             sub.Name,
			UnsubscribeToken: sub.UnsubscribeToken,
		})
	}
	s.queue.EnqueueBatch(jobs)

	s.log.Info().Str("campaign_id", id).Int("recipients", len(jobs)).Msg("campaign dispatch started")
	return campaign, nil
}

// Deliver sends one campaign email. Called by dispatcher workers; must be
// safe to retry, hence the dedup gate before the provider call.
func (s *newsletterService) Deliver(ctx context.Context, job ports.CampaignDelivery) error {
	sent, err := s.dedup.AlreadySent(ctx, job.CampaignID, job.Email)
	if err != nil {
		s.log.Warn().Err(err).Str("campaign_id", job.CampaignID).Msg("send dedup check failed, delivering anyway")
	} else if sent {
		s.log.Debug().Str("campaign_id", job.CampaignID).Str("email", job.Email).Msg("duplicate delivery skipped")
		return nil
	}

	html := job.HTML + unsubscribeFooter(s.baseURL, job.UnsubscribeToken)
	if err := s.email.Send(ctx, job.Email, job.Subject, html); err != nil {
		return fmt.Errorf("deliver campaign %s to %s: %w", job.CampaignID, job.Email, err)
	}

	if err := s.dedup.MarkSent(ctx, job.CampaignID, job.Email); err != nil {
		s.log.Warn().Err(err).Str("campaign_id", job.CampaignID).Msg("failed to set send dedup key")
	}

	count, err := s.campaigns.IncrementSent(ctx, job.CampaignID, 1)
	if err != nil {
		return err
	}

	// Last delivery closes the campaign.
	campaign, err := s.campaigns.FindByID(ctx, job.CampaignID)
	if err == nil && campaign.Status == domain.CampaignSending && count >= campaign.Recipients {
		now := time.Now().UTC()
		campaign.Status = domain.CampaignSent
		campaign.SentAt = &now
		campaign.SentCount = count
		campaign.UpdatedAt = now
		if err := s.campaigns.Update(ctx, campaign); err != nil {
			s.log.Warn().Err(err).Str("campaign_id", job.CampaignID).Msg("failed to close campaign")
		} else {
			s.log.Info().Str("campaign_id", job.CampaignID).Int64("sent", count).Msg("campaign fully delivered")
		}
	}
	return nil
}

func renderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func unsubscribeFooter(baseURL, token string) string {
	return fmt.Sprintf(
		`<p style="font-size:12px;color:#666"><a href="%s/api/newsletter/unsubscribe/%s">Unsubscribe</a></p>`,
		baseURL, token,
	)
}
