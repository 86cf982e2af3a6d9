package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type stubNewsletterService struct {
	subscribeFn   func(ctx context.Context, email, name string) (*domain.Subscriber, error)
	unsubscribeFn func(ctx context.Context, token string) error
}

func (s *stubNewsletterService) Subscribe(ctx context.Context, email, name string) (*domain.Subscriber, error) {
	return s.subscribeFn(ctx, email, name)
}

func (s *stubNewsletterService) Unsubscribe(ctx context.Context, token string) error {
	return s.unsubscribeFn(ctx, token)
}

func (s *stubNewsletterService) GetSubscriber(ctx context.Context, id string) (*domain.Subscriber, error) {
	return nil, domain.ErrSubscriberNotFound
}

func (s *stubNewsletterService) ListSubscribers(ctx context.Context, f ports.ListFilter) (*ports.SubscriberPage, error) {
	return &ports.SubscriberPage{}, nil
}

func (s *stubNewsletterService) DeleteSubscriber(ctx context.Context, id string) error {
	return nil
}

func (s *stubNewsletterService) SubscriberStats(ctx context.Context) (*ports.StatusCounts, error) {
	return &ports.StatusCounts{}, nil
}

func (s *stubNewsletterService) CreateCampaign(ctx context.Context, input ports.CampaignInput) (*domain.Campaign, error) {
	return nil, nil
}

func (s *stubNewsletterService) GetCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return nil, domain.ErrCampaignNotFound
}

func (s *stubNewsletterService) ListCampaigns(ctx context.Context, f ports.ListFilter) (*ports.CampaignPage, error) {
	return &ports.CampaignPage{}, nil
}

func (s *stubNewsletterService) SendCampaign(ctx context.Context, id string) (*domain.Campaign, error) {
	return nil, nil
}

// recordingInvalidator captures the resources invalidated by a handler.
type recordingInvalidator struct {
	resources []string
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, resource string) error {
	r.resources = append(r.resources, resource)
	return nil
}

func TestNewsletterHandler_Unsubscribe_DropsCachedSubscribers(t *testing.T) {
	svc := &stubNewsletterService{
		unsubscribeFn: func(ctx context.Context, token string) error {
			if token != "tok-abc" {
				t.Fatalf("unexpected token: %q", token)
			}
			return nil
		},
	}
	inv := &recordingInvalidator{}
	handler := NewNewsletterHandler(svc, inv)

	c, rec := newTestContext(t, http.MethodGet, "/api/newsletter/unsubscribe/tok-abc", "")
	c.SetParamNames("token")
	c.SetParamValues("tok-abc")

	if err := handler.Unsubscribe(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// The unsubscribe link is a GET, so the cache middleware never sees a
	// mutation; the handler has to drop the subscriber projections itself or
	// the back-office list and stats stay stale for the full TTL.
	if len(inv.resources) != 1 || inv.resources[0] != "subscribers" {
		t.Fatalf("expected one invalidation of %q, got %v", "subscribers", inv.resources)
	}
}

func TestNewsletterHandler_Unsubscribe_UnknownTokenKeepsCache(t *testing.T) {
	svc := &stubNewsletterService{
		unsubscribeFn: func(ctx context.Context, token string) error {
			return domain.ErrSubscriberNotFound
		},
	}
	inv := &recordingInvalidator{}
	handler := NewNewsletterHandler(svc, inv)

	c, _ := newTestContext(t, http.MethodGet, "/api/newsletter/unsubscribe/bogus", "")
	c.SetParamNames("token")
	c.SetParamValues("bogus")

	err := handler.Unsubscribe(c)
	if err != domain.ErrSubscriberNotFound {
		t.Fatalf("expected ErrSubscriberNotFound, got %v", err)
	}
	if len(inv.resources) != 0 {
		t.Fatalf("nothing changed, but cache was invalidated: %v", inv.resources)
	}
}
