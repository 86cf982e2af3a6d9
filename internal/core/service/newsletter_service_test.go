package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type stubSubscriberRepo struct {
	byID    map[string]*domain.Subscriber
	byEmail map[string]*domain.Subscriber
	byToken map[string]*domain.Subscriber
	next    int
}

func newStubSubscriberRepo() *stubSubscriberRepo {
	return &stubSubscriberRepo{
		byID:    make(map[string]*domain.Subscriber),
		byEmail: make(map[string]*domain.Subscriber),
		byToken: make(map[string]*domain.Subscriber),
	}
}

func (r *stubSubscriberRepo) Create(ctx context.Context, s *domain.Subscriber) (*domain.Subscriber, error) {
	r.next++
	s.ID = fmt.Sprintf("s%d", r.next)
	r.byID[s.ID] = s
	r.byEmail[s.Email] = s
	r.byToken[s.UnsubscribeToken] = s
	return s, nil
}

func (r *stubSubscriberRepo) FindByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrSubscriberNotFound
	}
	return s, nil
}

func (r *stubSubscriberRepo) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrSubscriberNotFound
	}
	return s, nil
}

func (r *stubSubscriberRepo) FindByToken(ctx context.Context, token string) (*domain.Subscriber, error) {
	s, ok := r.byToken[token]
	if !ok {
		return nil, domain.ErrSubscriberNotFound
	}
	return s, nil
}

func (r *stubSubscriberRepo) List(ctx context.Context, f ports.ListFilter) ([]*domain.Subscriber, int64, error) {
	out := make([]*domain.Subscriber, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

func (r *stubSubscriberRepo) ListSubscribed(ctx context.Context) ([]*domain.Subscriber, error) {
	out := make([]*domain.Subscriber, 0, len(r.byID))
	for _, s := range r.byID {
		if s.Status == domain.Subscribed {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *stubSubscriberRepo) Update(ctx context.Context, s *domain.Subscriber) error {
	if _, ok := r.byID[s.ID]; !ok {
		return domain.ErrSubscriberNotFound
	}
	r.byID[s.ID] = s
	r.byEmail[s.Email] = s
	return nil
}

func (r *stubSubscriberRepo) Delete(ctx context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func (r *stubSubscriberRepo) CountByStatus(ctx context.Context) (*ports.StatusCounts, error) {
	return &ports.StatusCounts{Total: int64(len(r.byID))}, nil
}

type stubCampaignRepo struct {
	byID map[string]*domain.Campaign
	next int
}

func newStubCampaignRepo() *stubCampaignRepo {
	return &stubCampaignRepo{byID: make(map[string]*domain.Campaign)}
}

func (r *stubCampaignRepo) Create(ctx context.Context, c *domain.Campaign) (*domain.Campaign, error) {
	r.next++
	c.ID = fmt.Sprintf("camp%d", r.next)
	r.byID[c.ID] = c
	return c, nil
}

func (r *stubCampaignRepo) FindByID(ctx context.Context, id string) (*domain.Campaign, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCampaignNotFound
	}
	return c, nil
}

func (r *stubCampaignRepo) List(ctx context.Context, f ports.ListFilter) ([]*domain.Campaign, int64, error) {
	out := make([]*domain.Campaign, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (r *stubCampaignRepo) Update(ctx context.Context, c *domain.Campaign) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCampaignNotFound
	}
	r.byID[c.ID] = c
	return nil
}

func (r *stubCampaignRepo) IncrementSent(ctx context.Context, id string, delta int64) (int64, error) {
	c, ok := r.byID[id]
	if !ok {
		return 0, domain.ErrCampaignNotFound
	}
	c.SentCount += delta
	return c.SentCount, nil
}

type memoryDeduper struct {
	mu   sync.Mutex
	sent map[string]bool
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{sent: make(map[string]bool)}
}

func (d *memoryDeduper) AlreadySent(ctx context.Context, campaignID, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sent[campaignID+"|"+email], nil
}

func (d *memoryDeduper) MarkSent(ctx context.Context, campaignID, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent[campaignID+"|"+email] = true
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string // "email|subject"
	html []string
	fail bool
}

func (s *recordingSender) Send(ctx context.Context, to, subject, html string) error {
	if s.fail {
		return errors.New("provider down")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to+"|"+subject)
	s.html = append(s.html, html)
	return nil
}

type recordingQueue struct {
	jobs []ports.CampaignDelivery
}

func (q *recordingQueue) EnqueueBatch(jobs []ports.CampaignDelivery) {
	q.jobs = append(q.jobs, jobs...)
}

func newTestNewsletterService(
	subs *stubSubscriberRepo,
	camps *stubCampaignRepo,
	queue *recordingQueue,
	sender *recordingSender,
) interface {
	ports.NewsletterService
	ports.DeliveryService
} {
	return NewNewsletterService(subs, camps, queue, newMemoryDeduper(), sender, "https://civicvoice.org", zerolog.Nop())
}

func TestNewsletterService_SubscribeAndResubscribe(t *testing.T) {
	subs := newStubSubscriberRepo()
	svc := newTestNewsletterService(subs, newStubCampaignRepo(), &recordingQueue{}, &recordingSender{})

	created, err := svc.Subscribe(context.Background(), " Alice@Example.com ", "Alice")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if created.UnsubscribeToken == "" {
		t.Fatalf("no unsubscribe token issued")
	}

	// A second subscribe of a live address is a conflict.
	if _, err := svc.Subscribe(context.Background(), "alice@example.com", ""); !errors.Is(err, domain.ErrAlreadySubscribed) {
		t.Fatalf("expected ErrAlreadySubscribed, got %v", err)
	}

	// Unsubscribe, then resubscribe reactivates the same record.
	if err := svc.Unsubscribe(context.Background(), created.UnsubscribeToken); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}
	// Unsubscribing twice is a no-op.
	if err := svc.Unsubscribe(context.Background(), created.UnsubscribeToken); err != nil {
		t.Fatalf("second unsubscribe: %v", err)
	}

	back, err := svc.Subscribe(context.Background(), "alice@example.com", "")
	if err != nil {
		t.Fatalf("resubscribe: %v", err)
	}
	if back.ID != created.ID {
		t.Fatalf("resubscribe created a new record")
	}
	if back.Status != domain.Subscribed || back.UnsubscribedAt != nil {
		t.Fatalf("resubscribe did not reactivate: %+v", back)
	}
}

func TestNewsletterService_SendCampaignFansOut(t *testing.T) {
	subs := newStubSubscriberRepo()
	camps := newStubCampaignRepo()
	queue := &recordingQueue{}
	svc := newTestNewsletterService(subs, camps, queue, &recordingSender{})

	for i := 0; i < 3; i++ {
		if _, err := svc.Subscribe(context.Background(), fmt.Sprintf("u%d@example.com", i), ""); err != nil {
			t.Fatalf("subscribe: %v", err)
		}
	}
	// One unsubscribed address must not receive the campaign.
	gone, _ := svc.Subscribe(context.Background(), "gone@example.com", "")
	if err := svc.Unsubscribe(context.Background(), gone.UnsubscribeToken); err != nil {
		t.Fatalf("unsubscribe: %v", err)
	}

	campaign, err := svc.CreateCampaign(context.Background(), ports.CampaignInput{
		Subject:      "March update",
		BodyMarkdown: "# Hello\n\nNews of the month.",
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	sent, err := svc.SendCampaign(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != domain.CampaignSending {
		t.Fatalf("expected sending, got %q", sent.Status)
	}
	if sent.Recipients != 3 {
		t.Fatalf("expected 3 recipients, got %d", sent.Recipients)
	}
	if !strings.Contains(sent.BodyHTML, "<h1>") {
		t.Fatalf("markdown not rendered: %q", sent.BodyHTML)
	}
	if len(queue.jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(queue.jobs))
	}
	for _, job := range queue.jobs {
		if job.Email == "gone@example.com" {
			t.Fatalf("unsubscribed address received a delivery job")
		}
	}

	// Sending a non-draft campaign is rejected.
	if _, err := svc.SendCampaign(context.Background(), campaign.ID); !errors.Is(err, domain.ErrCampaignNotDraft) {
		t.Fatalf("expected ErrCampaignNotDraft, got %v", err)
	}
}

func TestNewsletterService_SendCampaignEmptyAudience(t *testing.T) {
	camps := newStubCampaignRepo()
	svc := newTestNewsletterService(newStubSubscriberRepo(), camps, &recordingQueue{}, &recordingSender{})

	campaign, err := svc.CreateCampaign(context.Background(), ports.CampaignInput{
		Subject: "Nobody home", BodyMarkdown: "text",
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}

	sent, err := svc.SendCampaign(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.Status != domain.CampaignSent {
		t.Fatalf("empty audience should close immediately, got %q", sent.Status)
	}
	if sent.SentAt == nil {
		t.Fatalf("sentAt not stamped")
	}
}

func TestNewsletterService_DeliverDedupAndClose(t *testing.T) {
	subs := newStubSubscriberRepo()
	camps := newStubCampaignRepo()
	queue := &recordingQueue{}
	sender := &recordingSender{}
	svc := newTestNewsletterService(subs, camps, queue, sender)

	if _, err := svc.Subscribe(context.Background(), "a@example.com", ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if _, err := svc.Subscribe(context.Background(), "b@example.com", ""); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	campaign, err := svc.CreateCampaign(context.Background(), ports.CampaignInput{
		Subject: "Update", BodyMarkdown: "body",
	})
	if err != nil {
		t.Fatalf("create campaign: %v", err)
	}
	if _, err := svc.SendCampaign(context.Background(), campaign.ID); err != nil {
		t.Fatalf("send: %v", err)
	}

	for _, job := range queue.jobs {
		if err := svc.Deliver(context.Background(), job); err != nil {
			t.Fatalf("deliver: %v", err)
		}
	}
	// Redelivery of the same job is skipped by the dedup gate.
	if err := svc.Deliver(context.Background(), queue.jobs[0]); err != nil {
		t.Fatalf("redeliver: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 provider sends, got %d", len(sender.sent))
	}
	for _, html := range sender.html {
		if !strings.Contains(html, "/api/newsletter/unsubscribe/") {
			t.Fatalf("unsubscribe footer missing")
		}
	}

	closed, err := camps.FindByID(context.Background(), campaign.ID)
	if err != nil {
		t.Fatalf("find campaign: %v", err)
	}
	if closed.Status != domain.CampaignSent {
		t.Fatalf("campaign not closed after final delivery: %q", closed.Status)
	}
	if closed.SentCount != 2 {
		t.Fatalf("expected sent count 2, got %d", closed.SentCount)
	}
}
