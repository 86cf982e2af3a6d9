package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type stubEventRepo struct {
	events map[string]*domain.Event
	bySlug map[string]*domain.Event
	next   int
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{
		events: make(map[string]*domain.Event),
		bySlug: make(map[string]*domain.Event),
	}
}

func (r *stubEventRepo) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	r.next++
	e.ID = fmt.Sprintf("e%d", r.next)
	r.events[e.ID] = e
	r.bySlug[e.Slug] = e
	return e, nil
}

func (r *stubEventRepo) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (r *stubEventRepo) FindBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	e, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (r *stubEventRepo) List(ctx context.Context, f ports.ListFilter) ([]*domain.Event, int64, error) {
	out := make([]*domain.Event, 0, len(r.events))
	for _, e := range r.events {
		if f.Status != "" && string(e.Status) != f.Status {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *stubEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := r.events[e.ID]; !ok {
		return domain.ErrEventNotFound
	}
	r.events[e.ID] = e
	return nil
}

func (r *stubEventRepo) Delete(ctx context.Context, id string) error {
	delete(r.events, id)
	return nil
}

func (r *stubEventRepo) CountByStatus(ctx context.Context) (*ports.StatusCounts, error) {
	return &ports.StatusCounts{Total: int64(len(r.events))}, nil
}

func validEventInput() ports.EventInput {
	return ports.EventInput{
		Title:    "Community Town Hall",
		Location: "Main Library",
		StartsAt: time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		EndsAt:   time.Now().Add(26 * time.Hour).Format(time.RFC3339),
	}
}

func TestEventService_CreateStartsDraft(t *testing.T) {
	svc := NewEventService(newStubEventRepo(), zerolog.Nop())

	event, err := svc.Create(context.Background(), validEventInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if event.Status != domain.EventDraft {
		t.Fatalf("expected draft, got %q", event.Status)
	}
	if !strings.HasPrefix(event.Slug, "community-town-hall-") {
		t.Fatalf("unexpected slug: %q", event.Slug)
	}
}

func TestEventService_CreateRejectsInvertedWindow(t *testing.T) {
	svc := NewEventService(newStubEventRepo(), zerolog.Nop())

	input := validEventInput()
	input.StartsAt, input.EndsAt = input.EndsAt, input.StartsAt

	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrInvalidEventWindow) {
		t.Fatalf("expected ErrInvalidEventWindow for window ending before it starts, got %v", err)
	}
}

func TestEventService_StatusTransitions(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())

	event, err := svc.Create(context.Background(), validEventInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// draft → published is legal.
	event, err = svc.ChangeStatus(context.Background(), event.ID, domain.EventPublished)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if event.Status != domain.EventPublished {
		t.Fatalf("expected published, got %q", event.Status)
	}

	// published → draft is not.
	if _, err := svc.ChangeStatus(context.Background(), event.ID, domain.EventDraft); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	// published → completed is legal, and completed is terminal.
	event, err = svc.ChangeStatus(context.Background(), event.ID, domain.EventCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if _, err := svc.ChangeStatus(context.Background(), event.ID, domain.EventCancelled); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected terminal state, got %v", err)
	}
}

func TestEventService_GetPublishedHidesDrafts(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())

	event, err := svc.Create(context.Background(), validEventInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.GetPublished(context.Background(), event.Slug); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("draft should be invisible publicly, got %v", err)
	}

	if _, err := svc.ChangeStatus(context.Background(), event.ID, domain.EventPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}
	got, err := svc.GetPublished(context.Background(), event.Slug)
	if err != nil {
		t.Fatalf("get published: %v", err)
	}
	if got.ID != event.ID {
		t.Fatalf("wrong event returned")
	}
}

func TestEventService_ListPublishedPinsStatus(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, zerolog.Nop())

	draft, _ := svc.Create(context.Background(), validEventInput())
	published, _ := svc.Create(context.Background(), validEventInput())
	if _, err := svc.ChangeStatus(context.Background(), published.ID, domain.EventPublished); err != nil {
		t.Fatalf("publish: %v", err)
	}

	// Even a caller-supplied status filter cannot expose drafts.
	page, err := svc.ListPublished(context.Background(), ports.ListFilter{Status: string(domain.EventDraft)})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	for _, e := range page.Items {
		if e.ID == draft.ID {
			t.Fatalf("draft leaked into public list")
		}
		if e.Status != domain.EventPublished {
			t.Fatalf("non-published event in public list: %q", e.Status)
		}
	}
}
