package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type eventService struct {
	repo ports.EventRepository
	log  zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(repo ports.EventRepository, log zerolog.Logger) ports.EventService {
	return &eventService{repo: repo, log: log}
}

// Create stores a new event in draft. The slug is derived from the title plus
// a short random suffix so titles never collide.
func (s *eventService) Create(ctx context.Context, input ports.EventInput) (*domain.Event, error) {
	startsAt, endsAt, err := parseEventWindow(input)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	event := &domain.Event{
		Title:       input.Title,
		Slug:        makeSlug(input.Title),
		Description: input.Description,
		Location:    input.Location,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		Capacity:    input.Capacity,
		Status:      domain.EventDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		s.log.Error().Err(err).Str("title", input.Title).Msg("failed to create event")
		return nil, err
	}

	s.log.Info().Str("event_id", created.ID).Str("slug", created.Slug).Msg("event created")
	return created, nil
}

func (s *eventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *eventService) List(ctx context.Context, f ports.ListFilter) (*ports.EventPage, error) {
	f = f.Normalized()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.EventPage{Items: items, Pagination: ports.NewPageInfo(f.Page, f.Limit, total)}, nil
}

func (s *eventService) Update(ctx context.Context, id string, input ports.EventInput) (*domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != "" {
		event.Title = input.Title
	}
	if input.Description != "" {
		event.Description = input.Description
	}
	if input.Location != "" {
		event.Location = input.Location
	}
	if input.Capacity > 0 {
		event.Capacity = input.Capacity
	}
	if input.StartsAt != "" || input.EndsAt != "" {
		startsAt, endsAt, err := parseEventWindow(ports.EventInput{
			StartsAt: orDefault(input.StartsAt, event.StartsAt),
			EndsAt:   orDefault(input.EndsAt, event.EndsAt),
		})
		if err != nil {
			return nil, err
		}
		event.StartsAt, event.EndsAt = startsAt, endsAt
	}
	event.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// ChangeStatus applies the event state machine: draft→published|cancelled,
// published→completed|cancelled.
func (s *eventService) ChangeStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error) {
	if !domain.ValidEventStatus(status) {
		return nil, fmt.Errorf("%w: unknown event status %q", domain.ErrInvalidTransition, status)
	}

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !event.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, event.Status, status)
	}

	event.Status = status
	event.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}

	s.log.Info().Str("event_id", id).Str("status", string(status)).Msg("event status changed")
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *eventService) Stats(ctx context.Context) (*ports.StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}

// ListPublished serves the public events page; the status filter is pinned.
func (s *eventService) ListPublished(ctx context.Context, f ports.ListFilter) (*ports.EventPage, error) {
	f.Status = string(domain.EventPublished)
	return s.List(ctx, f)
}

// GetPublished resolves a public event by slug, hiding anything unpublished.
func (s *eventService) GetPublished(ctx context.Context, slug string) (*domain.Event, error) {
	event, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventPublished {
		return nil, domain.ErrEventNotFound
	}
	return event, nil
}

func parseEventWindow(input ports.EventInput) (time.Time, time.Time, error) {
	startsAt, err := time.Parse(time.RFC3339, input.StartsAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: startsAt is not RFC 3339", domain.ErrInvalidEventWindow)
	}
	endsAt, err := time.Parse(time.RFC3339, input.EndsAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: endsAt is not RFC 3339", domain.ErrInvalidEventWindow)
	}
	if endsAt.Before(startsAt) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: ends before it starts", domain.ErrInvalidEventWindow)
	}
	return startsAt.UTC(), endsAt.UTC(), nil
}

func orDefault(s string, fallback time.Time) string {
	if s != "" {
		return s
	}
	return fallback.Format(time.RFC3339)
}

// makeSlug lowercases the title, collapses non-alphanumerics to hyphens and
// appends a 4-byte random suffix.
func makeSlug(title string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "event"
	}

	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return fmt.Sprintf("%s-%08x", slug, time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("%s-%08x", slug, suffix)
}
