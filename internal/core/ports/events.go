package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// EventRepository defines the persistence interface for events.
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Event, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Event, int64, error)
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

// EventInput carries the editable fields of an event.
type EventInput struct {
	Title       string
	Description string
	Location    string
	StartsAt    string // RFC 3339
	EndsAt      string // RFC 3339
	Capacity    int
}

// EventPage is one page of events plus pagination metadata.
type EventPage struct {
	Items      []*domain.Event
	Pagination PageInfo
}

// EventService defines event use cases. ListPublished and GetPublished serve
// the public site and only ever expose published events.
type EventService interface {
	Create(ctx context.Context, input EventInput) (*domain.Event, error)
	Get(ctx context.Context, id string) (*domain.Event, error)
	List(ctx context.Context, f ListFilter) (*EventPage, error)
	Update(ctx context.Context, id string, input EventInput) (*domain.Event, error)
	ChangeStatus(ctx context.Context, id string, status domain.EventStatus) (*domain.Event, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StatusCounts, error)

	ListPublished(ctx context.Context, f ListFilter) (*EventPage, error)
	GetPublished(ctx context.Context, slug string) (*domain.Event, error)
}
