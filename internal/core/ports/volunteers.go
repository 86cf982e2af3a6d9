package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// VolunteerRepository defines the persistence interface for volunteers.
type VolunteerRepository interface {
	Create(ctx context.Context, v *domain.Volunteer) (*domain.Volunteer, error)
	FindByID(ctx context.Context, id string) (*domain.Volunteer, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Volunteer, int64, error)
	Update(ctx context.Context, v *domain.Volunteer) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

// VolunteerSignupInput carries a public volunteer signup.
type VolunteerSignupInput struct {
	Name         string
	Email        string
	Phone        string
	City         string
	Interests    []string
	Availability string
}

// VolunteerPage is one page of volunteers plus pagination metadata.
type VolunteerPage struct {
	Items      []*domain.Volunteer
	Pagination PageInfo
}

// VolunteerService defines volunteer use cases.
type VolunteerService interface {
	Signup(ctx context.Context, input VolunteerSignupInput) (*domain.Volunteer, error)
	Get(ctx context.Context, id string) (*domain.Volunteer, error)
	List(ctx context.Context, f ListFilter) (*VolunteerPage, error)
	UpdateStatus(ctx context.Context, id string, status domain.VolunteerStatus, notes string) (*domain.Volunteer, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StatusCounts, error)
}
