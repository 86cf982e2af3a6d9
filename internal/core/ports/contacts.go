package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// ContactRepository defines the persistence interface for contact submissions.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) (*domain.Contact, error)
	FindByID(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, f ListFilter) ([]*domain.Contact, int64, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

// SubmitContactInput carries a public contact-form submission.
type SubmitContactInput struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// ContactPage is one page of contacts plus pagination metadata.
type ContactPage struct {
	Items      []*domain.Contact
	Pagination PageInfo
}

// ContactService defines contact use cases. Submit is the only public
// operation; the rest serve the back office.
type ContactService interface {
	Submit(ctx context.Context, input SubmitContactInput) (*domain.Contact, error)
	Get(ctx context.Context, id string) (*domain.Contact, error)
	List(ctx context.Context, f ListFilter) (*ContactPage, error)
	UpdateStatus(ctx context.Context, id string, status domain.ContactStatus, notes string) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StatusCounts, error)
}
