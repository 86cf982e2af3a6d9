package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type contactService struct {
	repo ports.ContactRepository
	log  zerolog.Logger
}

// NewContactService returns a ContactService implementation.
func NewContactService(repo ports.ContactRepository, log zerolog.Logger) ports.ContactService {
	return &contactService{repo: repo, log: log}
}

// Submit stores a public contact-form submission with status "new".
func (s *contactService) Submit(ctx context.Context, input ports.SubmitContactInput) (*domain.Contact, error) {
	now := time.Now().UTC()
	contact := &domain.Contact{
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Subject:   input.Subject,
		Message:   input.Message,
		Status:    domain.ContactNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := s.repo.Create(ctx, contact)
	if err != nil {
		s.log.Error().Err(err).Str("email", input.Email).Msg("failed to store contact submission")
		return nil, err
	}

	s.log.Info().Str("contact_id", created.ID).Str("subject", created.Subject).Msg("contact submitted")
	return created, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *contactService) List(ctx context.Context, f ports.ListFilter) (*ports.ContactPage, error) {
	f = f.Normalized()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.ContactPage{
		Items:      items,
		Pagination: ports.NewPageInfo(f.Page, f.Limit, total),
	}, nil
}

// UpdateStatus moves a contact through its triage states. Notes replace the
// previous notes only when non-empty.
func (s *contactService) UpdateStatus(ctx context.Context, id string, status domain.ContactStatus, notes string) (*domain.Contact, error) {
	if !domain.ValidContactStatus(status) {
		return nil, fmt.Errorf("%w: unknown contact status %q", domain.ErrInvalidTransition, status)
	}

	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	contact.Status = status
	if notes != "" {
		contact.Notes = notes
	}
	contact.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}

	s.log.Info().Str("contact_id", id).Str("status", string(status)).Msg("contact status updated")
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *contactService) Stats(ctx context.Context) (*ports.StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}
