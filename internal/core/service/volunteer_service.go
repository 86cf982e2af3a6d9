package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type volunteerService struct {
	repo ports.VolunteerRepository
	log  zerolog.Logger
}

// NewVolunteerService returns a VolunteerService implementation.
func NewVolunteerService(repo ports.VolunteerRepository, log zerolog.Logger) ports.VolunteerService {
	return &volunteerService{repo: repo, log: log}
}

// Signup stores a public volunteer application with status "pending".
func (s *volunteerService) Signup(ctx context.Context, input ports.VolunteerSignupInput) (*domain.Volunteer, error) {
	now := time.Now().UTC()
	volunteer := &domain.Volunteer{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		City:         input.City,
		Interests:    input.Interests,
		Availability: input.Availability,
		Status:       domain.VolunteerPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, volunteer)
	if err != nil {
		s.log.Error().Err(err).Str("email", input.Email).Msg("failed to store volunteer signup")
		return nil, err
	}

	s.log.Info().Str("volunteer_id", created.ID).Msg("volunteer signed up")
	return created, nil
}

func (s *volunteerService) Get(ctx context.Context, id string) (*domain.Volunteer, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *volunteerService) List(ctx context.Context, f ports.ListFilter) (*ports.VolunteerPage, error) {
	f = f.Normalized()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.VolunteerPage{
		Items:      items,
		Pagination: ports.NewPageInfo(f.Page, f.Limit, total),
	}, nil
}

func (s *volunteerService) UpdateStatus(ctx context.Context, id string, status domain.VolunteerStatus, notes string) (*domain.Volunteer, error) {
	if !domain.ValidVolunteerStatus(status) {
		return nil, fmt.Errorf("%w: unknown volunteer status %q", domain.ErrInvalidTransition, status)
	}

	volunteer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	volunteer.Status = status
	if notes != "" {
		volunteer.Notes = notes
	}
	volunteer.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, volunteer); err != nil {
		return nil, err
	}

	s.log.Info().Str("volunteer_id", id).Str("status", string(status)).Msg("volunteer status updated")
	return volunteer, nil
}

func (s *volunteerService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *volunteerService) Stats(ctx context.Context) (*ports.StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}
