package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type memberService struct {
	repo ports.MemberRepository
	log  zerolog.Logger
}

// NewMemberService returns a MemberService implementation.
func NewMemberService(repo ports.MemberRepository, log zerolog.Logger) ports.MemberService {
	return &memberService{repo: repo, log: log}
}

// Signup registers a community member with status "pending". Registration is
// idempotent on email: an existing record is returned unchanged.
func (s *memberService) Signup(ctx context.Context, input ports.MemberSignupInput) (*domain.CommunityMember, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, domain.ErrMemberExists
	}
	if err != nil && !errors.Is(err, domain.ErrMemberNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	member := &domain.CommunityMember{
		Name:       input.Name,
		Email:      email,
		Phone:      input.Phone,
		City:       input.City,
		Occupation: input.Occupation,
		Motivation: input.Motivation,
		Status:     domain.MemberPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := s.repo.Create(ctx, member)
	if err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("failed to store member signup")
		return nil, err
	}

	s.log.Info().Str("member_id", created.ID).Msg("community member registered")
	return created, nil
}

func (s *memberService) Get(ctx context.Context, id string) (*domain.CommunityMember, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *memberService) List(ctx context.Context, f ports.ListFilter) (*ports.MemberPage, error) {
	f = f.Normalized()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ports.MemberPage{
		Items:      items,
		Pagination: ports.NewPageInfo(f.Page, f.Limit, total),
	}, nil
}

func (s *memberService) UpdateStatus(ctx context.Context, id string, status domain.MemberStatus, notes string) (*domain.CommunityMember, error) {
	if !domain.ValidMemberStatus(status) {
		return nil, fmt.Errorf("%w: unknown member status %q", domain.ErrInvalidTransition, status)
	}

	member, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	member.Status = status
	if notes != "" {
		member.Notes = notes
	}
	member.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}

	s.log.Info().Str("member_id", id).Str("status", string(status)).Msg("member status updated")
	return member, nil
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *memberService) Stats(ctx context.Context) (*ports.StatusCounts, error) {
	return s.repo.CountByStatus(ctx)
}
