package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// MemberRepository defines the persistence interface for community members.
type MemberRepository interface {
	Create(ctx context.Context, m *domain.CommunityMember) (*domain.CommunityMember, error)
	FindByID(ctx context.Context, id string) (*domain.CommunityMember, error)
	FindByEmail(ctx context.Context, email string) (*domain.CommunityMember, error)
	List(ctx context.Context, f ListFilter) ([]*domain.CommunityMember, int64, error)
	Update(ctx context.Context, m *domain.CommunityMember) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (*StatusCounts, error)
}

// MemberSignupInput carries a public membership registration.
type MemberSignupInput struct {
	Name       string
	Email      string
	Phone      string
	City       string
	Occupation string
	Motivation string
}

// MemberPage is one page of members plus pagination metadata.
type MemberPage struct {
	Items      []*domain.CommunityMember
	Pagination PageInfo
}

// MemberService defines community-member use cases.
type MemberService interface {
	Signup(ctx context.Context, input MemberSignupInput) (*domain.CommunityMember, error)
	Get(ctx context.Context, id string) (*domain.CommunityMember, error)
	List(ctx context.Context, f ListFilter) (*MemberPage, error)
	UpdateStatus(ctx context.Context, id string, status domain.MemberStatus, notes string) (*domain.CommunityMember, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*StatusCounts, error)
}
