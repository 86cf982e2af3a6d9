package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// AuthRepository defines the persistence interface for principals.
type AuthRepository interface {
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
	Update(ctx context.Context, p *domain.Principal) error
}

// RegisterInput carries the fields of the public registration form.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Role     string
}

// UpdateProfileInput carries the editable profile fields. Empty fields are
// left unchanged.
type UpdateProfileInput struct {
	Name  string
	Email string
	Phone string
}

// AuthService defines authentication and profile use cases. Register is the
// public self-service path and never yields a privileged role; CreateOperator
// is the admin-only path that can.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (string, *domain.Principal, error)
	CreateOperator(ctx context.Context, input RegisterInput) (*domain.Principal, error)
	Login(ctx context.Context, credential, password string) (string, *domain.Principal, error)
	Profile(ctx context.Context, id string) (*domain.Principal, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.Principal, error)
	ChangePassword(ctx context.Context, id, current, next string) error
}
