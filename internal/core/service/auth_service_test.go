package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type stubAuthRepo struct {
	byEmail map[string]*domain.Principal
	byID    map[string]*domain.Principal
	updated *domain.Principal
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{
		byEmail: make(map[string]*domain.Principal),
		byID:    make(map[string]*domain.Principal),
	}
}

func (r *stubAuthRepo) Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error) {
	if _, ok := r.byEmail[p.Email]; ok {
		return nil, domain.ErrUserExists
	}
	p.ID = "p" + p.Email
	r.byEmail[p.Email] = p
	r.byID[p.ID] = p
	return p, nil
}

func (r *stubAuthRepo) FindByEmail(ctx context.Context, email string) (*domain.Principal, error) {
	p, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

func (r *stubAuthRepo) FindByID(ctx context.Context, id string) (*domain.Principal, error) {
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return p, nil
}

func (r *stubAuthRepo) Update(ctx context.Context, p *domain.Principal) error {
	r.updated = p
	return nil
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, created, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Alice",
		Email:    "  Alice@Example.COM ",
		Password: "secret123",
		Role:     "Volunteer",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Fatalf("email not lowercased: %q", created.Email)
	}
	if created.Role != domain.RoleVolunteer {
		t.Fatalf("role not normalized: %q", created.Role)
	}
	if created.PasswordHash == "secret123" {
		t.Fatalf("password stored in plaintext")
	}

	token, principal, err := svc.Login(context.Background(), "alice@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if principal.LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	if claims["sub"] != principal.ID {
		t.Fatalf("sub claim mismatch: %v", claims["sub"])
	}
	if claims["role"] != domain.RoleVolunteer {
		t.Fatalf("role claim mismatch: %v", claims["role"])
	}
}

func TestAuthService_RegisterRefusesPrivilegedRoles(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	for _, role := range []string{"admin", "sub_admin", "Sub Admin"} {
		_, _, err := svc.Register(context.Background(), ports.RegisterInput{
			Name: "Mallory", Email: "mallory@example.com", Password: "secret123", Role: role,
		})
		if err != domain.ErrForbidden {
			t.Fatalf("role %q: expected ErrForbidden, got %v", role, err)
		}
	}
	if len(repo.byEmail) != 0 {
		t.Fatalf("account was created despite rejection")
	}
}

func TestAuthService_CreateOperator(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	created, err := svc.CreateOperator(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "secret123", Role: "sub_admin",
	})
	if err != nil {
		t.Fatalf("create operator: %v", err)
	}
	if created.Role != domain.RoleSubAdmin {
		t.Fatalf("expected sub_admin, got %q", created.Role)
	}

	// Operator creation hands out no token; the new operator logs in on
	// their own.
	if _, _, err := svc.Login(context.Background(), "bob@example.com", "secret123"); err != nil {
		t.Fatalf("operator login: %v", err)
	}
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, _, err := svc.Login(context.Background(), "alice@example.com", "wrong-pass")
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_LoginInactiveAccount(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, created, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	created.IsActive = false

	_, _, err = svc.Login(context.Background(), "alice@example.com", "secret123")
	if err != domain.ErrUserInactive {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestAuthService_RegisterUnknownRole(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), "secret", time.Hour)

	_, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Mallory", Email: "m@example.com", Password: "secret123", Role: "superuser",
	})
	if err != domain.ErrInvalidCredentials {
		t.Fatalf("expected rejection of unknown role, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newStubAuthRepo()
	svc := NewAuthService(repo, "secret", time.Hour)

	_, created, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "secret123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), created.ID, "wrong", "next-secret"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}
	if err := svc.ChangePassword(context.Background(), created.ID, "secret123", "next-secret"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "alice@example.com", "next-secret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}
