package service

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

// AuthService implements registration, login and profile management.
type AuthService struct {
	repo      ports.AuthRepository
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(repo ports.AuthRepository, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{repo: repo, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

// Register creates a self-service account. Privileged roles cannot be
// self-assigned: the public form only ever yields member or volunteer
// accounts, and admins mint staff through CreateOperator.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (string, *domain.Principal, error) {
	role := domain.RoleMember
	if input.Role != "" {
		normalized, ok := domain.NormalizeRole(input.Role)
		if !ok {
			return "", nil, domain.ErrInvalidCredentials
		}
		if normalized == domain.RoleAdmin || normalized == domain.RoleSubAdmin {
			return "", nil, domain.ErrForbidden
		}
		role = normalized
	}

	created, err := s.createPrincipal(ctx, input, role)
	if err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(created)
	if err != nil {
		return "", nil, err
	}
	return token, created, nil
}

// CreateOperator creates an account with any valid role. Reached only through
// the admin-authenticated route; no token is issued since the admin is
// creating the account for someone else.
func (s *AuthService) CreateOperator(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
	role := domain.RoleMember
	if input.Role != "" {
		normalized, ok := domain.NormalizeRole(input.Role)
		if !ok {
			return nil, domain.ErrInvalidCredentials
		}
		role = normalized
	}
	return s.createPrincipal(ctx, input, role)
}

func (s *AuthService) createPrincipal(ctx context.Context, input ports.RegisterInput, role string) (*domain.Principal, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	principal := &domain.Principal{
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        input.Phone,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.repo.Create(ctx, principal)
}

func (s *AuthService) Login(ctx context.Context, credential, password string) (string, *domain.Principal, error) {
	if credential == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	principal, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(credential)))
	if err != nil {
		return "", nil, err
	}
	if !principal.IsActive {
		return "", nil, domain.ErrUserInactive
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	principal.LastLoginAt = &now
	principal.UpdatedAt = now
	if err := s.repo.Update(ctx, principal); err != nil {
		// Login still succeeds; the timestamp is best-effort.
		principal.LastLoginAt = nil
	}

	token, err := s.generateToken(principal)
	if err != nil {
		return "", nil, err
	}
	return token, principal, nil
}

func (s *AuthService) Profile(ctx context.Context, id string) (*domain.Principal, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *AuthService) UpdateProfile(ctx context.Context, id string, input ports.UpdateProfileInput) (*domain.Principal, error) {
	principal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		principal.Name = input.Name
	}
	if input.Email != "" {
		principal.Email = strings.ToLower(strings.TrimSpace(input.Email))
	}
	if input.Phone != "" {
		principal.Phone = input.Phone
	}
	principal.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, id, current, next string) error {
	if next == "" {
		return domain.ErrInvalidCredentials
	}

	principal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(principal.PasswordHash), []byte(current)) != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	principal.PasswordHash = string(hash)
	principal.UpdatedAt = time.Now().UTC()

	return s.repo.Update(ctx, principal)
}

func (s *AuthService) generateToken(p *domain.Principal) (string, error) {
	claims := jwt.MapClaims{
		"sub":  p.ID,
		"name": p.Name,
		"role": p.Role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
