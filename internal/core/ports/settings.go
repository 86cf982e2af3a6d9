package ports

import (
	"context"

	"github.com/civicvoice/platform/internal/core/domain"
)

// SettingRepository defines the persistence interface for site settings.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	GetAll(ctx context.Context) ([]*domain.Setting, error)
	Set(ctx context.Context, s *domain.Setting) error
	Delete(ctx context.Context, key string) error
}

// SettingService defines settings use cases.
type SettingService interface {
	Get(ctx context.Context, key string) (*domain.Setting, error)
	GetAll(ctx context.Context) ([]*domain.Setting, error)
	Set(ctx context.Context, key, value string) (*domain.Setting, error)
	Delete(ctx context.Context, key string) error
}
