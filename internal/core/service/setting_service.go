package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/ports"
)

type settingService struct {
	repo ports.SettingRepository
	log  zerolog.Logger
}

// NewSettingService returns a SettingService implementation.
func NewSettingService(repo ports.SettingRepository, log zerolog.Logger) ports.SettingService {
	return &settingService{repo: repo, log: log}
}

func (s *settingService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	return s.repo.Get(ctx, key)
}

func (s *settingService) GetAll(ctx context.Context) ([]*domain.Setting, error) {
	return s.repo.GetAll(ctx)
}

func (s *settingService) Set(ctx context.Context, key, value string) (*domain.Setting, error) {
	if key == "" {
		return nil, fmt.Errorf("setting key is required")
	}

	setting := &domain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if err := s.repo.Set(ctx, setting); err != nil {
		return nil, err
	}

	s.log.Info().Str("key", key).Msg("setting updated")
	return setting, nil
}

func (s *settingService) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
