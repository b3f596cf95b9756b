package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	"github.com/duty-pharmacy/internal/domain/repository"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
)

// DirectoryUseCase serves the city/district directory. Both lookups fail
// soft: any transport or payload error becomes an empty slice plus the
// DIRECTORY_FETCH_FAILED code, so a broken directory never aborts the
// selection flow.
type DirectoryUseCase struct {
	repo   repository.DirectoryRepository
	logger *zap.Logger

	mu     sync.Mutex
	cities []domain.Region
}

func NewDirectoryUseCase(repo repository.DirectoryRepository, logger *zap.Logger) *DirectoryUseCase {
	return &DirectoryUseCase{
		repo:   repo,
		logger: logger,
	}
}

// ListCities returns the city directory. The first successful fetch is
// cached for the rest of the process; the lock is held across the fetch so
// concurrent first callers share one request. A failed fetch stays uncached
// so a later call can retry.
func (uc *DirectoryUseCase) ListCities(ctx context.Context) ([]domain.Region, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.cities != nil {
		return uc.cities, nil
	}

	cities, err := uc.repo.ListCities(ctx)
	if err != nil {
		uc.logger.Error("Failed to load cities", zap.Error(err))
		return []domain.Region{}, apperrors.ErrDirectoryFetchFailed
	}

	uc.cities = cities
	uc.logger.Info("City directory loaded", zap.Int("count", len(cities)))
	return cities, nil
}

// ListDistricts returns the districts of one city. An empty result means
// "no districts available", not an error, and must never block city-level
// pharmacy queries.
func (uc *DirectoryUseCase) ListDistricts(ctx context.Context, cityID int) ([]domain.Region, error) {
	districts, err := uc.repo.ListDistricts(ctx, cityID)
	if err != nil {
		uc.logger.Error("Failed to load districts",
			zap.Int("city_id", cityID),
			zap.Error(err))
		return []domain.Region{}, apperrors.ErrDirectoryFetchFailed
	}
	return districts, nil
}
