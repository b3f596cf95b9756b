package repository

import (
	"context"

	"github.com/duty-pharmacy/internal/domain"
)

// DirectoryRepository fetches the administrative region directory from the
// duty API. Implementations return errors; fail-soft behavior (empty slice,
// recorded diagnostic) is the use case's responsibility.
type DirectoryRepository interface {
	// ListCities returns every city known to the backend.
	ListCities(ctx context.Context) ([]domain.Region, error)

	// ListDistricts returns the districts of one city. The backend payload
	// carries names only; implementations synthesize ordinal ids.
	ListDistricts(ctx context.Context, cityID int) ([]domain.Region, error)
}
