package usecase

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	"github.com/duty-pharmacy/internal/domain/repository"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
	"github.com/duty-pharmacy/internal/pkg/normalize"
)

// QueryUseCase turns a (city, district) selection into a pharmacy result
// set. Region names are normalized here, at query-build time; the directory
// and display layers keep the original casing.
type QueryUseCase struct {
	repo   repository.PharmacyRepository
	logger *zap.Logger
}

func NewQueryUseCase(repo repository.PharmacyRepository, logger *zap.Logger) *QueryUseCase {
	return &QueryUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Fetch queries by city alone when district is empty, else by city+district.
// On any failure it returns an empty sequence together with a taxonomy
// error; it never partially populates results. Result order is whatever the
// backend returned.
func (uc *QueryUseCase) Fetch(ctx context.Context, city, district string) ([]domain.Pharmacy, error) {
	if city == "" {
		return []domain.Pharmacy{}, apperrors.ErrQueryFailed.WithDetails(map[string]interface{}{
			"reason": "empty city",
		})
	}

	cityKey := normalize.Fold(city)
	districtKey := normalize.Fold(district)

	pharmacies, err := uc.repo.Fetch(ctx, cityKey, districtKey)
	if err != nil {
		uc.logger.Error("Pharmacy query failed",
			zap.String("city", cityKey),
			zap.String("district", districtKey),
			zap.Error(err))

		if errors.Is(err, apperrors.ErrMalformedResponse) {
			return []domain.Pharmacy{}, apperrors.ErrMalformedResponse
		}
		return []domain.Pharmacy{}, apperrors.ErrQueryFailed
	}

	return pharmacies, nil
}
