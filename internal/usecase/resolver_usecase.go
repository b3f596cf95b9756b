package usecase

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	"github.com/duty-pharmacy/internal/domain/repository"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
)

// ResolverUseCase drives the geolocation pipeline:
//
//	Unrequested → PermissionRequested → {PermissionDenied | granted}
//	→ Locating → {LocationFailed | fix} → ReverseGeocoding
//	→ {GeocodeFailed | RegionResolved}
//
// The permission prompt fires at most once per process. A denial is
// remembered and reported on later attempts without re-prompting.
type ResolverUseCase struct {
	provider repository.LocationProvider
	logger   *zap.Logger

	mu       sync.Mutex
	phase    domain.ResolverPhase
	prompted bool
	denied   bool
}

func NewResolverUseCase(provider repository.LocationProvider, logger *zap.Logger) *ResolverUseCase {
	return &ResolverUseCase{
		provider: provider,
		logger:   logger,
		phase:    domain.PhaseUnrequested,
	}
}

// Phase reports the last pipeline phase for observability.
func (uc *ResolverUseCase) Phase() domain.ResolverPhase {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.phase
}

// Resolve obtains a coordinate fix and reverse-geocodes it into a city and
// district. Region names are returned as the geocoder produced them; keys
// are normalized only at query-build time.
func (uc *ResolverUseCase) Resolve(ctx context.Context) (*domain.ResolvedRegion, error) {
	if err := uc.ensurePermission(ctx); err != nil {
		return nil, err
	}

	uc.setPhase(domain.PhaseLocating)
	fix, err := uc.provider.CurrentPosition(ctx)
	if err != nil {
		uc.setPhase(domain.PhaseLocationFailed)
		uc.logger.Error("Failed to acquire position", zap.Error(err))
		return nil, apperrors.ErrLocationUnavailable
	}

	uc.setPhase(domain.PhaseReverseGeocoding)
	city, district, err := uc.provider.ReverseGeocode(ctx, fix)
	if err != nil || city == "" {
		uc.setPhase(domain.PhaseGeocodeFailed)
		uc.logger.Warn("Reverse geocode failed",
			zap.Float64("lat", fix.Latitude),
			zap.Float64("lon", fix.Longitude),
			zap.Error(err))
		return nil, apperrors.ErrGeocodeFailed
	}

	uc.setPhase(domain.PhaseRegionResolved)
	uc.logger.Info("Region resolved",
		zap.String("city", city),
		zap.String("district", district))

	return &domain.ResolvedRegion{
		City:     city,
		District: district,
		Fix:      fix,
	}, nil
}

// ensurePermission checks the current permission and prompts once if it was
// never decided. A remembered denial short-circuits without prompting.
func (uc *ResolverUseCase) ensurePermission(ctx context.Context) error {
	uc.mu.Lock()
	if uc.denied {
		uc.mu.Unlock()
		return apperrors.ErrPermissionDenied
	}
	uc.mu.Unlock()

	status, err := uc.provider.Permission(ctx)
	if err != nil {
		uc.logger.Error("Permission check failed", zap.Error(err))
		uc.setPhase(domain.PhaseLocationFailed)
		return apperrors.ErrLocationUnavailable
	}

	if status == domain.PermissionGranted {
		return nil
	}

	uc.mu.Lock()
	alreadyPrompted := uc.prompted
	uc.prompted = true
	uc.mu.Unlock()

	if status == domain.PermissionDenied || alreadyPrompted {
		uc.rememberDenial()
		return apperrors.ErrPermissionDenied
	}

	uc.setPhase(domain.PhasePermissionRequested)
	status, err = uc.provider.RequestPermission(ctx)
	if err != nil {
		uc.logger.Error("Permission request failed", zap.Error(err))
		uc.setPhase(domain.PhaseLocationFailed)
		return apperrors.ErrLocationUnavailable
	}
	if status != domain.PermissionGranted {
		uc.rememberDenial()
		return apperrors.ErrPermissionDenied
	}
	return nil
}

func (uc *ResolverUseCase) rememberDenial() {
	uc.mu.Lock()
	uc.denied = true
	uc.phase = domain.PhasePermissionDenied
	uc.mu.Unlock()
	uc.logger.Warn("Location permission denied")
}

func (uc *ResolverUseCase) setPhase(phase domain.ResolverPhase) {
	uc.mu.Lock()
	uc.phase = phase
	uc.mu.Unlock()
}
