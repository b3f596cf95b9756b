package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
	"github.com/duty-pharmacy/internal/usecase"
)

func TestResolverUseCase_Resolve(t *testing.T) {
	logger := zap.NewNop()
	ctx := context.Background()
	ankaraFix := domain.GeoFix{Latitude: 39.92, Longitude: 32.85}

	t.Run("full pipeline resolves region with original casing", func(t *testing.T) {
		mockProvider := &MockLocationProvider{}
		uc := usecase.NewResolverUseCase(mockProvider, logger)

		mockProvider.On("Permission", ctx).Return(domain.PermissionGranted, nil)
		mockProvider.On("CurrentPosition", ctx).Return(ankaraFix, nil)
		mockProvider.On("ReverseGeocode", ctx, ankaraFix).Return("Ankara", "Çankaya", nil)

		resolved, err := uc.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ankara", resolved.City)
		assert.Equal(t, "Çankaya", resolved.District)
		assert.Equal(t, ankaraFix, resolved.Fix)
		assert.Equal(t, domain.PhaseRegionResolved, uc.Phase())
	})

	t.Run("prompts once and remembers denial", func(t *testing.T) {
		mockProvider := &MockLocationProvider{}
		uc := usecase.NewResolverUseCase(mockProvider, logger)

		mockProvider.On("Permission", ctx).Return(domain.PermissionUnknown, nil)
		mockProvider.On("RequestPermission", ctx).Return(domain.PermissionDenied, nil)

		_, err := uc.Resolve(ctx)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		assert.Equal(t, domain.PhasePermissionDenied, uc.Phase())

		// Second attempt must not re-prompt
		_, err = uc.Resolve(ctx)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		mockProvider.AssertNumberOfCalls(t, "RequestPermission", 1)
		mockProvider.AssertNotCalled(t, "CurrentPosition")
	})

	t.Run("previously denied permission is not re-prompted", func(t *testing.T) {
		mockProvider := &MockLocationProvider{}
		uc := usecase.NewResolverUseCase(mockProvider, logger)

		mockProvider.On("Permission", ctx).Return(domain.PermissionDenied, nil)

		_, err := uc.Resolve(ctx)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		mockProvider.AssertNotCalled(t, "RequestPermission")
	})

	t.Run("position failure is terminal for the attempt", func(t *testing.T) {
		mockProvider := &MockLocationProvider{}
		uc := usecase.NewResolverUseCase(mockProvider, logger)

		mockProvider.On("Permission", ctx).Return(domain.PermissionGranted, nil)
		mockProvider.On("CurrentPosition", ctx).Return(domain.GeoFix{}, errors.New("gps timeout"))

		_, err := uc.Resolve(ctx)
		assert.ErrorIs(t, err, apperrors.ErrLocationUnavailable)
		assert.Equal(t, domain.PhaseLocationFailed, uc.Phase())
	})

	t.Run("geocode failure is soft", func(t *testing.T) {
		mockProvider := &MockLocationProvider{}
		uc := usecase.NewResolverUseCase(mockProvider, logger)

		mockProvider.On("Permission", ctx).Return(domain.PermissionGranted, nil)
		mockProvider.On("CurrentPosition", ctx).Return(ankaraFix, nil)
		mockProvider.On("ReverseGeocode", ctx, ankaraFix).Return("", "", errors.New("no address"))

		_, err := uc.Resolve(ctx)
		assert.ErrorIs(t, err, apperrors.ErrGeocodeFailed)
		assert.Equal(t, domain.PhaseGeocodeFailed, uc.Phase())
	})

	t.Run("granted permission after prompt proceeds", func(t *testing.T) {
		mockProvider := &MockLocationProvider{}
		uc := usecase.NewResolverUseCase(mockProvider, logger)

		mockProvider.On("Permission", ctx).Return(domain.PermissionUnknown, nil)
		mockProvider.On("RequestPermission", ctx).Return(domain.PermissionGranted, nil)
		mockProvider.On("CurrentPosition", ctx).Return(ankaraFix, nil)
		mockProvider.On("ReverseGeocode", ctx, ankaraFix).Return("Ankara", "", nil)

		resolved, err := uc.Resolve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Ankara", resolved.City)
		assert.Empty(t, resolved.District)
	})
}
