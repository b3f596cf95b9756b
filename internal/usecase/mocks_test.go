package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/duty-pharmacy/internal/domain"
)

// MockDirectoryRepository is a mock of DirectoryRepository
type MockDirectoryRepository struct {
	mock.Mock
}

func (m *MockDirectoryRepository) ListCities(ctx context.Context) ([]domain.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Region), args.Error(1)
}

func (m *MockDirectoryRepository) ListDistricts(ctx context.Context, cityID int) ([]domain.Region, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Region), args.Error(1)
}

// MockPharmacyRepository is a mock of PharmacyRepository
type MockPharmacyRepository struct {
	mock.Mock
}

func (m *MockPharmacyRepository) Fetch(ctx context.Context, city, district string) ([]domain.Pharmacy, error) {
	args := m.Called(ctx, city, district)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pharmacy), args.Error(1)
}

// MockFavoritesRepository is a mock of FavoritesRepository
type MockFavoritesRepository struct {
	mock.Mock
}

func (m *MockFavoritesRepository) Load(ctx context.Context) ([]domain.Pharmacy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Pharmacy), args.Error(1)
}

func (m *MockFavoritesRepository) Save(ctx context.Context, favorites []domain.Pharmacy) error {
	args := m.Called(ctx, favorites)
	return args.Error(0)
}

// MockLocationProvider is a mock of LocationProvider
type MockLocationProvider struct {
	mock.Mock
}

func (m *MockLocationProvider) Permission(ctx context.Context) (domain.PermissionStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PermissionStatus), args.Error(1)
}

func (m *MockLocationProvider) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.PermissionStatus), args.Error(1)
}

func (m *MockLocationProvider) CurrentPosition(ctx context.Context) (domain.GeoFix, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.GeoFix), args.Error(1)
}

func (m *MockLocationProvider) ReverseGeocode(ctx context.Context, fix domain.GeoFix) (string, string, error) {
	args := m.Called(ctx, fix)
	return args.String(0), args.String(1), args.Error(2)
}
