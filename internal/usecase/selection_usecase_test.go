package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
	"github.com/duty-pharmacy/internal/usecase"
)

type engineMocks struct {
	directory *MockDirectoryRepository
	pharmacy  *MockPharmacyRepository
	favorites *MockFavoritesRepository
	location  *MockLocationProvider
}

func newEngine(t *testing.T) (*usecase.SelectionUseCase, *engineMocks) {
	t.Helper()
	logger := zap.NewNop()

	m := &engineMocks{
		directory: &MockDirectoryRepository{},
		pharmacy:  &MockPharmacyRepository{},
		favorites: &MockFavoritesRepository{},
		location:  &MockLocationProvider{},
	}

	directoryUC := usecase.NewDirectoryUseCase(m.directory, logger)
	queryUC := usecase.NewQueryUseCase(m.pharmacy, logger)
	favoritesUC := usecase.NewFavoritesUseCase(m.favorites, logger)
	resolverUC := usecase.NewResolverUseCase(m.location, logger)

	return usecase.NewSelectionUseCase(directoryUC, queryUC, favoritesUC, resolverUC, logger), m
}

var (
	ankara  = domain.Region{ID: 6, Name: "Ankara"}
	bursa   = domain.Region{ID: 16, Name: "Bursa"}
	eczaneA = domain.Pharmacy{Name: "Eczane A", Address: "Kızılay", Latitude: 39.9, Longitude: 32.8}
	eczaneB = domain.Pharmacy{Name: "Eczane B", Address: "Tunalı", Latitude: 39.91, Longitude: 32.81}
)

func TestSelectionUseCase_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("resolved region drives an automatic query and recenters", func(t *testing.T) {
		uc, m := newEngine(t)

		fix := domain.GeoFix{Latitude: 39.92, Longitude: 32.85}
		m.favorites.On("Load", mock.Anything).Return([]domain.Pharmacy{}, nil)
		m.directory.On("ListCities", mock.Anything).Return([]domain.Region{ankara, bursa}, nil)
		m.location.On("Permission", mock.Anything).Return(domain.PermissionGranted, nil)
		m.location.On("CurrentPosition", mock.Anything).Return(fix, nil)
		m.location.On("ReverseGeocode", mock.Anything, fix).Return("Ankara", "Çankaya", nil)
		m.pharmacy.On("Fetch", mock.Anything, "ankara", "cankaya").
			Return([]domain.Pharmacy{eczaneA}, nil)
		m.directory.On("ListDistricts", mock.Anything, 6).
			Return([]domain.Region{{ID: 1, Name: "Çankaya"}}, nil)

		uc.Start(ctx)

		snap := uc.Snapshot()
		assert.Equal(t, "Ankara", snap.SelectedCity)
		assert.Equal(t, 6, snap.SelectedCityID)
		assert.Equal(t, "Çankaya", snap.SelectedDistrict)
		assert.Equal(t, domain.ResultsReady, snap.Status)
		require.Len(t, snap.Results, 1)
		assert.Equal(t, "Eczane A", snap.Results[0].Name)

		// Viewport recentered on the first returned pharmacy
		assert.Equal(t, 39.9, snap.Viewport.Latitude)
		assert.Equal(t, 32.8, snap.Viewport.Longitude)
		assert.Equal(t, domain.ResultDelta, snap.Viewport.LatitudeDelta)

		assert.Len(t, snap.Districts, 1)
		m.pharmacy.AssertExpectations(t)
	})

	t.Run("permission denial leaves selection unset", func(t *testing.T) {
		uc, m := newEngine(t)

		m.favorites.On("Load", mock.Anything).Return([]domain.Pharmacy{}, nil)
		m.directory.On("ListCities", mock.Anything).Return([]domain.Region{ankara}, nil)
		m.location.On("Permission", mock.Anything).Return(domain.PermissionDenied, nil)

		uc.Start(ctx)

		snap := uc.Snapshot()
		assert.Empty(t, snap.SelectedCity)
		assert.Equal(t, domain.ResultsIdle, snap.Status)
		assert.Equal(t, "PERMISSION_DENIED", snap.LastError)
		assert.Equal(t, domain.DefaultViewport(), snap.Viewport)
		m.pharmacy.AssertNotCalled(t, "Fetch")
	})
}

func TestSelectionUseCase_GenerationStaleness(t *testing.T) {
	ctx := context.Background()

	// Sequences a slow city-scoped fetch (generation 1) against a fast
	// district-scoped one (generation 2). The release channel holds the
	// stale fetch until the caller decides it should resolve.
	setupRace := func(t *testing.T) (*usecase.SelectionUseCase, chan struct{}, *sync.WaitGroup) {
		t.Helper()
		uc, m := newEngine(t)

		m.directory.On("ListDistricts", mock.Anything, 6).
			Return([]domain.Region{{ID: 1, Name: "Çankaya"}}, nil)

		entered := make(chan struct{})
		release := make(chan struct{})

		m.pharmacy.On("Fetch", mock.Anything, "ankara", "").
			Run(func(mock.Arguments) {
				close(entered)
				<-release
			}).
			Return([]domain.Pharmacy{eczaneB}, nil).Once()
		m.pharmacy.On("Fetch", mock.Anything, "ankara", "cankaya").
			Return([]domain.Pharmacy{eczaneA}, nil).Once()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			uc.PickCity(ctx, ankara)
		}()
		<-entered

		return uc, release, &wg
	}

	t.Run("stale fetch resolving last is dropped", func(t *testing.T) {
		uc, release, wg := setupRace(t)

		require.NoError(t, uc.PickDistrict(ctx, "Çankaya"))

		// The newer selection's result is visible before the stale one lands
		snap := uc.Snapshot()
		require.Len(t, snap.Results, 1)
		assert.Equal(t, "Eczane A", snap.Results[0].Name)

		// The stale generation-1 result resolves now and must be dropped
		close(release)
		wg.Wait()

		snap = uc.Snapshot()
		require.Len(t, snap.Results, 1)
		assert.Equal(t, "Eczane A", snap.Results[0].Name)
		assert.Equal(t, domain.ResultsReady, snap.Status)
	})

	// The generation comparison happens under the state lock; a stale
	// commit may not pass against a generation read before a newer pick
	// bumped it. Repeats the race with concurrent snapshot readers.
	t.Run("newer result survives stale commits under contention", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			uc, release, wg := setupRace(t)

			require.NoError(t, uc.PickDistrict(ctx, "Çankaya"))

			var readers sync.WaitGroup
			for j := 0; j < 4; j++ {
				readers.Add(1)
				go func() {
					defer readers.Done()
					uc.Snapshot()
				}()
			}

			close(release)
			wg.Wait()
			readers.Wait()

			snap := uc.Snapshot()
			require.Len(t, snap.Results, 1)
			assert.Equal(t, "Eczane A", snap.Results[0].Name)
		}
	})
}

func TestSelectionUseCase_PickCity(t *testing.T) {
	ctx := context.Background()

	t.Run("clears district before issuing the new fetch", func(t *testing.T) {
		uc, m := newEngine(t)
		m.favorites.On("Load", mock.Anything).Return([]domain.Pharmacy{}, nil)

		m.pharmacy.On("Fetch", mock.Anything, "ankara", "").Return([]domain.Pharmacy{eczaneA}, nil)
		m.pharmacy.On("Fetch", mock.Anything, "ankara", "cankaya").Return([]domain.Pharmacy{eczaneA}, nil)
		m.pharmacy.On("Fetch", mock.Anything, "bursa", "").Return([]domain.Pharmacy{eczaneB}, nil)
		m.directory.On("ListDistricts", mock.Anything, 6).
			Return([]domain.Region{{ID: 1, Name: "Çankaya"}}, nil)
		m.directory.On("ListDistricts", mock.Anything, 16).
			Return([]domain.Region{{ID: 1, Name: "Nilüfer"}}, nil)

		uc.PickCity(ctx, ankara)
		require.NoError(t, uc.PickDistrict(ctx, "Çankaya"))

		uc.PickCity(ctx, bursa)

		snap := uc.Snapshot()
		assert.Equal(t, "Bursa", snap.SelectedCity)
		assert.Empty(t, snap.SelectedDistrict)
		require.Len(t, snap.Results, 1)
		assert.Equal(t, "Eczane B", snap.Results[0].Name)
		assert.Equal(t, []domain.Region{{ID: 1, Name: "Nilüfer"}}, snap.Districts)
	})

	t.Run("district list failure clears loading flag and keeps city", func(t *testing.T) {
		uc, m := newEngine(t)
		m.favorites.On("Load", mock.Anything).Return([]domain.Pharmacy{}, nil)

		m.pharmacy.On("Fetch", mock.Anything, "ankara", "").Return([]domain.Pharmacy{eczaneA}, nil)
		m.directory.On("ListDistricts", mock.Anything, 6).Return(nil, errors.New("transport error"))

		uc.PickCity(ctx, ankara)

		snap := uc.Snapshot()
		assert.Equal(t, "Ankara", snap.SelectedCity)
		assert.Empty(t, snap.Districts)
		assert.False(t, snap.DistrictsLoading)
		assert.Equal(t, domain.ResultsReady, snap.Status)
		assert.Equal(t, "DIRECTORY_FETCH_FAILED", snap.LastError)
	})

	t.Run("district without city is rejected", func(t *testing.T) {
		uc, _ := newEngine(t)
		err := uc.PickDistrict(ctx, "Çankaya")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRequest)
	})
}

func TestSelectionUseCase_FetchOutcomes(t *testing.T) {
	ctx := context.Background()

	t.Run("empty completed fetch is an explicit empty state", func(t *testing.T) {
		uc, m := newEngine(t)
		m.pharmacy.On("Fetch", mock.Anything, "ankara", "").Return([]domain.Pharmacy{}, nil)
		m.directory.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

		uc.PickCity(ctx, ankara)

		snap := uc.Snapshot()
		assert.Equal(t, domain.ResultsEmpty, snap.Status)
		assert.Empty(t, snap.Results)
	})

	t.Run("failed fetch with no previous results is unavailable", func(t *testing.T) {
		uc, m := newEngine(t)
		m.pharmacy.On("Fetch", mock.Anything, "ankara", "").Return(nil, errors.New("timeout"))
		m.directory.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

		uc.PickCity(ctx, ankara)

		snap := uc.Snapshot()
		assert.Equal(t, domain.ResultsUnavailable, snap.Status)
		assert.Equal(t, "QUERY_FAILED", snap.LastError)
	})

	t.Run("results are annotated with favorites on commit", func(t *testing.T) {
		logger := zap.NewNop()
		mockDir := &MockDirectoryRepository{}
		mockPharm := &MockPharmacyRepository{}
		mockFav := &MockFavoritesRepository{}

		mockFav.On("Load", mock.Anything).Return([]domain.Pharmacy{
			{Name: "Eczane A", IsFavorite: true},
		}, nil)
		mockPharm.On("Fetch", mock.Anything, "ankara", "").
			Return([]domain.Pharmacy{eczaneA, eczaneB}, nil)
		mockDir.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

		favoritesUC := usecase.NewFavoritesUseCase(mockFav, logger)
		favoritesUC.Load(ctx)

		uc := usecase.NewSelectionUseCase(
			usecase.NewDirectoryUseCase(mockDir, logger),
			usecase.NewQueryUseCase(mockPharm, logger),
			favoritesUC,
			usecase.NewResolverUseCase(&MockLocationProvider{}, logger),
			logger,
		)

		uc.PickCity(ctx, ankara)

		snap := uc.Snapshot()
		require.Len(t, snap.Results, 2)
		assert.True(t, snap.Results[0].IsFavorite)
		assert.False(t, snap.Results[1].IsFavorite)
	})
}

func TestSelectionUseCase_FavoritesTab(t *testing.T) {
	ctx := context.Background()
	uc, m := newEngine(t)

	m.favorites.On("Save", mock.Anything, mock.Anything).Return(nil)
	m.pharmacy.On("Fetch", mock.Anything, "ankara", "").
		Return([]domain.Pharmacy{eczaneA, eczaneB}, nil)
	m.directory.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

	uc.PickCity(ctx, ankara)

	require.NoError(t, uc.ToggleFavorite(ctx, "Eczane A"))

	fetchCalls := len(m.pharmacy.Calls)
	uc.SwitchTab(domain.TabFavorites)

	snap := uc.Snapshot()
	require.Len(t, snap.Results, 1)
	assert.Equal(t, "Eczane A", snap.Results[0].Name)
	assert.True(t, snap.Results[0].IsFavorite)

	// Switching to favorites never issues a network fetch
	assert.Len(t, m.pharmacy.Calls, fetchCalls)

	// The all tab still shows the fetched set, annotated
	uc.SwitchTab(domain.TabAll)
	snap = uc.Snapshot()
	require.Len(t, snap.Results, 2)
	assert.True(t, snap.Results[0].IsFavorite)

	// Search query narrows the favorites tab
	uc.SwitchTab(domain.TabFavorites)
	uc.SetSearchQuery("yoktur")
	assert.Empty(t, uc.Snapshot().Results)
}

func TestSelectionUseCase_FocusAndDismiss(t *testing.T) {
	ctx := context.Background()
	uc, m := newEngine(t)

	m.pharmacy.On("Fetch", mock.Anything, "ankara", "").
		Return([]domain.Pharmacy{eczaneA, eczaneB}, nil)
	m.directory.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

	uc.PickCity(ctx, ankara)
	beforeFocus := uc.Snapshot().Viewport

	t.Run("focus recenters tight on the pharmacy", func(t *testing.T) {
		require.NoError(t, uc.FocusPharmacy("Eczane B"))

		snap := uc.Snapshot()
		require.NotNil(t, snap.Focused)
		assert.Equal(t, "Eczane B", snap.Focused.Name)
		assert.Equal(t, 39.91, snap.Viewport.Latitude)
		assert.Equal(t, domain.FocusDelta, snap.Viewport.LatitudeDelta)
	})

	t.Run("dismiss restores the prior viewport", func(t *testing.T) {
		uc.DismissFocus()

		snap := uc.Snapshot()
		assert.Nil(t, snap.Focused)
		assert.Equal(t, beforeFocus, snap.Viewport)
	})

	t.Run("focusing a non-member is rejected", func(t *testing.T) {
		err := uc.FocusPharmacy("Eczane Yok")
		assert.ErrorIs(t, err, apperrors.ErrPharmacyNotInResults)
	})
}

func TestSelectionUseCase_ToggleFavoritePersistenceFailure(t *testing.T) {
	ctx := context.Background()
	uc, m := newEngine(t)

	m.favorites.On("Save", mock.Anything, mock.Anything).Return(errors.New("redis down"))
	m.pharmacy.On("Fetch", mock.Anything, "ankara", "").
		Return([]domain.Pharmacy{eczaneA}, nil)
	m.directory.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

	uc.PickCity(ctx, ankara)

	err := uc.ToggleFavorite(ctx, "Eczane A")
	assert.ErrorIs(t, err, apperrors.ErrPersistenceFailed)

	// Favorite still usable for the session
	snap := uc.Snapshot()
	assert.True(t, snap.Results[0].IsFavorite)
}

func TestSelectionUseCase_Reset(t *testing.T) {
	ctx := context.Background()
	uc, m := newEngine(t)

	m.directory.On("ListCities", mock.Anything).Return([]domain.Region{ankara}, nil)
	m.pharmacy.On("Fetch", mock.Anything, "ankara", "").
		Return([]domain.Pharmacy{eczaneA}, nil)
	m.directory.On("ListDistricts", mock.Anything, 6).Return([]domain.Region{}, nil)

	uc.PickCity(ctx, ankara)
	uc.Reset(ctx)

	snap := uc.Snapshot()
	assert.Empty(t, snap.SelectedCity)
	assert.Empty(t, snap.Results)
	assert.Equal(t, domain.ResultsIdle, snap.Status)
	assert.Equal(t, domain.DefaultViewport(), snap.Viewport)

	// Process-wide city cache survives the reset
	assert.Equal(t, []domain.Region{ankara}, snap.Cities)
}
