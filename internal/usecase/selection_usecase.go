package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
	"github.com/duty-pharmacy/internal/pkg/normalize"
)

// SelectionUseCase owns the single authoritative selection state and
// sequences the directory, query, favorites and resolver components. Every
// pharmacy fetch is tagged with a monotonically increasing generation at
// issue time; a result is committed only while its generation is still the
// latest issued, so a slow stale request can never overwrite a fresher
// selection regardless of arrival order.
type SelectionUseCase struct {
	directory *DirectoryUseCase
	query     *QueryUseCase
	favorites *FavoritesUseCase
	resolver  *ResolverUseCase
	logger    *zap.Logger

	gen atomic.Uint64

	mu           sync.Mutex
	st           domain.Selection
	prevViewport *domain.Viewport
}

func NewSelectionUseCase(
	directory *DirectoryUseCase,
	query *QueryUseCase,
	favorites *FavoritesUseCase,
	resolver *ResolverUseCase,
	logger *zap.Logger,
) *SelectionUseCase {
	return &SelectionUseCase{
		directory: directory,
		query:     query,
		favorites: favorites,
		resolver:  resolver,
		logger:    logger,
		st:        domain.NewSelection(),
	}
}

// Start runs the app-start pipeline: load persisted favorites, load the city
// directory, resolve the device location and, when a region comes back,
// query its pharmacies. Resolver failures leave the selection unset; the
// error is recorded on the state for the UI to surface once.
func (uc *SelectionUseCase) Start(ctx context.Context) {
	uc.favorites.Load(ctx)

	uc.mu.Lock()
	uc.st.CitiesLoading = true
	uc.mu.Unlock()

	cities, dirErr := uc.directory.ListCities(ctx)

	uc.mu.Lock()
	uc.st.Cities = cities
	uc.st.CitiesLoading = false
	if dirErr != nil {
		uc.recordErrorLocked(dirErr)
	}
	uc.mu.Unlock()

	resolved, err := uc.resolver.Resolve(ctx)
	if err != nil {
		uc.recordError(err)
		return
	}

	cityID := matchCityID(cities, resolved.City)

	uc.mu.Lock()
	uc.st.SelectedCity = resolved.City
	uc.st.SelectedCityID = cityID
	uc.st.SelectedDistrict = resolved.District
	uc.st.Status = domain.ResultsLoading
	uc.st.Results = nil
	uc.st.Viewport = domain.CenteredOn(resolved.Fix.Latitude, resolved.Fix.Longitude, domain.ResultDelta)
	if cityID != 0 {
		uc.st.DistrictsLoading = true
	}
	uc.mu.Unlock()

	uc.fetchPharmacies(ctx, resolved.City, resolved.District)

	if cityID != 0 {
		districts, derr := uc.directory.ListDistricts(ctx, cityID)
		if derr != nil {
			uc.recordError(derr)
		}
		uc.commitDistricts(cityID, districts)
	}
}

// PickCity applies a manual city selection. The district and the visible
// result set are cleared before the city-scoped fetch is issued, then the
// city's district list is loaded without blocking the query path.
func (uc *SelectionUseCase) PickCity(ctx context.Context, city domain.Region) {
	uc.mu.Lock()
	uc.st.SelectedCity = city.Name
	uc.st.SelectedCityID = city.ID
	uc.st.SelectedDistrict = ""
	uc.st.Districts = nil
	uc.st.DistrictsLoading = true
	uc.st.Results = nil
	uc.st.Status = domain.ResultsLoading
	uc.st.Focused = nil
	uc.prevViewport = nil
	uc.mu.Unlock()

	uc.fetchPharmacies(ctx, city.Name, "")

	districts, derr := uc.directory.ListDistricts(ctx, city.ID)
	if derr != nil {
		uc.recordError(derr)
	}
	uc.commitDistricts(city.ID, districts)
}

// PickDistrict applies a manual district selection within the current city.
func (uc *SelectionUseCase) PickDistrict(ctx context.Context, district string) error {
	uc.mu.Lock()
	if uc.st.SelectedCity == "" {
		uc.mu.Unlock()
		return apperrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"reason": "district selected without a city",
		})
	}
	city := uc.st.SelectedCity
	uc.st.SelectedDistrict = district
	uc.st.Results = nil
	uc.st.Status = domain.ResultsLoading
	uc.st.Focused = nil
	uc.prevViewport = nil
	uc.mu.Unlock()

	uc.fetchPharmacies(ctx, city, district)
	return nil
}

// SwitchTab changes the visible source. The favorites tab never issues a
// network fetch; its content comes from the favorites filter at snapshot
// time.
func (uc *SelectionUseCase) SwitchTab(tab domain.Tab) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.st.Tab == tab {
		return
	}
	uc.st.Tab = tab
	uc.st.Focused = nil
	uc.prevViewport = nil
}

func (uc *SelectionUseCase) SetSearchQuery(query string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.st.SearchQuery = query
}

func (uc *SelectionUseCase) ToggleViewMode() domain.ViewMode {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.st.ViewMode == domain.ViewList {
		uc.st.ViewMode = domain.ViewMap
	} else {
		uc.st.ViewMode = domain.ViewList
	}
	return uc.st.ViewMode
}

// FocusPharmacy sets the focused pharmacy and recenters the viewport to a
// tight zoom around it. The pharmacy must be a member of the currently
// visible result set.
func (uc *SelectionUseCase) FocusPharmacy(name string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	target := findByName(uc.visibleLocked(), name)
	if target == nil {
		return apperrors.ErrPharmacyNotInResults.WithDetails(map[string]interface{}{
			"name": name,
		})
	}

	if uc.st.Focused == nil {
		saved := uc.st.Viewport
		uc.prevViewport = &saved
	}
	uc.st.Focused = target
	uc.st.Viewport = domain.CenteredOn(target.Latitude, target.Longitude, domain.FocusDelta)
	return nil
}

// DismissFocus clears the focused pharmacy and restores the viewport that
// was active before focusing.
func (uc *SelectionUseCase) DismissFocus() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.st.Focused = nil
	if uc.prevViewport != nil {
		uc.st.Viewport = *uc.prevViewport
		uc.prevViewport = nil
	}
}

// ToggleFavorite flips membership for a pharmacy from the visible set (or
// the favorites sequence, when toggling off from the favorites tab), then
// re-annotates the visible results. A persistence failure degrades to
// session-only favorites and is returned for the caller to surface.
func (uc *SelectionUseCase) ToggleFavorite(ctx context.Context, name string) error {
	uc.mu.Lock()
	target := findByName(uc.st.Results, name)
	if target == nil {
		target = findByName(uc.visibleLocked(), name)
	}
	uc.mu.Unlock()

	if target == nil {
		return apperrors.ErrPharmacyNotInResults.WithDetails(map[string]interface{}{
			"name": name,
		})
	}

	_, persistErr := uc.favorites.Toggle(ctx, *target)

	uc.mu.Lock()
	if uc.st.Results != nil {
		uc.st.Results = uc.favorites.Annotate(uc.st.Results)
	}
	if uc.st.Focused != nil && uc.st.Focused.Name == name {
		focused := *uc.st.Focused
		focused.IsFavorite = uc.favorites.IsFavorite(name)
		uc.st.Focused = &focused
	}
	uc.mu.Unlock()

	return persistErr
}

// Reset returns the selection to process-start defaults, keeping the
// process-wide city cache. The generation bump makes any in-flight fetch
// commit a no-op.
func (uc *SelectionUseCase) Reset(ctx context.Context) {
	uc.gen.Add(1)

	cities, _ := uc.directory.ListCities(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.st = domain.NewSelection()
	uc.st.Cities = cities
	uc.prevViewport = nil
}

// Snapshot returns a copy of the UI-facing state. On the favorites tab the
// visible results are the favorites filter output for the current query.
func (uc *SelectionUseCase) Snapshot() domain.Selection {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	snap := uc.st
	snap.Cities = copyRegions(uc.st.Cities)
	snap.Districts = copyRegions(uc.st.Districts)
	if uc.st.Focused != nil {
		focused := *uc.st.Focused
		snap.Focused = &focused
	}

	visible := uc.visibleLocked()
	snap.Results = make([]domain.Pharmacy, len(visible))
	copy(snap.Results, visible)

	return snap
}

// fetchPharmacies issues a generation-tagged fetch and commits the outcome.
func (uc *SelectionUseCase) fetchPharmacies(ctx context.Context, city, district string) {
	gen := uc.gen.Add(1)

	results, err := uc.query.Fetch(ctx, city, district)
	uc.commitResults(gen, results, err)
}

// commitResults applies a fetch outcome under the last-write-wins rule.
func (uc *SelectionUseCase) commitResults(gen uint64, results []domain.Pharmacy, err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	// The generation must be read under the lock: a newer pick can bump it
	// between a pre-lock read and the commit, and a stale commit passing
	// against the pre-lock value would overwrite the fresher result.
	latest := uc.gen.Load()
	if gen != latest {
		uc.logger.Debug("Discarding stale fetch result",
			zap.Uint64("generation", gen),
			zap.Uint64("latest", latest))
		return
	}

	if err != nil {
		uc.recordErrorLocked(err)
		if len(uc.st.Results) > 0 {
			uc.st.Status = domain.ResultsReady
		} else {
			uc.st.Status = domain.ResultsUnavailable
		}
		return
	}

	annotated := uc.favorites.Annotate(results)
	uc.st.Results = annotated
	uc.st.LastError = ""

	if len(annotated) == 0 {
		uc.st.Status = domain.ResultsEmpty
		return
	}

	uc.st.Status = domain.ResultsReady
	first := annotated[0]
	uc.st.Viewport = domain.CenteredOn(first.Latitude, first.Longitude, domain.ResultDelta)

	if uc.st.Focused != nil {
		if refreshed := findByName(annotated, uc.st.Focused.Name); refreshed != nil {
			uc.st.Focused = refreshed
		} else {
			uc.st.Focused = nil
		}
	}
}

// commitDistricts applies a district list only while its city is still the
// selected one.
func (uc *SelectionUseCase) commitDistricts(cityID int, districts []domain.Region) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.st.SelectedCityID != cityID {
		uc.logger.Debug("Discarding district list for superseded city",
			zap.Int("city_id", cityID),
			zap.Int("selected_city_id", uc.st.SelectedCityID))
		return
	}
	uc.st.Districts = districts
	uc.st.DistrictsLoading = false
}

func (uc *SelectionUseCase) recordError(err error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.recordErrorLocked(err)
}

func (uc *SelectionUseCase) recordErrorLocked(err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		uc.st.LastError = appErr.Code
		return
	}
	uc.st.LastError = apperrors.ErrInternalServer.Code
}

// visibleLocked returns the source the active tab presents. Callers hold
// uc.mu.
func (uc *SelectionUseCase) visibleLocked() []domain.Pharmacy {
	if uc.st.Tab == domain.TabFavorites {
		return uc.favorites.Filter(uc.st.SearchQuery)
	}
	return uc.st.Results
}

func findByName(pharmacies []domain.Pharmacy, name string) *domain.Pharmacy {
	for i := range pharmacies {
		if pharmacies[i].Name == name {
			p := pharmacies[i]
			return &p
		}
	}
	return nil
}

func matchCityID(cities []domain.Region, name string) int {
	key := normalize.Fold(name)
	for _, c := range cities {
		if normalize.Fold(c.Name) == key {
			return c.ID
		}
	}
	return 0
}

func copyRegions(regions []domain.Region) []domain.Region {
	if regions == nil {
		return nil
	}
	out := make([]domain.Region, len(regions))
	copy(out, regions)
	return out
}
