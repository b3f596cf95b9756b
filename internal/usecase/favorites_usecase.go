package usecase

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	"github.com/duty-pharmacy/internal/domain/repository"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
)

// FavoritesUseCase owns the in-memory favorites sequence and its persisted
// copy. Identity is by pharmacy name; insertion order is preserved. All
// read-modify-persist cycles run under one lock, so two racing toggles
// cannot lose an update.
type FavoritesUseCase struct {
	repo   repository.FavoritesRepository
	logger *zap.Logger

	mu        sync.Mutex
	favorites []domain.Pharmacy
}

func NewFavoritesUseCase(repo repository.FavoritesRepository, logger *zap.Logger) *FavoritesUseCase {
	return &FavoritesUseCase{
		repo:      repo,
		logger:    logger,
		favorites: []domain.Pharmacy{},
	}
}

// Load reads the persisted sequence at startup. Read or decode failures
// degrade to an empty sequence; favorites stay usable for the session.
func (uc *FavoritesUseCase) Load(ctx context.Context) {
	favorites, err := uc.repo.Load(ctx)
	if err != nil {
		uc.logger.Error("Failed to load favorites, starting empty", zap.Error(err))
		return
	}

	uc.mu.Lock()
	uc.favorites = favorites
	uc.mu.Unlock()

	uc.logger.Info("Favorites loaded", zap.Int("count", len(favorites)))
}

// Toggle removes the pharmacy when present, else appends it with
// IsFavorite=true, then persists the full sequence. On persistence failure
// the in-memory state is kept and ErrPersistenceFailed is returned alongside
// the updated sequence; the caller decides whether to surface it.
func (uc *FavoritesUseCase) Toggle(ctx context.Context, pharmacy domain.Pharmacy) ([]domain.Pharmacy, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	updated := make([]domain.Pharmacy, 0, len(uc.favorites)+1)
	removed := false
	for _, f := range uc.favorites {
		if f.SameIdentity(pharmacy) {
			removed = true
			continue
		}
		updated = append(updated, f)
	}
	if !removed {
		pharmacy.IsFavorite = true
		updated = append(updated, pharmacy)
	}

	uc.favorites = updated

	if err := uc.repo.Save(ctx, updated); err != nil {
		uc.logger.Error("Failed to persist favorites, keeping session state",
			zap.String("name", pharmacy.Name),
			zap.Error(err))
		return uc.snapshotLocked(), apperrors.ErrPersistenceFailed
	}

	uc.logger.Debug("Favorite toggled",
		zap.String("name", pharmacy.Name),
		zap.Bool("removed", removed),
		zap.Int("count", len(updated)))
	return uc.snapshotLocked(), nil
}

// Annotate stamps IsFavorite onto each element of a fetched result set by
// name membership. Pure with respect to the input: a new slice is returned
// and no other field is touched.
func (uc *FavoritesUseCase) Annotate(results []domain.Pharmacy) []domain.Pharmacy {
	uc.mu.Lock()
	names := make(map[string]struct{}, len(uc.favorites))
	for _, f := range uc.favorites {
		names[f.Name] = struct{}{}
	}
	uc.mu.Unlock()

	annotated := make([]domain.Pharmacy, len(results))
	for i, p := range results {
		_, fav := names[p.Name]
		p.IsFavorite = fav
		annotated[i] = p
	}
	return annotated
}

// Filter returns favorites whose name or address contains the query,
// case-insensitively. An empty query returns the full sequence in order.
func (uc *FavoritesUseCase) Filter(query string) []domain.Pharmacy {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if query == "" {
		return uc.snapshotLocked()
	}

	needle := strings.ToLower(query)
	matched := make([]domain.Pharmacy, 0, len(uc.favorites))
	for _, f := range uc.favorites {
		if strings.Contains(strings.ToLower(f.Name), needle) ||
			strings.Contains(strings.ToLower(f.Address), needle) {
			matched = append(matched, f)
		}
	}
	return matched
}

// IsFavorite reports membership by name.
func (uc *FavoritesUseCase) IsFavorite(name string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	for _, f := range uc.favorites {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (uc *FavoritesUseCase) snapshotLocked() []domain.Pharmacy {
	out := make([]domain.Pharmacy, len(uc.favorites))
	copy(out, uc.favorites)
	return out
}
