package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/domain"
	"github.com/duty-pharmacy/internal/domain/repository"
)

// favoritesRepository persists the favorites sequence as one JSON value
// under a single key, rewritten wholesale on every change.
type favoritesRepository struct {
	redis  *Redis
	key    string
	logger *zap.Logger
}

func NewFavoritesRepository(r *Redis, key string, logger *zap.Logger) repository.FavoritesRepository {
	return &favoritesRepository{
		redis:  r,
		key:    key,
		logger: logger,
	}
}

// Load reads the persisted sequence. A missing key or an undecodable value
// both yield an empty sequence; a corrupt value is logged, never surfaced.
func (f *favoritesRepository) Load(ctx context.Context) ([]domain.Pharmacy, error) {
	raw, err := f.redis.Client().Get(ctx, f.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []domain.Pharmacy{}, nil
		}
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}

	var favorites []domain.Pharmacy
	if err := json.Unmarshal(raw, &favorites); err != nil {
		f.logger.Warn("Discarding undecodable favorites payload", zap.Error(err))
		return []domain.Pharmacy{}, nil
	}
	return favorites, nil
}

// Save rewrites the full sequence. No TTL: favorites outlive sessions.
func (f *favoritesRepository) Save(ctx context.Context, favorites []domain.Pharmacy) error {
	raw, err := json.Marshal(favorites)
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	if err := f.redis.Client().Set(ctx, f.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}
