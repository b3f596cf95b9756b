package repository

import (
	"context"

	"github.com/duty-pharmacy/internal/domain"
)

// FavoritesRepository persists the user's favorites sequence. The whole
// sequence is rewritten on every change; order is insertion order.
type FavoritesRepository interface {
	Load(ctx context.Context) ([]domain.Pharmacy, error)
	Save(ctx context.Context, favorites []domain.Pharmacy) error
}
