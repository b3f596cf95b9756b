package repository

import (
	"context"

	"github.com/duty-pharmacy/internal/domain"
)

// PharmacyRepository queries on-duty pharmacies by region scope.
type PharmacyRepository interface {
	// Fetch queries by city, or by city+district when district is non-empty.
	// Both segments must already be normalized lookup keys.
	Fetch(ctx context.Context, city, district string) ([]domain.Pharmacy, error)
}
