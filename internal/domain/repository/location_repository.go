package repository

import (
	"context"

	"github.com/duty-pharmacy/internal/domain"
)

// LocationProvider abstracts the platform location capabilities: permission
// check/request, coordinate acquisition and reverse geocoding. The engine
// depends only on the result shapes, never on the platform.
type LocationProvider interface {
	Permission(ctx context.Context) (domain.PermissionStatus, error)
	RequestPermission(ctx context.Context) (domain.PermissionStatus, error)
	CurrentPosition(ctx context.Context) (domain.GeoFix, error)

	// ReverseGeocode maps a fix to city and district names in their original
	// casing. District may be empty when the geocoder cannot resolve one.
	ReverseGeocode(ctx context.Context, fix domain.GeoFix) (city, district string, err error)
}
