package domain

// PermissionStatus is the platform location-permission state.
type PermissionStatus string

const (
	PermissionUnknown PermissionStatus = "unknown"
	PermissionGranted PermissionStatus = "granted"
	PermissionDenied  PermissionStatus = "denied"
)

// ResolverPhase tracks the geolocation pipeline for observability and for
// the one-prompt-per-start rule.
type ResolverPhase string

const (
	PhaseUnrequested         ResolverPhase = "unrequested"
	PhasePermissionRequested ResolverPhase = "permission_requested"
	PhasePermissionDenied    ResolverPhase = "permission_denied"
	PhaseLocating            ResolverPhase = "locating"
	PhaseLocationFailed      ResolverPhase = "location_failed"
	PhaseReverseGeocoding    ResolverPhase = "reverse_geocoding"
	PhaseGeocodeFailed       ResolverPhase = "geocode_failed"
	PhaseRegionResolved      ResolverPhase = "region_resolved"
)

// GeoFix is a device coordinate fix.
type GeoFix struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ResolvedRegion is the outcome of a successful resolve: region names as the
// geocoder returned them (original casing, not yet normalized) plus the fix.
type ResolvedRegion struct {
	City     string `json:"city"`
	District string `json:"district"`
	Fix      GeoFix `json:"fix"`
}
