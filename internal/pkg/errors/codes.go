package errors

import "net/http"

var (
	ErrPermissionDenied = New(
		"PERMISSION_DENIED",
		"Location permission denied",
		http.StatusForbidden,
	)

	ErrLocationUnavailable = New(
		"LOCATION_UNAVAILABLE",
		"Current position could not be obtained",
		http.StatusServiceUnavailable,
	)

	ErrGeocodeFailed = New(
		"GEOCODE_FAILED",
		"Coordinates could not be resolved to a region",
		http.StatusServiceUnavailable,
	)

	ErrDirectoryFetchFailed = New(
		"DIRECTORY_FETCH_FAILED",
		"City or district directory could not be loaded",
		http.StatusBadGateway,
	)

	ErrQueryFailed = New(
		"QUERY_FAILED",
		"Pharmacy query failed",
		http.StatusBadGateway,
	)

	ErrMalformedResponse = New(
		"MALFORMED_RESPONSE",
		"Upstream response did not match the expected shape",
		http.StatusBadGateway,
	)

	ErrPersistenceFailed = New(
		"PERSISTENCE_FAILED",
		"Favorites could not be persisted",
		http.StatusInternalServerError,
	)

	ErrPharmacyNotInResults = New(
		"PHARMACY_NOT_IN_RESULTS",
		"Pharmacy is not part of the current result set",
		http.StatusNotFound,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
