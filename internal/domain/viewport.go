package domain

// Zoom levels carried over from the mobile app: the country-wide default,
// the result-set zoom, and the tight zoom used when a pharmacy is focused.
const (
	DefaultDelta = 20.0
	ResultDelta  = 0.02
	FocusDelta   = 0.008
)

// Default map center before any location fix: Ankara.
const (
	DefaultCenterLat = 39.9334
	DefaultCenterLon = 32.8597
)

// Viewport describes the map region of interest. Deltas are always positive.
type Viewport struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	LatitudeDelta  float64 `json:"latitudeDelta"`
	LongitudeDelta float64 `json:"longitudeDelta"`
}

func DefaultViewport() Viewport {
	return Viewport{
		Latitude:       DefaultCenterLat,
		Longitude:      DefaultCenterLon,
		LatitudeDelta:  DefaultDelta,
		LongitudeDelta: DefaultDelta,
	}
}

// CenteredOn recenters on a coordinate with the given zoom delta.
func CenteredOn(lat, lon, delta float64) Viewport {
	if delta <= 0 {
		delta = ResultDelta
	}
	return Viewport{
		Latitude:       lat,
		Longitude:      lon,
		LatitudeDelta:  delta,
		LongitudeDelta: delta,
	}
}

// ValidateCoordinates checks a latitude/longitude pair is on the globe.
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
