package domain

type Tab string

const (
	TabAll       Tab = "all"
	TabFavorites Tab = "favorites"
)

type ViewMode string

const (
	ViewList ViewMode = "list"
	ViewMap  ViewMode = "map"
)

// ResultsStatus distinguishes the three user-visible non-result situations:
// nothing searched yet, a fetch in flight, and a completed fetch that came
// back empty or failed for the selected scope.
type ResultsStatus string

const (
	ResultsIdle        ResultsStatus = "idle"
	ResultsLoading     ResultsStatus = "loading"
	ResultsReady       ResultsStatus = "ready"
	ResultsEmpty       ResultsStatus = "empty"
	ResultsUnavailable ResultsStatus = "unavailable"
)

// Selection is the authoritative UI-facing state snapshot. A district is only
// ever set together with a city; Focused, when non-nil, is a member of
// Results by identity.
type Selection struct {
	SelectedCity     string `json:"selected_city"`
	SelectedCityID   int    `json:"selected_city_id"`
	SelectedDistrict string `json:"selected_district"`

	Cities    []Region `json:"cities"`
	Districts []Region `json:"districts"`

	Tab         Tab      `json:"tab"`
	SearchQuery string   `json:"search_query"`
	ViewMode    ViewMode `json:"view_mode"`

	Focused *Pharmacy     `json:"focused,omitempty"`
	Results []Pharmacy    `json:"results"`
	Status  ResultsStatus `json:"status"`

	Viewport Viewport `json:"viewport"`

	CitiesLoading    bool `json:"cities_loading"`
	DistrictsLoading bool `json:"districts_loading"`

	LastError string `json:"last_error,omitempty"`
}

// NewSelection is the process-start default state.
func NewSelection() Selection {
	return Selection{
		Tab:      TabAll,
		ViewMode: ViewList,
		Status:   ResultsIdle,
		Viewport: DefaultViewport(),
	}
}
