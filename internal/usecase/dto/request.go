package dto

// PickCityRequest selects a city from the directory.
type PickCityRequest struct {
	ID   int    `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required"`
}

// PickDistrictRequest selects a district within the current city.
type PickDistrictRequest struct {
	Name string `json:"name" validate:"required"`
}

type SwitchTabRequest struct {
	Tab string `json:"tab" validate:"required,oneof=all favorites"`
}

type SearchRequest struct {
	Query string `json:"query"`
}

type FocusRequest struct {
	Name string `json:"name" validate:"required"`
}

type ToggleFavoriteRequest struct {
	Name string `json:"name" validate:"required"`
}
