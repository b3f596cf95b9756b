package dto

// ViewModeResponse reports the view mode after a toggle.
type ViewModeResponse struct {
	ViewMode string `json:"view_mode"`
}

// LaunchResponse carries the platform URLs the UI hands to the external
// dialer and navigator for one pharmacy.
type LaunchResponse struct {
	Dial     string `json:"dial"`
	Navigate string `json:"navigate"`
}
