package utils

import (
	"fmt"
	"strings"
)

// DialURL builds the dialer URL for a pharmacy phone number. Whitespace is
// stripped; the UI hands the result to the platform opener.
func DialURL(phone string) string {
	return "tel:" + strings.ReplaceAll(phone, " ", "")
}

// NavigateURL builds the external-navigator URL for a coordinate pair,
// per-platform: Apple Maps on ios, the Google navigation intent elsewhere.
func NavigateURL(platform string, lat, lon float64) string {
	if platform == "ios" {
		return fmt.Sprintf("maps://app?daddr=%f,%f", lat, lon)
	}
	return fmt.Sprintf("google.navigation:q=%f,%f", lat, lon)
}
