package geolocate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/config"
	"github.com/duty-pharmacy/internal/domain"
)

// Client implements repository.LocationProvider against the host platform
// bridge: a small local HTTP surface the app shell exposes for permission
// handling, coordinate fixes and reverse geocoding. The engine never sees
// the platform APIs themselves, only these result shapes.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(cfg *config.GeolocateConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type permissionPayload struct {
	Status string `json:"status"`
}

type positionPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type addressPayload struct {
	Region    string `json:"region"`
	Subregion string `json:"subregion"`
}

// Permission reads the current foreground permission without prompting.
func (c *Client) Permission(ctx context.Context) (domain.PermissionStatus, error) {
	var payload permissionPayload
	if err := c.call(ctx, http.MethodGet, "/api/permission", &payload); err != nil {
		return domain.PermissionUnknown, err
	}
	return parsePermission(payload.Status), nil
}

// RequestPermission prompts the user through the platform dialog. Callers
// own the at-most-once-per-start rule.
func (c *Client) RequestPermission(ctx context.Context) (domain.PermissionStatus, error) {
	var payload permissionPayload
	if err := c.call(ctx, http.MethodPost, "/api/permission/request", &payload); err != nil {
		return domain.PermissionUnknown, err
	}
	return parsePermission(payload.Status), nil
}

// CurrentPosition acquires a coordinate fix.
func (c *Client) CurrentPosition(ctx context.Context) (domain.GeoFix, error) {
	var payload positionPayload
	if err := c.call(ctx, http.MethodGet, "/api/position", &payload); err != nil {
		return domain.GeoFix{}, err
	}

	fix := domain.GeoFix{Latitude: payload.Latitude, Longitude: payload.Longitude}
	if !domain.ValidateCoordinates(fix.Latitude, fix.Longitude) {
		return domain.GeoFix{}, fmt.Errorf("bridge returned invalid coordinates: %f,%f",
			fix.Latitude, fix.Longitude)
	}
	return fix, nil
}

// ReverseGeocode maps a fix to region names in their original casing. The
// bridge reports the city as "region" and the district as "subregion".
func (c *Client) ReverseGeocode(ctx context.Context, fix domain.GeoFix) (string, string, error) {
	path := fmt.Sprintf("/api/reverse?lat=%f&lon=%f", fix.Latitude, fix.Longitude)

	var payload addressPayload
	if err := c.call(ctx, http.MethodGet, path, &payload); err != nil {
		return "", "", err
	}
	if payload.Region == "" {
		return "", "", fmt.Errorf("reverse geocode returned no region")
	}
	return payload.Region, payload.Subregion, nil
}

func (c *Client) call(ctx context.Context, method, path string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Platform bridge call failed",
			zap.String("path", path),
			zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Platform bridge returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode))
		return fmt.Errorf("platform bridge error: status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parsePermission(status string) domain.PermissionStatus {
	switch status {
	case "granted":
		return domain.PermissionGranted
	case "denied":
		return domain.PermissionDenied
	default:
		return domain.PermissionUnknown
	}
}
