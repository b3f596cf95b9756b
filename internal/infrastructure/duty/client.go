package duty

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/config"
	"github.com/duty-pharmacy/internal/domain"
	apperrors "github.com/duty-pharmacy/internal/pkg/errors"
)

// Client talks to the pharmacy duty REST backend. It implements both
// repository.DirectoryRepository and repository.PharmacyRepository.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(cfg *config.DutyAPIConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// envelope is the backend's response shape. A payload missing the explicit
// success flag or the data field is rejected even on HTTP 200.
type envelope struct {
	Status *bool           `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// ListCities fetches the full city directory.
func (c *Client) ListCities(ctx context.Context) ([]domain.Region, error) {
	body, err := c.get(ctx, c.baseURL+"/api/cities")
	if err != nil {
		return nil, err
	}

	var cities []domain.Region
	if err := decodeEnvelope(body, &cities); err != nil {
		c.logger.Error("Malformed cities payload",
			zap.Error(err),
			zap.ByteString("body", truncate(body)))
		return nil, apperrors.ErrMalformedResponse
	}

	c.logger.Debug("Cities fetched", zap.Int("count", len(cities)))
	return cities, nil
}

// ListDistricts fetches the districts of one city. The backend sends names
// only, so ordinal ids are synthesized for UI selection.
func (c *Client) ListDistricts(ctx context.Context, cityID int) ([]domain.Region, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/api/cities/%d/districts", c.baseURL, cityID))
	if err != nil {
		return nil, err
	}

	var names []struct {
		Name string `json:"name"`
	}
	if err := decodeEnvelope(body, &names); err != nil {
		c.logger.Error("Malformed districts payload",
			zap.Error(err),
			zap.Int("city_id", cityID),
			zap.ByteString("body", truncate(body)))
		return nil, apperrors.ErrMalformedResponse
	}

	districts := make([]domain.Region, 0, len(names))
	for i, d := range names {
		districts = append(districts, domain.Region{ID: i + 1, Name: d.Name})
	}

	c.logger.Debug("Districts fetched",
		zap.Int("city_id", cityID),
		zap.Int("count", len(districts)))
	return districts, nil
}

// Fetch queries on-duty pharmacies for a city, or city+district when the
// district key is non-empty. Both segments must already be normalized.
func (c *Client) Fetch(ctx context.Context, city, district string) ([]domain.Pharmacy, error) {
	if city == "" {
		return nil, fmt.Errorf("city cannot be empty")
	}

	endpoint := fmt.Sprintf("%s/api/eczaneler/%s", c.baseURL, url.PathEscape(city))
	if district != "" {
		endpoint = fmt.Sprintf("%s/%s", endpoint, url.PathEscape(district))
	}

	c.logger.Debug("Querying pharmacies", zap.String("endpoint", endpoint))

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var pharmacies []domain.Pharmacy
	if err := decodeEnvelope(body, &pharmacies); err != nil {
		c.logger.Error("Malformed pharmacies payload",
			zap.Error(err),
			zap.String("city", city),
			zap.String("district", district),
			zap.ByteString("body", truncate(body)))
		return nil, apperrors.ErrMalformedResponse
	}

	c.logger.Debug("Pharmacies fetched",
		zap.String("city", city),
		zap.String("district", district),
		zap.Int("count", len(pharmacies)))
	return pharmacies, nil
}

// get performs the request and returns the raw body, so failure paths can
// report the payload for diagnostics before any structured decode happens.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Failed to execute request",
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Duty API returned error",
			zap.String("endpoint", endpoint),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", truncate(body)))
		return nil, fmt.Errorf("duty API error: status %d", resp.StatusCode)
	}

	c.logger.Debug("Duty API call completed",
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", time.Since(start)))
	return body, nil
}

// decodeEnvelope enforces the {status:true, data:...} shape before handing
// the data field to the target decode.
func decodeEnvelope(body []byte, target interface{}) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to decode envelope: %w", err)
	}
	if env.Status == nil || !*env.Status {
		return fmt.Errorf("response missing success status")
	}
	if len(env.Data) == 0 {
		return fmt.Errorf("response missing data field")
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}
	return nil
}

func truncate(body []byte) []byte {
	const max = 512
	if len(body) > max {
		return body[:max]
	}
	return body
}
