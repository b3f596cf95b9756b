package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/duty-pharmacy/internal/config"
)

// Client implements repository.DeviceRegistrar. Device registration is an
// external collaborator; the engine only hands the token off and moves on.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(cfg *config.PushConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

type registerRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// Register uploads the push token. The ack body is arbitrary and ignored;
// only a non-2xx status is an error.
func (c *Client) Register(ctx context.Context, token, platform string) error {
	payload, err := json.Marshal(registerRequest{Token: token, Platform: platform})
	if err != nil {
		return fmt.Errorf("failed to encode register payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/register-device", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Device registration call failed", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("Device registration rejected",
			zap.Int("status_code", resp.StatusCode))
		return fmt.Errorf("device registration error: status %d", resp.StatusCode)
	}

	c.logger.Info("Device registered", zap.String("platform", platform))
	return nil
}
