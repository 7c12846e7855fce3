package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"luxe-marketplace/internal/models"
)

var ErrUnexpectedStatus = errors.New("unexpected status from inventory API")

// APIClient reads the inventory from the external HTTP API.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates a client for baseURL. A zero timeout falls back to 15s.
func NewAPIClient(baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *APIClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &APIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("component", "inventory_api")),
	}
}

// The API has shipped both a bare array and {"vehicles": [...]}.
type vehiclesEnvelope struct {
	Vehicles []models.Vehicle `json:"vehicles"`
	Data     []models.Vehicle `json:"data"`
}

// FetchVehicles calls GET {base}/vehicles.
func (c *APIClient) FetchVehicles(ctx context.Context) ([]models.Vehicle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/vehicles", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inventory response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	vehicles, err := decodeVehicles(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("inventory fetched",
		zap.Int("vehicles", len(vehicles)),
		zap.Duration("duration", time.Since(start)))
	return vehicles, nil
}

func decodeVehicles(body []byte) ([]models.Vehicle, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var vehicles []models.Vehicle
		if err := json.Unmarshal(body, &vehicles); err != nil {
			return nil, fmt.Errorf("decode inventory: %w", err)
		}
		return vehicles, nil
	}

	var env vehiclesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode inventory: %w", err)
	}
	if env.Vehicles != nil {
		return env.Vehicles, nil
	}
	if env.Data != nil {
		return env.Data, nil
	}
	return []models.Vehicle{}, nil
}
