package httpServices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// LocationClient asks the tracking service for a walker's last known
// position. Callers treat failures as a missing position, never fatal.
type LocationClient struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string) *LocationClient {
	return &LocationClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type positionResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CurrentPosition fetches the walker's latest reported coordinates.
func (c *LocationClient) CurrentPosition(ctx context.Context, walkerID uint) (float64, float64, error) {
	url := fmt.Sprintf("%s/walkers/%d/position", c.baseURL, walkerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create position request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch position: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("tracking service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read position response: %w", err)
	}

	var pos positionResponse
	if err := json.Unmarshal(body, &pos); err != nil {
		return 0, 0, fmt.Errorf("failed to unmarshal position response: %w", err)
	}

	return pos.Lat, pos.Lng, nil
}
