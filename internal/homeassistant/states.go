package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type stateResponse struct {
	EntityID string `json:"entity_id"`
	State    string `json:"state"`
}

// GetState fetches one entity's current state and parses it as a number.
// Non-numeric states ("unknown", "unavailable") come back as an error.
func (c *Client) GetState(ctx context.Context, entityID string) (float64, error) {
	reqURL := fmt.Sprintf("%s/api/states/%s", c.baseURL, entityID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRequest, err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("%w: got %d", ErrStatus, resp.StatusCode)
	}

	var state stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return 0, fmt.Errorf("failed to decode state response: %v", err)
	}

	value, err := strconv.ParseFloat(state.State, 64)
	if err != nil {
		return 0, fmt.Errorf("non-numeric state %q for %s", state.State, entityID)
	}

	return value, nil
}
