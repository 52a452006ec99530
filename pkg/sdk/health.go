package geocatalog

import (
	"context"
	"encoding/json"
)

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            `json:"status"` // "ok" or "degraded"
	Checks map[string]string `json:"checks"` // component -> "ok"/"error"
}

// Health checks the health of the service. A degraded report is returned
// as a value, not an error: the server answers 503 with the same envelope
// when a component check fails.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	status, body, err := c.getRaw(ctx, "/health", nil)
	if err != nil {
		return HealthStatus{}, err
	}

	var report HealthStatus
	if err := json.Unmarshal(body, &report); err != nil || report.Status == "" {
		return HealthStatus{}, parseAPIError(status, body)
	}
	return report, nil
}
