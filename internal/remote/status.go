package remote

import (
	"context"
	"fmt"
	"net/http"
)

const statusPath = "/internal/remote-admin/status"

// EnvStatus classifies an environment for the dashboard.
type EnvStatus struct {
	Configured bool           `json:"configured"`
	Available  bool           `json:"available"`
	Status     string         `json:"status,omitempty"`
	Stats      map[string]any `json:"stats,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// EnvironmentStatus probes env via its health-check endpoint.
func (d *Dispatcher) EnvironmentStatus(ctx context.Context, env string) EnvStatus {
	cfg, ok := d.reg.Get(env)
	if !ok || !cfg.Configured() {
		return EnvStatus{}
	}

	resp := d.Dispatch(ctx, http.MethodGet, statusPath, nil, env)
	if resp.StatusCode != http.StatusOK {
		return EnvStatus{
			Configured: true,
			Error:      statusError(resp),
		}
	}

	var payload struct {
		Status string         `json:"status"`
		Stats  map[string]any `json:"stats"`
	}
	if err := resp.JSON(&payload); err != nil {
		return EnvStatus{
			Configured: true,
			Error:      "invalid status payload: " + err.Error(),
		}
	}

	status := payload.Status
	if status == "" {
		status = "unknown"
	}
	return EnvStatus{
		Configured: true,
		Available:  true,
		Status:     status,
		Stats:      payload.Stats,
	}
}

// AllStatuses probes every environment in the current registry snapshot.
func (d *Dispatcher) AllStatuses(ctx context.Context) map[string]EnvStatus {
	out := make(map[string]EnvStatus)
	for _, key := range d.reg.Keys() {
		out[key] = d.EnvironmentStatus(ctx, key)
	}
	return out
}

func statusError(resp Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := resp.JSON(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("HTTP %d", resp.StatusCode)
}
