// Package api defines the JSON request/response types shared by HTTP handlers.
package api

// ErrorResponse is the body returned for any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Kind is a machine-readable error category, set for upstream detection failures.
	Kind string `json:"kind,omitempty"`
}

// HealthResponse is the body returned by /healthz.
type HealthResponse struct {
	Status    string `json:"status"`
	RateLimit string `json:"rate_limit,omitempty"`
}
