package handlers

// ErrorResponse documents the error body every handler returns on failure.
type ErrorResponse struct {
	Error string `json:"error" example:"product not found"`
}

// StatusResponse documents the body of the liveness and readiness probes.
type StatusResponse struct {
	Status string `json:"status" example:"ready"`
}
