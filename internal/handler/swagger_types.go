package handler

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// LivenessResponse represents the liveness probe response.
type LivenessResponse struct {
	Status string `json:"status" example:"ok"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
