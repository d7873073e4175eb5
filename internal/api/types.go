package api

import "time"

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// CreateCardRequest is the body of POST /admin/cards
type CreateCardRequest struct {
	Name  string `json:"name"`
	Story string `json:"story"`
	Type  string `json:"type,omitempty"`
}

// UploadSummary is the body returned by POST /admin/cards/upload
type UploadSummary struct {
	Inserted int      `json:"inserted"`
	Names    []string `json:"names"`
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string    `json:"status"`
	Cards     int       `json:"cards"`
	Timestamp time.Time `json:"timestamp"`
}

const maxNameRunes = 200
