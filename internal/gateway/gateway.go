// Package gateway talks to the remote article lookup service.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"snowthaw/internal/domain"
)

var (
	// ErrSearchFailed matches every lookup failure, whatever its cause
	ErrSearchFailed = errors.New("search failed")
	// ErrNotFound is returned when an article id is unknown to the service
	ErrNotFound = errors.New("article not found")
)

// Response is the body of a successful lookup
type Response struct {
	Query   string             `json:"query"`
	Total   int                `json:"total"`
	Results []domain.SearchHit `json:"results"`
}

// Gateway performs lookups. Calls may complete in any order relative to each other.
type Gateway interface {
	Search(ctx context.Context, query string, filters domain.FilterSet) (*Response, error)
}

// ArticleSource fetches a full card by id
type ArticleSource interface {
	Article(ctx context.Context, id string) (*domain.Card, error)
}

// NetworkError is a transport failure: no usable HTTP response was received
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrSearchFailed) hold
func (e *NetworkError) Is(target error) bool {
	return target == ErrSearchFailed
}

// GatewayError is a response that arrived but cannot be used
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return "gateway error: " + e.Message
	}
	return fmt.Sprintf("gateway error: status %d: %s", e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrSearchFailed) hold
func (e *GatewayError) Is(target error) bool {
	return target == ErrSearchFailed
}
