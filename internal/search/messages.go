package search

import (
	"snowthaw/internal/domain"
	"snowthaw/internal/gateway"
)

// debounceFiredMsg is posted by the scheduler once the input has been quiet for the delay.
// token identifies the arm that produced it.
type debounceFiredMsg struct {
	token uint64
}

// responseMsg carries a finished gateway call back onto the event loop
type responseMsg struct {
	seq     uint64
	query   string
	filters domain.FilterSet
	resp    *gateway.Response
	err     error
}
