package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the library.
type Metrics struct {
	// Books is the number of stored books
	Books int64 `json:"books"`

	// Comments is the number of comments across all books
	Comments int64 `json:"comments"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Collector defines the interface for collecting metrics from the library.
type Collector interface {
	Collect(ctx context.Context) (Metrics, error)
}
