package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/personal-library/book"
)

// ServiceCollector computes Metrics by listing books through the use case
type ServiceCollector struct {
	books book.UseCase
}

func NewServiceCollector(books book.UseCase) *ServiceCollector {
	return &ServiceCollector{books: books}
}

func (c *ServiceCollector) Collect(ctx context.Context) (Metrics, error) {
	all, err := c.books.List(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("listing books: %w", err)
	}
	m := Metrics{
		Books:     int64(len(all)),
		Timestamp: time.Now(),
	}
	for _, b := range all {
		m.Comments += int64(b.CommentCount())
	}
	return m, nil
}
