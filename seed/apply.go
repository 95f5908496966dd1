package seed

import (
	"context"
	"fmt"

	"github.com/marcelsud/personal-library/book"
)

// Result counts what Apply changed
type Result struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
	Comments int `json:"comments"`
}

// Apply creates every entry through the use case. Books whose title is
// already stored are left untouched, so seeding twice adds nothing.
func Apply(ctx context.Context, svc book.UseCase, entries []Entry) (Result, error) {
	var res Result
	all, err := svc.List(ctx)
	if err != nil {
		return res, fmt.Errorf("listing books: %w", err)
	}
	stored := make(map[string]struct{}, len(all))
	for _, b := range all {
		stored[b.Title] = struct{}{}
	}

	for _, e := range entries {
		if _, ok := stored[e.Title]; ok {
			res.Existing++
			continue
		}
		b, err := svc.Create(ctx, e.Title)
		if err != nil {
			return res, fmt.Errorf("creating %q: %w", e.Title, err)
		}
		stored[e.Title] = struct{}{}
		res.Created++
		for _, c := range e.Comments {
			if _, err := svc.AddComment(ctx, b.ID, c); err != nil {
				return res, fmt.Errorf("commenting on %q: %w", e.Title, err)
			}
			res.Comments++
		}
	}
	return res, nil
}
