package book

import "context"

/* Interfaces pequenas, compostas no final.
 * Identifiers are opaque strings: each adapter owns their syntax and returns
 * ErrInvalidID before touching the store when an identifier cannot be parsed.
 */

type Reader interface {
	Select(ctx context.Context, id string) (Book, error)
	// SelectAll returns an empty slice, not ErrNotFound, when the store is empty
	SelectAll(ctx context.Context) ([]Book, error)
	SelectByTitle(ctx context.Context, title string) (Book, error)
}

type Writer interface {
	Insert(ctx context.Context, book Book) (Book, error)
	AppendComment(ctx context.Context, id, comment string) (Book, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
