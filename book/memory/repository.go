package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/marcelsud/personal-library/book"
)

/* In-process implementation of book.Repository.
 * Identifiers are UUIDs, so syntax errors are detected the same way as in the
 * postgres and redis adapters. Nothing survives a restart.
 */

type Repository struct {
	mu    sync.RWMutex
	books map[string]book.Book
	order []string
}

func NewRepository() *Repository {
	return &Repository{
		books: make(map[string]book.Book),
	}
}

func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", book.ErrInvalidID
	}
	return u.String(), nil
}

func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	key, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[key]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	return clone(b), nil
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]book.Book, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, clone(r.books[id]))
	}
	return all, nil
}

func (r *Repository) SelectByTitle(ctx context.Context, title string) (book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if b := r.books[id]; b.Title == title {
			return clone(b), nil
		}
	}
	return book.Book{}, book.ErrNotFound
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	if err := book.Validate(b); err != nil {
		return book.Book{}, err
	}
	b.ID = uuid.New().String()
	b = clone(b)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books[b.ID] = b
	r.order = append(r.order, b.ID)
	return clone(b), nil
}

func (r *Repository) AppendComment(ctx context.Context, id, comment string) (book.Book, error) {
	key, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.books[key]
	if !ok {
		return book.Book{}, book.ErrNotFound
	}
	b.Comments = append(b.Comments, comment)
	r.books[key] = b
	return clone(b), nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[key]; !ok {
		return book.ErrNotFound
	}
	delete(r.books, key)
	r.order = slices.DeleteFunc(r.order, func(s string) bool { return s == key })
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.order))
	r.books = make(map[string]book.Book)
	r.order = nil
	return n, nil
}

func (r *Repository) Close(ctx context.Context) error {
	return nil
}

// clone detaches the comment slice from the stored copy
func clone(b book.Book) book.Book {
	comments := make([]string, len(b.Comments))
	copy(comments, b.Comments)
	b.Comments = comments
	return b
}
