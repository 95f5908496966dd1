package book

import (
	"context"
	"errors"
	"fmt"
)

/*
 * Service representa uma API, por isso usa pointer semantics. Book é dado, value semantics.
 */

type UseCase interface {
	Create(ctx context.Context, title string) (Book, error)
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id string) (Book, error)
	AddComment(ctx context.Context, id, comment string) (Book, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

// Create is idempotent by title: an existing book with the same title is returned as-is
func (s *Service) Create(ctx context.Context, title string) (Book, error) {
	if title == "" {
		return Book{}, ErrMissingTitle
	}
	existing, err := s.Repo.SelectByTitle(ctx, title)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Book{}, fmt.Errorf("selecting book by title: %w", err)
	}
	b, err := s.Repo.Insert(ctx, New(title))
	if err != nil {
		return Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	all, err := s.Repo.SelectAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	if all == nil {
		all = []Book{}
	}
	return all, nil
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	b, err := s.Repo.Select(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

// AddComment checks the comment before the identifier, so a missing comment wins over a bad id
func (s *Service) AddComment(ctx context.Context, id, comment string) (Book, error) {
	if comment == "" {
		return Book{}, ErrMissingComment
	}
	b, err := s.Repo.AppendComment(ctx, id, comment)
	if err != nil {
		return Book{}, fmt.Errorf("appending comment: %w", err)
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.Repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}

func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.Repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("deleting all books: %w", err)
	}
	return n, nil
}
