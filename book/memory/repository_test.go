package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/marcelsud/personal-library/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	defer repo.Close(ctx)

	all, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)

	saved, err := repo.Insert(ctx, book.New("Foundation"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, []string{}, saved.Comments)

	found, err := repo.SelectByTitle(ctx, "Foundation")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)

	updated, err := repo.AppendComment(ctx, saved.ID, "first")
	require.NoError(t, err)
	updated, err = repo.AppendComment(ctx, saved.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, updated.Comments)

	got, err := repo.Select(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, repo.Delete(ctx, saved.ID))
	_, err = repo.Select(ctx, saved.ID)
	assert.ErrorIs(t, err, book.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, saved.ID), book.ErrNotFound)
}

func TestRepository_InvalidID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.Select(ctx, "5f1d7f6e")
	assert.ErrorIs(t, err, book.ErrInvalidID)
	_, err = repo.AppendComment(ctx, "5f1d7f6e", "x")
	assert.ErrorIs(t, err, book.ErrInvalidID)
	assert.ErrorIs(t, repo.Delete(ctx, "5f1d7f6e"), book.ErrInvalidID)

	_, err = repo.Select(ctx, "0b7c4e5e-9a59-4d8e-8d0a-6f8a4f2b1c3d")
	assert.ErrorIs(t, err, book.ErrNotFound)
}

func TestRepository_InsertRejectsEmptyTitle(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	_, err := repo.Insert(ctx, book.New(""))
	assert.ErrorIs(t, err, book.ErrMissingTitle)
	all, _ := repo.SelectAll(ctx)
	assert.Empty(t, all)
}

func TestRepository_ReturnedCopiesAreDetached(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	saved, err := repo.Insert(ctx, book.New("Dune"))
	require.NoError(t, err)
	b, err := repo.AppendComment(ctx, saved.ID, "kept")
	require.NoError(t, err)
	b.Comments[0] = "mutated"

	got, err := repo.Select(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"kept"}, got.Comments)
}

func TestRepository_DeleteAllKeepsOrderForNewInserts(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()

	for _, title := range []string{"A", "B", "C"} {
		_, err := repo.Insert(ctx, book.New(title))
		require.NoError(t, err)
	}
	n, err := repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	n, err = repo.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = repo.Insert(ctx, book.New("D"))
	require.NoError(t, err)
	_, err = repo.Insert(ctx, book.New("E"))
	require.NoError(t, err)
	all, err := repo.SelectAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "D", all[0].Title)
	assert.Equal(t, "E", all[1].Title)
}

func TestRepository_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository()
	saved, err := repo.Insert(ctx, book.New("Dune"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.AppendComment(ctx, saved.ID, "c")
		}()
	}
	wg.Wait()

	got, err := repo.Select(ctx, saved.ID)
	require.NoError(t, err)
	assert.Len(t, got.Comments, 50)
}
