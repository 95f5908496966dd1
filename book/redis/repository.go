package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/personal-library/book"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of book.Repository
 * book:{id}           hash with id and title
 * book:{id}:comments  list, RPUSH keeps append order
 * books               list of ids in insertion order
 * books:titles        hash title -> id, backs SelectByTitle
 */

const (
	hashPrefix   = "book"
	indexKey     = "books"
	titlesKey    = "books:titles"
	watchRetries = 3
)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return &Repository{
		client: client,
	}, nil
}

func hashKey(id string) string {
	return fmt.Sprintf("%s:%s", hashPrefix, id)
}

func commentsKey(id string) string {
	return fmt.Sprintf("%s:%s:comments", hashPrefix, id)
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
	return r.load(ctx, key)
}

func (r *Repository) load(ctx context.Context, id string) (book.Book, error) {
	var title *redis.StringCmd
	var comments *redis.StringSliceCmd
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		title = p.HGet(ctx, hashKey(id), "title")
		comments = p.LRange(ctx, commentsKey(id), 0, -1)
		return nil
	})
	if err != nil && err != redis.Nil {
		return book.Book{}, fmt.Errorf("getting book: %w", err)
	}
	return toBook(id, title, comments)
}

func toBook(id string, title *redis.StringCmd, comments *redis.StringSliceCmd) (book.Book, error) {
	t, err := title.Result()
	if err == redis.Nil {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("getting title: %w", err)
	}
	c, err := comments.Result()
	if err != nil && err != redis.Nil {
		return book.Book{}, fmt.Errorf("getting comments: %w", err)
	}
	if c == nil {
		c = []string{}
	}
	return book.Book{ID: id, Title: t, Comments: c}, nil
}

func (r *Repository) SelectByTitle(ctx context.Context, title string) (book.Book, error) {
	id, err := r.client.HGet(ctx, titlesKey, title).Result()
	if err == redis.Nil {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("getting title index: %w", err)
	}
	return r.load(ctx, id)
}

func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	ids, err := r.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing book ids: %w", err)
	}

	titles := make([]*redis.StringCmd, len(ids))
	comments := make([]*redis.StringSliceCmd, len(ids))
	_, err = r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, id := range ids {
			titles[i] = p.HGet(ctx, hashKey(id), "title")
			comments[i] = p.LRange(ctx, commentsKey(id), 0, -1)
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("getting books: %w", err)
	}

	books := make([]book.Book, 0, len(ids))
	for i, id := range ids {
		b, err := toBook(id, titles[i], comments[i])
		if errors.Is(err, book.ErrNotFound) {
			// deleted between the index read and the pipeline
			continue
		}
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	if err := book.Validate(b); err != nil {
		return book.Book{}, err
	}
	id := uuid.New().String()
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, hashKey(id), map[string]interface{}{
			"id":    id,
			"title": b.Title,
		})
		if len(b.Comments) > 0 {
			p.RPush(ctx, commentsKey(id), toArgs(b.Comments)...)
		}
		p.RPush(ctx, indexKey, id)
		p.HSetNX(ctx, titlesKey, b.Title, id)
		return nil
	})
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book: %w", err)
	}
	comments := append([]string{}, b.Comments...)
	return book.Book{ID: id, Title: b.Title, Comments: comments}, nil
}

// AppendComment watches the book hash so a concurrent delete aborts the push
func (r *Repository) AppendComment(ctx context.Context, id, comment string) (book.Book, error) {
	key, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	push := func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, hashKey(key)).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return book.ErrNotFound
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.RPush(ctx, commentsKey(key), comment)
			return nil
		})
		return err
	}
	for i := 0; i < watchRetries; i++ {
		err = r.client.Watch(ctx, push, hashKey(key))
		if err != redis.TxFailedErr {
			break
		}
	}
	if errors.Is(err, book.ErrNotFound) {
		return book.Book{}, err
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("appending comment: %w", err)
	}
	return r.load(ctx, key)
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}
	title, err := r.client.HGet(ctx, hashKey(key), "title").Result()
	if err == redis.Nil {
		return book.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("getting book: %w", err)
	}
	indexed, err := r.client.HGet(ctx, titlesKey, title).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("getting title index: %w", err)
	}

	var removed *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		removed = p.Del(ctx, hashKey(key))
		p.Del(ctx, commentsKey(key))
		p.LRem(ctx, indexKey, 0, key)
		if indexed == key {
			p.HDel(ctx, titlesKey, title)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if removed.Val() == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	ids, err := r.client.LRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("listing book ids: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			p.Del(ctx, hashKey(id), commentsKey(id))
		}
		p.Del(ctx, indexKey, titlesKey)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deleting books: %w", err)
	}
	return int64(len(ids)), nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

func toArgs(values []string) []interface{} {
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}
