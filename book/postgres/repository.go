package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/personal-library/book"
)

/*
PostgreSQL Repository Implementation

- Same book.Repository contract as the document store
- comments is a TEXT[] column, appended in place with array_append
- ids are UUIDs generated by the server (gen_random_uuid, PG 13+)
- the CHECK constraint mirrors book.Validate
*/

type Repository struct {
	DB *sql.DB
}

// NewRepository cria uma nova instância do repositório PostgreSQL com pool padrão (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig cria uma nova instância do repositório PostgreSQL com configuração customizável
// maxOpenConns: máximo de conexões simultâneas (0 = ilimitado)
// maxIdleConns: máximo de conexões inativas mantidas no pool
// maxLifeMinutes: duração máxima em minutos que uma conexão pode ser reutilizada
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// parseID validates identifier syntax before any query is sent
func parseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", book.ErrInvalidID
	}
	return u.String(), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (book.Book, error) {
	var b book.Book
	var comments pq.StringArray
	if err := s.Scan(&b.ID, &b.Title, &comments); err != nil {
		return book.Book{}, err
	}
	b.Comments = []string(comments)
	if b.Comments == nil {
		b.Comments = []string{}
	}
	return b, nil
}

func (r *Repository) selectOne(ctx context.Context, query string, arg any) (book.Book, error) {
	b, err := scanBook(r.DB.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("selecting book: %w", err)
	}
	return b, nil
}

// Select busca um livro por ID
func (r *Repository) Select(ctx context.Context, id string) (book.Book, error) {
	key, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	return r.selectOne(ctx, "SELECT id, title, comments FROM books WHERE id = $1", key)
}

// SelectByTitle busca o primeiro livro com o título exato
func (r *Repository) SelectByTitle(ctx context.Context, title string) (book.Book, error) {
	return r.selectOne(ctx, "SELECT id, title, comments FROM books WHERE title = $1 LIMIT 1", title)
}

// SelectAll retorna todos os livros, na ordem natural da tabela
func (r *Repository) SelectAll(ctx context.Context) ([]book.Book, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, title, comments FROM books")
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning book: %w", err)
		}
		books = append(books, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating books: %w", err)
	}

	return books, nil
}

// Insert insere um novo livro e retorna o registro com o ID gerado
func (r *Repository) Insert(ctx context.Context, b book.Book) (book.Book, error) {
	if err := book.Validate(b); err != nil {
		return book.Book{}, err
	}
	query := `
		INSERT INTO books (title)
		VALUES ($1)
		RETURNING id, title, comments
	`
	saved, err := scanBook(r.DB.QueryRowContext(ctx, query, b.Title))
	if err != nil {
		return book.Book{}, fmt.Errorf("inserting book: %w", err)
	}
	return saved, nil
}

// AppendComment adiciona o comentário no fim do array em um único UPDATE
func (r *Repository) AppendComment(ctx context.Context, id, comment string) (book.Book, error) {
	key, err := parseID(id)
	if err != nil {
		return book.Book{}, err
	}
	query := `
		UPDATE books
		SET comments = array_append(comments, $1)
		WHERE id = $2
		RETURNING id, title, comments
	`
	b, err := scanBook(r.DB.QueryRowContext(ctx, query, comment, key))
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, book.ErrNotFound
	}
	if err != nil {
		return book.Book{}, fmt.Errorf("appending comment: %w", err)
	}
	return b, nil
}

// Delete remove um livro por ID
func (r *Repository) Delete(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, "DELETE FROM books WHERE id = $1", key)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rows == 0 {
		return book.ErrNotFound
	}

	return nil
}

// DeleteAll remove todos os livros e retorna quantos foram removidos
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM books")
	if err != nil {
		return 0, fmt.Errorf("deleting books: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("getting rows affected: %w", err)
	}

	return rows, nil
}

// Close fecha a conexão com o banco de dados
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable cria a tabela books caso ainda não exista
func (r *Repository) CreateTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS books (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			title TEXT NOT NULL CHECK (title <> ''),
			comments TEXT[] NOT NULL DEFAULT '{}'
		)
	`
	if _, err := r.DB.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}

	if _, err := r.DB.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS books_title_idx ON books (title)"); err != nil {
		return fmt.Errorf("creating title index: %w", err)
	}

	return nil
}

// DropTable remove a tabela books (útil para testes)
func (r *Repository) DropTable(ctx context.Context) error {
	query := "DROP TABLE IF EXISTS books CASCADE"

	_, err := r.DB.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}

	return nil
}
