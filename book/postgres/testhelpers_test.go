//go:build integration

package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
Test Helpers para PostgreSQL com Testcontainers REAL

Este é um exemplo REAL de uso de testcontainers:
- Sobe um container Docker do PostgreSQL
- Cria banco de dados de teste
- Retorna connection string
- Cleanup automático após testes

Referências:
- https://golang.testcontainers.org/modules/postgres/
- https://eltonminetto.dev/post/2024-02-15-using-test-helpers/
*/

const (
	defaultDatabase = "testdb"
	defaultUser     = "testuser"
	defaultPassword = "testpass"
)

// PostgresContainer encapsula o container e a conexão
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
	ConnStr   string
}

// SetupPostgresContainer cria e inicia um container PostgreSQL real
// Este é o VERDADEIRO uso de testcontainers!
func SetupPostgresContainer(t testing.TB, ctx context.Context) (*PostgresContainer, func()) {
	t.Helper()

	// Criar container PostgreSQL usando o módulo oficial
	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(defaultDatabase),
		postgres.WithUsername(defaultUser),
		postgres.WithPassword(defaultPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	// Obter connection string
	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Conectar ao banco
	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)

	// Verificar conexão
	err = db.PingContext(ctx)
	require.NoError(t, err)

	container := &PostgresContainer{
		Container: pgContainer,
		DB:        db,
		ConnStr:   connStr,
	}

	// Cleanup function
	cleanup := func() {
		if db != nil {
			_ = db.Close()
		}
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
	}

	return container, cleanup
}

// CreateTestSchema cria a tabela books no PostgreSQL
func CreateTestSchema(t testing.TB, ctx context.Context, db *sql.DB) {
	t.Helper()

	repo := &Repository{DB: db}
	require.NoError(t, repo.CreateTable(ctx))
}

// DropTestSchema remove a tabela books
func DropTestSchema(t testing.TB, ctx context.Context, db *sql.DB) {
	t.Helper()

	_, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS books CASCADE")
	require.NoError(t, err)
}

// CleanupDatabase remove todos os registros da tabela books
func CleanupDatabase(t testing.TB, ctx context.Context, db *sql.DB) {
	t.Helper()

	_, err := db.ExecContext(ctx, "TRUNCATE TABLE books CASCADE")
	require.NoError(t, err)
}

// PopulateSampleData insere dados de exemplo e retorna os IDs na ordem de inserção
func PopulateSampleData(t testing.TB, ctx context.Context, db *sql.DB) []string {
	t.Helper()

	testBooks := []string{"Neuromancer", "Dune", "1984"}

	ids := make([]string, 0, len(testBooks))
	for _, title := range testBooks {
		var id string
		query := `INSERT INTO books (title) VALUES ($1) RETURNING id`
		err := db.QueryRowContext(ctx, query, title).Scan(&id)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

// AssertBookCount verifica quantos livros estão no banco
func AssertBookCount(t testing.TB, ctx context.Context, db *sql.DB, expected int) {
	t.Helper()

	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM books").Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// CreateTestRepository cria um repositório para testes
func CreateTestRepository(t testing.TB, connStr string) *Repository {
	t.Helper()

	repo, err := NewRepository(connStr)
	require.NoError(t, err)

	return repo
}
