package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"aroha/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the full schema applied
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	ctx := context.Background()

	schema, err := filepath.Abs(filepath.Join("..", "..", "migrations", "01_schema.up.sql"))
	require.NoError(t, err)

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithInitScripts(schema),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProduct inserts one catalogue product and returns it.
func seedProduct(t *testing.T, pool *pgxpool.Pool, name string) model.Product {
	t.Helper()

	p := model.Product{
		ID:       uuid.New(),
		Name:     name,
		Category: "Clothing",
		Sizes:    []string{"M", "L"},
		Price:    decimal.RequireFromString("200"),
		Discount: decimal.RequireFromString("25"),
		Stock:    10,
		Keywords: []string{"test"},
		Tags:     []string{"sale"},
		Images:   []string{},
		IsActive: true,
	}
	p.RecomputeFinalPrice()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	repo := NewProductRepository(pool, zerolog.Nop())
	require.NoError(t, repo.Create(context.Background(), &p))

	return p
}

// seedUser inserts one account and returns it.
func seedUser(t *testing.T, pool *pgxpool.Pool, mobile string) model.User {
	t.Helper()

	u := model.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Mobile:       mobile,
		PasswordHash: "not-a-real-hash",
		CreatedAt:    time.Now(),
	}

	repo := NewUserRepository(pool, zerolog.Nop())
	require.NoError(t, repo.Create(context.Background(), &u))

	return u
}
