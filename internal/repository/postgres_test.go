package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/domain"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)

	port, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	creds := &Credentials{
		Host:              host,
		Port:              port.Int(),
		User:              "testuser",
		Password:          "testpass",
		DBName:            "testdb",
		MigrationsDirPath: "../../migrations",
	}

	repo, err := NewRepository(creds)
	require.NoError(t, err)

	err = repo.RunMigrations(creds)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func seedProduct(t *testing.T, repo *Repository, name string, price float64) int64 {
	var id int64
	err := repo.db.QueryRow(
		`INSERT INTO products (name, description, price, image_url) VALUES ($1, '', $2, '') RETURNING id`,
		name, price).Scan(&id)
	require.NoError(t, err)
	return id
}

func newTestOrder(userID, key string) *domain.Order {
	return &domain.Order{
		Number:         "EH260831TEST0001",
		UserID:         userID,
		Status:         domain.OrderStatusPending,
		Total:          52.45,
		IdempotencyKey: key,
	}
}

func TestCreateOrder_AssignsIdentity(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("user-123", "key-1")

	err := repo.CreateOrder(ctx, order)
	require.NoError(t, err)

	assert.NotZero(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
}

func TestCreateOrder_DuplicateIdempotencyKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, repo.CreateOrder(ctx, newTestOrder("user-123", "key-1")))

	err := repo.CreateOrder(ctx, newTestOrder("user-123", "key-1"))
	require.ErrorIs(t, err, ErrDuplicateSubmission)
}

func TestFindOrderByIdempotencyKey(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	order := newTestOrder("user-123", "key-1")
	require.NoError(t, repo.CreateOrder(ctx, order))

	found, err := repo.FindOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	assert.Equal(t, "EH260831TEST0001", found.Number)
	// No lines written yet: an interrupted submission is recognisable.
	assert.Empty(t, found.Lines)

	kettleID := seedProduct(t, repo, "Kettle", 10)
	require.NoError(t, repo.InsertOrderLines(ctx, order.ID, []domain.OrderLine{
		{OrderID: order.ID, ProductID: kettleID, Quantity: 2, Price: 10},
	}))

	found, err = repo.FindOrderByIdempotencyKey(ctx, "key-1")
	require.NoError(t, err)
	require.Len(t, found.Lines, 1)
	assert.Equal(t, "Kettle", found.Lines[0].ProductName)

	_, err = repo.FindOrderByIdempotencyKey(ctx, "no-such-key")
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestListOrdersByUser_WithLinesAndProductNames(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	kettleID := seedProduct(t, repo, "Kettle", 10)
	toasterID := seedProduct(t, repo, "Toaster", 5)

	order := newTestOrder("user-123", "key-1")
	require.NoError(t, repo.CreateOrder(ctx, order))
	require.NoError(t, repo.InsertOrderLines(ctx, order.ID, []domain.OrderLine{
		{OrderID: order.ID, ProductID: kettleID, Quantity: 2, Price: 10},
		{OrderID: order.ID, ProductID: toasterID, Quantity: 3, Price: 5},
	}))

	// Orders of other users must not leak in.
	other := newTestOrder("someone-else", "key-2")
	require.NoError(t, repo.CreateOrder(ctx, other))

	orders, err := repo.ListOrdersByUser(ctx, "user-123")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got := orders[0]
	assert.Equal(t, order.ID, got.ID)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, "Kettle", got.Lines[0].ProductName)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	assert.InDelta(t, 10.0, got.Lines[0].Price, 1e-9)
	assert.Equal(t, "Toaster", got.Lines[1].ProductName)
}

func TestListOrdersByUser_Empty(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	orders, err := repo.ListOrdersByUser(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestGetProduct(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	id := seedProduct(t, repo, "Blender", 45.5)

	product, err := repo.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Blender", product.Name)
	assert.InDelta(t, 45.5, product.Price, 1e-9)

	_, err = repo.GetProduct(ctx, 9999)
	require.ErrorIs(t, err, ErrProductNotFound)
}
