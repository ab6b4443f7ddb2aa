//go:build integration

package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/migration"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresDB starts a PostgreSQL container and applies the embedded migrations
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("printshop_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := Open(postgres.Open(dsn), nil)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.NoError(t, m.Up())

	return db
}

func TestPostgres_NextInternalIDIsGapFreeUnderConcurrency(t *testing.T) {
	db := newPostgresDB(t)
	repo := NewGormProductionOrderRepository(db)
	tenantID := uuid.New()

	const workers = 20
	ids := make(chan int64, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.NextInternalID(context.Background(), tenantID)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	for want := int64(1); want <= workers; want++ {
		assert.True(t, seen[want], "missing id %d", want)
	}
}

func TestPostgres_ProductionOrderPerQuoteIsUnique(t *testing.T) {
	db := newPostgresDB(t)
	ctx := context.Background()
	tenantID := uuid.New()
	quoteStatuses := seedQuoteStatuses(t, db, tenantID)
	productionStatuses := seedProductionStatuses(t, db, tenantID)

	q := newTestQuote(t, tenantID, quoteStatuses[0], "Acme")
	require.NoError(t, NewGormQuoteRepository(db).Save(ctx, q))

	repo := NewGormProductionOrderRepository(db)
	first := newTestOrder(t, tenantID, 1, q.ID, productionStatuses)
	require.NoError(t, repo.Save(ctx, first))

	second := newTestOrder(t, tenantID, 2, q.ID, productionStatuses)
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConflict)
}
