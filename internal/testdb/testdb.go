// Package testdb provides a PostgreSQL instance for integration tests.
//
// The first call to Open starts one container per test binary, applies the embedded schema and
// returns a GORM handle to it; later calls reuse it. Every call empties the persons table so
// tests start from a clean state. Tests are skipped when no Docker provider is available.
// Packages using it should call Shutdown from TestMain.
package testdb

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"personjson/internal/errors"
	"personjson/internal/infra/persistence/fixture"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	image        = "postgres:16-alpine"
	databaseName = "personjson"
	userName     = "personjson"
	password     = "personjson"
	startTimeout = 2 * time.Minute
)

type database struct {
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
}

var (
	once     sync.Once
	mu       sync.Mutex
	shared   *database
	startErr error
)

// Open returns a handle to the shared test database with an empty persons table.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
		defer cancel()

		db, err := start(ctx)

		mu.Lock()
		shared, startErr = db, err
		mu.Unlock()
	})
	require.NoError(t, startErr, "start test database")

	require.NoError(t, Truncate(t.Context(), shared.db))

	return shared.db
}

// Truncate removes every person and restarts the identity sequence.
func Truncate(ctx context.Context, db *gorm.DB) error {
	return errors.Wrap(db.WithContext(ctx).Exec("TRUNCATE TABLE persons RESTART IDENTITY").Error, "truncate persons")
}

// Shutdown stops the shared container, if one was started.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()

	if shared == nil {
		return
	}

	if sqlDB, err := shared.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if err := testcontainers.TerminateContainer(shared.container); err != nil {
		slog.Error("Failed to terminate test database", slog.String("error", err.Error()))
	}
	shared = nil
}

func start(ctx context.Context) (*database, error) {
	ctr, err := tcpostgres.Run(ctx, image,
		tcpostgres.WithDatabase(databaseName),
		tcpostgres.WithUsername(userName),
		tcpostgres.WithPassword(password),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, errors.Wrap(err, "run postgres container")
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, errors.Wrap(err, "connection string")
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, errors.Wrap(err, "open gorm")
	}

	runner := fixture.NewRunner(db, slog.New(slog.DiscardHandler))
	if err := runner.ApplySchema(ctx); err != nil {
		_ = testcontainers.TerminateContainer(ctr)
		return nil, err
	}

	return &database{container: ctr, db: db}, nil
}
