package postgres

import (
	"log/slog"
	"testing"

	"personjson/config"

	"github.com/stretchr/testify/assert"
)

func TestPrepareSchema(t *testing.T) {
	db := dryRunDB(t)
	logger := slog.New(slog.DiscardHandler)

	assert.NoError(t, PrepareSchema(t.Context(), db, logger, config.SchemaNone))
	assert.NoError(t, PrepareSchema(t.Context(), db, logger, config.SchemaFixture))

	err := PrepareSchema(t.Context(), db, logger, "flyway")
	assert.ErrorContains(t, err, `unknown schema mode "flyway"`)
}
