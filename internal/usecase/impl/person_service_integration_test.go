package impl

import (
	"os"
	"testing"

	"personjson/internal/domain/entity"
	"personjson/internal/infra/persistence/postgres"
	"personjson/internal/testdb"
	"personjson/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	code := m.Run()
	testdb.Shutdown()
	os.Exit(code)
}

func newIntegrationService(t *testing.T) (usecase.PersonUsecase, *gorm.DB) {
	t.Helper()

	logger := newDiscardLogger()
	db := postgres.Configure(testdb.Open(t), logger, nil)
	params := postgres.PersonRepositoryParams{DB: db, Logger: logger}

	return NewPersonService(PersonServiceParams{
		Repos:     postgres.NewPersonRepositoryProvider(params),
		TxManager: postgres.NewTransactionManager(params),
		Decoder:   postgres.NewAddressColumnDecoder(),
		Logger:    logger,
	}), db
}

func TestPersonService_Scenario(t *testing.T) {
	service, _ := newIntegrationService(t)
	ctx := t.Context()

	chris, err := service.RegisterPerson(ctx, usecase.RegisterPersonInput{
		FirstName:   "Chris",
		LastName:    "Sharp",
		DateOfBirth: birthday,
		Addresses:   []entity.Address{home},
	})
	require.NoError(t, err)
	require.NotZero(t, chris.ID)

	updated, err := service.AddAddress(ctx, "Chris", work)
	require.NoError(t, err)
	assert.Equal(t, []entity.Address{home, work}, updated.Addresses)

	kept, err := service.KeepAddressesOfType(ctx, "Chris", entity.AddressTypeWork)
	require.NoError(t, err)
	assert.Equal(t, []entity.Address{work}, kept.Addresses)

	matches, err := service.FindPersonsByAddressType(ctx, entity.AddressTypeWork)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, chris.ID, matches[0].ID)
	assert.Equal(t, []entity.Address{work}, matches[0].Addresses)

	report, err := service.InspectAddresses(ctx, chris.ID)
	require.NoError(t, err)
	assert.True(t, report.Parsed)
	assert.Equal(t, []entity.Address{work}, report.Addresses)
}

func TestPersonService_InspectCorruptedColumn(t *testing.T) {
	service, db := newIntegrationService(t)
	ctx := t.Context()

	broken, err := service.RegisterPerson(ctx, usecase.RegisterPersonInput{
		FirstName:   "Broken",
		LastName:    "Record",
		DateOfBirth: birthday,
		Addresses:   []entity.Address{home},
	})
	require.NoError(t, err)
	empty, err := service.RegisterPerson(ctx, usecase.RegisterPersonInput{
		FirstName:   "Empty",
		LastName:    "Handed",
		DateOfBirth: birthday,
	})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`UPDATE persons SET addresses = '[{"Type": 1}]' WHERE id = ?`, broken.ID).Error)

	brokenReport, err := service.InspectAddresses(ctx, broken.ID)
	require.NoError(t, err)
	emptyReport, err := service.InspectAddresses(ctx, empty.ID)
	require.NoError(t, err)

	// Both load as empty lists; only the report tells them apart.
	assert.Zero(t, brokenReport.AddressCount())
	assert.Zero(t, emptyReport.AddressCount())
	assert.False(t, brokenReport.Parsed)
	assert.NotEmpty(t, brokenReport.ParseError)
	assert.True(t, emptyReport.Parsed)
}
