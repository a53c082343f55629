package model

import (
	"database/sql/driver"
	"sync"
	"testing"

	"personjson/internal/infra/persistence/jsoncolumn"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func TestAddresses_WireFormat(t *testing.T) {
	docs := AddressDocuments{{
		Type:   "Home",
		Number: "123b",
		Street: "Schouwburgring",
		City:   "Tilburg",
	}}

	text, err := Addresses.Serialize(docs)
	require.NoError(t, err)
	assert.Equal(t, `[{"Type":"Home","Company":null,"Number":"123b","Street":"Schouwburgring","City":"Tilburg"}]`, text)

	back := Addresses.Deserialize(`[{"Type":"Work","Company":"4DotNet","Number":"20f","Street":"Nevelgaarde","City":"Nieuwegein"},{"Type":"Home","Number":"1","Street":"Main","City":"Breda"}]`)
	require.Len(t, back, 2)
	assert.Equal(t, null.StringFrom("4DotNet"), back[0].Company)
	assert.False(t, back[1].Company.Valid, "absent Company decodes as null")
}

func TestAddressDocument_EmptyCompanyDecodesAsNull(t *testing.T) {
	const stored = `[{"Type":"Home","Company":"","Number":"1","Street":"Main","City":"Breda"}]`

	docs := Addresses.Deserialize(stored)
	require.Len(t, docs, 1)
	assert.Equal(t, null.String{}, docs[0].Company)

	// The snapshot of a loaded value equals the value written back for it.
	assert.True(t, Addresses.AreEqual(Addresses.Snapshot(docs), AddressDocuments{{Type: "Home", Number: "1", Street: "Main", City: "Breda"}}))

	_, err := Addresses.DeserializeStrict(`[{"Type":"Home","Company":7}]`)
	assert.Error(t, err)
}

func TestAddresses_RegisteredAsComparer(t *testing.T) {
	c, ok := jsoncolumn.ComparerFor(AddressesSerializer)
	require.True(t, ok)

	a := AddressDocuments{{Type: "Home", City: "Tilburg"}}
	b := AddressDocuments{{Type: "Home", City: "Tilburg"}}
	assert.True(t, c.Equal(a, b))

	b[0].Company = null.StringFrom("Acme")
	assert.False(t, c.Equal(a, b))
}

func TestPersonModel_Schema(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	s, err := schema.Parse(&PersonModel{}, &sync.Map{}, db.NamingStrategy)
	require.NoError(t, err)
	assert.Equal(t, "persons", s.Table)

	field := s.LookUpField("Addresses")
	require.NotNil(t, field)
	assert.Equal(t, "addresses", field.DBName)
	require.NotNil(t, field.Serializer)
	assert.Equal(t, "JSONB", db.Migrator().(interface {
		DataTypeOf(*schema.Field) string
	}).DataTypeOf(field))
}

func TestPersonModel_InsertRendersJSONText(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=localhost user=test dbname=test sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)

	m := &PersonModel{
		FirstName: "Frank",
		LastName:  "Sharp",
		Addresses: AddressDocuments{{Type: "Home", Number: "123b", Street: "Schouwburgring", City: "Tilburg"}},
	}

	stmt := db.Create(m).Statement
	assert.Contains(t, stmt.SQL.String(), `INSERT INTO "persons"`)
	assert.Contains(t, stmt.SQL.String(), `"addresses"`)

	var rendered []string
	for _, v := range stmt.Vars {
		if valuer, ok := v.(driver.Valuer); ok {
			if out, err := valuer.Value(); err == nil {
				if s, ok := out.(string); ok {
					rendered = append(rendered, s)
				}
			}
		}
	}
	assert.Contains(t, rendered, `[{"Type":"Home","Company":null,"Number":"123b","Street":"Schouwburgring","City":"Tilburg"}]`)
}
