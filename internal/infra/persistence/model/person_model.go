package model

import (
	"personjson/internal/infra/persistence/jsoncolumn"

	"github.com/aarondl/null/v8"
	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// AddressesSerializer is the gorm serializer name of PersonModel.Addresses.
const AddressesSerializer = "person_addresses_json"

// Addresses converts and compares the persons.addresses column. It is registered with gorm
// when this package is initialised, before any schema referencing it can be parsed.
var Addresses = jsoncolumn.Configure(AddressesSerializer, jsoncolumn.WithColumn[AddressDocuments]("addresses"))

// PersonModel mirrors the 'persons' table. Addresses live in a single JSONB column.
type PersonModel struct {
	ID          int64            `gorm:"primaryKey;autoIncrement"`
	FirstName   string           `gorm:"type:varchar(50);not null"`
	LastName    string           `gorm:"type:varchar(50);not null"`
	DateOfBirth datatypes.Date   `gorm:"not null"`
	Addresses   AddressDocuments `gorm:"serializer:person_addresses_json;not null;default:'[]'"`
}

// TableName explicitly sets the table name for GORM.
func (PersonModel) TableName() string {
	return "persons"
}

// AddressDocument is one element of the persons.addresses JSON array. Keys keep the
// capitalised names used by the stored documents; Company is null when absent.
type AddressDocument struct {
	Type    string      `json:"Type"`
	Company null.String `json:"Company"`
	Number  string      `json:"Number"`
	Street  string      `json:"Street"`
	City    string      `json:"City"`
}

// UnmarshalJSON reads an address element. An empty Company decodes as null, the same value
// an address without a company is written with.
func (d *AddressDocument) UnmarshalJSON(data []byte) error {
	type document AddressDocument

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Company.Valid && doc.Company.String == "" {
		doc.Company = null.String{}
	}
	*d = AddressDocument(doc)

	return nil
}

// AddressDocuments is the Go type of the persons.addresses column.
type AddressDocuments []AddressDocument

// GormDBDataType tells migrations to create a native JSON column for the dialect in use.
func (AddressDocuments) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return jsoncolumn.ColumnType(db.Dialector.Name())
}
