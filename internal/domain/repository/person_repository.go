// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"personjson/internal/domain/entity"
)

// PersonRepository is a unit of work over persons.
//
// Every person it returns or is given through AddPerson is tracked; SaveChanges writes what
// changed since the person was loaded or last saved, including in-place edits of the address
// list. An instance belongs to one caller and must not be shared between goroutines.
type PersonRepository interface {
	// AddPerson validates a new person and schedules it for insertion.
	AddPerson(person *entity.Person) error

	// FindPersonByID loads a person by its identity.
	// Returns ErrPersonNotFound when no row matches.
	FindPersonByID(ctx context.Context, id int64) (*entity.Person, error)

	// FindPersonByFirstName loads the single person with the given first name.
	// Returns ErrPersonNotFound for no match and ErrPersonNotUnique for several.
	FindPersonByFirstName(ctx context.Context, firstName string) (*entity.Person, error)

	// FindPersonsByAddressType returns the persons owning at least one address of the given type.
	FindPersonsByAddressType(ctx context.Context, addressType string) ([]*entity.Person, error)

	// FindPersonsWithWorkAddress runs the raw JSON extraction query for "Work" addresses.
	FindPersonsWithWorkAddress(ctx context.Context) ([]*entity.Person, error)

	// FindRawAddresses returns the stored addresses column text without converting it.
	FindRawAddresses(ctx context.Context, id int64) (string, error)

	// RemovePerson schedules a tracked person for deletion.
	RemovePerson(person *entity.Person) error

	// PendingChanges returns the columns of a tracked person that SaveChanges would update.
	PendingChanges(person *entity.Person) ([]string, error)

	// SaveChanges persists all added, modified and removed persons in one transaction and
	// returns the number of rows written.
	SaveChanges(ctx context.Context) (int64, error)
}

// PersonRepositoryProvider opens a fresh unit of work.
type PersonRepositoryProvider interface {
	NewPersonRepository() PersonRepository
}

// AddressColumnDecoder reads stored addresses column text the way a load does, but reports
// unreadable text instead of substituting an empty list.
type AddressColumnDecoder interface {
	DecodeAddresses(raw string) ([]entity.Address, error)
}
