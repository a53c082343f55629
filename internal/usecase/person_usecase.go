package usecase

import (
	"context"
	"time"

	"personjson/internal/domain/entity"
)

// RegisterPersonInput carries the data of a new person.
type RegisterPersonInput struct {
	FirstName   string
	LastName    string
	DateOfBirth time.Time
	Addresses   []entity.Address
}

// AddressColumnReport describes what is stored in a person's addresses column.
type AddressColumnReport struct {
	PersonID int64
	// Raw is the column text as the database returns it.
	Raw string
	// Addresses is what a load of the person yields, empty when Raw is unreadable.
	Addresses []entity.Address
	// Parsed is false when Raw could not be read as an address list; such a column loads
	// as empty, which is otherwise indistinguishable from a person without addresses.
	Parsed     bool
	ParseError string
}

// AddressCount returns the number of addresses a load yields.
func (r *AddressColumnReport) AddressCount() int {
	return len(r.Addresses)
}

// PersonUsecase defines the person and address use cases
type PersonUsecase interface {
	// RegisterPerson stores a new person with its initial addresses.
	RegisterPerson(ctx context.Context, input RegisterPersonInput) (*entity.Person, error)

	// AddAddress appends an address to the person with the given first name.
	AddAddress(ctx context.Context, firstName string, address entity.Address) (*entity.Person, error)

	// KeepAddressesOfType drops every address of the person whose type differs from addressType.
	KeepAddressesOfType(ctx context.Context, firstName, addressType string) (*entity.Person, error)

	// FindPersonsByAddressType lists the persons owning an address of the given type.
	FindPersonsByAddressType(ctx context.Context, addressType string) ([]*entity.Person, error)

	// InspectAddresses reports the stored addresses column of a person.
	InspectAddresses(ctx context.Context, id int64) (*AddressColumnReport, error)
}
