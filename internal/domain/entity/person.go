// Package entity contains the core business objects of the project.
package entity

import (
	"time"
)

// Person is the aggregate persisted by this project. Its addresses are owned values
// stored together with the person rather than in a table of their own.
type Person struct {
	ID          int64     // Database-assigned identity. Zero until the person is saved.
	FirstName   string    `validate:"required,max=50"`
	LastName    string    `validate:"required,max=50"`
	DateOfBirth time.Time `validate:"required"`
	Addresses   []Address // Ordered. Never nil once constructed or loaded.
}

// NewPerson creates a person with an empty address list.
func NewPerson(firstName, lastName string, dateOfBirth time.Time, addresses ...Address) *Person {
	list := make([]Address, 0, len(addresses))
	list = append(list, addresses...)

	return &Person{
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dateOfBirth,
		Addresses:   list,
	}
}

// AddAddress appends an address in place.
func (p *Person) AddAddress(address Address) {
	p.Addresses = append(p.Addresses, address)
}

// AddressesOfType returns a new slice holding the addresses whose Type matches.
func (p *Person) AddressesOfType(addressType string) []Address {
	filtered := make([]Address, 0, len(p.Addresses))
	for _, a := range p.Addresses {
		if a.Type == addressType {
			filtered = append(filtered, a)
		}
	}

	return filtered
}

// HasAddressOfType reports whether any address has the given Type.
func (p *Person) HasAddressOfType(addressType string) bool {
	for _, a := range p.Addresses {
		if a.Type == addressType {
			return true
		}
	}

	return false
}
