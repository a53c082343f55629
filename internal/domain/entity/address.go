package entity

// Well-known address types.
const (
	AddressTypeHome = "Home"
	AddressTypeWork = "Work"
)

// Address is a value object: it has no identity and two addresses are the same
// when all of their fields are equal.
type Address struct {
	Type    string // e.g. "Home" or "Work".
	Company string // Optional. Empty means no company.
	Number  string // House number, may carry a suffix such as "123b".
	Street  string
	City    string
}

// Equal reports whether both addresses hold the same values.
func (a Address) Equal(other Address) bool {
	return a == other
}
