// internal/model/customer.go
package model

// Customer is a customer row plus its display address: the address with the
// lowest id for that customer. The display fields are nil when the customer has
// no address.
type Customer struct {
	ID          int64   `db:"id" json:"id"`
	FirstName   string  `db:"first_name" json:"first_name"`
	LastName    string  `db:"last_name" json:"last_name"`
	PhoneNumber string  `db:"phone_number" json:"phone_number"`
	AddressLine *string `db:"address_line" json:"address_line"`
	City        *string `db:"city" json:"city"`
	State       *string `db:"state" json:"state"`
	PinCode     *string `db:"pin_code" json:"pin_code"`
}

// CustomerFields are the personal fields accepted on create and update.
type CustomerFields struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required,min=10"`
}

// CustomerFilter holds the optional listing predicates. Empty values are ignored.
type CustomerFilter struct {
	City    string
	State   string
	PinCode string
}

// Empty reports whether no predicate is set.
func (f CustomerFilter) Empty() bool {
	return f.City == "" && f.State == "" && f.PinCode == ""
}
