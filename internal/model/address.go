// internal/model/address.go
package model

type Address struct {
	ID          int64  `db:"id" json:"id"`
	CustomerID  int64  `db:"customer_id" json:"customer_id"`
	AddressLine string `db:"address_line" json:"address_line"`
	City        string `db:"city" json:"city"`
	State       string `db:"state" json:"state"`
	PinCode     string `db:"pin_code" json:"pin_code"`
}

// AddressFields are the fields accepted on address create and update.
type AddressFields struct {
	AddressLine string `json:"address_line" validate:"required"`
	City        string `json:"city" validate:"required"`
	State       string `json:"state" validate:"required"`
	PinCode     string `json:"pin_code" validate:"required"`
}
