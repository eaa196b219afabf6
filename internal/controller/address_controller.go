// internal/controller/address_controller.go
package controller

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/service"
)

type AddressController struct {
	AddressService *service.AddressService
	Log            zerolog.Logger
}

// ListAddresses serves GET /customers/{id}/addresses.
func (c *AddressController) ListAddresses(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	addresses, err := c.AddressService.ListByCustomer(r.Context(), customerID)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, addresses)
}

// CreateAddress serves POST /customers/{id}/addresses.
func (c *AddressController) CreateAddress(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customer")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var body model.AddressFields
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	address, err := c.AddressService.Create(r.Context(), customerID, body)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: address.ID, Message: "Address added successfully"})
}

func (c *AddressController) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "address")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	address, err := c.AddressService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, address)
}

func (c *AddressController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "address")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var body model.AddressFields
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	if err := c.AddressService.Update(r.Context(), id, body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Address updated successfully"})
}

func (c *AddressController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "address")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	if err := c.AddressService.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Address deleted successfully"})
}
