// internal/controller/customer_controller.go
package controller

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/service"
)

type CustomerController struct {
	CustomerService *service.CustomerService
	Log             zerolog.Logger
}

type listCustomersResponse struct {
	Customers  []model.Customer `json:"customers"`
	Pagination model.Pagination `json:"pagination"`
}

func (c *CustomerController) ListCustomers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.CustomerFilter{
		City:    q.Get("city"),
		State:   q.Get("state"),
		PinCode: q.Get("pin_code"),
	}

	customers, pagination, err := c.CustomerService.List(r.Context(), filter, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, listCustomersResponse{
		Customers:  customers,
		Pagination: pagination,
	})
}

func (c *CustomerController) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	customer, err := c.CustomerService.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, customer)
}

func (c *CustomerController) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var body model.CustomerFields
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	customer, err := c.CustomerService.Create(r.Context(), body)
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, createdResponse{ID: customer.ID, Message: "Customer created successfully"})
}

func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	var body model.CustomerFields
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	if err := c.CustomerService.Update(r.Context(), id, body); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Customer updated successfully"})
}

func (c *CustomerController) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "customer")
	if err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	if err := c.CustomerService.Delete(r.Context(), id); err != nil {
		writeError(w, r, c.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Customer deleted successfully"})
}
