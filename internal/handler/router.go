// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/controller"
)

// Routes holds everything the router dispatches to.
type Routes struct {
	Customers      *controller.CustomerController
	Addresses      *controller.AddressController
	Health         *HealthHandler
	Log            zerolog.Logger
	AllowedOrigins []string
}

// NewRouter builds the HTTP handler for the whole API.
func NewRouter(rt Routes) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(AccessLog(rt.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: rt.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler)

	r.Get("/healthz", rt.Health.Ready)

	r.Route("/api", func(r chi.Router) {
		// Customer routes
		r.Get("/customers", rt.Customers.ListCustomers)
		r.Post("/customers", rt.Customers.CreateCustomer)
		r.Get("/customers/{id}", rt.Customers.GetCustomer)
		r.Put("/customers/{id}", rt.Customers.UpdateCustomer)
		r.Delete("/customers/{id}", rt.Customers.DeleteCustomer)

		// Address routes
		r.Get("/customers/{id}/addresses", rt.Addresses.ListAddresses)
		r.Post("/customers/{id}/addresses", rt.Addresses.CreateAddress)
		r.Get("/addresses/{id}", rt.Addresses.GetAddress)
		r.Put("/addresses/{id}", rt.Addresses.UpdateAddress)
		r.Delete("/addresses/{id}", rt.Addresses.DeleteAddress)
	})

	return r
}
