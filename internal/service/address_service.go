// internal/service/address_service.go
package service

import (
	"context"

	appErrors "github.com/unclebandit/customer-api/internal/errors"
	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/queue"
	"github.com/unclebandit/customer-api/internal/repository"
)

type AddressService struct {
	AddressRepo  repository.AddressRepositoryInterface
	CustomerRepo repository.CustomerRepositoryInterface
	Events       *queue.Publisher
}

// ListByCustomer returns the customer's addresses; an unknown customer has none.
func (s *AddressService) ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error) {
	return s.AddressRepo.ListByCustomer(ctx, customerID)
}

func (s *AddressService) Get(ctx context.Context, id int64) (*model.Address, error) {
	a, err := s.AddressRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, appErrors.NewAddressNotFound(id)
	}
	return a, nil
}

// Create validates the fields, then checks the owning customer exists before inserting.
func (s *AddressService) Create(ctx context.Context, customerID int64, f model.AddressFields) (*model.Address, error) {
	if err := validateAddress(f); err != nil {
		return nil, err
	}

	customer, err := s.CustomerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, appErrors.NewCustomerNotFound(customerID)
	}

	a := &model.Address{
		CustomerID:  customerID,
		AddressLine: f.AddressLine,
		City:        f.City,
		State:       f.State,
		PinCode:     f.PinCode,
	}
	if err := s.AddressRepo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.Events.Emit(queue.AddressCreated, customerID, a.ID)
	return a, nil
}

func (s *AddressService) Update(ctx context.Context, id int64, f model.AddressFields) error {
	if err := validateAddress(f); err != nil {
		return err
	}

	changed, err := s.AddressRepo.Update(ctx, id, f)
	if err != nil {
		return err
	}
	if changed == 0 {
		return appErrors.NewAddressNotFound(id)
	}

	s.Events.Emit(queue.AddressUpdated, 0, id)
	return nil
}

func (s *AddressService) Delete(ctx context.Context, id int64) error {
	changed, err := s.AddressRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if changed == 0 {
		return appErrors.NewAddressNotFound(id)
	}

	s.Events.Emit(queue.AddressDeleted, 0, id)
	return nil
}
