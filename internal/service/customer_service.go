// internal/service/customer_service.go
package service

import (
	"context"
	"math"

	appErrors "github.com/unclebandit/customer-api/internal/errors"
	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/queue"
	"github.com/unclebandit/customer-api/internal/repository"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// MaxPage keeps (page-1)*size within int for any allowed size.
const MaxPage = math.MaxInt / MaxPageSize

type CustomerService struct {
	CustomerRepo repository.CustomerRepositoryInterface
	Events       *queue.Publisher
}

// NewPage clamps raw page parameters: page < 1 becomes 1 and page is capped at
// MaxPage; size < 1 becomes DefaultPageSize and size is capped at MaxPageSize.
func NewPage(page, size int) model.Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return model.Page{Number: page, Size: size}
}

// List fetches customers with pagination
func (s *CustomerService) List(ctx context.Context, filter model.CustomerFilter, page, pageSize int) ([]model.Customer, model.Pagination, error) {
	p := NewPage(page, pageSize)

	customers, total, err := s.CustomerRepo.List(ctx, filter, p)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return customers, model.NewPagination(p, total), nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.CustomerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, appErrors.NewCustomerNotFound(id)
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, f model.CustomerFields) (*model.Customer, error) {
	if err := validateCustomer(f); err != nil {
		return nil, err
	}

	c := &model.Customer{
		FirstName:   f.FirstName,
		LastName:    f.LastName,
		PhoneNumber: f.PhoneNumber,
	}
	if err := s.CustomerRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.Events.Emit(queue.CustomerCreated, c.ID, 0)
	return c, nil
}

// Update replaces the personal fields. Zero changed rows means the customer does not exist.
func (s *CustomerService) Update(ctx context.Context, id int64, f model.CustomerFields) error {
	if err := validateCustomer(f); err != nil {
		return err
	}

	changed, err := s.CustomerRepo.Update(ctx, id, f)
	if err != nil {
		return err
	}
	if changed == 0 {
		return appErrors.NewCustomerNotFound(id)
	}

	s.Events.Emit(queue.CustomerUpdated, id, 0)
	return nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	changed, err := s.CustomerRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if changed == 0 {
		return appErrors.NewCustomerNotFound(id)
	}

	s.Events.Emit(queue.CustomerDeleted, id, 0)
	return nil
}
