package service_test

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/queue"
)

// MockCustomerRepo keeps customers in a map and records calls.
type MockCustomerRepo struct {
	Customers map[int64]*model.Customer
	Total     int
	Err       error

	NextID      int64
	CreateCalls int
	LastPage    model.Page
	LastFilter  model.CustomerFilter
}

func NewMockCustomerRepo() *MockCustomerRepo {
	return &MockCustomerRepo{Customers: map[int64]*model.Customer{}, NextID: 1}
}

func (m *MockCustomerRepo) List(ctx context.Context, filter model.CustomerFilter, page model.Page) ([]model.Customer, int, error) {
	m.LastPage = page
	m.LastFilter = filter
	if m.Err != nil {
		return nil, 0, m.Err
	}
	out := []model.Customer{}
	for _, c := range m.Customers {
		out = append(out, *c)
	}
	return out, m.Total, nil
}

func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Customers[id], nil
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *model.Customer) error {
	m.CreateCalls++
	if m.Err != nil {
		return m.Err
	}
	c.ID = m.NextID
	m.NextID++
	m.Customers[c.ID] = c
	return nil
}

func (m *MockCustomerRepo) Update(ctx context.Context, id int64, f model.CustomerFields) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	c, ok := m.Customers[id]
	if !ok {
		return 0, nil
	}
	c.FirstName, c.LastName, c.PhoneNumber = f.FirstName, f.LastName, f.PhoneNumber
	return 1, nil
}

func (m *MockCustomerRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	if _, ok := m.Customers[id]; !ok {
		return 0, nil
	}
	delete(m.Customers, id)
	return 1, nil
}

// MockAddressRepo keeps addresses in a map and records calls.
type MockAddressRepo struct {
	Addresses   map[int64]*model.Address
	NextID      int64
	CreateCalls int
}

func NewMockAddressRepo() *MockAddressRepo {
	return &MockAddressRepo{Addresses: map[int64]*model.Address{}, NextID: 1}
}

func (m *MockAddressRepo) ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error) {
	out := []model.Address{}
	for _, a := range m.Addresses {
		if a.CustomerID == customerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *MockAddressRepo) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	return m.Addresses[id], nil
}

func (m *MockAddressRepo) Create(ctx context.Context, a *model.Address) error {
	m.CreateCalls++
	a.ID = m.NextID
	m.NextID++
	m.Addresses[a.ID] = a
	return nil
}

func (m *MockAddressRepo) Update(ctx context.Context, id int64, f model.AddressFields) (int64, error) {
	a, ok := m.Addresses[id]
	if !ok {
		return 0, nil
	}
	a.AddressLine, a.City, a.State, a.PinCode = f.AddressLine, f.City, f.State, f.PinCode
	return 1, nil
}

func (m *MockAddressRepo) Delete(ctx context.Context, id int64) (int64, error) {
	if _, ok := m.Addresses[id]; !ok {
		return 0, nil
	}
	delete(m.Addresses, id)
	return 1, nil
}

// MockQueue records published events and can be made to fail.
type MockQueue struct {
	mu     sync.Mutex
	Events []queue.Event
	Fail   bool
}

func (q *MockQueue) Publish(topic string, payload any) error {
	if q.Fail {
		return errors.New("broker down")
	}
	evt, err := queue.DecodeEvent(payload)
	if err != nil {
		return err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Events = append(q.Events, evt)
	return nil
}

func (q *MockQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

func (q *MockQueue) Types() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []string
	for _, e := range q.Events {
		out = append(out, e.Type)
	}
	return out
}

func newPublisher(q *MockQueue) *queue.Publisher {
	return queue.NewPublisher(q, "customer_events", zerolog.Nop())
}
