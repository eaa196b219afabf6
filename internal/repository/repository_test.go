package repository_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unclebandit/customer-api/internal/config"
	"github.com/unclebandit/customer-api/internal/db"
	"github.com/unclebandit/customer-api/internal/model"
	"github.com/unclebandit/customer-api/internal/repository"
)

func newTestStore(t *testing.T) *db.Store {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:       db.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "customer.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}
	store := db.Open(context.Background(), cfg, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	_, err := store.Conn()
	require.NoError(t, err)
	return store
}

type fixture struct {
	customers *repository.CustomerRepository
	addresses *repository.AddressRepository
}

func newFixture(t *testing.T) fixture {
	return fixtureFor(newTestStore(t))
}

func fixtureFor(store *db.Store) fixture {
	return fixture{
		customers: &repository.CustomerRepository{Store: store},
		addresses: &repository.AddressRepository{Store: store},
	}
}

func (f fixture) customer(t *testing.T, first string) int64 {
	t.Helper()
	c := &model.Customer{FirstName: first, LastName: "Tester", PhoneNumber: "9876543210"}
	require.NoError(t, f.customers.Create(context.Background(), c))
	require.NotZero(t, c.ID)
	return c.ID
}

func (f fixture) address(t *testing.T, customerID int64, city, state, pin string) int64 {
	t.Helper()
	a := &model.Address{CustomerID: customerID, AddressLine: "1 Main Road", City: city, State: state, PinCode: pin}
	require.NoError(t, f.addresses.Create(context.Background(), a))
	require.NotZero(t, a.ID)
	return a.ID
}

func str(s string) *string { return &s }
