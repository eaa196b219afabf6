package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/unclebandit/customer-api/internal/db"
	appErrors "github.com/unclebandit/customer-api/internal/errors"
	"github.com/unclebandit/customer-api/internal/model"
)

type AddressRepositoryInterface interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error)
	GetByID(ctx context.Context, id int64) (*model.Address, error)
	Create(ctx context.Context, a *model.Address) error
	Update(ctx context.Context, id int64, f model.AddressFields) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

type AddressRepository struct {
	Store *db.Store
}

var addressColumns = []string{"id", "customer_id", "address_line", "city", "state", "pin_code"}

// ListByCustomer returns every address of the customer in storage order.
func (r *AddressRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Address, error) {
	conn, err := r.Store.Conn()
	if err != nil {
		return nil, appErrors.NewStorage(err)
	}

	query, args, err := r.Store.Builder().
		Select(addressColumns...).
		From("addresses").
		Where(sq.Eq{"customer_id": customerID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list query")
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, appErrors.NewStorage(err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, appErrors.NewStorage(err)
		}
		addresses = append(addresses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.NewStorage(err)
	}
	return addresses, nil
}

// GetByID fetches an address; a missing address is (nil, nil).
func (r *AddressRepository) GetByID(ctx context.Context, id int64) (*model.Address, error) {
	conn, err := r.Store.Conn()
	if err != nil {
		return nil, appErrors.NewStorage(err)
	}

	query, args, err := r.Store.Builder().
		Select(addressColumns...).
		From("addresses").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get query")
	}

	a, err := scanAddress(conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, appErrors.NewStorage(err)
	}
	return a, nil
}

// Create inserts a and sets a.ID. The caller checks that a.CustomerID exists.
func (r *AddressRepository) Create(ctx context.Context, a *model.Address) error {
	conn, err := r.Store.Conn()
	if err != nil {
		return appErrors.NewStorage(err)
	}

	query, args, err := r.Store.Builder().
		Insert("addresses").
		Columns("customer_id", "address_line", "city", "state", "pin_code").
		Values(a.CustomerID, a.AddressLine, a.City, a.State, a.PinCode).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert query")
	}

	if err := conn.QueryRowContext(ctx, query, args...).Scan(&a.ID); err != nil {
		return appErrors.NewStorage(err)
	}
	return nil
}

func (r *AddressRepository) Update(ctx context.Context, id int64, f model.AddressFields) (int64, error) {
	update := r.Store.Builder().
		Update("addresses").
		Set("address_line", f.AddressLine).
		Set("city", f.City).
		Set("state", f.State).
		Set("pin_code", f.PinCode).
		Where(sq.Eq{"id": id})
	return exec(ctx, r.Store, update)
}

func (r *AddressRepository) Delete(ctx context.Context, id int64) (int64, error) {
	return exec(ctx, r.Store, r.Store.Builder().Delete("addresses").Where(sq.Eq{"id": id}))
}

func scanAddress(row rowScanner) (*model.Address, error) {
	var a model.Address
	if err := row.Scan(&a.ID, &a.CustomerID, &a.AddressLine, &a.City, &a.State, &a.PinCode); err != nil {
		return nil, err
	}
	return &a, nil
}

var _ AddressRepositoryInterface = (*AddressRepository)(nil)
