package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/unclebandit/customer-api/internal/db"
	appErrors "github.com/unclebandit/customer-api/internal/errors"
	"github.com/unclebandit/customer-api/internal/model"
)

// CustomerRepositoryInterface defines methods used by service
type CustomerRepositoryInterface interface {
	List(ctx context.Context, filter model.CustomerFilter, page model.Page) ([]model.Customer, int, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, c *model.Customer) error
	Update(ctx context.Context, id int64, f model.CustomerFields) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	Store *db.Store
}

func (r *CustomerRepository) query(filter model.CustomerFilter) customerQuery {
	return customerQuery{sb: r.Store.Builder(), contains: r.Store.Contains, filter: filter}
}

// List returns one page of customers matching filter and the total number of
// matching customers. The count and the page are read concurrently.
func (r *CustomerRepository) List(ctx context.Context, filter model.CustomerFilter, page model.Page) ([]model.Customer, int, error) {
	conn, err := r.Store.Conn()
	if err != nil {
		return nil, 0, appErrors.NewStorage(err)
	}

	q := r.query(filter)
	countSQL, countArgs, err := q.Count().ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build count query")
	}
	pageSQL, pageArgs, err := q.Page(page).ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build list query")
	}

	var (
		total     int
		customers = []model.Customer{}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return conn.QueryRowContext(gctx, countSQL, countArgs...).Scan(&total)
	})
	g.Go(func() error {
		rows, err := conn.QueryContext(gctx, pageSQL, pageArgs...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			c, err := scanCustomer(rows)
			if err != nil {
				return err
			}
			customers = append(customers, *c)
		}
		return rows.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, 0, appErrors.NewStorage(err)
	}

	return customers, total, nil
}

// GetByID fetches a customer by ID; a missing customer is (nil, nil).
func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	conn, err := r.Store.Conn()
	if err != nil {
		return nil, appErrors.NewStorage(err)
	}

	query, args, err := r.query(model.CustomerFilter{}).ByID(id).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get query")
	}

	c, err := scanCustomer(conn.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, appErrors.NewStorage(err)
	}
	return c, nil
}

// Create inserts the personal fields and sets c.ID.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	conn, err := r.Store.Conn()
	if err != nil {
		return appErrors.NewStorage(err)
	}

	query, args, err := r.Store.Builder().
		Insert("customers").
		Columns("first_name", "last_name", "phone_number").
		Values(c.FirstName, c.LastName, c.PhoneNumber).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build insert query")
	}

	if err := conn.QueryRowContext(ctx, query, args...).Scan(&c.ID); err != nil {
		return appErrors.NewStorage(err)
	}
	return nil
}

// Update overwrites the personal fields and reports how many rows changed.
func (r *CustomerRepository) Update(ctx context.Context, id int64, f model.CustomerFields) (int64, error) {
	update := r.Store.Builder().
		Update("customers").
		Set("first_name", f.FirstName).
		Set("last_name", f.LastName).
		Set("phone_number", f.PhoneNumber).
		Where(sq.Eq{"id": id})
	return exec(ctx, r.Store, update)
}

// Delete removes the customer; its addresses go with it through the FK cascade.
func (r *CustomerRepository) Delete(ctx context.Context, id int64) (int64, error) {
	return exec(ctx, r.Store, r.Store.Builder().Delete("customers").Where(sq.Eq{"id": id}))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (*model.Customer, error) {
	var c model.Customer
	var addressLine, city, state, pinCode sql.NullString
	if err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.PhoneNumber, &addressLine, &city, &state, &pinCode); err != nil {
		return nil, err
	}
	c.AddressLine = nullable(addressLine)
	c.City = nullable(city)
	c.State = nullable(state)
	c.PinCode = nullable(pinCode)
	return &c, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

// exec runs a single write statement and returns the changed-row count.
func exec(ctx context.Context, store *db.Store, stmt sq.Sqlizer) (int64, error) {
	conn, err := store.Conn()
	if err != nil {
		return 0, appErrors.NewStorage(err)
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "build statement")
	}

	res, err := conn.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, appErrors.NewStorage(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, appErrors.NewStorage(err)
	}
	return n, nil
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
