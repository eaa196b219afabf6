// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// ValidationError reports a missing or malformed required field.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports that the target entity (or its parent) does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// StorageError wraps an engine-level failure. Its message is the driver's, unchanged.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	if e.Err == nil {
		return "storage error"
	}
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Helper constructors
func NewValidation(message string) error {
	return &ValidationError{Message: message}
}

func NewCustomerNotFound(id int64) error {
	return &NotFoundError{Entity: "Customer", ID: id}
}

func NewAddressNotFound(id int64) error {
	return &NotFoundError{Entity: "Address", ID: id}
}

// NewStorage wraps err unless it is nil or already a StorageError.
func NewStorage(err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Err: err}
}

// HTTPStatus maps an error from the service layer to a response status.
func HTTPStatus(err error) int {
	var ve *ValidationError
	var nf *NotFoundError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
