package core

import (
	"errors"
	"fmt"
)

// ValidationError reports caller-supplied input that violates a precondition.
// The store is left unchanged when one is returned.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// StorageError wraps a failure of the durable medium. It is never retried.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

var (
	ErrInvalidAmount   = &ValidationError{Field: "amount", Msg: "amount must be positive"}
	ErrMalformedAmount = &ValidationError{Field: "amount", Msg: "amount is not a valid number"}
	ErrAmountTooLarge  = &ValidationError{Field: "amount", Msg: "amount is too large"}
	ErrEmptyCategory   = &ValidationError{Field: "category", Msg: "category must not be empty"}
	ErrInvalidDate     = &ValidationError{Field: "date", Msg: "date must be in YYYY-MM-DD format"}
	ErrInvalidMonth    = &ValidationError{Field: "month", Msg: "month must be between 1 and 12"}
	ErrInvalidID       = &ValidationError{Field: "id", Msg: "id must be positive"}
	ErrInvalidFilter   = &ValidationError{Field: "filter", Msg: "exactly one selection criterion is required"}
)

// ErrTotalOverflow is wrapped in a StorageError when stored amounts sum past
// the int64 cents range.
var ErrTotalOverflow = errors.New("total exceeds the representable amount range")

// NewStorageError wraps err with the failed operation name. A nil err yields nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
