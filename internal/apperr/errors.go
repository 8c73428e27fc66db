// Package apperr defines the error kinds the ledger core reports to callers.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for common failure scenarios.
var (
	ErrNotFound      = errors.New("books: not found")
	ErrAlreadyExists = errors.New("books: already exists")
	ErrInvalidInput  = errors.New("books: invalid input")
)

// ValidationError rejects malformed input before anything is written.
// Line is 1-based; 0 means the error is about the entry as a whole.
type ValidationError struct {
	Line    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("books: validation failed on line %d (%s): %s", e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("books: validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid builds a ValidationError for a whole-record field.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InvalidLine builds a ValidationError for one line of an entry.
func InvalidLine(line int, field, format string, args ...any) *ValidationError {
	return &ValidationError{Line: line, Field: field, Message: fmt.Sprintf(format, args...)}
}

// UnbalancedEntryError reports sum(debit) != sum(credit) at 2 decimal places.
type UnbalancedEntryError struct {
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Difference decimal.Decimal // Debit - Credit
}

func (e *UnbalancedEntryError) Error() string {
	return fmt.Sprintf("books: entry does not balance: debits %s, credits %s, difference %s",
		e.Debit.StringFixed(2), e.Credit.StringFixed(2), e.Difference.StringFixed(2))
}

func (e *UnbalancedEntryError) Unwrap() error { return ErrInvalidInput }

// IllegalStateTransition rejects an operation the entry's state does not allow.
type IllegalStateTransition struct {
	EntryID   int64
	Operation string
	State     string
}

func (e *IllegalStateTransition) Error() string {
	return fmt.Sprintf("books: cannot %s entry %d in state %q", e.Operation, e.EntryID, e.State)
}

// InsufficientStockError reports that FIFO layers cannot cover a sale.
type InsufficientStockError struct {
	ProductID int64
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("books: insufficient stock for product %d: requested %s, available %s",
		e.ProductID, e.Requested.String(), e.Available.String())
}

// MissingLedgerConfiguration means a required system account could not be
// resolved. Callers should prompt for chart-of-accounts setup.
type MissingLedgerConfiguration struct {
	Role string
	Code string // configured code that did not resolve, if any
}

func (e *MissingLedgerConfiguration) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("books: no %s account configured (code %q not found)", e.Role, e.Code)
	}
	return fmt.Sprintf("books: no %s account configured", e.Role)
}

// NotFound wraps ErrNotFound with the kind and id that was looked up.
func NotFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation returns true for input errors (including unbalanced entries).
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnbalanced returns the UnbalancedEntryError in err's chain, if any.
func IsUnbalanced(err error) (*UnbalancedEntryError, bool) {
	var ue *UnbalancedEntryError
	ok := errors.As(err, &ue)
	return ue, ok
}

// IsIllegalState returns true if err is an IllegalStateTransition.
func IsIllegalState(err error) bool {
	var ie *IllegalStateTransition
	return errors.As(err, &ie)
}

// IsInsufficientStock returns true if err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var se *InsufficientStockError
	return errors.As(err, &se)
}

// IsMissingConfiguration returns true if err is a MissingLedgerConfiguration.
func IsMissingConfiguration(err error) bool {
	var me *MissingLedgerConfiguration
	return errors.As(err, &me)
}
