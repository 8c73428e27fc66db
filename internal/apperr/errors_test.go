package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := InvalidLine(2, "debit", "must not be negative")
	assert.Equal(t, "books: validation failed on line 2 (debit): must not be negative", err.Error())
	assert.True(t, IsValidation(err))

	wrapped := fmt.Errorf("creating entry: %w", Invalid("lines", "need at least %d", 2))
	assert.True(t, IsValidation(wrapped))
	assert.Contains(t, wrapped.Error(), "need at least 2")
}

func TestUnbalanced(t *testing.T) {
	var err error = &UnbalancedEntryError{
		Debit:      decimal.NewFromInt(100),
		Credit:     decimal.NewFromInt(90),
		Difference: decimal.NewFromInt(10),
	}
	err = fmt.Errorf("wrapped: %w", err)

	ue, ok := IsUnbalanced(err)
	assert.True(t, ok)
	assert.Equal(t, "10.00", ue.Difference.StringFixed(2))
	assert.True(t, IsValidation(err), "unbalanced entries are input errors")
	assert.Contains(t, err.Error(), "difference 10.00")
}

func TestKinds(t *testing.T) {
	assert.True(t, IsIllegalState(&IllegalStateTransition{EntryID: 1, Operation: "post", State: "posted"}))
	assert.True(t, IsInsufficientStock(fmt.Errorf("x: %w", &InsufficientStockError{ProductID: 1})))
	assert.True(t, IsMissingConfiguration(&MissingLedgerConfiguration{Role: "cogs"}))
	assert.False(t, IsMissingConfiguration(errors.New("other")))

	err := NotFound("entry", 42)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "entry 42: books: not found", err.Error())
}

func TestMissingLedgerConfigurationMessage(t *testing.T) {
	assert.Equal(t, `books: no cogs account configured (code "5000" not found)`,
		(&MissingLedgerConfiguration{Role: "cogs", Code: "5000"}).Error())
	assert.Equal(t, "books: no payable account configured",
		(&MissingLedgerConfiguration{Role: "payable"}).Error())
}
