package journal

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
)

// LineParams is one caller-supplied side of an entry.
type LineParams struct {
	AccountID   int64
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// AccountLookup finds an account owned by a company. *store.Store satisfies it.
type AccountLookup interface {
	GetAccount(ctx context.Context, companyID, id int64) (model.Account, error)
}

// ValidateLines checks a line set in a fixed order and returns the first
// violation: line count, account ownership, sign, single side, precision and
// finally balance. Line numbers in errors are 1-based.
func ValidateLines(ctx context.Context, accounts AccountLookup, companyID int64, lines []LineParams) error {
	if len(lines) < 2 {
		return apperr.Invalid("lines", "an entry needs at least 2 lines, got %d", len(lines))
	}

	for i, l := range lines {
		n := i + 1
		if _, err := accounts.GetAccount(ctx, companyID, l.AccountID); err != nil {
			if apperr.IsNotFound(err) {
				return apperr.InvalidLine(n, "account_id", "account %d does not exist in company %d", l.AccountID, companyID)
			}
			return err
		}
		if l.Debit.IsNegative() {
			return apperr.InvalidLine(n, "debit", "debit %s is negative", l.Debit)
		}
		if l.Credit.IsNegative() {
			return apperr.InvalidLine(n, "credit", "credit %s is negative", l.Credit)
		}
		if l.Debit.IsZero() == l.Credit.IsZero() {
			return apperr.InvalidLine(n, "amount", "line must have exactly one of debit or credit")
		}
		if !money.HasAtMostPlaces(l.Debit, money.Places) {
			return apperr.InvalidLine(n, "debit", "debit %s has more than 2 decimal places", l.Debit)
		}
		if !money.HasAtMostPlaces(l.Credit, money.Places) {
			return apperr.InvalidLine(n, "credit", "credit %s has more than 2 decimal places", l.Credit)
		}
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return CheckBalance(debit, credit)
}

// CheckBalance compares totals at 2 decimal places.
func CheckBalance(debit, credit decimal.Decimal) error {
	if money.Round(debit).Equal(money.Round(credit)) {
		return nil
	}
	return &apperr.UnbalancedEntryError{
		Debit:      debit,
		Credit:     credit,
		Difference: debit.Sub(credit),
	}
}
