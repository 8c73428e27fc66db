package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// TrialBalanceOptions selects the trial balance date and draft policy.
type TrialBalanceOptions struct {
	AsOf          time.Time
	IncludeDrafts bool
}

// TrialBalanceRow is one account's raw balance split into columns.
type TrialBalanceRow struct {
	AccountRef
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// TrialBalance lists every account with a non-negligible raw balance.
type TrialBalance struct {
	AsOf          time.Time         `json:"as_of"`
	IncludeDrafts bool              `json:"include_drafts"`
	Rows          []TrialBalanceRow `json:"rows"`
	TotalDebit    decimal.Decimal   `json:"total_debit"`
	TotalCredit   decimal.Decimal   `json:"total_credit"`
	Balanced      bool              `json:"balanced"`
	Difference    decimal.Decimal   `json:"difference"` // TotalDebit - TotalCredit
}

// DefaultTrialBalanceOptions applies the configured draft policy.
func (s *Service) DefaultTrialBalanceOptions(asOf time.Time) TrialBalanceOptions {
	return TrialBalanceOptions{AsOf: asOf, IncludeDrafts: s.opts.TrialBalanceIncludeDrafts}
}

// TrialBalance sums debit - credit per account over entries dated on or
// before AsOf. Positive balances fill the debit column, negative ones the
// credit column. The result states whether drafts were included.
func (s *Service) TrialBalance(ctx context.Context, companyID int64, opts TrialBalanceOptions) (*TrialBalance, error) {
	if opts.AsOf.IsZero() {
		return nil, apperr.Invalid("as_of", "as-of date is required")
	}
	asOf := period.Day(opts.AsOf)

	st := store.New(s.db)
	c, err := s.chart(ctx, st, companyID)
	if err != nil {
		return nil, err
	}
	lines, err := st.LedgerLines(ctx, companyID, store.LineFilter{To: asOf, IncludeDrafts: opts.IncludeDrafts})
	if err != nil {
		return nil, err
	}
	raw := rawBalances(lines)

	tb := &TrialBalance{
		AsOf:          asOf,
		IncludeDrafts: opts.IncludeDrafts,
		Rows:          []TrialBalanceRow{},
		TotalDebit:    decimal.Zero,
		TotalCredit:   decimal.Zero,
	}
	for _, a := range c.accounts {
		bal := raw[a.ID]
		if money.IsNegligible(bal) {
			continue
		}
		row := TrialBalanceRow{AccountRef: refOf(a), Debit: decimal.Zero, Credit: decimal.Zero}
		if bal.IsPositive() {
			row.Debit = money.Round(bal)
		} else {
			row.Credit = money.Round(bal.Abs())
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.Difference = tb.TotalDebit.Sub(tb.TotalCredit)
	tb.Balanced = money.IsNegligible(tb.Difference)

	s.log.Debug().
		Int64("company_id", companyID).
		Str("as_of", period.Format(asOf)).
		Bool("include_drafts", opts.IncludeDrafts).
		Bool("balanced", tb.Balanced).
		Msg("trial balance generated")
	return tb, nil
}
