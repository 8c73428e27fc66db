// Package report derives financial statements from the ledger. Reports only
// read committed rows and never lock. Every figure is sign-adjusted through
// model.SignAdjust.
package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Options are the company-level report policies.
type Options struct {
	// FiscalYearStart is "MM-DD"; empty means January 1.
	FiscalYearStart string
	// AgingBuckets are inclusive upper day bounds; nil means 30, 60, 90.
	AgingBuckets []int
	// TrialBalanceIncludeDrafts is the default draft policy of TrialBalance.
	TrialBalanceIncludeDrafts bool
}

// Service builds reports.
type Service struct {
	db   *sql.DB
	log  zerolog.Logger
	opts Options
}

// NewService creates a report Service.
func NewService(db *sql.DB, log zerolog.Logger, opts Options) *Service {
	return &Service{db: db, log: log.With().Str("service", "report").Logger(), opts: opts}
}

// AccountRef identifies the account a report row belongs to.
type AccountRef struct {
	AccountID int64                `json:"account_id"`
	Code      string               `json:"code"`
	Name      string               `json:"name"`
	Type      model.AccountType    `json:"type"`
	Subtype   model.AccountSubtype `json:"subtype,omitempty"`
}

func refOf(a model.Account) AccountRef {
	return AccountRef{AccountID: a.ID, Code: a.Code, Name: a.Name, Type: a.Type, Subtype: a.Subtype}
}

// chart is a company's accounts in code order.
type chart struct {
	accounts []model.Account
	byID     map[int64]model.Account
}

func (s *Service) chart(ctx context.Context, st *store.Store, companyID int64) (*chart, error) {
	accts, err := st.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}
	c := &chart{accounts: accts, byID: make(map[int64]model.Account, len(accts))}
	for _, a := range accts {
		c.byID[a.ID] = a
	}
	return c, nil
}

// rawBalances sums debit - credit per account.
func rawBalances(lines []store.LedgerLine) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal)
	for _, l := range lines {
		out[l.AccountID] = out[l.AccountID].Add(l.Debit.Sub(l.Credit))
	}
	return out
}

// balancesAt returns sign-adjusted cumulative balances of posted lines dated on
// or before asOf.
func (s *Service) balancesAt(ctx context.Context, st *store.Store, c *chart, companyID int64, asOf time.Time) (map[int64]decimal.Decimal, error) {
	lines, err := st.LedgerLines(ctx, companyID, store.LineFilter{To: asOf})
	if err != nil {
		return nil, err
	}
	return signAdjusted(c, rawBalances(lines)), nil
}

func signAdjusted(c *chart, raw map[int64]decimal.Decimal) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(raw))
	for id, bal := range raw {
		out[id] = model.SignAdjust(c.byID[id].Type, bal)
	}
	return out
}

func checkRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return apperr.Invalid("period", "start and end dates are required")
	}
	if end.Before(start) {
		return apperr.Invalid("period", "end date %s is before start date %s", period.Format(end), period.Format(start))
	}
	return nil
}
