package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// LedgerRow is one line of the general ledger audit trail.
type LedgerRow struct {
	Date           time.Time       `json:"date"`
	EntryID        int64           `json:"entry_id"`
	EntryNumber    string          `json:"entry_number"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// GeneralLedger is one account's activity with running balances.
type GeneralLedger struct {
	Account        AccountRef      `json:"account"`
	Start          time.Time       `json:"start"`
	End            time.Time       `json:"end"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Rows           []LedgerRow     `json:"rows"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// GeneralLedger lists an account's posted lines dated within [start, end] in
// entry-creation order. The opening balance covers everything strictly before
// start.
func (s *Service) GeneralLedger(ctx context.Context, companyID, accountID int64, start, end time.Time) (*GeneralLedger, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	start, end = period.Day(start), period.Day(end)

	st := store.New(s.db)
	acct, err := st.GetAccount(ctx, companyID, accountID)
	if err != nil {
		return nil, err
	}

	before, err := st.LedgerLines(ctx, companyID, store.LineFilter{Before: start, AccountID: accountID})
	if err != nil {
		return nil, err
	}
	opening := decimal.Zero
	for _, l := range before {
		opening = opening.Add(l.Debit.Sub(l.Credit))
	}
	opening = model.SignAdjust(acct.Type, opening)

	lines, err := st.LedgerLines(ctx, companyID, store.LineFilter{From: start, To: end, AccountID: accountID})
	if err != nil {
		return nil, err
	}

	gl := &GeneralLedger{
		Account:        refOf(acct),
		Start:          start,
		End:            end,
		OpeningBalance: opening,
		Rows:           make([]LedgerRow, 0, len(lines)),
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	running := opening
	for _, l := range lines {
		running = running.Add(model.SignAdjust(acct.Type, l.Debit.Sub(l.Credit)))
		desc := l.Description
		if desc == "" {
			desc = l.EntryDescription
		}
		gl.Rows = append(gl.Rows, LedgerRow{
			Date:           l.Date,
			EntryID:        l.EntryID,
			EntryNumber:    l.EntryNumber,
			Description:    desc,
			Debit:          l.Debit,
			Credit:         l.Credit,
			RunningBalance: running,
		})
		gl.TotalDebit = gl.TotalDebit.Add(l.Debit)
		gl.TotalCredit = gl.TotalCredit.Add(l.Credit)
	}
	gl.ClosingBalance = running
	return gl, nil
}
