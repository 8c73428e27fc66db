package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// AmountRow is one account's sign-adjusted amount.
type AmountRow struct {
	AccountRef
	Amount decimal.Decimal `json:"amount"`
}

// ProfitAndLoss is revenue and expense activity over a date range.
type ProfitAndLoss struct {
	Start         time.Time       `json:"start"`
	End           time.Time       `json:"end"`
	Revenue       []AmountRow     `json:"revenue"`
	Expenses      []AmountRow     `json:"expenses"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetIncome     decimal.Decimal `json:"net_income"`
}

// ProfitAndLoss reports posted revenue and expense activity dated within
// [start, end].
func (s *Service) ProfitAndLoss(ctx context.Context, companyID int64, start, end time.Time) (*ProfitAndLoss, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	start, end = period.Day(start), period.Day(end)

	st := store.New(s.db)
	c, err := s.chart(ctx, st, companyID)
	if err != nil {
		return nil, err
	}
	lines, err := st.LedgerLines(ctx, companyID, store.LineFilter{From: start, To: end})
	if err != nil {
		return nil, err
	}
	return profitAndLoss(c, rawBalances(lines), start, end), nil
}

// profitAndLoss builds the statement from raw balances already restricted to
// the period. The balance sheet and cash flow reuse it.
func profitAndLoss(c *chart, raw map[int64]decimal.Decimal, start, end time.Time) *ProfitAndLoss {
	pl := &ProfitAndLoss{
		Start:         start,
		End:           end,
		Revenue:       []AmountRow{},
		Expenses:      []AmountRow{},
		TotalRevenue:  decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, a := range c.accounts {
		if !a.Type.IsProfitAndLoss() {
			continue
		}
		amount := model.SignAdjust(a.Type, raw[a.ID])
		if money.IsNegligible(amount) {
			continue
		}
		row := AmountRow{AccountRef: refOf(a), Amount: money.Round(amount)}
		if a.Type.Class() == model.AccountTypeRevenue {
			pl.Revenue = append(pl.Revenue, row)
			pl.TotalRevenue = pl.TotalRevenue.Add(row.Amount)
		} else {
			pl.Expenses = append(pl.Expenses, row)
			pl.TotalExpenses = pl.TotalExpenses.Add(row.Amount)
		}
	}
	pl.NetIncome = pl.TotalRevenue.Sub(pl.TotalExpenses)
	return pl
}
