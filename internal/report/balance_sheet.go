package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Names of the synthetic equity rows.
const (
	CurrentYearEarnings = "Current Year Earnings"
	PriorYearsEarnings  = "Retained Earnings (prior years)"
)

// BalanceSheet is the cumulative position at a date.
type BalanceSheet struct {
	AsOf             time.Time       `json:"as_of"`
	FiscalYearStart  time.Time       `json:"fiscal_year_start"`
	Assets           []AmountRow     `json:"assets"`
	Liabilities      []AmountRow     `json:"liabilities"`
	Equity           []AmountRow     `json:"equity"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	TotalEquity      decimal.Decimal `json:"total_equity"`
	Balanced         bool            `json:"balanced"`
	Difference       decimal.Decimal `json:"difference"` // assets - (liabilities + equity)
}

// BalanceSheet reports sign-adjusted balances of balance-sheet accounts since
// inception. Profit and loss activity that was never closed to retained
// earnings appears as two synthetic equity rows: earnings from the fiscal year
// start to asOf, and earnings before the fiscal year start.
func (s *Service) BalanceSheet(ctx context.Context, companyID int64, asOf time.Time) (*BalanceSheet, error) {
	if asOf.IsZero() {
		return nil, apperr.Invalid("as_of", "as-of date is required")
	}
	asOf = period.Day(asOf)
	fyStart, err := period.FiscalYearStart(asOf, s.opts.FiscalYearStart)
	if err != nil {
		return nil, fmt.Errorf("balance sheet: %w", err)
	}

	st := store.New(s.db)
	c, err := s.chart(ctx, st, companyID)
	if err != nil {
		return nil, err
	}
	lines, err := st.LedgerLines(ctx, companyID, store.LineFilter{To: asOf})
	if err != nil {
		return nil, err
	}

	var prior, current []store.LedgerLine
	for _, l := range lines {
		if l.Date.Before(fyStart) {
			prior = append(prior, l)
		} else {
			current = append(current, l)
		}
	}
	all := signAdjusted(c, rawBalances(lines))

	bs := &BalanceSheet{
		AsOf:             asOf,
		FiscalYearStart:  fyStart,
		Assets:           []AmountRow{},
		Liabilities:      []AmountRow{},
		Equity:           []AmountRow{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, a := range c.accounts {
		if !a.Type.IsBalanceSheet() {
			continue
		}
		bal := all[a.ID]
		if money.IsNegligible(bal) {
			continue
		}
		row := AmountRow{AccountRef: refOf(a), Amount: money.Round(bal)}
		switch a.Type.Class() {
		case model.AccountTypeAsset:
			bs.Assets = append(bs.Assets, row)
			bs.TotalAssets = bs.TotalAssets.Add(row.Amount)
		case model.AccountTypeLiability:
			bs.Liabilities = append(bs.Liabilities, row)
			bs.TotalLiabilities = bs.TotalLiabilities.Add(row.Amount)
		default:
			bs.Equity = append(bs.Equity, row)
			bs.TotalEquity = bs.TotalEquity.Add(row.Amount)
		}
	}

	priorEarnings := profitAndLoss(c, rawBalances(prior), time.Time{}, period.AddDays(fyStart, -1)).NetIncome
	if !money.IsNegligible(priorEarnings) {
		bs.Equity = append(bs.Equity, AmountRow{AccountRef: AccountRef{Name: PriorYearsEarnings, Type: model.AccountTypeEquity}, Amount: priorEarnings})
		bs.TotalEquity = bs.TotalEquity.Add(priorEarnings)
	}
	ytd := profitAndLoss(c, rawBalances(current), fyStart, asOf).NetIncome
	bs.Equity = append(bs.Equity, AmountRow{AccountRef: AccountRef{Name: CurrentYearEarnings, Type: model.AccountTypeEquity}, Amount: ytd})
	bs.TotalEquity = bs.TotalEquity.Add(ytd)

	bs.Difference = bs.TotalAssets.Sub(bs.TotalLiabilities.Add(bs.TotalEquity))
	bs.Balanced = money.IsNegligible(bs.Difference)
	if !bs.Balanced {
		s.log.Warn().
			Int64("company_id", companyID).
			Str("as_of", period.Format(asOf)).
			Str("difference", bs.Difference.StringFixed(2)).
			Msg("balance sheet does not balance")
	}
	return bs, nil
}
