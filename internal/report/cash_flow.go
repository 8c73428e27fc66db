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

// CashFlowStatement is the indirect-method cash flow over a date range.
//
// BeginningCash is derived as EndingCash - NetChangeInCash.
// BeginningCashSnapshot is read independently from the ledger; when the two
// disagree, some balance-sheet movement was not classified and is listed in
// Unclassified.
type CashFlowStatement struct {
	Start                 time.Time       `json:"start"`
	End                   time.Time       `json:"end"`
	NetIncome             decimal.Decimal `json:"net_income"`
	Operating             []AmountRow     `json:"operating"`
	OperatingAdjustment   decimal.Decimal `json:"operating_adjustment"`
	DepreciationAddBack   decimal.Decimal `json:"depreciation_add_back"`
	OperatingTotal        decimal.Decimal `json:"operating_total"`
	Investing             []AmountRow     `json:"investing"`
	InvestingTotal        decimal.Decimal `json:"investing_total"`
	Financing             []AmountRow     `json:"financing"`
	FinancingTotal        decimal.Decimal `json:"financing_total"`
	NetChangeInCash       decimal.Decimal `json:"net_change_in_cash"`
	EndingCash            decimal.Decimal `json:"ending_cash"`
	BeginningCash         decimal.Decimal `json:"beginning_cash"`
	BeginningCashSnapshot decimal.Decimal `json:"beginning_cash_snapshot"`
	Reconciled            bool            `json:"reconciled"`
	Unclassified          []AmountRow     `json:"unclassified"`
}

// CashFlow builds the statement from net income over [start, end] and the
// change in each balance-sheet account between the day before start and end.
func (s *Service) CashFlow(ctx context.Context, companyID int64, start, end time.Time) (*CashFlowStatement, error) {
	if err := checkRange(start, end); err != nil {
		return nil, err
	}
	start, end = period.Day(start), period.Day(end)

	st := store.New(s.db)
	c, err := s.chart(ctx, st, companyID)
	if err != nil {
		return nil, err
	}
	periodLines, err := st.LedgerLines(ctx, companyID, store.LineFilter{From: start, To: end})
	if err != nil {
		return nil, err
	}
	opening, err := s.balancesAt(ctx, st, c, companyID, period.AddDays(start, -1))
	if err != nil {
		return nil, err
	}
	closing, err := s.balancesAt(ctx, st, c, companyID, end)
	if err != nil {
		return nil, err
	}

	cf := &CashFlowStatement{
		Start:                 start,
		End:                   end,
		NetIncome:             profitAndLoss(c, rawBalances(periodLines), start, end).NetIncome,
		Operating:             []AmountRow{},
		OperatingAdjustment:   decimal.Zero,
		DepreciationAddBack:   decimal.Zero,
		Investing:             []AmountRow{},
		InvestingTotal:        decimal.Zero,
		Financing:             []AmountRow{},
		FinancingTotal:        decimal.Zero,
		EndingCash:            decimal.Zero,
		BeginningCashSnapshot: decimal.Zero,
		Unclassified:          []AmountRow{},
	}

	for _, a := range c.accounts {
		if !a.Type.IsBalanceSheet() {
			continue
		}
		begin, finish := opening[a.ID], closing[a.ID]
		delta := finish.Sub(begin)
		section := model.CashFlowSectionOf(a.Subtype)

		if section == model.CashFlowCash {
			cf.BeginningCashSnapshot = cf.BeginningCashSnapshot.Add(begin)
			cf.EndingCash = cf.EndingCash.Add(finish)
			continue
		}
		if money.IsNegligible(delta) {
			continue
		}

		switch section {
		case model.CashFlowWorkingCapitalAsset:
			row := AmountRow{AccountRef: refOf(a), Amount: delta.Neg()}
			cf.Operating = append(cf.Operating, row)
			cf.OperatingAdjustment = cf.OperatingAdjustment.Add(row.Amount)
		case model.CashFlowWorkingCapitalLiability:
			row := AmountRow{AccountRef: refOf(a), Amount: delta}
			cf.Operating = append(cf.Operating, row)
			cf.OperatingAdjustment = cf.OperatingAdjustment.Add(row.Amount)
		case model.CashFlowDepreciation:
			addBack := finish.Abs().Sub(begin.Abs())
			cf.Operating = append(cf.Operating, AmountRow{AccountRef: refOf(a), Amount: addBack})
			cf.DepreciationAddBack = cf.DepreciationAddBack.Add(addBack)
		case model.CashFlowInvesting:
			row := AmountRow{AccountRef: refOf(a), Amount: delta.Neg()}
			cf.Investing = append(cf.Investing, row)
			cf.InvestingTotal = cf.InvestingTotal.Add(row.Amount)
		case model.CashFlowFinancing:
			row := AmountRow{AccountRef: refOf(a), Amount: delta}
			cf.Financing = append(cf.Financing, row)
			cf.FinancingTotal = cf.FinancingTotal.Add(row.Amount)
		default:
			cf.Unclassified = append(cf.Unclassified, AmountRow{AccountRef: refOf(a), Amount: delta})
		}
	}

	cf.OperatingTotal = cf.NetIncome.Add(cf.OperatingAdjustment).Add(cf.DepreciationAddBack)
	cf.NetChangeInCash = cf.OperatingTotal.Add(cf.InvestingTotal).Add(cf.FinancingTotal)
	cf.BeginningCash = cf.EndingCash.Sub(cf.NetChangeInCash)
	cf.Reconciled = money.IsNegligible(cf.BeginningCash.Sub(cf.BeginningCashSnapshot))

	if !cf.Reconciled {
		s.log.Warn().
			Int64("company_id", companyID).
			Str("derived", cf.BeginningCash.StringFixed(2)).
			Str("snapshot", cf.BeginningCashSnapshot.StringFixed(2)).
			Int("unclassified", len(cf.Unclassified)).
			Msg("cash flow beginning balance does not reconcile")
	}
	return cf, nil
}
