package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// SetBudget sets the target for one profit and loss account in one month,
// replacing any earlier target for that month.
func (s *Service) SetBudget(ctx context.Context, companyID, accountID int64, month string, amount decimal.Decimal) (model.BudgetTarget, error) {
	if _, err := period.ParseMonth(month); err != nil {
		return model.BudgetTarget{}, apperr.Invalid("period", "%v", err)
	}
	if !money.HasAtMostPlaces(amount, money.Places) {
		return model.BudgetTarget{}, apperr.Invalid("amount", "amount %s has more than 2 decimal places", amount)
	}

	st := store.New(s.db)
	acct, err := st.GetAccount(ctx, companyID, accountID)
	if err != nil {
		return model.BudgetTarget{}, err
	}
	if !acct.Type.IsProfitAndLoss() {
		return model.BudgetTarget{}, apperr.Invalid("account_id", "account %s is not a profit and loss account", acct.Code)
	}

	b := model.BudgetTarget{CompanyID: companyID, AccountID: accountID, Period: month, Amount: amount}
	if err := st.UpsertBudget(ctx, &b); err != nil {
		return model.BudgetTarget{}, err
	}
	s.log.Info().Int64("company_id", companyID).Str("account", acct.Code).Str("period", month).
		Str("amount", amount.StringFixed(2)).Msg("budget set")
	return b, nil
}

// BudgetRow compares one account's budget with its actual activity.
type BudgetRow struct {
	AccountRef
	Budget          decimal.Decimal `json:"budget"`
	Actual          decimal.Decimal `json:"actual"`
	Variance        decimal.Decimal `json:"variance"`         // actual - budget
	VariancePercent decimal.Decimal `json:"variance_percent"` // of budget
}

// BudgetVsActual covers whole months FromPeriod through ToPeriod.
type BudgetVsActual struct {
	FromPeriod    string          `json:"from_period"`
	ToPeriod      string          `json:"to_period"`
	Rows          []BudgetRow     `json:"rows"`
	TotalBudget   decimal.Decimal `json:"total_budget"`
	TotalActual   decimal.Decimal `json:"total_actual"`
	TotalVariance decimal.Decimal `json:"total_variance"`
}

// VariancePercent is variance/budget*100, or 100 when there is activity but no
// budget, or 0 when both are zero.
func VariancePercent(variance, budget, actual decimal.Decimal) decimal.Decimal {
	switch {
	case !budget.IsZero():
		return money.Percent(variance, budget)
	case !actual.IsZero():
		return decimal.NewFromInt(100)
	default:
		return decimal.Zero
	}
}

// BudgetVsActual compares targets with posted activity for every profit and
// loss account that has either.
func (s *Service) BudgetVsActual(ctx context.Context, companyID int64, fromMonth, toMonth string) (*BudgetVsActual, error) {
	from, err := period.ParseMonth(fromMonth)
	if err != nil {
		return nil, apperr.Invalid("period", "%v", err)
	}
	to, err := period.ParseMonth(toMonth)
	if err != nil {
		return nil, apperr.Invalid("period", "%v", err)
	}
	if to.Before(from) {
		return nil, apperr.Invalid("period", "period %s is before %s", toMonth, fromMonth)
	}
	start, end := monthRange(from, to)

	st := store.New(s.db)
	c, err := s.chart(ctx, st, companyID)
	if err != nil {
		return nil, err
	}
	lines, err := st.LedgerLines(ctx, companyID, store.LineFilter{From: start, To: end})
	if err != nil {
		return nil, err
	}
	actuals := signAdjusted(c, rawBalances(lines))

	targets, err := st.Budgets(ctx, companyID, period.Month(start), period.Month(end))
	if err != nil {
		return nil, err
	}
	budgets := make(map[int64]decimal.Decimal)
	for _, t := range targets {
		budgets[t.AccountID] = budgets[t.AccountID].Add(t.Amount)
	}

	report := &BudgetVsActual{
		FromPeriod:    period.Month(start),
		ToPeriod:      period.Month(end),
		Rows:          []BudgetRow{},
		TotalBudget:   decimal.Zero,
		TotalActual:   decimal.Zero,
		TotalVariance: decimal.Zero,
	}
	for _, a := range c.accounts {
		if !a.Type.IsProfitAndLoss() {
			continue
		}
		budget, hasBudget := budgets[a.ID]
		actual := money.Round(actuals[a.ID])
		if !hasBudget && actual.IsZero() {
			continue
		}
		variance := actual.Sub(budget)
		report.Rows = append(report.Rows, BudgetRow{
			AccountRef:      refOf(a),
			Budget:          budget,
			Actual:          actual,
			Variance:        variance,
			VariancePercent: VariancePercent(variance, budget, actual),
		})
		report.TotalBudget = report.TotalBudget.Add(budget)
		report.TotalActual = report.TotalActual.Add(actual)
		report.TotalVariance = report.TotalVariance.Add(variance)
	}
	return report, nil
}

// monthRange returns the first day of from's month and the last day of to's.
func monthRange(from, to time.Time) (time.Time, time.Time) {
	return period.MonthStart(from), period.AddDays(period.MonthStart(to).AddDate(0, 1, 0), -1)
}
