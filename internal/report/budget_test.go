package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/apperr"
)

func TestVariancePercent(t *testing.T) {
	tests := []struct {
		name                     string
		variance, budget, actual string
		want                     string
	}{
		{"over budget", "100", "400", "500", "25"},
		{"under budget", "-300", "300", "0", "-100"},
		{"no budget with activity", "1000", "0", "1000", "100"},
		{"nothing at all", "0", "0", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDec(t, tt.want, VariancePercent(dec(tt.variance), dec(tt.budget), dec(tt.actual)))
		})
	}
}

func budgetRow(rows []BudgetRow, code string) (BudgetRow, bool) {
	for _, r := range rows {
		if r.Code == code {
			return r, true
		}
	}
	return BudgetRow{}, false
}

func TestBudgetVsActual(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	ids := f.ids[1]

	_, err := f.svc.SetBudget(ctx, 1, ids["6060"], "2024-01", dec("400"))
	require.NoError(t, err)
	_, err = f.svc.SetBudget(ctx, 1, ids["6100"], "2024-01", dec("300"))
	require.NoError(t, err)
	_, err = f.svc.SetBudget(ctx, 1, ids["6030"], "2024-01", dec("0"))
	require.NoError(t, err)
	_, err = f.svc.SetBudget(ctx, 1, ids["6060"], "2024-02", dec("999"))
	require.NoError(t, err)

	f.post(t, date(2024, 1, 15), "Consulting", dr("1010", "1000"), cr("4020", "1000"))
	f.post(t, date(2024, 1, 20), "Rent", dr("6060", "500"), cr("1010", "500"))
	f.post(t, date(2024, 2, 20), "Rent", dr("6060", "500"), cr("1010", "500"))

	bva, err := f.svc.BudgetVsActual(ctx, 1, "2024-01", "2024-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-01", bva.FromPeriod)
	assert.Equal(t, "2024-01", bva.ToPeriod)
	require.Len(t, bva.Rows, 4)

	rent, ok := budgetRow(bva.Rows, "6060")
	require.True(t, ok)
	assertDec(t, "400", rent.Budget)
	assertDec(t, "500", rent.Actual)
	assertDec(t, "100", rent.Variance)
	assertDec(t, "25", rent.VariancePercent)

	revenue, ok := budgetRow(bva.Rows, "4020")
	require.True(t, ok)
	assertDec(t, "100", revenue.VariancePercent)

	payroll, ok := budgetRow(bva.Rows, "6100")
	require.True(t, ok)
	assertDec(t, "-300", payroll.Variance)
	assertDec(t, "-100", payroll.VariancePercent)

	supplies, ok := budgetRow(bva.Rows, "6030")
	require.True(t, ok)
	assertDec(t, "0", supplies.VariancePercent)

	_, ok = budgetRow(bva.Rows, "6010")
	assert.False(t, ok)

	assertDec(t, "700", bva.TotalBudget)
	assertDec(t, "1500", bva.TotalActual)

	quarter, err := f.svc.BudgetVsActual(ctx, 1, "2024-01", "2024-03")
	require.NoError(t, err)
	rent, ok = budgetRow(quarter.Rows, "6060")
	require.True(t, ok)
	assertDec(t, "1399", rent.Budget)
	assertDec(t, "1000", rent.Actual)
}

func TestSetBudget_Upsert(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	rentID := f.ids[1]["6060"]

	first, err := f.svc.SetBudget(ctx, 1, rentID, "2024-01", dec("400"))
	require.NoError(t, err)
	second, err := f.svc.SetBudget(ctx, 1, rentID, "2024-01", dec("450"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	bva, err := f.svc.BudgetVsActual(ctx, 1, "2024-01", "2024-01")
	require.NoError(t, err)
	require.Len(t, bva.Rows, 1)
	assertDec(t, "450", bva.Rows[0].Budget)
}

func TestSetBudget_Validation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	ids := f.ids[1]

	_, err := f.svc.SetBudget(ctx, 1, ids["1010"], "2024-01", dec("100"))
	assert.True(t, apperr.IsValidation(err), "balance sheet account")

	_, err = f.svc.SetBudget(ctx, 1, ids["6060"], "2024-13", dec("100"))
	assert.True(t, apperr.IsValidation(err), "bad month")

	_, err = f.svc.SetBudget(ctx, 1, ids["6060"], "2024-01", dec("1.005"))
	assert.True(t, apperr.IsValidation(err), "three decimals")

	_, err = f.svc.SetBudget(ctx, 1, f.ids[2]["6060"], "2024-01", dec("100"))
	assert.True(t, apperr.IsNotFound(err), "other company's account")

	_, err = f.svc.BudgetVsActual(ctx, 1, "2024-03", "2024-01")
	assert.True(t, apperr.IsValidation(err))
}
