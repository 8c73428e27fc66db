package report

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
)

func TestTrialBalance_ScenarioA(t *testing.T) {
	f := newFixture(t, Options{})
	f.post(t, date(2024, 1, 15), "Cash sale", dr("1010", "1000"), cr("4020", "1000"))

	tb, err := f.svc.TrialBalance(context.Background(), 1, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)

	assert.Equal(t, "1010", tb.Rows[0].Code)
	assertDec(t, "1000.00", tb.Rows[0].Debit)
	assert.True(t, tb.Rows[0].Credit.IsZero())

	assert.Equal(t, "4020", tb.Rows[1].Code)
	assertDec(t, "1000.00", tb.Rows[1].Credit)
	assert.True(t, tb.Rows[1].Debit.IsZero())

	assert.True(t, tb.Balanced)
	assert.True(t, tb.Difference.IsZero())
	assertDec(t, "1000", tb.TotalDebit)
	assertDec(t, "1000", tb.TotalCredit)
}

func TestTrialBalance_AsOfExcludesLaterEntries(t *testing.T) {
	f := newFixture(t, Options{})
	f.post(t, date(2024, 1, 15), "Jan", dr("1010", "1000"), cr("4020", "1000"))
	f.post(t, date(2024, 2, 1), "Feb", dr("1010", "50"), cr("4020", "50"))

	tb, err := f.svc.TrialBalance(context.Background(), 1, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	assertDec(t, "1000", tb.TotalDebit)

	tb, err = f.svc.TrialBalance(context.Background(), 1, TrialBalanceOptions{AsOf: date(2024, 2, 1)})
	require.NoError(t, err)
	assertDec(t, "1050", tb.TotalDebit)
}

func TestTrialBalance_OmitsZeroBalances(t *testing.T) {
	f := newFixture(t, Options{})
	f.post(t, date(2024, 1, 10), "In", dr("1010", "100"), cr("4020", "100"))
	f.post(t, date(2024, 1, 11), "Move", dr("1020", "100"), cr("1010", "100"))

	tb, err := f.svc.TrialBalance(context.Background(), 1, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	require.Len(t, tb.Rows, 2)
	assert.Equal(t, "1020", tb.Rows[0].Code)
}

func TestTrialBalance_DraftPolicy(t *testing.T) {
	f := newFixture(t, Options{TrialBalanceIncludeDrafts: true})
	ctx := context.Background()
	f.post(t, date(2024, 1, 15), "Posted", dr("1010", "1000"), cr("4020", "1000"))
	f.postAs(t, 1, model.StatusDraft, date(2024, 1, 16), "Draft", dr("6060", "300"), cr("1010", "300"))

	withDrafts, err := f.svc.TrialBalance(ctx, 1, f.svc.DefaultTrialBalanceOptions(date(2024, 1, 31)))
	require.NoError(t, err)
	assert.True(t, withDrafts.IncludeDrafts)
	assert.Len(t, withDrafts.Rows, 3)
	assertDec(t, "1000", withDrafts.TotalDebit)

	postedOnly, err := f.svc.TrialBalance(ctx, 1, TrialBalanceOptions{AsOf: date(2024, 1, 31), IncludeDrafts: false})
	require.NoError(t, err)
	assert.False(t, postedOnly.IncludeDrafts)
	assert.Len(t, postedOnly.Rows, 2)
	assert.True(t, postedOnly.Balanced)
}

func TestTrialBalance_Idempotent(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.post(t, date(2024, 1, 15), "Sale", dr("1010", "1000"), cr("4020", "1000"))
	f.post(t, date(2024, 1, 20), "Rent", dr("6060", "300"), cr("1010", "300"))

	first, err := f.svc.TrialBalance(ctx, 1, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	second, err := f.svc.TrialBalance(ctx, 1, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)

	assert.True(t, first.TotalDebit.Equal(second.TotalDebit))
	assert.True(t, first.TotalCredit.Equal(second.TotalCredit))
	require.Len(t, second.Rows, len(first.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].AccountID, second.Rows[i].AccountID)
		assert.True(t, first.Rows[i].Debit.Equal(second.Rows[i].Debit))
		assert.True(t, first.Rows[i].Credit.Equal(second.Rows[i].Credit))
	}
}

func TestTrialBalance_CompanyIsolation(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()
	f.post(t, date(2024, 1, 15), "Company 1", dr("1010", "1000"), cr("4020", "1000"))
	f.postAs(t, 2, model.StatusPosted, date(2024, 1, 15), "Company 2", dr("1010", "7"), cr("4020", "7"))

	tb, err := f.svc.TrialBalance(ctx, 1, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	assertDec(t, "1000", tb.TotalDebit)

	tb, err = f.svc.TrialBalance(ctx, 2, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	assertDec(t, "7", tb.TotalDebit)

	tb, err = f.svc.TrialBalance(ctx, 3, TrialBalanceOptions{AsOf: date(2024, 1, 31)})
	require.NoError(t, err)
	assert.Empty(t, tb.Rows)
	assert.True(t, tb.Balanced)
}

func TestTrialBalance_RequiresDate(t *testing.T) {
	f := newFixture(t, Options{})
	_, err := f.svc.TrialBalance(context.Background(), 1, TrialBalanceOptions{})
	assert.True(t, apperr.IsValidation(err))
}
