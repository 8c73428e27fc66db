package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "books.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustAccount(t *testing.T, s *Store, companyID int64, code string, typ model.AccountType, subtype model.AccountSubtype) model.Account {
	t.Helper()
	a := model.Account{CompanyID: companyID, Code: code, Name: code, Type: typ, Subtype: subtype}
	require.NoError(t, s.CreateAccount(context.Background(), &a))
	return a
}

func TestAccountsAreCompanyScoped(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()

	cash := mustAccount(t, s, 1, "1000", model.AccountTypeAsset, model.SubtypeCash)
	mustAccount(t, s, 2, "1000", model.AccountTypeAsset, model.SubtypeCash)

	got, err := s.GetAccount(ctx, 1, cash.ID)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.Code)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetAccount(ctx, 2, cash.ID)
	assert.True(t, apperr.IsNotFound(err), "company 2 must not see company 1's account")

	byCode, err := s.GetAccountByCode(ctx, 2, "1000")
	require.NoError(t, err)
	assert.NotEqual(t, cash.ID, byCode.ID)

	list, err := s.ListAccounts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestInsertAndGetEntry(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()
	cash := mustAccount(t, s, 1, "1000", model.AccountTypeAsset, model.SubtypeCash)
	rev := mustAccount(t, s, 1, "4000", model.AccountTypeRevenue, model.SubtypeSalesRevenue)

	e := &model.Entry{
		CompanyID:   1,
		Number:      "JE-2024-01-0001",
		Date:        date(2024, 1, 15),
		Description: "Cash sale",
		Source:      model.SourceManual,
		Status:      model.StatusDraft,
		Total:       dec("1000"),
		Reference:   &model.DocumentRef{Kind: "sales_invoice", ID: 7},
		Lines: []model.Line{
			{AccountID: cash.ID, Debit: dec("1000")},
			{AccountID: rev.ID, Credit: dec("1000")},
		},
	}
	require.NoError(t, s.InsertEntry(ctx, e))
	require.NotZero(t, e.ID)

	got, err := s.GetEntry(ctx, 1, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "JE-2024-01-0001", got.Number)
	assert.Equal(t, date(2024, 1, 15), got.Date)
	assert.Equal(t, model.StatusDraft, got.Status)
	require.NotNil(t, got.Reference)
	assert.Equal(t, "sales_invoice", got.Reference.Kind)
	assert.Equal(t, int64(7), got.Reference.ID)
	require.Len(t, got.Lines, 2)
	assert.True(t, got.Lines[0].Debit.Equal(dec("1000")))
	assert.True(t, got.Lines[1].Credit.Equal(dec("1000")))
	assert.Nil(t, got.PostedAt)

	_, err = s.GetEntry(ctx, 2, e.ID)
	assert.True(t, apperr.IsNotFound(err))

	byNumber, err := s.GetEntryByNumber(ctx, 1, "JE-2024-01-0001")
	require.NoError(t, err)
	assert.Equal(t, e.ID, byNumber.ID)
	assert.Len(t, byNumber.Lines, 2)
	_, err = s.GetEntryByNumber(ctx, 2, "JE-2024-01-0001")
	assert.True(t, apperr.IsNotFound(err))

	seq, err := s.NextEntrySeq(ctx, 1, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)
	seq, err = s.NextEntrySeq(ctx, 2, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)
}

func TestMarkPosted(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()
	cash := mustAccount(t, s, 1, "1000", model.AccountTypeAsset, model.SubtypeCash)
	rev := mustAccount(t, s, 1, "4000", model.AccountTypeRevenue, model.SubtypeSalesRevenue)

	e := &model.Entry{
		CompanyID: 1, Number: "JE-2024-01-0001", Date: date(2024, 1, 15),
		Source: model.SourceManual, Status: model.StatusDraft, Total: dec("5"),
		Lines: []model.Line{{AccountID: cash.ID, Debit: dec("5")}, {AccountID: rev.ID, Credit: dec("5")}},
	}
	require.NoError(t, s.InsertEntry(ctx, e))

	require.NoError(t, s.MarkPosted(ctx, 1, e.ID, time.Now()))
	err := s.MarkPosted(ctx, 1, e.ID, time.Now())
	assert.True(t, apperr.IsIllegalState(err))

	got, err := s.GetEntry(ctx, 1, e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPosted, got.Status)
	assert.NotNil(t, got.PostedAt)
}

func TestLedgerLinesFilters(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()
	cash := mustAccount(t, s, 1, "1000", model.AccountTypeAsset, model.SubtypeCash)
	rev := mustAccount(t, s, 1, "4000", model.AccountTypeRevenue, model.SubtypeSalesRevenue)

	insert := func(number string, d time.Time, status model.EntryStatus) {
		e := &model.Entry{
			CompanyID: 1, Number: number, Date: d, Source: model.SourceManual, Status: status, Total: dec("10"),
			Lines: []model.Line{{AccountID: cash.ID, Debit: dec("10")}, {AccountID: rev.ID, Credit: dec("10")}},
		}
		require.NoError(t, s.InsertEntry(ctx, e))
	}
	insert("JE-2024-01-0001", date(2024, 1, 1), model.StatusPosted)
	insert("JE-2024-01-0002", date(2024, 1, 31), model.StatusDraft)
	insert("JE-2024-02-0001", date(2024, 2, 1), model.StatusPosted)

	all, err := s.LedgerLines(ctx, 1, LineFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	posted, err := s.LedgerLines(ctx, 1, LineFilter{})
	require.NoError(t, err)
	assert.Len(t, posted, 4)

	jan, err := s.LedgerLines(ctx, 1, LineFilter{From: date(2024, 1, 1), To: date(2024, 1, 31), IncludeDrafts: true})
	require.NoError(t, err)
	assert.Len(t, jan, 4)

	before, err := s.LedgerLines(ctx, 1, LineFilter{Before: date(2024, 2, 1), AccountID: cash.ID})
	require.NoError(t, err)
	require.Len(t, before, 1)
	assert.Equal(t, "JE-2024-01-0001", before[0].EntryNumber)

	other, err := s.LedgerLines(ctx, 2, LineFilter{IncludeDrafts: true})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestCostLayersOrderedByPurchaseDate(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()

	p := model.Product{CompanyID: 1, SKU: "W-1", Name: "Widget", CostingMethod: model.CostingFIFO, TrackInventory: true}
	require.NoError(t, s.CreateProduct(ctx, &p))

	// Inserted out of date order on purpose.
	late := model.CostLayer{ProductID: p.ID, UnitCost: dec("7"), QuantityIn: dec("10"), Remaining: dec("10"), PurchaseDate: date(2024, 2, 1)}
	early := model.CostLayer{ProductID: p.ID, UnitCost: dec("5"), QuantityIn: dec("10"), Remaining: dec("10"), PurchaseDate: date(2024, 1, 1)}
	require.NoError(t, s.InsertCostLayer(ctx, &late))
	require.NoError(t, s.InsertCostLayer(ctx, &early))

	layers, err := s.CostLayers(ctx, 1, p.ID, true)
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, early.ID, layers[0].ID)
	assert.Equal(t, late.ID, layers[1].ID)

	early.QuantityOut = dec("10")
	early.Remaining = decimal.Zero
	require.NoError(t, s.UpdateCostLayer(ctx, early))

	open, err := s.CostLayers(ctx, 1, p.ID, true)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, late.ID, open[0].ID)

	none, err := s.CostLayers(ctx, 2, p.ID, false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProductCosting(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()

	p := model.Product{CompanyID: 1, SKU: "S-1", Name: "Setup", CostingMethod: model.CostingWAC, IsService: true}
	require.NoError(t, s.CreateProduct(ctx, &p))

	p.AverageCost = dec("6.5")
	p.StockQuantity = dec("12")
	require.NoError(t, s.UpdateProductCosting(ctx, p))

	got, err := s.GetProduct(ctx, 1, p.ID)
	require.NoError(t, err)
	assert.True(t, got.AverageCost.Equal(dec("6.5")))
	assert.True(t, got.StockQuantity.Equal(dec("12")))
	assert.True(t, got.IsService)
	assert.False(t, got.TrackInventory)

	_, err = s.GetProduct(ctx, 2, p.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestBudgetsUpsert(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()
	rent := mustAccount(t, s, 1, "6000", model.AccountTypeExpense, model.SubtypeOperatingExpense)

	b := model.BudgetTarget{CompanyID: 1, AccountID: rent.ID, Period: "2024-01", Amount: dec("300")}
	require.NoError(t, s.UpsertBudget(ctx, &b))
	b2 := model.BudgetTarget{CompanyID: 1, AccountID: rent.ID, Period: "2024-01", Amount: dec("350")}
	require.NoError(t, s.UpsertBudget(ctx, &b2))
	assert.Equal(t, b.ID, b2.ID, "one target per account and period")

	budgets, err := s.Budgets(ctx, 1, "2024-01", "2024-12")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.True(t, budgets[0].Amount.Equal(dec("350")))
}

func TestOpenDocuments(t *testing.T) {
	s := New(openTestDB(t))
	ctx := context.Background()

	docs := []model.Document{
		{CompanyID: 1, Kind: model.DocumentSales, Number: "INV-1", Counterparty: "Acme", OrderDate: date(2024, 1, 1), Total: dec("100"), Paid: dec("40")},
		{CompanyID: 1, Kind: model.DocumentSales, Number: "INV-2", Counterparty: "Acme", OrderDate: date(2024, 1, 5), Total: dec("50"), Paid: dec("50")},
		{CompanyID: 1, Kind: model.DocumentSales, Number: "INV-3", Counterparty: "Beta", OrderDate: date(2024, 3, 1), Total: dec("70")},
		{CompanyID: 1, Kind: model.DocumentPurchase, Number: "BILL-1", Counterparty: "Supplier", OrderDate: date(2024, 1, 1), Total: dec("20")},
	}
	for i := range docs {
		require.NoError(t, s.CreateDocument(ctx, &docs[i]))
	}

	open, err := s.OpenDocuments(ctx, 1, model.DocumentSales, date(2024, 2, 1))
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "INV-1", open[0].Number)
	assert.True(t, open[0].Outstanding().Equal(dec("60")))

	locked, err := s.LockDocument(ctx, 1, docs[0].ID)
	require.NoError(t, err)
	locked.Paid = dec("100")
	require.NoError(t, s.UpdateDocumentPaid(ctx, locked))

	open, err = s.OpenDocuments(ctx, 1, model.DocumentSales, date(2024, 2, 1))
	require.NoError(t, err)
	assert.Empty(t, open)

	_, err = s.LockDocument(ctx, 2, docs[0].ID)
	assert.True(t, apperr.IsNotFound(err))
}
