package accounts

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/store"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "books.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRoundTrip(t *testing.T) {
	accounts := []model.Account{
		{Code: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, Subtype: model.SubtypeBank},
		{Code: "6020", Name: "Software & SaaS", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, accounts))
	assert.True(t, strings.HasPrefix(buf.String(), "code,name,type,subtype\n"))

	got, err := ReadAccounts(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, accounts[0].Code, got[0].Code)
	assert.Equal(t, accounts[0].Name, got[0].Name)
	assert.Equal(t, accounts[0].Type, got[0].Type)
	assert.Equal(t, accounts[1].Subtype, got[1].Subtype)
}

func TestReadAccountsNormalisesType(t *testing.T) {
	in := "code,name,type,subtype\n4900,Interest,Other Income,revenue_other\n5000,COGS,cogs,expense_cogs\n"
	got, err := ReadAccounts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.AccountTypeOtherIncome, got[0].Type)
	assert.Equal(t, model.AccountTypeCostOfGoodsSold, got[1].Type)
}

func TestReadAccountsUnknownType(t *testing.T) {
	in := "code,name,type,subtype\n9000,Mystery,gadget,\n"
	_, err := ReadAccounts(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart("llc_single_member")
	require.NotEmpty(t, chart)

	codes := make(map[string]bool)
	for _, acct := range chart {
		assert.False(t, codes[acct.Code], "duplicate code %s", acct.Code)
		codes[acct.Code] = true
		assert.NoError(t, Validate(acct), "account %s", acct.Code)
	}
	assert.True(t, codes["1010"], "expected Business Checking (1010)")
	assert.True(t, codes["5000"], "expected Cost of Goods Sold (5000)")

	// Unknown entity types fall back to LLC single member.
	assert.Len(t, DefaultChart("unknown_type"), len(chart))
}

func TestValidate(t *testing.T) {
	ok := model.Account{Code: "1000", Name: "Cash", Type: model.AccountTypeAsset, Subtype: model.SubtypeCash}
	require.NoError(t, Validate(ok))

	noSubtype := ok
	noSubtype.Subtype = ""
	require.NoError(t, Validate(noSubtype))

	tests := []struct {
		name  string
		mut   func(a *model.Account)
		field string
	}{
		{"missing code", func(a *model.Account) { a.Code = "" }, "code"},
		{"missing name", func(a *model.Account) { a.Name = "" }, "name"},
		{"unknown type", func(a *model.Account) { a.Type = "gadget" }, "type"},
		{"unknown subtype", func(a *model.Account) { a.Subtype = "asset_gold" }, "subtype"},
		{"subtype of another class", func(a *model.Account) { a.Subtype = model.SubtypePayable }, "subtype"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ok
			tt.mut(&a)
			err := Validate(a)
			require.Error(t, err)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestCreateRejectsDuplicateCode(t *testing.T) {
	svc := NewService(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	acct := model.Account{Code: "1000", Name: "Cash", Type: model.AccountTypeAsset, Subtype: model.SubtypeCash}
	created, err := svc.Create(ctx, 1, acct)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(1), created.CompanyID)

	_, err = svc.Create(ctx, 1, acct)
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)

	// The same code is free in another company.
	_, err = svc.Create(ctx, 2, acct)
	require.NoError(t, err)
}

func TestCreateAllIsAtomic(t *testing.T) {
	svc := NewService(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.CreateAll(ctx, 1, []model.Account{
		{Code: "1000", Name: "Cash", Type: model.AccountTypeAsset},
		{Code: "9000", Name: "Bad", Type: "gadget"},
	})
	require.Error(t, err)

	all, err := svc.All(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportExport(t *testing.T) {
	svc := NewService(openTestDB(t), zerolog.Nop())
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, WriteAccounts(&buf, DefaultChart("")))
	created, err := svc.Import(ctx, 1, &buf)
	require.NoError(t, err)
	assert.Len(t, created, len(DefaultChart("")))

	var out bytes.Buffer
	require.NoError(t, svc.Export(ctx, 1, &out))
	back, err := ReadAccounts(&out)
	require.NoError(t, err)
	require.Len(t, back, len(created))
	assert.Equal(t, "1010", back[0].Code)

	assets, err := svc.ByType(ctx, 1, model.AccountTypeAsset)
	require.NoError(t, err)
	assert.Len(t, assets, 7)

	revenue, err := svc.ByType(ctx, 1, model.AccountTypeRevenue)
	require.NoError(t, err)
	assert.Len(t, revenue, 3, "sales and other_income report as revenue")
}

func TestResolveSystemAccounts(t *testing.T) {
	db := openTestDB(t)
	svc := NewService(db, zerolog.Nop())
	ctx := context.Background()
	_, err := svc.CreateAll(ctx, 1, DefaultChart(""))
	require.NoError(t, err)
	st := store.New(db)

	t.Run("subtype fallback", func(t *testing.T) {
		acct, err := SystemAccounts{}.Resolve(ctx, st, 1, RoleCOGS)
		require.NoError(t, err)
		assert.Equal(t, "5000", acct.Code)

		cash, err := SystemAccounts{}.Resolve(ctx, st, 1, RoleCash)
		require.NoError(t, err)
		assert.Equal(t, "1010", cash.Code, "bank accounts are preferred over petty cash")
	})

	t.Run("configured code wins", func(t *testing.T) {
		sa := NewSystemAccounts(map[string]string{"cash": "1020", "cogs": ""})
		acct, err := sa.Resolve(ctx, st, 1, RoleCash)
		require.NoError(t, err)
		assert.Equal(t, "1020", acct.Code)
	})

	t.Run("configured code missing", func(t *testing.T) {
		sa := SystemAccounts{RoleInventory: "1999"}
		_, err := sa.Resolve(ctx, st, 1, RoleInventory)
		require.Error(t, err)
		assert.True(t, apperr.IsMissingConfiguration(err))
		var me *apperr.MissingLedgerConfiguration
		require.ErrorAs(t, err, &me)
		assert.Equal(t, "1999", me.Code)
	})

	t.Run("empty chart", func(t *testing.T) {
		_, err := SystemAccounts{}.Resolve(ctx, st, 2, RolePayable)
		assert.True(t, apperr.IsMissingConfiguration(err))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := SystemAccounts{}.Resolve(ctx, st, 1, Role("bogus"))
		require.Error(t, err)
		assert.False(t, apperr.IsMissingConfiguration(err))
	})
}
