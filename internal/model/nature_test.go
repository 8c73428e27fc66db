package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNatureOf(t *testing.T) {
	tests := []struct {
		accountType AccountType
		want        Nature
	}{
		{AccountTypeAsset, DebitNatural},
		{AccountTypeExpense, DebitNatural},
		{AccountTypeCostOfGoodsSold, DebitNatural},
		{AccountTypeOtherExpense, DebitNatural},
		{AccountTypeLiability, CreditNatural},
		{AccountTypeEquity, CreditNatural},
		{AccountTypeRevenue, CreditNatural},
		{AccountTypeIncome, CreditNatural},
		{AccountTypeOtherIncome, CreditNatural},
		{AccountTypeSales, CreditNatural},
	}
	for _, tt := range tests {
		got, ok := NatureOf(tt.accountType)
		assert.True(t, ok, "NatureOf(%q)", tt.accountType)
		assert.Equal(t, tt.want, got, "NatureOf(%q)", tt.accountType)
	}

	_, ok := NatureOf("bogus")
	assert.False(t, ok)
}

func TestSignAdjust(t *testing.T) {
	raw := decimal.RequireFromString("-250.00")
	assert.True(t, SignAdjust(AccountTypeRevenue, raw).Equal(decimal.RequireFromString("250.00")))
	assert.True(t, SignAdjust(AccountTypeSales, raw).Equal(decimal.RequireFromString("250.00")))
	assert.True(t, SignAdjust(AccountTypeAsset, raw).Equal(raw))
	assert.True(t, SignAdjust(AccountTypeCostOfGoodsSold, raw).Equal(raw))
}

func TestClass(t *testing.T) {
	assert.Equal(t, AccountTypeExpense, AccountTypeCostOfGoodsSold.Class())
	assert.Equal(t, AccountTypeRevenue, AccountTypeOtherIncome.Class())
	assert.True(t, AccountTypeEquity.IsBalanceSheet())
	assert.False(t, AccountTypeSales.IsBalanceSheet())
	assert.True(t, AccountTypeSales.IsProfitAndLoss())

	assert.Equal(t, AccountTypeAsset, SubtypeAccumulatedDepreciation.Class())
	assert.Equal(t, AccountTypeLiability, SubtypeCreditCard.Class())
	assert.Equal(t, AccountType(""), AccountSubtype("misc").Class())
}

func TestParseAccountType(t *testing.T) {
	tests := []struct {
		in   string
		want AccountType
		ok   bool
	}{
		{"Asset", AccountTypeAsset, true},
		{"Other Income", AccountTypeOtherIncome, true},
		{"COST_OF_GOODS_SOLD", AccountTypeCostOfGoodsSold, true},
		{"cogs", AccountTypeCostOfGoodsSold, true},
		{"other-expense", AccountTypeOtherExpense, true},
		{"widgets", AccountType("widgets"), false},
	}
	for _, tt := range tests {
		got, ok := ParseAccountType(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseAccountType(%q)", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "ParseAccountType(%q)", tt.in)
		}
	}
}

func TestCashFlowSectionOf(t *testing.T) {
	assert.Equal(t, CashFlowCash, CashFlowSectionOf(SubtypeBank))
	assert.Equal(t, CashFlowWorkingCapitalAsset, CashFlowSectionOf(SubtypeInventory))
	assert.Equal(t, CashFlowWorkingCapitalLiability, CashFlowSectionOf(SubtypeCreditCard))
	assert.Equal(t, CashFlowDepreciation, CashFlowSectionOf(SubtypeAccumulatedDepreciation))
	assert.Equal(t, CashFlowInvesting, CashFlowSectionOf(SubtypeFixedAsset))
	assert.Equal(t, CashFlowFinancing, CashFlowSectionOf(SubtypeCapital))
	assert.Equal(t, CashFlowNone, CashFlowSectionOf(SubtypeRetainedEarnings))
	assert.Equal(t, CashFlowNone, CashFlowSectionOf(SubtypeCOGS))

	assert.True(t, KnownSubtype(SubtypeRetainedEarnings))
	assert.True(t, KnownSubtype(SubtypeLongTermDebt))
	assert.False(t, KnownSubtype("asset_magic"))
}

func TestEntryTotals(t *testing.T) {
	e := Entry{Lines: []Line{
		{Debit: decimal.RequireFromString("60.00")},
		{Debit: decimal.RequireFromString("40.00")},
		{Credit: decimal.RequireFromString("100.00")},
	}}
	debit, credit := e.Totals()
	assert.True(t, debit.Equal(credit))
	assert.True(t, e.Lines[2].Net().Equal(decimal.RequireFromString("-100")))
}
