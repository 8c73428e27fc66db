package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Nature says on which side an account's conventional positive balance sits.
type Nature int

const (
	DebitNatural Nature = iota + 1
	CreditNatural
)

type typeInfo struct {
	class  AccountType
	nature Nature
}

// accountTypes is the one table every report and engine consults for class
// and sign. Do not add per-report string matching.
var accountTypes = map[AccountType]typeInfo{
	AccountTypeAsset:           {AccountTypeAsset, DebitNatural},
	AccountTypeExpense:         {AccountTypeExpense, DebitNatural},
	AccountTypeCostOfGoodsSold: {AccountTypeExpense, DebitNatural},
	AccountTypeOtherExpense:    {AccountTypeExpense, DebitNatural},
	AccountTypeLiability:       {AccountTypeLiability, CreditNatural},
	AccountTypeEquity:          {AccountTypeEquity, CreditNatural},
	AccountTypeRevenue:         {AccountTypeRevenue, CreditNatural},
	AccountTypeIncome:          {AccountTypeRevenue, CreditNatural},
	AccountTypeOtherIncome:     {AccountTypeRevenue, CreditNatural},
	AccountTypeSales:           {AccountTypeRevenue, CreditNatural},
}

// ParseAccountType normalises free-form input ("Other Income", "COST_OF_GOODS_SOLD")
// to a known AccountType.
func ParseAccountType(s string) (AccountType, bool) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)
	if norm == "cogs" {
		norm = string(AccountTypeCostOfGoodsSold)
	}
	t := AccountType(norm)
	_, ok := accountTypes[t]
	return t, ok
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	_, ok := accountTypes[t]
	return ok
}

// Class maps a type family to one of the five base classes.
func (t AccountType) Class() AccountType {
	return accountTypes[t].class
}

// NatureOf returns the debit/credit nature of an account type.
func NatureOf(t AccountType) (Nature, bool) {
	info, ok := accountTypes[t]
	return info.nature, ok
}

// IsBalanceSheet reports whether t belongs to the asset, liability or equity class.
func (t AccountType) IsBalanceSheet() bool {
	switch t.Class() {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity:
		return true
	}
	return false
}

// IsProfitAndLoss reports whether t belongs to the revenue or expense class.
func (t AccountType) IsProfitAndLoss() bool {
	switch t.Class() {
	case AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// SignAdjust converts a raw balance (sum debit - sum credit) to the reported
// balance for an account of type t.
func SignAdjust(t AccountType, raw decimal.Decimal) decimal.Decimal {
	if n, _ := NatureOf(t); n == CreditNatural {
		return raw.Neg()
	}
	return raw
}

// Class returns the base class a subtype belongs to, judged by its prefix.
func (s AccountSubtype) Class() AccountType {
	switch {
	case strings.HasPrefix(string(s), "asset_"):
		return AccountTypeAsset
	case strings.HasPrefix(string(s), "liability_"):
		return AccountTypeLiability
	case strings.HasPrefix(string(s), "equity_"):
		return AccountTypeEquity
	case strings.HasPrefix(string(s), "revenue_"):
		return AccountTypeRevenue
	case strings.HasPrefix(string(s), "expense_"):
		return AccountTypeExpense
	}
	return ""
}

// CashFlowSection is where a balance-sheet subtype's movement lands in the
// indirect cash flow statement.
type CashFlowSection int

const (
	CashFlowNone CashFlowSection = iota
	CashFlowCash
	CashFlowWorkingCapitalAsset
	CashFlowWorkingCapitalLiability
	CashFlowDepreciation
	CashFlowInvesting
	CashFlowFinancing
)

var cashFlowSections = map[AccountSubtype]CashFlowSection{
	SubtypeCash: CashFlowCash,
	SubtypeBank: CashFlowCash,

	SubtypeReceivable:        CashFlowWorkingCapitalAsset,
	SubtypeInventory:         CashFlowWorkingCapitalAsset,
	SubtypePrepaid:           CashFlowWorkingCapitalAsset,
	SubtypeOtherCurrentAsset: CashFlowWorkingCapitalAsset,

	SubtypePayable:               CashFlowWorkingCapitalLiability,
	SubtypeUnearnedRevenue:       CashFlowWorkingCapitalLiability,
	SubtypeTaxPayable:            CashFlowWorkingCapitalLiability,
	SubtypeOtherCurrentLiability: CashFlowWorkingCapitalLiability,
	SubtypeCreditCard:            CashFlowWorkingCapitalLiability,

	SubtypeAccumulatedDepreciation: CashFlowDepreciation,

	SubtypeFixedAsset:           CashFlowInvesting,
	SubtypeInvestment:           CashFlowInvesting,
	SubtypeOtherNonCurrentAsset: CashFlowInvesting,

	SubtypeLongTermDebt:             CashFlowFinancing,
	SubtypeOtherNonCurrentLiability: CashFlowFinancing,
	SubtypeCapital:                  CashFlowFinancing,
	SubtypeDrawings:                 CashFlowFinancing,
}

// CashFlowSectionOf classifies a subtype. Retained earnings and all P&L
// subtypes return CashFlowNone: they reach the statement through net income.
func CashFlowSectionOf(s AccountSubtype) CashFlowSection {
	return cashFlowSections[s]
}

// KnownSubtype reports whether s is one of the defined subtypes.
func KnownSubtype(s AccountSubtype) bool {
	if _, ok := cashFlowSections[s]; ok {
		return true
	}
	switch s {
	case SubtypeRetainedEarnings,
		SubtypeSalesRevenue, SubtypeServiceRevenue, SubtypeOtherRevenue,
		SubtypeCOGS, SubtypeOperatingExpense, SubtypePayrollExpense,
		SubtypeDepreciationExpense, SubtypeGainLoss, SubtypeOtherExpense:
		return true
	}
	return false
}
