package model

import "time"

// AccountType classifies accounts in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"

	// Consolidated families that report under one of the five classes above.
	AccountTypeCostOfGoodsSold AccountType = "cost_of_goods_sold"
	AccountTypeOtherExpense    AccountType = "other_expense"
	AccountTypeIncome          AccountType = "income"
	AccountTypeOtherIncome     AccountType = "other_income"
	AccountTypeSales           AccountType = "sales"
)

// AccountSubtype is the fine-grained classification used by the cash flow
// statement and by system account resolution.
type AccountSubtype string

const (
	SubtypeCash                    AccountSubtype = "asset_cash"
	SubtypeBank                    AccountSubtype = "asset_bank"
	SubtypeReceivable              AccountSubtype = "asset_receivable"
	SubtypeInventory               AccountSubtype = "asset_inventory"
	SubtypePrepaid                 AccountSubtype = "asset_prepaid"
	SubtypeOtherCurrentAsset       AccountSubtype = "asset_other_current"
	SubtypeFixedAsset              AccountSubtype = "asset_fixed"
	SubtypeAccumulatedDepreciation AccountSubtype = "asset_accumulated_depreciation"
	SubtypeInvestment              AccountSubtype = "asset_investment"
	SubtypeOtherNonCurrentAsset    AccountSubtype = "asset_other_non_current"

	SubtypePayable                  AccountSubtype = "liability_payable"
	SubtypeUnearnedRevenue          AccountSubtype = "liability_unearned_revenue"
	SubtypeTaxPayable               AccountSubtype = "liability_tax_payable"
	SubtypeOtherCurrentLiability    AccountSubtype = "liability_other_current"
	SubtypeCreditCard               AccountSubtype = "liability_credit_card"
	SubtypeLongTermDebt             AccountSubtype = "liability_long_term_debt"
	SubtypeOtherNonCurrentLiability AccountSubtype = "liability_other_non_current"

	SubtypeCapital          AccountSubtype = "equity_capital"
	SubtypeDrawings         AccountSubtype = "equity_drawings"
	SubtypeRetainedEarnings AccountSubtype = "equity_retained_earnings"

	SubtypeSalesRevenue   AccountSubtype = "revenue_sales"
	SubtypeServiceRevenue AccountSubtype = "revenue_service"
	SubtypeOtherRevenue   AccountSubtype = "revenue_other"

	SubtypeCOGS                AccountSubtype = "expense_cogs"
	SubtypeOperatingExpense    AccountSubtype = "expense_operating"
	SubtypePayrollExpense      AccountSubtype = "expense_payroll"
	SubtypeDepreciationExpense AccountSubtype = "expense_depreciation"
	SubtypeGainLoss            AccountSubtype = "expense_gain_loss"
	SubtypeOtherExpense        AccountSubtype = "expense_other"
)

// Account is one chart-of-accounts line owned by a company.
type Account struct {
	ID        int64
	CompanyID int64
	Code      string
	Name      string
	Type      AccountType
	Subtype   AccountSubtype
	CreatedAt time.Time
}

// IsCash reports whether the account holds cash or cash equivalents.
func (a Account) IsCash() bool {
	return a.Subtype == SubtypeCash || a.Subtype == SubtypeBank
}
