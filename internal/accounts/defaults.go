package accounts

import "github.com/cleared-dev/books/internal/model"

// DefaultChart returns the default chart of accounts for an entity type.
// Every system role resolves against it by subtype.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "llc_single_member":
		return llcSingleMemberChart()
	default:
		return llcSingleMemberChart()
	}
}

func llcSingleMemberChart() []model.Account {
	return []model.Account{
		{Code: "1010", Name: "Business Checking", Type: model.AccountTypeAsset, Subtype: model.SubtypeBank},
		{Code: "1020", Name: "Petty Cash", Type: model.AccountTypeAsset, Subtype: model.SubtypeCash},
		{Code: "1100", Name: "Accounts Receivable", Type: model.AccountTypeAsset, Subtype: model.SubtypeReceivable},
		{Code: "1200", Name: "Inventory", Type: model.AccountTypeAsset, Subtype: model.SubtypeInventory},
		{Code: "1300", Name: "Prepaid Expenses", Type: model.AccountTypeAsset, Subtype: model.SubtypePrepaid},
		{Code: "1500", Name: "Equipment", Type: model.AccountTypeAsset, Subtype: model.SubtypeFixedAsset},
		{Code: "1510", Name: "Accumulated Depreciation", Type: model.AccountTypeAsset, Subtype: model.SubtypeAccumulatedDepreciation},
		{Code: "2010", Name: "Accounts Payable", Type: model.AccountTypeLiability, Subtype: model.SubtypePayable},
		{Code: "2020", Name: "Credit Card", Type: model.AccountTypeLiability, Subtype: model.SubtypeCreditCard},
		{Code: "2100", Name: "Sales Tax Payable", Type: model.AccountTypeLiability, Subtype: model.SubtypeTaxPayable},
		{Code: "2200", Name: "Unearned Revenue", Type: model.AccountTypeLiability, Subtype: model.SubtypeUnearnedRevenue},
		{Code: "2500", Name: "Long-Term Loan", Type: model.AccountTypeLiability, Subtype: model.SubtypeLongTermDebt},
		{Code: "3010", Name: "Owner's Capital", Type: model.AccountTypeEquity, Subtype: model.SubtypeCapital},
		{Code: "3020", Name: "Owner's Drawings", Type: model.AccountTypeEquity, Subtype: model.SubtypeDrawings},
		{Code: "3100", Name: "Retained Earnings", Type: model.AccountTypeEquity, Subtype: model.SubtypeRetainedEarnings},
		{Code: "4010", Name: "Product Revenue", Type: model.AccountTypeSales, Subtype: model.SubtypeSalesRevenue},
		{Code: "4020", Name: "Service Revenue", Type: model.AccountTypeRevenue, Subtype: model.SubtypeServiceRevenue},
		{Code: "4900", Name: "Other Income", Type: model.AccountTypeOtherIncome, Subtype: model.SubtypeOtherRevenue},
		{Code: "5000", Name: "Cost of Goods Sold", Type: model.AccountTypeCostOfGoodsSold, Subtype: model.SubtypeCOGS},
		{Code: "6010", Name: "Advertising & Marketing", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
		{Code: "6020", Name: "Software & SaaS", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
		{Code: "6030", Name: "Office Supplies", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
		{Code: "6040", Name: "Professional Services", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
		{Code: "6050", Name: "Shipping & Postage", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
		{Code: "6060", Name: "Rent", Type: model.AccountTypeExpense, Subtype: model.SubtypeOperatingExpense},
		{Code: "6100", Name: "Payroll", Type: model.AccountTypeExpense, Subtype: model.SubtypePayrollExpense},
		{Code: "6200", Name: "Depreciation", Type: model.AccountTypeExpense, Subtype: model.SubtypeDepreciationExpense},
		{Code: "7000", Name: "Gain/Loss on Disposal", Type: model.AccountTypeOtherExpense, Subtype: model.SubtypeGainLoss},
	}
}
