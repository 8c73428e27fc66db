package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distinguishes receivable from payable documents.
type DocumentKind string

const (
	DocumentSales    DocumentKind = "sales"    // customer invoice, feeds AR
	DocumentPurchase DocumentKind = "purchase" // supplier bill, feeds AP
)

// Document is an invoice or bill owned by the invoicing layer. The core reads
// it for aging and only touches Paid through payment application.
type Document struct {
	ID           int64
	CompanyID    int64
	Kind         DocumentKind
	Number       string
	Counterparty string
	OrderDate    time.Time
	Total        decimal.Decimal
	Paid         decimal.Decimal
}

// Outstanding returns Total - Paid.
func (d Document) Outstanding() decimal.Decimal {
	return d.Total.Sub(d.Paid)
}

// BudgetTarget is the planned amount for one account in one month.
type BudgetTarget struct {
	ID        int64
	CompanyID int64
	AccountID int64
	Period    string // "2025-01"
	Amount    decimal.Decimal
}
