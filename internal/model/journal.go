package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus represents the lifecycle state of a journal entry.
// The only transition is draft -> posted.
type EntryStatus string

const (
	StatusDraft  EntryStatus = "draft"
	StatusPosted EntryStatus = "posted"
)

// Source tags the caller that produced an entry.
type Source string

const (
	SourceManual       Source = "manual"
	SourceInvoice      Source = "invoice"
	SourceBill         Source = "bill"
	SourcePayment      Source = "payment"
	SourcePayroll      Source = "payroll"
	SourceDepreciation Source = "depreciation"
	SourceInventory    Source = "inventory"
	SourceReversal     Source = "reversal"
	SourceOpening      Source = "opening"
	SourceImport       Source = "import"
)

// DocumentRef points at an external document for audit linking only.
// The ledger never branches on it.
type DocumentRef struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// Entry is one balanced journal transaction.
type Entry struct {
	ID          int64
	CompanyID   int64
	Number      string // "JE-2025-01-0001"
	Date        time.Time
	Description string
	Source      Source
	Status      EntryStatus
	Total       decimal.Decimal
	Reference   *DocumentRef
	ReversalOf  int64 // 0 = not a reversal
	CreatedAt   time.Time
	PostedAt    *time.Time
	Lines       []Line
}

// Line is one side of a journal entry.
type Line struct {
	ID          int64
	EntryID     int64
	AccountID   int64
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Description string
}

// Net returns debit minus credit for the line.
func (l Line) Net() decimal.Decimal {
	return l.Debit.Sub(l.Credit)
}

// Totals returns the debit and credit sums over the entry's lines.
func (e Entry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// IsPosted reports whether the entry affects the ledger.
func (e Entry) IsPosted() bool {
	return e.Status == StatusPosted
}
