// Package payments settles open invoices and bills and posts the cash entry.
package payments

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Reference kinds written on settlement entries.
const (
	RefSalesInvoice = "sales_invoice"
	RefPurchaseBill = "purchase_bill"
)

// Service applies payments to documents.
type Service struct {
	db      *sql.DB
	journal *journal.Service
	system  accounts.SystemAccounts
	log     zerolog.Logger
}

// NewService creates a payments Service.
func NewService(db *sql.DB, j *journal.Service, system accounts.SystemAccounts, log zerolog.Logger) *Service {
	return &Service{
		db:      db,
		journal: j,
		system:  system,
		log:     log.With().Str("service", "payments").Logger(),
	}
}

// DocumentParams describes an invoice or bill handed over by the invoicing
// layer.
type DocumentParams struct {
	Kind         model.DocumentKind
	Number       string
	Counterparty string
	OrderDate    time.Time
	Total        decimal.Decimal
}

// RegisterDocument records an open invoice or bill so it can be aged and paid.
func (s *Service) RegisterDocument(ctx context.Context, companyID int64, params DocumentParams) (model.Document, error) {
	d := model.Document{
		CompanyID:    companyID,
		Kind:         params.Kind,
		Number:       strings.TrimSpace(params.Number),
		Counterparty: strings.TrimSpace(params.Counterparty),
		OrderDate:    period.Day(params.OrderDate),
		Total:        params.Total,
		Paid:         decimal.Zero,
	}
	switch {
	case d.Kind != model.DocumentSales && d.Kind != model.DocumentPurchase:
		return model.Document{}, apperr.Invalid("kind", "document kind must be sales or purchase, got %q", d.Kind)
	case d.Number == "":
		return model.Document{}, apperr.Invalid("number", "document number is required")
	case d.Counterparty == "":
		return model.Document{}, apperr.Invalid("counterparty", "counterparty is required")
	case params.OrderDate.IsZero():
		return model.Document{}, apperr.Invalid("order_date", "order date is required")
	case !d.Total.IsPositive() || !money.HasAtMostPlaces(d.Total, money.Places):
		return model.Document{}, apperr.Invalid("total", "total must be positive with at most 2 decimal places, got %s", d.Total)
	}
	if err := store.New(s.db).CreateDocument(ctx, &d); err != nil {
		return model.Document{}, err
	}
	return d, nil
}

// PaymentParams holds parameters for applying a payment.
type PaymentParams struct {
	DocumentID    int64
	Amount        decimal.Decimal
	Date          time.Time
	CashAccountID int64 // 0 resolves the cash role
	Description   string
}

// Result is the settled document and the posted entry.
type Result struct {
	Document model.Document
	Entry    *model.Entry
}

// Apply settles part or all of a document's outstanding amount. The document
// is read and updated under the transaction's write lock, so concurrent
// payments cannot both pass the overpayment check.
func (s *Service) Apply(ctx context.Context, companyID int64, params PaymentParams) (*Result, error) {
	if !params.Amount.IsPositive() {
		return nil, apperr.Invalid("amount", "payment amount must be positive, got %s", params.Amount)
	}
	if !money.HasAtMostPlaces(params.Amount, money.Places) {
		return nil, apperr.Invalid("amount", "payment amount %s has more than 2 decimal places", params.Amount)
	}
	if params.Date.IsZero() {
		return nil, apperr.Invalid("date", "payment date is required")
	}

	var res Result
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		st := store.New(tx)
		doc, err := st.LockDocument(ctx, companyID, params.DocumentID)
		if err != nil {
			return err
		}
		outstanding := doc.Outstanding()
		if params.Amount.GreaterThan(outstanding) {
			return apperr.Invalid("amount", "payment %s exceeds outstanding %s on %s",
				params.Amount.StringFixed(2), outstanding.StringFixed(2), doc.Number)
		}

		cash, err := s.cashAccount(ctx, st, companyID, params.CashAccountID)
		if err != nil {
			return err
		}

		entryParams := journal.EntryParams{
			Status:      model.StatusPosted,
			Date:        params.Date,
			Description: params.Description,
			Source:      model.SourcePayment,
		}
		switch doc.Kind {
		case model.DocumentSales:
			receivable, err := s.system.Resolve(ctx, st, companyID, accounts.RoleReceivable)
			if err != nil {
				return err
			}
			entryParams.Reference = &model.DocumentRef{Kind: RefSalesInvoice, ID: doc.ID}
			entryParams.Lines = []journal.LineParams{
				{AccountID: cash.ID, Debit: params.Amount},
				{AccountID: receivable.ID, Credit: params.Amount},
			}
		default:
			payable, err := s.system.Resolve(ctx, st, companyID, accounts.RolePayable)
			if err != nil {
				return err
			}
			entryParams.Reference = &model.DocumentRef{Kind: RefPurchaseBill, ID: doc.ID}
			entryParams.Lines = []journal.LineParams{
				{AccountID: payable.ID, Debit: params.Amount},
				{AccountID: cash.ID, Credit: params.Amount},
			}
		}
		if entryParams.Description == "" {
			entryParams.Description = fmt.Sprintf("Payment for %s (%s)", doc.Number, doc.Counterparty)
		}

		entry, err := s.journal.CreateEntryTx(ctx, tx, companyID, entryParams)
		if err != nil {
			return err
		}

		doc.Paid = doc.Paid.Add(params.Amount)
		if err := st.UpdateDocumentPaid(ctx, doc); err != nil {
			return err
		}
		res = Result{Document: doc, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("company_id", companyID).
		Str("document", res.Document.Number).
		Str("amount", params.Amount.StringFixed(2)).
		Str("outstanding", res.Document.Outstanding().StringFixed(2)).
		Msg("payment applied")
	return &res, nil
}

func (s *Service) cashAccount(ctx context.Context, st *store.Store, companyID, accountID int64) (model.Account, error) {
	if accountID == 0 {
		return s.system.Resolve(ctx, st, companyID, accounts.RoleCash)
	}
	acct, err := st.GetAccount(ctx, companyID, accountID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return model.Account{}, apperr.Invalid("cash_account_id", "account %d does not exist in company %d", accountID, companyID)
		}
		return model.Account{}, err
	}
	if !acct.IsCash() {
		return model.Account{}, apperr.Invalid("cash_account_id", "account %s is not a cash or bank account", acct.Code)
	}
	return acct, nil
}
