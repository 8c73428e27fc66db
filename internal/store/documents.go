package store

import (
	"context"
	"fmt"
	"time"

	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
)

const documentColumns = `id, company_id, kind, number, counterparty, order_date, total, paid`

func scanDocument(row rowScanner) (model.Document, error) {
	var d model.Document
	var kind, orderDate string
	if err := row.Scan(&d.ID, &d.CompanyID, &kind, &d.Number, &d.Counterparty, &orderDate, &d.Total, &d.Paid); err != nil {
		return model.Document{}, err
	}
	d.Kind = model.DocumentKind(kind)
	var err error
	if d.OrderDate, err = parseDate(orderDate); err != nil {
		return model.Document{}, err
	}
	return d, nil
}

// CreateDocument records an invoice or bill issued by the invoicing layer.
func (s *Store) CreateDocument(ctx context.Context, d *model.Document) error {
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO documents (company_id, kind, number, counterparty, order_date, total, paid) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.CompanyID, string(d.Kind), d.Number, d.Counterparty, period.Format(d.OrderDate),
		d.Total.StringFixed(2), d.Paid.StringFixed(2))
	if err != nil {
		return fmt.Errorf("inserting document %s: %w", d.Number, err)
	}
	if d.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}
	return nil
}

// LockDocument reads a document for a read-modify-write of its paid amount.
// Call it only inside a transaction: BEGIN IMMEDIATE already holds the write
// lock, so the row cannot change until commit.
func (s *Store) LockDocument(ctx context.Context, companyID, documentID int64) (model.Document, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE company_id = ? AND id = ?`, companyID, documentID)
	d, err := scanDocument(row)
	if err != nil {
		return model.Document{}, notFound(err, "document", documentID)
	}
	return d, nil
}

// UpdateDocumentPaid saves a document's paid amount.
func (s *Store) UpdateDocumentPaid(ctx context.Context, d model.Document) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE documents SET paid = ? WHERE company_id = ? AND id = ?`,
		d.Paid.StringFixed(2), d.CompanyID, d.ID)
	if err != nil {
		return fmt.Errorf("updating document %d: %w", d.ID, err)
	}
	return nil
}

// OpenDocuments returns documents of kind ordered on or before asOf whose
// paid amount is below the total.
func (s *Store) OpenDocuments(ctx context.Context, companyID int64, kind model.DocumentKind, asOf time.Time) ([]model.Document, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+documentColumns+` FROM documents
		WHERE company_id = ? AND kind = ? AND order_date <= ?
		ORDER BY counterparty, order_date, id`,
		companyID, string(kind), period.Format(asOf))
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if !d.Outstanding().IsPositive() {
			continue
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpsertBudget sets the target for (company, account, period), replacing any
// existing one.
func (s *Store) UpsertBudget(ctx context.Context, b *model.BudgetTarget) error {
	err := s.q.QueryRowContext(ctx,
		`INSERT INTO budget_targets (company_id, account_id, period, amount) VALUES (?, ?, ?, ?)
		ON CONFLICT (company_id, account_id, period) DO UPDATE SET amount = excluded.amount
		RETURNING id`,
		b.CompanyID, b.AccountID, b.Period, b.Amount.StringFixed(2)).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("saving budget for account %d %s: %w", b.AccountID, b.Period, err)
	}
	return nil
}

// Budgets returns targets whose period lies in [fromPeriod, toPeriod] (YYYY-MM).
func (s *Store) Budgets(ctx context.Context, companyID int64, fromPeriod, toPeriod string) ([]model.BudgetTarget, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT id, company_id, account_id, period, amount FROM budget_targets
		WHERE company_id = ? AND period >= ? AND period <= ?
		ORDER BY account_id, period`,
		companyID, fromPeriod, toPeriod)
	if err != nil {
		return nil, fmt.Errorf("listing budgets: %w", err)
	}
	defer rows.Close()

	var budgets []model.BudgetTarget
	for rows.Next() {
		var b model.BudgetTarget
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.AccountID, &b.Period, &b.Amount); err != nil {
			return nil, fmt.Errorf("scanning budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
