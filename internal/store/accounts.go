package store

import (
	"context"
	"fmt"

	"github.com/cleared-dev/books/internal/model"
)

const accountColumns = `id, company_id, code, name, type, subtype, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (model.Account, error) {
	var a model.Account
	var typ, subtype, createdAt string
	if err := row.Scan(&a.ID, &a.CompanyID, &a.Code, &a.Name, &typ, &subtype, &createdAt); err != nil {
		return model.Account{}, err
	}
	a.Type = model.AccountType(typ)
	a.Subtype = model.AccountSubtype(subtype)
	ts, err := parseTimestamp(createdAt)
	if err != nil {
		return model.Account{}, err
	}
	a.CreatedAt = ts
	return a, nil
}

// CreateAccount inserts an account and fills in its ID and CreatedAt.
func (s *Store) CreateAccount(ctx context.Context, a *model.Account) error {
	createdAt := s.timestamp()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO accounts (company_id, code, name, type, subtype, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.CompanyID, a.Code, a.Name, string(a.Type), string(a.Subtype), createdAt)
	if err != nil {
		return fmt.Errorf("inserting account %s: %w", a.Code, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading account id: %w", err)
	}
	a.ID = id
	a.CreatedAt, _ = parseTimestamp(createdAt)
	return nil
}

// GetAccount returns an account owned by companyID.
func (s *Store) GetAccount(ctx context.Context, companyID, id int64) (model.Account, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = ? AND id = ?`, companyID, id)
	a, err := scanAccount(row)
	if err != nil {
		return model.Account{}, notFound(err, "account", id)
	}
	return a, nil
}

// GetAccountByCode returns the account with code in companyID's chart.
func (s *Store) GetAccountByCode(ctx context.Context, companyID int64, code string) (model.Account, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = ? AND code = ?`, companyID, code)
	a, err := scanAccount(row)
	if err != nil {
		return model.Account{}, notFound(err, "account", code)
	}
	return a, nil
}

// ListAccounts returns companyID's chart ordered by code.
func (s *Store) ListAccounts(ctx context.Context, companyID int64) ([]model.Account, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE company_id = ? ORDER BY code`, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}
