// Package accounts manages each company's chart of accounts and resolves the
// system accounts that automated postings need.
package accounts

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/store"
)

// Service creates and looks up accounts in the ledger database.
type Service struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewService creates a Service over db.
func NewService(db *sql.DB, log zerolog.Logger) *Service {
	return &Service{db: db, log: log.With().Str("service", "accounts").Logger()}
}

// Create validates and inserts one account for companyID.
func (s *Service) Create(ctx context.Context, companyID int64, acct model.Account) (model.Account, error) {
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		acct, err = create(ctx, store.New(tx), companyID, acct)
		return err
	})
	if err != nil {
		return model.Account{}, err
	}
	s.log.Info().Int64("company_id", companyID).Str("code", acct.Code).Msg("account created")
	return acct, nil
}

// CreateAll inserts accounts in one transaction; any invalid row aborts the
// whole batch.
func (s *Service) CreateAll(ctx context.Context, companyID int64, accts []model.Account) ([]model.Account, error) {
	created := make([]model.Account, 0, len(accts))
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		st := store.New(tx)
		for i, a := range accts {
			got, err := create(ctx, st, companyID, a)
			if err != nil {
				return fmt.Errorf("account %d (%s): %w", i+1, a.Code, err)
			}
			created = append(created, got)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("company_id", companyID).Int("count", len(created)).Msg("accounts created")
	return created, nil
}

func create(ctx context.Context, st *store.Store, companyID int64, acct model.Account) (model.Account, error) {
	acct.CompanyID = companyID
	acct.Code = strings.TrimSpace(acct.Code)
	acct.Name = strings.TrimSpace(acct.Name)
	if err := Validate(acct); err != nil {
		return model.Account{}, err
	}

	_, err := st.GetAccountByCode(ctx, companyID, acct.Code)
	switch {
	case err == nil:
		return model.Account{}, fmt.Errorf("account code %s: %w", acct.Code, apperr.ErrAlreadyExists)
	case !apperr.IsNotFound(err):
		return model.Account{}, err
	}

	if err := st.CreateAccount(ctx, &acct); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}

// Validate checks an account's code, name, type and subtype compatibility.
func Validate(acct model.Account) error {
	if acct.Code == "" {
		return apperr.Invalid("code", "account code is required")
	}
	if acct.Name == "" {
		return apperr.Invalid("name", "account name is required")
	}
	if !acct.Type.Valid() {
		return apperr.Invalid("type", "unknown account type %q", acct.Type)
	}
	if acct.Subtype == "" {
		return nil
	}
	if !model.KnownSubtype(acct.Subtype) {
		return apperr.Invalid("subtype", "unknown account subtype %q", acct.Subtype)
	}
	if acct.Subtype.Class() != acct.Type.Class() {
		return apperr.Invalid("subtype", "subtype %q does not belong to type %q", acct.Subtype, acct.Type)
	}
	return nil
}

// Get returns an account by ID.
func (s *Service) Get(ctx context.Context, companyID, id int64) (model.Account, error) {
	return store.New(s.db).GetAccount(ctx, companyID, id)
}

// GetByCode returns an account by its chart code.
func (s *Service) GetByCode(ctx context.Context, companyID int64, code string) (model.Account, error) {
	return store.New(s.db).GetAccountByCode(ctx, companyID, code)
}

// All returns every account of companyID ordered by code.
func (s *Service) All(ctx context.Context, companyID int64) ([]model.Account, error) {
	return store.New(s.db).ListAccounts(ctx, companyID)
}

// ByType returns all accounts whose type reports under the given class.
func (s *Service) ByType(ctx context.Context, companyID int64, class model.AccountType) ([]model.Account, error) {
	all, err := s.All(ctx, companyID)
	if err != nil {
		return nil, err
	}
	var result []model.Account
	for _, a := range all {
		if a.Type.Class() == class.Class() {
			result = append(result, a)
		}
	}
	return result, nil
}

// Import reads a chart-of-accounts CSV and creates every row.
func (s *Service) Import(ctx context.Context, companyID int64, r io.Reader) ([]model.Account, error) {
	accts, err := ReadAccounts(r)
	if err != nil {
		return nil, err
	}
	return s.CreateAll(ctx, companyID, accts)
}

// Export writes companyID's chart as CSV.
func (s *Service) Export(ctx context.Context, companyID int64, w io.Writer) error {
	accts, err := s.All(ctx, companyID)
	if err != nil {
		return err
	}
	return WriteAccounts(w, accts)
}
