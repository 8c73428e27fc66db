// Package journal is the ledger posting engine: it creates balanced entries,
// posts drafts and reverses posted entries. Entries are never edited or
// deleted once written.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Service provides business logic for journal entries.
type Service struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewService creates a journal Service.
func NewService(db *sql.DB, log zerolog.Logger) *Service {
	return &Service{
		db:  db,
		log: log.With().Str("service", "journal").Logger(),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// EntryParams holds parameters for creating a journal entry.
type EntryParams struct {
	Status      model.EntryStatus // draft or posted
	Date        time.Time
	Description string
	Source      model.Source // defaults to manual
	Lines       []LineParams
	Reference   *model.DocumentRef

	reversalOf int64
}

// CreateEntry validates params and writes the entry and its lines in one
// transaction. Nothing is written when validation fails.
func (s *Service) CreateEntry(ctx context.Context, companyID int64, params EntryParams) (*model.Entry, error) {
	var entry *model.Entry
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		entry, err = s.CreateEntryTx(ctx, tx, companyID, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateEntryTx is CreateEntry inside a transaction owned by the caller, so a
// posting can commit or roll back together with the caller's other writes.
func (s *Service) CreateEntryTx(ctx context.Context, tx *sql.Tx, companyID int64, params EntryParams) (*model.Entry, error) {
	return s.createEntry(ctx, store.New(tx), companyID, params)
}

func (s *Service) createEntry(ctx context.Context, st *store.Store, companyID int64, params EntryParams) (*model.Entry, error) {
	if params.Status != model.StatusDraft && params.Status != model.StatusPosted {
		return nil, apperr.Invalid("status", "status must be draft or posted, got %q", params.Status)
	}
	if params.Date.IsZero() {
		return nil, apperr.Invalid("date", "entry date is required")
	}
	if params.Source == "" {
		params.Source = model.SourceManual
	}
	if err := ValidateLines(ctx, st, companyID, params.Lines); err != nil {
		s.log.Debug().Err(err).Int64("company_id", companyID).Msg("entry rejected")
		return nil, err
	}

	date := period.Day(params.Date)
	seq, err := st.NextEntrySeq(ctx, companyID, date.Year(), int(date.Month()))
	if err != nil {
		return nil, err
	}

	entry := &model.Entry{
		CompanyID:   companyID,
		Number:      id.FormatEntryNumber(date.Year(), int(date.Month()), seq),
		Date:        date,
		Description: params.Description,
		Source:      params.Source,
		Status:      params.Status,
		Reference:   params.Reference,
		ReversalOf:  params.reversalOf,
		Lines:       make([]model.Line, len(params.Lines)),
	}
	total := decimal.Zero
	for i, l := range params.Lines {
		entry.Lines[i] = model.Line{
			AccountID:   l.AccountID,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
		total = total.Add(l.Debit)
	}
	entry.Total = total
	if entry.IsPosted() {
		postedAt := s.now()
		entry.PostedAt = &postedAt
	}

	if err := st.InsertEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.log.Info().
		Int64("company_id", companyID).
		Str("entry", entry.Number).
		Str("status", string(entry.Status)).
		Str("source", string(entry.Source)).
		Str("total", entry.Total.StringFixed(2)).
		Msg("entry created")
	return entry, nil
}

// PostDraft moves a draft entry to posted after re-checking that its stored
// lines still balance.
func (s *Service) PostDraft(ctx context.Context, companyID, entryID int64) (*model.Entry, error) {
	var entry *model.Entry
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		st := store.New(tx)
		e, err := loadOwned(ctx, st, companyID, entryID, "post")
		if err != nil {
			return err
		}
		if e.Status != model.StatusDraft {
			return &apperr.IllegalStateTransition{EntryID: entryID, Operation: "post", State: string(e.Status)}
		}
		if len(e.Lines) < 2 {
			return apperr.Invalid("lines", "stored entry %s has %d lines", e.Number, len(e.Lines))
		}
		if err := CheckBalance(e.Totals()); err != nil {
			return err
		}
		if err := st.MarkPosted(ctx, companyID, entryID, s.now()); err != nil {
			return err
		}
		entry, err = st.GetEntry(ctx, companyID, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("company_id", companyID).Str("entry", entry.Number).Msg("entry posted")
	return entry, nil
}

// Reverse creates and posts a new entry whose lines swap the original's debits
// and credits. The original is left untouched. An entry can be reversed once.
func (s *Service) Reverse(ctx context.Context, companyID, entryID int64, date time.Time, reason string) (*model.Entry, error) {
	var reversal *model.Entry
	err := database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		st := store.New(tx)
		orig, err := loadOwned(ctx, st, companyID, entryID, "reverse")
		if err != nil {
			return err
		}
		if orig.Status != model.StatusPosted {
			return &apperr.IllegalStateTransition{EntryID: entryID, Operation: "reverse", State: string(orig.Status)}
		}
		revID, err := st.ReversalFor(ctx, companyID, entryID)
		if err != nil {
			return err
		}
		if revID != 0 {
			return &apperr.IllegalStateTransition{EntryID: entryID, Operation: "reverse", State: "reversed"}
		}

		params := EntryParams{
			Status:      model.StatusPosted,
			Date:        date,
			Description: reversalDescription(orig.Number, reason),
			Source:      model.SourceReversal,
			Reference:   orig.Reference,
			Lines:       make([]LineParams, len(orig.Lines)),
			reversalOf:  orig.ID,
		}
		for i, l := range orig.Lines {
			params.Lines[i] = LineParams{
				AccountID:   l.AccountID,
				Debit:       l.Credit,
				Credit:      l.Debit,
				Description: l.Description,
			}
		}
		reversal, err = s.createEntry(ctx, st, companyID, params)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Int64("company_id", companyID).
		Int64("original_id", entryID).
		Str("entry", reversal.Number).
		Msg("entry reversed")
	return reversal, nil
}

func reversalDescription(number, reason string) string {
	if reason == "" {
		return "Reversal of " + number
	}
	return fmt.Sprintf("Reversal of %s: %s", number, reason)
}

// loadOwned reads an entry for a state change. An entry that does not exist in
// companyID is an illegal transition that also matches apperr.ErrNotFound.
func loadOwned(ctx context.Context, st *store.Store, companyID, entryID int64, op string) (*model.Entry, error) {
	e, err := st.GetEntry(ctx, companyID, entryID)
	if apperr.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %w", &apperr.IllegalStateTransition{EntryID: entryID, Operation: op, State: "not owned"}, err)
	}
	return e, err
}

// Get returns an entry with its lines.
func (s *Service) Get(ctx context.Context, companyID, entryID int64) (*model.Entry, error) {
	return store.New(s.db).GetEntry(ctx, companyID, entryID)
}

// GetByNumber returns an entry by its JE number.
func (s *Service) GetByNumber(ctx context.Context, companyID int64, number string) (*model.Entry, error) {
	return store.New(s.db).GetEntryByNumber(ctx, companyID, number)
}

// List returns entries matching f in creation order.
func (s *Service) List(ctx context.Context, companyID int64, f store.EntryFilter) ([]model.Entry, error) {
	return store.New(s.db).ListEntries(ctx, companyID, f)
}
