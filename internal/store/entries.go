package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
)

const entryColumns = `id, company_id, entry_number, date, description, source, status, total,
	reference_kind, reference_id, reversal_of, created_at, posted_at`

func scanEntry(row rowScanner) (model.Entry, error) {
	var e model.Entry
	var date, source, status, createdAt string
	var refKind sql.NullString
	var refID, reversalOf sql.NullInt64
	var postedAt sql.NullString
	if err := row.Scan(&e.ID, &e.CompanyID, &e.Number, &date, &e.Description, &source, &status, &e.Total,
		&refKind, &refID, &reversalOf, &createdAt, &postedAt); err != nil {
		return model.Entry{}, err
	}

	var err error
	if e.Date, err = parseDate(date); err != nil {
		return model.Entry{}, err
	}
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return model.Entry{}, err
	}
	if postedAt.Valid {
		ts, err := parseTimestamp(postedAt.String)
		if err != nil {
			return model.Entry{}, err
		}
		e.PostedAt = &ts
	}
	e.Source = model.Source(source)
	e.Status = model.EntryStatus(status)
	if refKind.Valid {
		e.Reference = &model.DocumentRef{Kind: refKind.String, ID: refID.Int64}
	}
	e.ReversalOf = reversalOf.Int64
	return e, nil
}

// NextEntrySeq returns the next free sequence number for companyID's entries
// dated in year/month.
func (s *Store) NextEntrySeq(ctx context.Context, companyID int64, year, month int) (int, error) {
	rows, err := s.q.QueryContext(ctx,
		`SELECT entry_number FROM journal_entries WHERE company_id = ? AND entry_number LIKE ?`,
		companyID, id.MonthPrefix(year, month)+"%")
	if err != nil {
		return 0, fmt.Errorf("reading entry numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return 0, fmt.Errorf("scanning entry number: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	return id.NextSeq(numbers), nil
}

// InsertEntry writes the header and all lines, filling in IDs. Call it inside
// a transaction so the header and lines land together.
func (s *Store) InsertEntry(ctx context.Context, e *model.Entry) error {
	var refKind sql.NullString
	var refID sql.NullInt64
	if e.Reference != nil {
		refKind = sql.NullString{String: e.Reference.Kind, Valid: true}
		refID = sql.NullInt64{Int64: e.Reference.ID, Valid: true}
	}
	var reversalOf sql.NullInt64
	if e.ReversalOf != 0 {
		reversalOf = sql.NullInt64{Int64: e.ReversalOf, Valid: true}
	}
	var postedAt sql.NullString
	if e.PostedAt != nil {
		postedAt = sql.NullString{String: e.PostedAt.Format(timestampFormat), Valid: true}
	}

	createdAt := s.timestamp()
	res, err := s.q.ExecContext(ctx,
		`INSERT INTO journal_entries (company_id, entry_number, date, description, source, status, total,
			reference_kind, reference_id, reversal_of, created_at, posted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.CompanyID, e.Number, period.Format(e.Date), e.Description, string(e.Source), string(e.Status),
		e.Total.StringFixed(2), refKind, refID, reversalOf, createdAt, postedAt)
	if err != nil {
		return fmt.Errorf("inserting entry %s: %w", e.Number, err)
	}
	entryID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading entry id: %w", err)
	}
	e.ID = entryID
	e.CreatedAt, _ = parseTimestamp(createdAt)

	for i := range e.Lines {
		l := &e.Lines[i]
		l.EntryID = entryID
		res, err := s.q.ExecContext(ctx,
			`INSERT INTO journal_entry_lines (entry_id, account_id, debit, credit, description) VALUES (?, ?, ?, ?, ?)`,
			entryID, l.AccountID, l.Debit.StringFixed(2), l.Credit.StringFixed(2), l.Description)
		if err != nil {
			return fmt.Errorf("inserting line %d of entry %s: %w", i+1, e.Number, err)
		}
		if l.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("reading line id: %w", err)
		}
	}
	return nil
}

// GetEntry loads an entry and its lines.
func (s *Store) GetEntry(ctx context.Context, companyID, entryID int64) (*model.Entry, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE company_id = ? AND id = ?`, companyID, entryID)
	e, err := scanEntry(row)
	if err != nil {
		return nil, notFound(err, "entry", entryID)
	}
	lines, err := s.entryLines(ctx, []int64{e.ID})
	if err != nil {
		return nil, err
	}
	e.Lines = lines[e.ID]
	return &e, nil
}

// GetEntryByNumber loads an entry by its JE number.
func (s *Store) GetEntryByNumber(ctx context.Context, companyID int64, number string) (*model.Entry, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM journal_entries WHERE company_id = ? AND entry_number = ?`, companyID, number)
	e, err := scanEntry(row)
	if err != nil {
		return nil, notFound(err, "entry", number)
	}
	lines, err := s.entryLines(ctx, []int64{e.ID})
	if err != nil {
		return nil, err
	}
	e.Lines = lines[e.ID]
	return &e, nil
}

func (s *Store) entryLines(ctx context.Context, entryIDs []int64) (map[int64][]model.Line, error) {
	out := make(map[int64][]model.Line, len(entryIDs))
	if len(entryIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(entryIDs)), ",")
	args := make([]any, len(entryIDs))
	for i, v := range entryIDs {
		args[i] = v
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT id, entry_id, account_id, debit, credit, description FROM journal_entry_lines
		WHERE entry_id IN (`+placeholders+`) ORDER BY entry_id, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("loading entry lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l model.Line
		if err := rows.Scan(&l.ID, &l.EntryID, &l.AccountID, &l.Debit, &l.Credit, &l.Description); err != nil {
			return nil, fmt.Errorf("scanning entry line: %w", err)
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	return out, rows.Err()
}

// MarkPosted flips a draft to posted. It fails with IllegalStateTransition if
// the entry is no longer a draft.
func (s *Store) MarkPosted(ctx context.Context, companyID, entryID int64, postedAt time.Time) error {
	res, err := s.q.ExecContext(ctx,
		`UPDATE journal_entries SET status = ?, posted_at = ? WHERE company_id = ? AND id = ? AND status = ?`,
		string(model.StatusPosted), postedAt.UTC().Format(timestampFormat), companyID, entryID, string(model.StatusDraft))
	if err != nil {
		return fmt.Errorf("posting entry %d: %w", entryID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("posting entry %d: %w", entryID, err)
	}
	if n != 1 {
		return &apperr.IllegalStateTransition{EntryID: entryID, Operation: "post", State: "not draft"}
	}
	return nil
}

// ReversalFor returns the ID of the entry that reverses entryID, or 0.
func (s *Store) ReversalFor(ctx context.Context, companyID, entryID int64) (int64, error) {
	var revID int64
	err := s.q.QueryRowContext(ctx,
		`SELECT id FROM journal_entries WHERE company_id = ? AND reversal_of = ?`, companyID, entryID).Scan(&revID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("looking up reversal of entry %d: %w", entryID, err)
	}
	return revID, nil
}

// EntryFilter narrows ListEntries. Zero dates are unbounded.
type EntryFilter struct {
	From   time.Time
	To     time.Time
	Status model.EntryStatus // empty = any
}

// ListEntries returns entries with their lines in creation order.
func (s *Store) ListEntries(ctx context.Context, companyID int64, f EntryFilter) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE company_id = ?`
	args := []any{companyID}
	if !f.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, period.Format(f.From))
	}
	if !f.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, period.Format(f.To))
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	var entries []model.Entry
	var ids []int64
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		entries = append(entries, e)
		ids = append(ids, e.ID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	lines, err := s.entryLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Lines = lines[entries[i].ID]
	}
	return entries, nil
}

// LedgerLine is a journal line joined with its entry header.
type LedgerLine struct {
	EntryID          int64
	EntryNumber      string
	Date             time.Time
	EntryDescription string
	Status           model.EntryStatus
	AccountID        int64
	Debit            decimal.Decimal
	Credit           decimal.Decimal
	Description      string
}

// LineFilter selects ledger lines. Zero dates are unbounded; Before is exclusive,
// From and To are inclusive.
type LineFilter struct {
	From          time.Time
	To            time.Time
	Before        time.Time
	AccountID     int64 // 0 = every account
	IncludeDrafts bool
}

// LedgerLines returns lines in entry-creation order.
func (s *Store) LedgerLines(ctx context.Context, companyID int64, f LineFilter) ([]LedgerLine, error) {
	query := `SELECT e.id, e.entry_number, e.date, e.description, e.status,
			l.account_id, l.debit, l.credit, l.description
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.id = l.entry_id
		JOIN accounts a ON a.id = l.account_id AND a.company_id = e.company_id
		WHERE e.company_id = ?`
	args := []any{companyID}
	if !f.IncludeDrafts {
		query += ` AND e.status = ?`
		args = append(args, string(model.StatusPosted))
	}
	if !f.From.IsZero() {
		query += ` AND e.date >= ?`
		args = append(args, period.Format(f.From))
	}
	if !f.To.IsZero() {
		query += ` AND e.date <= ?`
		args = append(args, period.Format(f.To))
	}
	if !f.Before.IsZero() {
		query += ` AND e.date < ?`
		args = append(args, period.Format(f.Before))
	}
	if f.AccountID != 0 {
		query += ` AND l.account_id = ?`
		args = append(args, f.AccountID)
	}
	query += ` ORDER BY e.id, l.id`

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("loading ledger lines: %w", err)
	}
	defer rows.Close()

	var out []LedgerLine
	for rows.Next() {
		var ll LedgerLine
		var date, status string
		if err := rows.Scan(&ll.EntryID, &ll.EntryNumber, &date, &ll.EntryDescription, &status,
			&ll.AccountID, &ll.Debit, &ll.Credit, &ll.Description); err != nil {
			return nil, fmt.Errorf("scanning ledger line: %w", err)
		}
		if ll.Date, err = parseDate(date); err != nil {
			return nil, err
		}
		ll.Status = model.EntryStatus(status)
		out = append(out, ll)
	}
	return out, rows.Err()
}
