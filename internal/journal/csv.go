package journal

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/period"
	"github.com/cleared-dev/books/internal/store"
)

// Header is the CSV header for entry import and export.
const Header = "entry,date,account_code,description,debit,credit"

const (
	numFields = 6
	colEntry  = 0
	colDate   = 1
	colCode   = 2
	colDesc   = 3
	colDebit  = 4
	colCredit = 5
)

// CSVLine is one row of an entry CSV. Rows sharing Entry form one entry.
type CSVLine struct {
	Entry       string
	Date        time.Time
	AccountCode string
	Description string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}

// ReadLines reads all rows from an entry CSV.
func ReadLines(r io.Reader) ([]CSVLine, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading entry CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var lines []CSVLine
	for i, rec := range records[1:] {
		line, err := UnmarshalLine(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// WriteLines writes rows (including header).
func WriteLines(w io.Writer, lines []CSVLine) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, line := range lines {
		if err := cw.Write(MarshalLine(line)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalLine converts a CSVLine to a CSV row.
func MarshalLine(line CSVLine) []string {
	row := make([]string, numFields)
	row[colEntry] = line.Entry
	row[colDate] = period.Format(line.Date)
	row[colCode] = line.AccountCode
	row[colDesc] = line.Description

	if !line.Debit.IsZero() {
		row[colDebit] = line.Debit.StringFixed(2)
	}
	if !line.Credit.IsZero() {
		row[colCredit] = line.Credit.StringFixed(2)
	}
	return row
}

// UnmarshalLine converts a CSV row to a CSVLine.
func UnmarshalLine(record []string) (CSVLine, error) {
	if len(record) != numFields {
		return CSVLine{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := period.Parse(record[colDate])
	if err != nil {
		return CSVLine{}, err
	}

	var debit, credit decimal.Decimal

	if record[colDebit] != "" {
		debit, err = decimal.NewFromString(record[colDebit])
		if err != nil {
			return CSVLine{}, fmt.Errorf("parsing debit %q: %w", record[colDebit], err)
		}
	}

	if record[colCredit] != "" {
		credit, err = decimal.NewFromString(record[colCredit])
		if err != nil {
			return CSVLine{}, fmt.Errorf("parsing credit %q: %w", record[colCredit], err)
		}
	}

	return CSVLine{
		Entry:       strings.TrimSpace(record[colEntry]),
		Date:        date,
		AccountCode: strings.TrimSpace(record[colCode]),
		Description: record[colDesc],
		Debit:       debit,
		Credit:      credit,
	}, nil
}

// LineGroup is the rows of one CSV entry, in file order.
type LineGroup struct {
	Key   string
	Date  time.Time
	Lines []CSVLine
}

// GroupLines groups rows by their entry key in order of first appearance. All
// rows of a group must share a date.
func GroupLines(lines []CSVLine) ([]LineGroup, error) {
	var groups []LineGroup
	index := make(map[string]int)
	for _, l := range lines {
		if l.Entry == "" {
			return nil, apperr.Invalid("entry", "entry key is required on every row")
		}
		i, seen := index[l.Entry]
		if !seen {
			index[l.Entry] = len(groups)
			groups = append(groups, LineGroup{Key: l.Entry, Date: l.Date})
			i = len(groups) - 1
		}
		if !groups[i].Date.Equal(l.Date) {
			return nil, apperr.Invalid("date", "entry %s has rows dated %s and %s",
				l.Entry, period.Format(groups[i].Date), period.Format(l.Date))
		}
		groups[i].Lines = append(groups[i].Lines, l)
	}
	return groups, nil
}

// Import reads an entry CSV and creates one entry per group, all in one
// transaction: a single bad group rejects the whole file.
func (s *Service) Import(ctx context.Context, companyID int64, r io.Reader, status model.EntryStatus) ([]*model.Entry, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, err
	}
	groups, err := GroupLines(lines)
	if err != nil {
		return nil, err
	}

	var created []*model.Entry
	err = database.WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		st := store.New(tx)
		for _, g := range groups {
			params := EntryParams{
				Status:      status,
				Date:        g.Date,
				Description: g.Lines[0].Description,
				Source:      model.SourceImport,
			}
			for n, l := range g.Lines {
				acct, err := st.GetAccountByCode(ctx, companyID, l.AccountCode)
				if err != nil {
					if apperr.IsNotFound(err) {
						return fmt.Errorf("entry %s: %w", g.Key,
							apperr.InvalidLine(n+1, "account_code", "unknown account code %q", l.AccountCode))
					}
					return err
				}
				params.Lines = append(params.Lines, LineParams{
					AccountID:   acct.ID,
					Debit:       l.Debit,
					Credit:      l.Credit,
					Description: l.Description,
				})
			}
			entry, err := s.createEntry(ctx, st, companyID, params)
			if err != nil {
				return fmt.Errorf("entry %s: %w", g.Key, err)
			}
			created = append(created, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Export writes the entries matching f as CSV rows keyed by entry number.
func (s *Service) Export(ctx context.Context, companyID int64, f store.EntryFilter, w io.Writer) error {
	st := store.New(s.db)
	entries, err := st.ListEntries(ctx, companyID, f)
	if err != nil {
		return err
	}
	accts, err := st.ListAccounts(ctx, companyID)
	if err != nil {
		return err
	}
	codes := make(map[int64]string, len(accts))
	for _, a := range accts {
		codes[a.ID] = a.Code
	}

	var rows []CSVLine
	for _, e := range entries {
		for _, l := range e.Lines {
			desc := l.Description
			if desc == "" {
				desc = e.Description
			}
			rows = append(rows, CSVLine{
				Entry:       e.Number,
				Date:        e.Date,
				AccountCode: codes[l.AccountID],
				Description: desc,
				Debit:       l.Debit,
				Credit:      l.Credit,
			})
		}
	}
	return WriteLines(w, rows)
}
