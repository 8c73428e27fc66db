package report

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/database"
	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// fixture is a database with the default chart loaded for companies 1 and 2.
type fixture struct {
	db      *sql.DB
	journal *journal.Service
	svc     *Service
	ids     map[int64]map[string]int64 // company -> code -> account id
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()
	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "books.db")}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{
		db:      db,
		journal: journal.NewService(db, zerolog.Nop()),
		svc:     NewService(db, zerolog.Nop(), opts),
		ids:     make(map[int64]map[string]int64),
	}
	acctSvc := accounts.NewService(db, zerolog.Nop())
	for _, company := range []int64{1, 2} {
		created, err := acctSvc.CreateAll(context.Background(), company, accounts.DefaultChart(""))
		require.NoError(t, err)
		f.ids[company] = make(map[string]int64)
		for _, a := range created {
			f.ids[company][a.Code] = a.ID
		}
	}
	return f
}

type side struct {
	code   string
	amount string
	debit  bool
}

func dr(code, amount string) side { return side{code: code, amount: amount, debit: true} }
func cr(code, amount string) side { return side{code: code, amount: amount} }

func (f *fixture) postAs(t *testing.T, company int64, status model.EntryStatus, d time.Time, desc string, sides ...side) *model.Entry {
	t.Helper()
	params := journal.EntryParams{Status: status, Date: d, Description: desc}
	for _, s := range sides {
		id, ok := f.ids[company][s.code]
		require.True(t, ok, "unknown code %s", s.code)
		l := journal.LineParams{AccountID: id}
		if s.debit {
			l.Debit = dec(s.amount)
		} else {
			l.Credit = dec(s.amount)
		}
		params.Lines = append(params.Lines, l)
	}
	e, err := f.journal.CreateEntry(context.Background(), company, params)
	require.NoError(t, err)
	return e
}

func (f *fixture) post(t *testing.T, d time.Time, desc string, sides ...side) *model.Entry {
	t.Helper()
	return f.postAs(t, 1, model.StatusPosted, d, desc, sides...)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

func amountFor(rows []AmountRow, name string) (decimal.Decimal, bool) {
	for _, r := range rows {
		if r.Name == name || r.Code == name {
			return r.Amount, true
		}
	}
	return decimal.Zero, false
}
