package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/money"
	"github.com/cleared-dev/books/internal/period"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseDate parses a YYYY-MM-DD flag value. Empty means today.
func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return period.Day(time.Now()), nil
	}
	t, err := period.Parse(value)
	if err != nil {
		return time.Time{}, apperr.Invalid(flag, "%v", err)
	}
	return t, nil
}

func parseAmount(flag, value string) (decimal.Decimal, error) {
	d, err := money.Parse(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, apperr.Invalid(flag, "invalid amount %q", value)
	}
	return d, nil
}

func parseID(kind, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(kind, "invalid %s id %q", kind, value)
	}
	return id, nil
}

// parseSide splits a "CODE=AMOUNT" line flag.
func parseSide(flag, value string) (string, decimal.Decimal, error) {
	code, amount, ok := strings.Cut(value, "=")
	if !ok || code == "" {
		return "", decimal.Zero, apperr.Invalid(flag, "want CODE=AMOUNT, got %q", value)
	}
	d, err := parseAmount(flag, amount)
	if err != nil {
		return "", decimal.Zero, err
	}
	return strings.TrimSpace(code), d, nil
}

func (a *app) accountID(ctx context.Context, code string) (int64, error) {
	acct, err := a.accounts.GetByCode(ctx, a.companyID, code)
	if err != nil {
		return 0, fmt.Errorf("account %s: %w", code, err)
	}
	return acct.ID, nil
}

// entry resolves an entry argument given either as a JE number or a numeric id.
func (a *app) entry(ctx context.Context, arg string) (*model.Entry, error) {
	if strings.HasPrefix(arg, "JE-") {
		return a.journal.GetByNumber(ctx, a.companyID, arg)
	}
	entryID, err := parseID("entry", arg)
	if err != nil {
		return nil, err
	}
	return a.journal.Get(ctx, a.companyID, entryID)
}

type lineView struct {
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
}

type entryView struct {
	ID          int64              `json:"id"`
	Number      string             `json:"number"`
	Date        string             `json:"date"`
	Description string             `json:"description"`
	Source      model.Source       `json:"source"`
	Status      model.EntryStatus  `json:"status"`
	Total       decimal.Decimal    `json:"total"`
	Reference   *model.DocumentRef `json:"reference,omitempty"`
	ReversalOf  int64              `json:"reversal_of,omitempty"`
	Lines       []lineView         `json:"lines"`
}

func (a *app) viewEntry(ctx context.Context, e *model.Entry) (entryView, error) {
	v := entryView{
		ID:          e.ID,
		Number:      e.Number,
		Date:        period.Format(e.Date),
		Description: e.Description,
		Source:      e.Source,
		Status:      e.Status,
		Total:       e.Total,
		Reference:   e.Reference,
		ReversalOf:  e.ReversalOf,
		Lines:       make([]lineView, 0, len(e.Lines)),
	}
	for _, l := range e.Lines {
		acct, err := a.accounts.Get(ctx, a.companyID, l.AccountID)
		if err != nil {
			return entryView{}, err
		}
		v.Lines = append(v.Lines, lineView{
			AccountCode: acct.Code,
			AccountName: acct.Name,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	return v, nil
}
