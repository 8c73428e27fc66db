package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/books/internal/model"
)

const (
	numFields  = 4
	colCode    = 0
	colName    = 1
	colType    = 2
	colSubtype = 3
)

var header = []string{"code", "name", "type", "subtype"}

// ReadAccounts reads a chart-of-accounts CSV. Type names are normalised, so
// "Other Income" and "other_income" both parse.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart-of-accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colSubtype] = string(acct.Subtype)
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	typ, ok := model.ParseAccountType(record[colType])
	if !ok {
		return model.Account{}, fmt.Errorf("unknown account type %q", record[colType])
	}

	return model.Account{
		Code:    strings.TrimSpace(record[colCode]),
		Name:    strings.TrimSpace(record[colName]),
		Type:    typ,
		Subtype: model.AccountSubtype(strings.TrimSpace(record[colSubtype])),
	}, nil
}
