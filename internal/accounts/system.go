package accounts

import (
	"context"
	"fmt"

	"github.com/cleared-dev/books/internal/apperr"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/store"
)

// Role names an account that automated postings need.
type Role string

const (
	RoleReceivable Role = "receivable"
	RolePayable    Role = "payable"
	RoleCOGS       Role = "cogs"
	RoleInventory  Role = "inventory"
	RoleGainLoss   Role = "gain_loss"
	RoleCash       Role = "cash"
)

var roleSubtypes = map[Role][]model.AccountSubtype{
	RoleReceivable: {model.SubtypeReceivable},
	RolePayable:    {model.SubtypePayable},
	RoleCOGS:       {model.SubtypeCOGS},
	RoleInventory:  {model.SubtypeInventory},
	RoleGainLoss:   {model.SubtypeGainLoss},
	RoleCash:       {model.SubtypeBank, model.SubtypeCash},
}

// SystemAccounts maps roles to configured account codes. A missing or empty
// code falls back to the first account (by code) with the role's subtype.
type SystemAccounts map[Role]string

// NewSystemAccounts builds SystemAccounts from role-name keyed codes, as
// produced by the config file.
func NewSystemAccounts(codes map[string]string) SystemAccounts {
	sa := make(SystemAccounts, len(codes))
	for role, code := range codes {
		if code != "" {
			sa[Role(role)] = code
		}
	}
	return sa
}

// Resolve finds the account for role in companyID's chart. It returns
// *apperr.MissingLedgerConfiguration when neither the configured code nor
// the subtype fallback yields an account.
func (sa SystemAccounts) Resolve(ctx context.Context, st *store.Store, companyID int64, role Role) (model.Account, error) {
	subtypes, known := roleSubtypes[role]
	if !known {
		return model.Account{}, fmt.Errorf("unknown system account role %q", role)
	}

	if code := sa[role]; code != "" {
		acct, err := st.GetAccountByCode(ctx, companyID, code)
		switch {
		case err == nil:
			return acct, nil
		case apperr.IsNotFound(err):
			return model.Account{}, &apperr.MissingLedgerConfiguration{Role: string(role), Code: code}
		default:
			return model.Account{}, err
		}
	}

	all, err := st.ListAccounts(ctx, companyID)
	if err != nil {
		return model.Account{}, err
	}
	for _, subtype := range subtypes {
		for _, a := range all {
			if a.Subtype == subtype {
				return a, nil
			}
		}
	}
	return model.Account{}, &apperr.MissingLedgerConfiguration{Role: string(role)}
}
