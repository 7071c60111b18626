package accounting

import (
	"strings"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
)

// References is the reference data the derivation engine reads: the base
// currency and the account catalogue.
type References struct {
	BaseCurrency string
	Accounts     map[string]domain.Account
}

// NewReferences builds References from a fetched account list.
func NewReferences(baseCurrency string, accounts []domain.Account) References {
	byID := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
	}
	return References{BaseCurrency: baseCurrency, Accounts: byID}
}

// Account looks up an account by id.
func (r References) Account(accountID string) (domain.Account, bool) {
	if accountID == "" {
		return domain.Account{}, false
	}
	acc, ok := r.Accounts[accountID]
	return acc, ok
}

// IsMaterial reports whether the account tracks quantities.
func (r References) IsMaterial(accountID string) bool {
	acc, ok := r.Account(accountID)
	return ok && acc.SupportsQuantity
}

// IsForeign reports whether the line is in a currency other than the base
// currency. A line without a currency code is in base currency.
func (r References) IsForeign(line domain.EntryLine) bool {
	code := strings.TrimSpace(line.CurrencyCode)
	return code != "" && !strings.EqualFold(code, r.BaseCurrency)
}
