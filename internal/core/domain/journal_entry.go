package domain

import "github.com/shopspring/decimal"

// JournalEntry is an entry already stored by the accounting gateway, as
// fetched for edit-mode hydration.
type JournalEntry struct {
	EntryID   string
	CompanyID string
	Header    DraftHeader
	Lines     []JournalEntryLine
}

// JournalEntryLine is a stored line. One of DebitAmount/CreditAmount is zero.
type JournalEntryLine struct {
	AccountID      string
	DebitAmount    decimal.Decimal
	CreditAmount   decimal.Decimal
	CurrencyCode   string
	CurrencyAmount *decimal.Decimal
	ExchangeRate   *decimal.Decimal
	Quantity       *decimal.Decimal
	UnitOfMeasure  string
	Description    string
}

// Side derives the side of a stored line from which amount is non-zero.
func (l JournalEntryLine) Side() Side {
	if l.CreditAmount.IsZero() || !l.DebitAmount.IsZero() {
		return Debit
	}
	return Credit
}

// Amount returns the non-zero base-currency amount of the line.
func (l JournalEntryLine) Amount() decimal.Decimal {
	if l.Side() == Debit {
		return l.DebitAmount
	}
	return l.CreditAmount
}
