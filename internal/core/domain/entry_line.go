package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
)

// Side indicates whether an entry line is a Debit or a Credit leg.
type Side string

const (
	Debit  Side = "DEBIT"
	Credit Side = "CREDIT"
)

// ParseSide accepts "debit"/"credit" in any case.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case Debit:
		return Debit, nil
	case Credit:
		return Credit, nil
	default:
		return "", fmt.Errorf("%w: invalid side %q", apperrors.ErrValidation, s)
	}
}

// UnmarshalText accepts the same spellings as ParseSide and stores the
// canonical form, so decoded lines never carry an unknown side.
func (s *Side) UnmarshalText(text []byte) error {
	side, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Opposite returns the other side.
func (s Side) Opposite() Side {
	if s == Debit {
		return Credit
	}
	return Debit
}

// LineField names an editable attribute of an EntryLine.
type LineField string

const (
	FieldAccountID        LineField = "accountId"
	FieldSide             LineField = "side"
	FieldAmount           LineField = "amount"
	FieldCurrencyCode     LineField = "currencyCode"
	FieldCurrencyAmount   LineField = "currencyAmount"
	FieldExchangeRate     LineField = "exchangeRate"
	FieldMaterialQuantity LineField = "materialQuantity"
	FieldUnitOfMeasure    LineField = "unitOfMeasure"
	FieldDescription      LineField = "description"
)

// ParseLineField maps a wire field name to a LineField.
func ParseLineField(s string) (LineField, error) {
	f := LineField(s)
	switch f {
	case FieldAccountID, FieldSide, FieldAmount, FieldCurrencyCode, FieldCurrencyAmount,
		FieldExchangeRate, FieldMaterialQuantity, FieldUnitOfMeasure, FieldDescription:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown line field %q", apperrors.ErrValidation, s)
	}
}

// EntryLine is one debit or credit leg of a journal entry being edited.
// Numeric attributes keep the raw text the operator typed; they are parsed
// only when a value has to be computed.
type EntryLine struct {
	AccountID        string `json:"accountId" yaml:"accountId"`
	Side             Side   `json:"side" yaml:"side"`
	Amount           string `json:"amount" yaml:"amount"` // Base currency
	CurrencyCode     string `json:"currencyCode" yaml:"currencyCode"`
	CurrencyAmount   string `json:"currencyAmount" yaml:"currencyAmount"` // Only for foreign-currency lines
	ExchangeRate     string `json:"exchangeRate" yaml:"exchangeRate"`     // amount = currencyAmount * exchangeRate
	MaterialQuantity string `json:"materialQuantity" yaml:"materialQuantity"`
	UnitOfMeasure    string `json:"unitOfMeasure" yaml:"unitOfMeasure"`
	Description      string `json:"description" yaml:"description"`
}

// Get returns the raw value of field.
func (l EntryLine) Get(field LineField) string {
	switch field {
	case FieldAccountID:
		return l.AccountID
	case FieldSide:
		return string(l.Side)
	case FieldAmount:
		return l.Amount
	case FieldCurrencyCode:
		return l.CurrencyCode
	case FieldCurrencyAmount:
		return l.CurrencyAmount
	case FieldExchangeRate:
		return l.ExchangeRate
	case FieldMaterialQuantity:
		return l.MaterialQuantity
	case FieldUnitOfMeasure:
		return l.UnitOfMeasure
	case FieldDescription:
		return l.Description
	default:
		return ""
	}
}
