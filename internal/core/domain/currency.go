package domain

import (
	"fmt"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
)

// Currency represents a currency known to the company.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217, e.g. "BGN"
	Name         string `json:"name"`
	IsBase       bool   `json:"isBase"` // Exactly one currency is the company's accounting currency
}

// FindBaseCurrency returns the single currency flagged as base.
func FindBaseCurrency(currencies []Currency) (Currency, error) {
	var base *Currency
	for i := range currencies {
		if !currencies[i].IsBase {
			continue
		}
		if base != nil {
			return Currency{}, fmt.Errorf("%w: more than one base currency (%s, %s)", apperrors.ErrValidation, base.CurrencyCode, currencies[i].CurrencyCode)
		}
		base = &currencies[i]
	}
	if base == nil {
		return Currency{}, fmt.Errorf("%w: no base currency configured", apperrors.ErrValidation)
	}
	return *base, nil
}
