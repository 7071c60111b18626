package dto

import (
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/samber/lo"
)

// AccountResponse defines the data returned for an account of the chart of accounts.
type AccountResponse struct {
	AccountID        string `json:"accountID"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	SupportsQuantity bool   `json:"supportsQuantity"`
	DefaultUnit      string `json:"defaultUnit,omitempty"`
	IsActive         bool   `json:"isActive"`
}

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyCode string `json:"currencyCode"`
	Name         string `json:"name"`
	IsBase       bool   `json:"isBase"`
}

// CounterpartResponse defines the data returned for a customer or supplier.
type CounterpartResponse struct {
	CounterpartID string `json:"counterpartID"`
	Name          string `json:"name"`
	EIK           string `json:"eik,omitempty"`
	VATNumber     string `json:"vatNumber,omitempty"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Code:             acc.Code,
		Name:             acc.Name,
		SupportsQuantity: acc.SupportsQuantity,
		DefaultUnit:      acc.DefaultUnit,
		IsActive:         acc.IsActive,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	return lo.Map(accounts, func(acc domain.Account, _ int) AccountResponse {
		return ToAccountResponse(acc)
	})
}

// ToListCurrencyResponse converts a slice of domain.Currency to CurrencyResponse DTOs
func ToListCurrencyResponse(currencies []domain.Currency) []CurrencyResponse {
	return lo.Map(currencies, func(c domain.Currency, _ int) CurrencyResponse {
		return CurrencyResponse{CurrencyCode: c.CurrencyCode, Name: c.Name, IsBase: c.IsBase}
	})
}

// ToListCounterpartResponse converts a slice of domain.Counterpart to CounterpartResponse DTOs
func ToListCounterpartResponse(counterparts []domain.Counterpart) []CounterpartResponse {
	return lo.Map(counterparts, func(c domain.Counterpart, _ int) CounterpartResponse {
		return CounterpartResponse{
			CounterpartID: c.CounterpartID,
			Name:          c.Name,
			EIK:           c.EIK,
			VATNumber:     c.VATNumber,
		}
	})
}
