package services

import (
	"context"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
)

// ReferenceDataSvc exposes the company reference data used by the entry editor.
type ReferenceDataSvc interface {
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)
	// ListCurrencies fails when the company does not have exactly one base currency.
	ListCurrencies(ctx context.Context, companyID string) ([]domain.Currency, error)
	ListCounterparts(ctx context.Context, companyID string) ([]domain.Counterpart, error)
}

// ReferenceLoaderSvc builds the lookup tables the accounting engine derives from.
type ReferenceLoaderSvc interface {
	LoadReferences(ctx context.Context, companyID string) (accounting.References, error)
}

// ReferenceDataSvcFacade combines all reference-data service interfaces
type ReferenceDataSvcFacade interface {
	ReferenceDataSvc
	ReferenceLoaderSvc
}
