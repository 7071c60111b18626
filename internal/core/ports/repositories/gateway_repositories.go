package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
)

// ErrRemote marks failures reported by the accounting gateway itself
// (closed posting period, server-side validation, ...).
var ErrRemote = errors.New("accounting gateway rejected the request")

// RemoteError carries the gateway's human-readable messages unchanged.
type RemoteError struct {
	Messages []string
}

func (e *RemoteError) Error() string {
	return strings.Join(e.Messages, "; ")
}

func (e *RemoteError) Unwrap() error { return ErrRemote }

// SaveEntryInput is the payload of the create/update journal entry mutations.
type SaveEntryInput struct {
	CompanyID string
	Header    domain.DraftHeader
	Lines     []accounting.SubmissionLine
}

// ReferenceDataReader reads the reference data owned by the accounting gateway.
type ReferenceDataReader interface {
	// ListAccounts returns the company's chart of accounts.
	ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error)

	// ListCurrencies returns the company's currencies; exactly one is the base currency.
	ListCurrencies(ctx context.Context, companyID string) ([]domain.Currency, error)

	// ListCounterparts returns the company's customers and suppliers.
	ListCounterparts(ctx context.Context, companyID string) ([]domain.Counterpart, error)
}

// JournalEntryGateway reads and writes stored journal entries.
type JournalEntryGateway interface {
	// GetJournalEntry fetches an entry with its lines. A missing entry yields apperrors.ErrNotFound.
	GetJournalEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error)

	// CreateJournalEntry stores a new entry and returns its id.
	CreateJournalEntry(ctx context.Context, input SaveEntryInput) (string, error)

	// UpdateJournalEntry replaces an existing entry and returns its id.
	UpdateJournalEntry(ctx context.Context, entryID string, input SaveEntryInput) (string, error)
}

// AccountingGatewayFacade combines all gateway interfaces
type AccountingGatewayFacade interface {
	ReferenceDataReader
	JournalEntryGateway
}
