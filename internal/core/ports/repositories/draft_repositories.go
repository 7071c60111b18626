package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
)

// DraftReader defines read operations for journal drafts
type DraftReader interface {
	// FindDraftByID retrieves a draft by its unique identifier.
	FindDraftByID(ctx context.Context, draftID string) (*domain.JournalDraft, error)

	// ListDraftsByOwner retrieves a page of a user's drafts in a company, most
	// recently updated first. It returns the drafts, a token for the next page, and an error.
	ListDraftsByOwner(ctx context.Context, companyID, ownerUserID string, limit int, nextToken *string) ([]domain.JournalDraft, *string, error)
}

// DraftWriter defines write operations for journal drafts
type DraftWriter interface {
	// SaveDraft inserts the draft when expectedVersion is 0, otherwise replaces
	// the stored draft only if its version still equals expectedVersion.
	// A stale expectedVersion yields apperrors.ErrConflict.
	SaveDraft(ctx context.Context, draft domain.JournalDraft, expectedVersion int64) error

	// DeleteDraft removes a draft. Deleting a missing draft yields apperrors.ErrNotFound.
	DeleteDraft(ctx context.Context, draftID string) error
}

// DraftRepositoryFacade combines all draft-related repository interfaces
type DraftRepositoryFacade interface {
	DraftReader
	DraftWriter
}

// DraftRepositoryWithTx is implemented by database-backed draft stores.
type DraftRepositoryWithTx interface {
	DraftRepositoryFacade
	TransactionManager
}

// DraftPurger is implemented by draft stores that do not expire drafts on their own.
type DraftPurger interface {
	// PurgeIdleDrafts deletes drafts last updated before cutoff and returns how many were removed.
	PurgeIdleDrafts(ctx context.Context, cutoff time.Time) (int64, error)
}
