package services

import (
	"context"

	"github.com/SscSPs/journal_draft_app/internal/dto"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
)

// DraftReaderSvc defines read operations for journal drafts.
// Drafts are only visible to the user that owns them; any other caller gets apperrors.ErrNotFound.
type DraftReaderSvc interface {
	// GetDraft returns the draft together with its balance and per-line view.
	GetDraft(ctx context.Context, companyID, draftID, userID string) (*accounting.DraftView, error)

	// ListDrafts returns a page of the user's drafts in a company, most recently updated first.
	ListDrafts(ctx context.Context, companyID, userID string, params dto.ListDraftsParams) (*dto.ListDraftsResponse, error)
}

// DraftWriterSvc defines operations that create or change journal drafts.
type DraftWriterSvc interface {
	// CreateDraft starts a new entry with one blank debit and one blank credit line.
	CreateDraft(ctx context.Context, companyID, userID string) (*accounting.DraftView, error)

	// HydrateDraft starts a draft that edits the stored journal entry entryID.
	HydrateDraft(ctx context.Context, companyID, entryID, userID string) (*accounting.DraftView, error)

	// ApplyAction runs one edit through the reducer and stores the result.
	ApplyAction(ctx context.Context, companyID, draftID, userID string, action accounting.Action) (*accounting.DraftView, error)

	// DiscardDraft deletes the draft without saving it.
	DiscardDraft(ctx context.Context, companyID, draftID, userID string) error
}

// DraftSubmitterSvc saves finished drafts to the accounting gateway.
type DraftSubmitterSvc interface {
	// SubmitDraft checks the draft, creates or updates the journal entry and
	// removes the draft. It returns the id of the stored entry.
	SubmitDraft(ctx context.Context, companyID, draftID, userID string) (*dto.SubmitDraftResponse, error)
}

// DraftSvcFacade combines all draft-related service interfaces
type DraftSvcFacade interface {
	DraftReaderSvc
	DraftWriterSvc
	DraftSubmitterSvc
}
