package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/dto"
	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Analytics event names.
const (
	EventEntrySubmitted = "journal_entry_submitted"
	EventDraftDiscarded = "journal_draft_discarded"
)

// EventSink receives product analytics events. *utils.PosthogClientWrapper implements it.
type EventSink interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

type noopEventSink struct{}

func (noopEventSink) Enqueue(string, string, map[string]any) {}

// draftService owns journal drafts between edits.
type draftService struct {
	drafts     portsrepo.DraftRepositoryFacade
	gateway    portsrepo.JournalEntryGateway
	references portssvc.ReferenceLoaderSvc
	events     EventSink
	tolerance  decimal.Decimal
	locks      *draftLocks
	now        func() time.Time
}

// DraftServiceOption configures optional draft service behaviour.
type DraftServiceOption func(*draftService)

// WithBalanceTolerance sets the largest debit/credit difference still treated as balanced.
func WithBalanceTolerance(tolerance decimal.Decimal) DraftServiceOption {
	return func(s *draftService) {
		if tolerance.IsPositive() {
			s.tolerance = tolerance
		}
	}
}

// WithEventSink sets where analytics events go.
func WithEventSink(sink EventSink) DraftServiceOption {
	return func(s *draftService) {
		if sink != nil {
			s.events = sink
		}
	}
}

// WithClock overrides the time source used for audit fields.
func WithClock(now func() time.Time) DraftServiceOption {
	return func(s *draftService) {
		s.now = now
	}
}

// NewDraftService creates a draft service.
func NewDraftService(
	drafts portsrepo.DraftRepositoryFacade,
	gateway portsrepo.JournalEntryGateway,
	references portssvc.ReferenceLoaderSvc,
	opts ...DraftServiceOption,
) portssvc.DraftSvcFacade {
	s := &draftService{
		drafts:     drafts,
		gateway:    gateway,
		references: references,
		events:     noopEventSink{},
		tolerance:  accounting.DefaultBalanceTolerance,
		locks:      newDraftLocks(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.DraftSvcFacade = (*draftService)(nil)

// CreateDraft starts a new entry with a blank debit and a blank credit line
// in the company's base currency.
func (s *draftService) CreateDraft(ctx context.Context, companyID, userID string) (*accounting.DraftView, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("company_id", companyID))

	refs, err := s.references.LoadReferences(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft := domain.JournalDraft{
		DraftID:     uuid.NewString(),
		CompanyID:   companyID,
		OwnerUserID: userID,
		Header: domain.DraftHeader{
			AccountingDate: now.Truncate(24 * time.Hour),
		},
		Lines:       accounting.NewDraftLines(refs.BaseCurrency),
		Version:     1,
		AuditFields: newAuditFields(now, userID),
	}

	if err := s.drafts.SaveDraft(ctx, draft, 0); err != nil {
		logger.Error("Failed to save new draft", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	logger.Info("Draft created", slog.String("draft_id", draft.DraftID))
	return s.project(draft, refs), nil
}

// HydrateDraft loads a stored entry into a new draft that will update it on submit.
func (s *draftService) HydrateDraft(ctx context.Context, companyID, entryID, userID string) (*accounting.DraftView, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("company_id", companyID), slog.String("entry_id", entryID))

	entry, err := s.gateway.GetJournalEntry(ctx, companyID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to fetch journal entry", slog.String("error", err.Error()))
		}
		return nil, err
	}

	refs, err := s.references.LoadReferences(ctx, companyID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	draft := domain.JournalDraft{
		DraftID:       uuid.NewString(),
		CompanyID:     companyID,
		OwnerUserID:   userID,
		SourceEntryID: entry.EntryID,
		Header:        entry.Header,
		Lines:         accounting.LinesFromEntry(entry.Lines, refs),
		Version:       1,
		AuditFields:   newAuditFields(now, userID),
	}
	if draft.SourceEntryID == "" {
		draft.SourceEntryID = entryID
	}

	if err := s.drafts.SaveDraft(ctx, draft, 0); err != nil {
		logger.Error("Failed to save hydrated draft", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	logger.Info("Draft hydrated from entry", slog.String("draft_id", draft.DraftID), slog.Int("lines", len(draft.Lines)))
	return s.project(draft, refs), nil
}

func (s *draftService) GetDraft(ctx context.Context, companyID, draftID, userID string) (*accounting.DraftView, error) {
	draft, err := s.loadOwned(ctx, companyID, draftID, userID)
	if err != nil {
		return nil, err
	}
	refs, err := s.references.LoadReferences(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return s.project(*draft, refs), nil
}

func (s *draftService) ListDrafts(ctx context.Context, companyID, userID string, params dto.ListDraftsParams) (*dto.ListDraftsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	drafts, nextToken, err := s.drafts.ListDraftsByOwner(ctx, companyID, userID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list drafts", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}

	return &dto.ListDraftsResponse{
		Drafts: lo.Map(drafts, func(d domain.JournalDraft, _ int) dto.DraftSummaryResponse {
			return dto.ToDraftSummaryResponse(d, accounting.ComputeBalance(d.Lines, s.tolerance))
		}),
		NextToken: nextToken,
	}, nil
}

// ApplyAction reduces the stored draft with action. Edits to one draft are
// applied one at a time, each on the state left by the previous one.
func (s *draftService) ApplyAction(ctx context.Context, companyID, draftID, userID string, action accounting.Action) (*accounting.DraftView, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("draft_id", draftID), slog.String("action", fmt.Sprintf("%T", action)))

	unlock := s.locks.Lock(draftID)
	defer unlock()

	current, err := s.loadOwned(ctx, companyID, draftID, userID)
	if err != nil {
		return nil, err
	}
	refs, err := s.references.LoadReferences(ctx, companyID)
	if err != nil {
		return nil, err
	}

	next, err := accounting.Reduce(*current, action, refs)
	if err != nil {
		logger.Warn("Draft action rejected", slog.String("error", err.Error()))
		return nil, err
	}

	next.Version = current.Version + 1
	next.LastUpdatedAt = s.now().UTC()
	next.LastUpdatedBy = userID

	if err := s.drafts.SaveDraft(ctx, next, current.Version); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Draft changed concurrently", slog.Int64("expected_version", current.Version))
		} else {
			logger.Error("Failed to save draft", slog.String("error", err.Error()))
		}
		return nil, err
	}

	logger.Debug("Draft action applied", slog.Int64("version", next.Version))
	return s.project(next, refs), nil
}

func (s *draftService) DiscardDraft(ctx context.Context, companyID, draftID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("draft_id", draftID))

	unlock := s.locks.Lock(draftID)
	defer unlock()

	draft, err := s.loadOwned(ctx, companyID, draftID, userID)
	if err != nil {
		return err
	}
	if err := s.drafts.DeleteDraft(ctx, draftID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to delete draft", slog.String("error", err.Error()))
		}
		return err
	}

	s.events.Enqueue(userID, EventDraftDiscarded, map[string]any{
		"company_id": companyID,
		"is_edit":    draft.IsEdit(),
		"lines":      len(draft.Lines),
	})
	logger.Info("Draft discarded")
	return nil
}

// SubmitDraft sends the draft to the gateway. Drafts with lines lacking an
// account or that do not balance are refused without calling the gateway.
func (s *draftService) SubmitDraft(ctx context.Context, companyID, draftID, userID string) (*dto.SubmitDraftResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("draft_id", draftID))

	unlock := s.locks.Lock(draftID)
	defer unlock()

	draft, err := s.loadOwned(ctx, companyID, draftID, userID)
	if err != nil {
		return nil, err
	}
	refs, err := s.references.LoadReferences(ctx, companyID)
	if err != nil {
		return nil, err
	}

	lines, balance, err := accounting.PrepareSubmission(draft.Lines, refs, s.tolerance)
	if err != nil {
		logger.Info("Draft submission refused", slog.String("error", err.Error()))
		return nil, err
	}

	input := portsrepo.SaveEntryInput{
		CompanyID: companyID,
		Header:    draft.Header,
		Lines:     lines,
	}

	var entryID string
	if draft.IsEdit() {
		entryID, err = s.gateway.UpdateJournalEntry(ctx, draft.SourceEntryID, input)
	} else {
		entryID, err = s.gateway.CreateJournalEntry(ctx, input)
	}
	if err != nil {
		logger.Error("Gateway failed to save journal entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save journal entry: %w", err)
	}

	if err := s.drafts.DeleteDraft(ctx, draftID); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		// Not fatal: the entry is already stored.
		logger.Warn("Failed to delete submitted draft", slog.String("error", err.Error()))
	}

	s.events.Enqueue(userID, EventEntrySubmitted, map[string]any{
		"company_id": companyID,
		"entry_id":   entryID,
		"is_edit":    draft.IsEdit(),
		"lines":      len(lines),
		"total":      balance.TotalDebit.StringFixed(2),
	})
	logger.Info("Journal entry submitted", slog.String("entry_id", entryID), slog.Bool("is_edit", draft.IsEdit()))

	return &dto.SubmitDraftResponse{EntryID: entryID, Updated: draft.IsEdit()}, nil
}

// loadOwned returns the draft if it belongs to userID in companyID. Drafts of
// other users are reported as missing.
func (s *draftService) loadOwned(ctx context.Context, companyID, draftID, userID string) (*domain.JournalDraft, error) {
	draft, err := s.drafts.FindDraftByID(ctx, draftID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find draft", slog.String("draft_id", draftID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	if draft.CompanyID != companyID || draft.OwnerUserID != userID {
		return nil, fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, draftID)
	}
	return draft, nil
}

func (s *draftService) project(draft domain.JournalDraft, refs accounting.References) *accounting.DraftView {
	view := accounting.Project(draft, refs, s.tolerance)
	return &view
}

func newAuditFields(now time.Time, userID string) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
