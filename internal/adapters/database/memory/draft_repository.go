// Package memory holds an in-process draft store used when no database is
// configured. Drafts idle for longer than the configured TTL are evicted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/SscSPs/journal_draft_app/internal/utils/pagination"
	"github.com/patrickmn/go-cache"
	"github.com/samber/lo"
)

const defaultCleanupInterval = 10 * time.Minute

type DraftRepository struct {
	mu    sync.Mutex // Guards compare-and-set in SaveDraft
	items *cache.Cache
	ttl   time.Duration
}

var _ portsrepo.DraftRepositoryFacade = (*DraftRepository)(nil)

// NewDraftRepository creates an in-memory draft store. A non-positive idleTTL
// keeps drafts until they are deleted.
func NewDraftRepository(idleTTL time.Duration) *DraftRepository {
	ttl := idleTTL
	cleanup := defaultCleanupInterval
	if ttl <= 0 {
		ttl = cache.NoExpiration
		cleanup = 0
	}
	return &DraftRepository{
		items: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// FindDraftByID returns a copy of the draft and restarts its idle timer.
func (r *DraftRepository) FindDraftByID(_ context.Context, draftID string) (*domain.JournalDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items.Get(draftID)
	if !ok {
		return nil, fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, draftID)
	}
	draft := v.(domain.JournalDraft)
	r.items.Set(draftID, draft, r.ttl)

	out := draft.Clone()
	return &out, nil
}

func (r *DraftRepository) ListDraftsByOwner(_ context.Context, companyID, ownerUserID string, limit int, nextToken *string) ([]domain.JournalDraft, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		cursorAt  time.Time
		cursorID  string
		hasCursor bool
	)
	if nextToken != nil && *nextToken != "" {
		at, id, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursorAt, cursorID, hasCursor = at, id, true
	}

	all := lo.MapToSlice(r.items.Items(), func(_ string, item cache.Item) domain.JournalDraft {
		return item.Object.(domain.JournalDraft)
	})
	drafts := lo.Filter(all, func(d domain.JournalDraft, _ int) bool {
		if d.CompanyID != companyID || d.OwnerUserID != ownerUserID {
			return false
		}
		return !hasCursor || pagination.After(d.LastUpdatedAt, d.DraftID, cursorAt, cursorID)
	})
	sort.Slice(drafts, func(i, j int) bool {
		return pagination.After(drafts[j].LastUpdatedAt, drafts[j].DraftID, drafts[i].LastUpdatedAt, drafts[i].DraftID)
	})

	var next *string
	if len(drafts) > limit {
		last := drafts[limit-1]
		token := pagination.EncodeToken(last.LastUpdatedAt, last.DraftID)
		next = &token
		drafts = drafts[:limit]
	}
	return lo.Map(drafts, func(d domain.JournalDraft, _ int) domain.JournalDraft { return d.Clone() }), next, nil
}

func (r *DraftRepository) SaveDraft(_ context.Context, draft domain.JournalDraft, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.items.Get(draft.DraftID)
	switch {
	case expectedVersion == 0 && exists:
		return fmt.Errorf("%w: draft %s already exists", apperrors.ErrDuplicate, draft.DraftID)
	case expectedVersion != 0 && !exists:
		return fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, draft.DraftID)
	case expectedVersion != 0:
		if stored := v.(domain.JournalDraft).Version; stored != expectedVersion {
			return fmt.Errorf("%w: draft %s is at version %d, expected %d", apperrors.ErrConflict, draft.DraftID, stored, expectedVersion)
		}
	}

	r.items.Set(draft.DraftID, draft.Clone(), r.ttl)
	return nil
}

func (r *DraftRepository) DeleteDraft(_ context.Context, draftID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items.Get(draftID); !ok {
		return fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, draftID)
	}
	r.items.Delete(draftID)
	return nil
}
