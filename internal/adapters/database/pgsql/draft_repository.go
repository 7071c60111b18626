package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/SscSPs/journal_draft_app/internal/models"
	"github.com/SscSPs/journal_draft_app/internal/utils/mapping"
	"github.com/SscSPs/journal_draft_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const draftColumns = `draft_id, company_id, owner_user_id, source_entry_id, header, lines, version,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDraftRepository struct {
	BaseRepository
}

// NewDraftRepository creates a new repository for journal drafts.
func NewDraftRepository(pool *pgxpool.Pool) *PgxDraftRepository {
	return &PgxDraftRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxDraftRepository implements the draft repository ports
var (
	_ portsrepo.DraftRepositoryWithTx = (*PgxDraftRepository)(nil)
	_ portsrepo.DraftPurger           = (*PgxDraftRepository)(nil)
)

func scanDraft(row pgx.Row) (models.JournalDraft, error) {
	var m models.JournalDraft
	err := row.Scan(
		&m.DraftID,
		&m.CompanyID,
		&m.OwnerUserID,
		&m.SourceEntryID,
		&m.Header,
		&m.Lines,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindDraftByID retrieves a draft by its ID.
func (r *PgxDraftRepository) FindDraftByID(ctx context.Context, draftID string) (*domain.JournalDraft, error) {
	query := `SELECT ` + draftColumns + ` FROM journal_drafts WHERE draft_id = $1;`

	m, err := scanDraft(r.Pool.QueryRow(ctx, query, draftID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, draftID)
		}
		return nil, fmt.Errorf("failed to find draft by ID %s: %w", draftID, err)
	}

	draft, err := mapping.ToDomainJournalDraft(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "stored draft is unreadable", err)
	}
	return &draft, nil
}

// ListDraftsByOwner retrieves a page of a user's drafts, most recently updated first.
func (r *PgxDraftRepository) ListDraftsByOwner(ctx context.Context, companyID, ownerUserID string, limit int, nextToken *string) ([]domain.JournalDraft, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + draftColumns + ` FROM journal_drafts WHERE company_id = $1 AND owner_user_id = $2`
	args := []any{companyID, ownerUserID}

	if nextToken != nil && *nextToken != "" {
		lastUpdatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		// Tuple comparison keeps the ordering stable across pages
		query += ` AND (last_updated_at, draft_id) < ($3, $4)`
		args = append(args, lastUpdatedAt, lastID)
	}
	query += ` ORDER BY last_updated_at DESC, draft_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query drafts for company "+companyID, err)
	}
	defer rows.Close()

	drafts := make([]domain.JournalDraft, 0, fetchLimit)
	for rows.Next() {
		m, err := scanDraft(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan draft row", err)
		}
		d, err := mapping.ToDomainJournalDraft(m)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "stored draft is unreadable", err)
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating draft rows", err)
	}

	var nextTokenVal *string
	if len(drafts) > limit {
		last := drafts[limit-1]
		token := pagination.EncodeToken(last.LastUpdatedAt, last.DraftID)
		nextTokenVal = &token
		drafts = drafts[:limit]
	}
	return drafts, nextTokenVal, nil
}

// SaveDraft inserts a new draft (expectedVersion 0) or replaces the stored
// one if its version still equals expectedVersion.
func (r *PgxDraftRepository) SaveDraft(ctx context.Context, draft domain.JournalDraft, expectedVersion int64) error {
	m, err := mapping.ToModelJournalDraft(draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode draft", err)
	}

	if expectedVersion == 0 {
		return r.insertDraft(ctx, m)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	var storedVersion int64
	err = tx.QueryRow(ctx, `SELECT version FROM journal_drafts WHERE draft_id = $1 FOR UPDATE;`, m.DraftID).Scan(&storedVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, m.DraftID)
		}
		return apperrors.NewAppError(500, "failed to lock draft "+m.DraftID, err)
	}
	if storedVersion != expectedVersion {
		return fmt.Errorf("%w: draft %s is at version %d, expected %d", apperrors.ErrConflict, m.DraftID, storedVersion, expectedVersion)
	}

	_, err = tx.Exec(ctx, `
		UPDATE journal_drafts
		SET header = $2, lines = $3, version = $4, last_updated_at = $5, last_updated_by = $6
		WHERE draft_id = $1;`,
		m.DraftID, m.Header, m.Lines, m.Version, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update draft "+m.DraftID, err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDraftRepository) insertDraft(ctx context.Context, m models.JournalDraft) error {
	query := `INSERT INTO journal_drafts (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err := r.Pool.Exec(ctx, query,
		m.DraftID,
		m.CompanyID,
		m.OwnerUserID,
		m.SourceEntryID,
		m.Header,
		m.Lines,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: draft %s already exists", apperrors.ErrDuplicate, m.DraftID)
		}
		return fmt.Errorf("failed to save draft %s: %w", m.DraftID, err)
	}
	return nil
}

// DeleteDraft removes a draft.
func (r *PgxDraftRepository) DeleteDraft(ctx context.Context, draftID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM journal_drafts WHERE draft_id = $1;`, draftID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete draft "+draftID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: draft %s", apperrors.ErrNotFound, draftID)
	}
	return nil
}

// PurgeIdleDrafts deletes drafts not updated since before cutoff.
func (r *PgxDraftRepository) PurgeIdleDrafts(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM journal_drafts WHERE last_updated_at < $1;`, cutoff)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to purge idle drafts", err)
	}
	return tag.RowsAffected(), nil
}
