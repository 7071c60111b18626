package models

import "time"

// AuditFields holds standard audit columns.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}

// JournalDraft is the row stored in journal_drafts. Header and lines are
// kept as JSONB documents; the draft is only ever read and written whole.
type JournalDraft struct {
	DraftID       string  `db:"draft_id"`
	CompanyID     string  `db:"company_id"`
	OwnerUserID   string  `db:"owner_user_id"`
	SourceEntryID *string `db:"source_entry_id"` // Nullable: set for drafts editing an existing entry
	Header        []byte  `db:"header"`
	Lines         []byte  `db:"lines"`
	Version       int64   `db:"version"`
	AuditFields
}
