package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/models"
)

// ToModelJournalDraft converts a domain JournalDraft to a model JournalDraft
func ToModelJournalDraft(d domain.JournalDraft) (models.JournalDraft, error) {
	header, err := json.Marshal(d.Header)
	if err != nil {
		return models.JournalDraft{}, fmt.Errorf("failed to encode draft header: %w", err)
	}
	lines := d.Lines
	if lines == nil {
		lines = []domain.EntryLine{}
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return models.JournalDraft{}, fmt.Errorf("failed to encode draft lines: %w", err)
	}

	var sourceEntryID *string
	if d.SourceEntryID != "" {
		id := d.SourceEntryID
		sourceEntryID = &id
	}

	return models.JournalDraft{
		DraftID:       d.DraftID,
		CompanyID:     d.CompanyID,
		OwnerUserID:   d.OwnerUserID,
		SourceEntryID: sourceEntryID,
		Header:        header,
		Lines:         linesJSON,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainJournalDraft converts a model JournalDraft to a domain JournalDraft
func ToDomainJournalDraft(m models.JournalDraft) (domain.JournalDraft, error) {
	d := domain.JournalDraft{
		DraftID:     m.DraftID,
		CompanyID:   m.CompanyID,
		OwnerUserID: m.OwnerUserID,
		Version:     m.Version,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceEntryID != nil {
		d.SourceEntryID = *m.SourceEntryID
	}
	if len(m.Header) > 0 {
		if err := json.Unmarshal(m.Header, &d.Header); err != nil {
			return domain.JournalDraft{}, fmt.Errorf("failed to decode header of draft %s: %w", m.DraftID, err)
		}
	}
	if err := json.Unmarshal(m.Lines, &d.Lines); err != nil {
		return domain.JournalDraft{}, fmt.Errorf("failed to decode lines of draft %s: %w", m.DraftID, err)
	}
	return d, nil
}
