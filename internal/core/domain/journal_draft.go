package domain

import "time"

// DraftHeader is entry-level metadata. It is carried through to the
// gateway as-is; nothing is derived from it.
type DraftHeader struct {
	DocumentNumber string             `json:"documentNumber" yaml:"documentNumber"`
	DocumentDate   time.Time          `json:"documentDate" yaml:"documentDate"`
	AccountingDate time.Time          `json:"accountingDate" yaml:"accountingDate"`
	Description    string             `json:"description" yaml:"description"`
	CounterpartID  string             `json:"counterpartId,omitempty" yaml:"counterpartId,omitempty"`
	VAT            *VATClassification `json:"vat,omitempty" yaml:"vat,omitempty"`
}

// JournalDraft is a journal entry being edited. Lines are in display order.
type JournalDraft struct {
	DraftID       string      `json:"draftID" yaml:"draftID"`
	CompanyID     string      `json:"companyID" yaml:"companyID"`
	OwnerUserID   string      `json:"ownerUserID" yaml:"ownerUserID"`
	SourceEntryID string      `json:"sourceEntryID,omitempty" yaml:"sourceEntryID,omitempty"` // Set when editing an existing entry
	Header        DraftHeader `json:"header" yaml:"header"`
	Lines         []EntryLine `json:"lines" yaml:"lines"`
	Version       int64       `json:"version" yaml:"version"`
	AuditFields   `yaml:",inline"`
}

// Clone returns a copy that shares no mutable state with d.
func (d JournalDraft) Clone() JournalDraft {
	out := d
	out.Lines = append([]EntryLine(nil), d.Lines...)
	if d.Header.VAT != nil {
		vat := *d.Header.VAT
		out.Header.VAT = &vat
	}
	return out
}

// IsEdit reports whether the draft edits an already existing entry.
func (d JournalDraft) IsEdit() bool {
	return d.SourceEntryID != ""
}
