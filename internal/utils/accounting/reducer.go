package accounting

import (
	"fmt"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
)

// MinDraftLines is the number of lines below which a line cannot be removed.
const MinDraftLines = 2

var ErrTooFewLines = fmt.Errorf("%w: a journal entry needs at least %d lines", apperrors.ErrValidation, MinDraftLines)

// Action is an edit applied to a draft by Reduce.
type Action interface {
	isAction()
}

// UpdateLineAction edits one field of one line.
type UpdateLineAction struct {
	Index int
	Field domain.LineField
	Value string
}

// AddLineAction appends a blank line on Side.
type AddLineAction struct {
	Side domain.Side
}

// RemoveLineAction deletes the line at Index.
type RemoveLineAction struct {
	Index int
}

// SetHeaderAction replaces the entry-level metadata.
type SetHeaderAction struct {
	Header domain.DraftHeader
}

func (UpdateLineAction) isAction() {}
func (AddLineAction) isAction()    {}
func (RemoveLineAction) isAction() {}
func (SetHeaderAction) isAction()  {}

// BlankLine returns an empty line on side in base currency.
func BlankLine(side domain.Side, baseCurrency string) domain.EntryLine {
	return domain.EntryLine{
		Side:         side,
		CurrencyCode: baseCurrency,
		ExchangeRate: "1",
	}
}

// NewDraftLines returns the lines of a new entry: one blank debit and one
// blank credit line.
func NewDraftLines(baseCurrency string) []domain.EntryLine {
	return []domain.EntryLine{
		BlankLine(domain.Debit, baseCurrency),
		BlankLine(domain.Credit, baseCurrency),
	}
}

// Reduce applies action to draft and returns the new draft. The input draft
// is left untouched.
func Reduce(draft domain.JournalDraft, action Action, refs References) (domain.JournalDraft, error) {
	next := draft.Clone()

	switch a := action.(type) {
	case UpdateLineAction:
		lines, err := UpdateLine(draft.Lines, a.Index, a.Field, a.Value, refs)
		if err != nil {
			return draft, err
		}
		next.Lines = lines

	case AddLineAction:
		side, err := domain.ParseSide(string(a.Side))
		if err != nil {
			return draft, err
		}
		next.Lines = append(next.Lines, BlankLine(side, refs.BaseCurrency))

	case RemoveLineAction:
		if a.Index < 0 || a.Index >= len(draft.Lines) {
			return draft, fmt.Errorf("%w: %d (draft has %d lines)", ErrLineIndexOutOfRange, a.Index, len(draft.Lines))
		}
		if len(draft.Lines) <= MinDraftLines {
			return draft, ErrTooFewLines
		}
		next.Lines = append(next.Lines[:a.Index], next.Lines[a.Index+1:]...)

	case SetHeaderAction:
		next.Header = a.Header
		if a.Header.VAT != nil {
			vat := *a.Header.VAT
			next.Header.VAT = &vat
		}

	default:
		return draft, fmt.Errorf("%w: unsupported draft action %T", apperrors.ErrValidation, action)
	}

	return next, nil
}
