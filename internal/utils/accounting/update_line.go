package accounting

import (
	"fmt"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
)

var (
	ErrLineIndexOutOfRange = fmt.Errorf("%w: line index out of range", apperrors.ErrValidation)
	ErrInvalidSide         = fmt.Errorf("%w: line side must be debit or credit", apperrors.ErrValidation)
)

// UpdateLine applies a single field edit to lines[index] and recomputes the
// fields that depend on it. The input slice is not modified; the returned
// slice differs from it in exactly that one line.
//
// Numeric input is never rejected: unparseable text is kept verbatim and
// counts as zero wherever a value is computed from it.
func UpdateLine(lines []domain.EntryLine, index int, field domain.LineField, value string, refs References) ([]domain.EntryLine, error) {
	if index < 0 || index >= len(lines) {
		return nil, fmt.Errorf("%w: %d (draft has %d lines)", ErrLineIndexOutOfRange, index, len(lines))
	}
	if _, err := domain.ParseLineField(string(field)); err != nil {
		return nil, err
	}

	previous := lines[index]
	line, err := setField(previous, field, value)
	if err != nil {
		return nil, err
	}
	line = derive(previous, line, field, refs)

	out := make([]domain.EntryLine, len(lines))
	copy(out, lines)
	out[index] = line
	return out, nil
}

func setField(line domain.EntryLine, field domain.LineField, value string) (domain.EntryLine, error) {
	switch field {
	case domain.FieldAccountID:
		line.AccountID = value
	case domain.FieldSide:
		side, err := domain.ParseSide(value)
		if err != nil {
			return line, fmt.Errorf("%w: %q", ErrInvalidSide, value)
		}
		line.Side = side
	case domain.FieldAmount:
		line.Amount = value
	case domain.FieldCurrencyCode:
		line.CurrencyCode = value
	case domain.FieldCurrencyAmount:
		line.CurrencyAmount = value
	case domain.FieldExchangeRate:
		line.ExchangeRate = value
	case domain.FieldMaterialQuantity:
		line.MaterialQuantity = value
	case domain.FieldUnitOfMeasure:
		line.UnitOfMeasure = value
	case domain.FieldDescription:
		line.Description = value
	default:
		return line, fmt.Errorf("%w: unhandled line field %q", apperrors.ErrValidation, field)
	}
	return line, nil
}

// derive recomputes the dependent fields of line after field was edited.
func derive(previous, line domain.EntryLine, field domain.LineField, refs References) domain.EntryLine {
	if field == domain.FieldAccountID && line.AccountID != previous.AccountID {
		// Unit semantics changed; the operator re-enters the quantity.
		line.MaterialQuantity = ""
		line.UnitOfMeasure = ""
		if acc, ok := refs.Account(line.AccountID); ok {
			line.UnitOfMeasure = acc.DefaultUnit
		}
	}

	if !refs.IsMaterial(line.AccountID) {
		line.MaterialQuantity = ""
	}

	if !refs.IsForeign(line) {
		line.ExchangeRate = "1"
		line.CurrencyAmount = ""
		return line
	}

	// Direct edits to amount are a manual override and are kept verbatim.
	if field == domain.FieldCurrencyAmount || field == domain.FieldExchangeRate {
		line.Amount = DeriveBaseAmount(line.CurrencyAmount, line.ExchangeRate)
	}
	return line
}
