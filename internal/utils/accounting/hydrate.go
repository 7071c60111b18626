package accounting

import (
	"strings"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LinesFromEntry turns the lines of a stored entry back into editable lines.
// The side comes from whichever of debit/credit is non-zero. Base-currency
// lines get rate "1" and no currency amount; quantities are kept only on
// material accounts. Entries with fewer than MinDraftLines lines are padded
// with blank lines so the draft can still be edited.
func LinesFromEntry(entryLines []domain.JournalEntryLine, refs References) []domain.EntryLine {
	lines := make([]domain.EntryLine, 0, max(len(entryLines), MinDraftLines))
	for _, el := range entryLines {
		line := domain.EntryLine{
			AccountID:    el.AccountID,
			Side:         el.Side(),
			Amount:       el.Amount().StringFixed(2),
			CurrencyCode: strings.ToUpper(strings.TrimSpace(el.CurrencyCode)),
			Description:  el.Description,
		}
		if line.CurrencyCode == "" {
			line.CurrencyCode = refs.BaseCurrency
		}

		if refs.IsForeign(line) {
			line.CurrencyAmount = decimalText(el.CurrencyAmount)
			line.ExchangeRate = decimalText(el.ExchangeRate)
		} else {
			line.ExchangeRate = "1"
		}

		if refs.IsMaterial(line.AccountID) {
			line.MaterialQuantity = decimalText(el.Quantity)
			line.UnitOfMeasure = el.UnitOfMeasure
		}
		lines = append(lines, line)
	}

	for len(lines) < MinDraftLines {
		side := domain.Debit
		if len(lines) > 0 {
			side = lines[len(lines)-1].Side.Opposite()
		}
		lines = append(lines, BlankLine(side, refs.BaseCurrency))
	}
	return lines
}

func decimalText(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
