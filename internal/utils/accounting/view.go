package accounting

import (
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineView is the read-side projection of a line shown next to it in the
// editor.
type LineView struct {
	Index             int    `json:"index"`
	QuantityEnabled   bool   `json:"quantityEnabled"`
	IsForeignCurrency bool   `json:"isForeignCurrency"`
	UnitPrice         string `json:"unitPrice,omitempty"`
}

// DescribeLines builds a LineView per line.
func DescribeLines(lines []domain.EntryLine, refs References) []LineView {
	views := make([]LineView, len(lines))
	for i, line := range lines {
		price, _ := UnitPrice(line, refs)
		views[i] = LineView{
			Index:             i,
			QuantityEnabled:   refs.IsMaterial(line.AccountID),
			IsForeignCurrency: refs.IsForeign(line),
			UnitPrice:         price,
		}
	}
	return views
}

// DraftView is a draft together with everything derived from it for display.
type DraftView struct {
	Draft        domain.JournalDraft
	BaseCurrency string
	Balance      Balance
	Lines        []LineView
}

// Project derives the DraftView of draft.
func Project(draft domain.JournalDraft, refs References, tolerance decimal.Decimal) DraftView {
	return DraftView{
		Draft:        draft,
		BaseCurrency: refs.BaseCurrency,
		Balance:      ComputeBalance(draft.Lines, tolerance),
		Lines:        DescribeLines(draft.Lines, refs),
	}
}
