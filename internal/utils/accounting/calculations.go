package accounting

import (
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultBalanceTolerance absorbs cent-level rounding noise from currency
// conversion.
var DefaultBalanceTolerance = decimal.New(1, -2)

// Balance is the debit/credit summary of a set of lines.
type Balance struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Difference  decimal.Decimal `json:"difference"` // |TotalDebit - TotalCredit|
	IsBalanced  bool            `json:"isBalanced"`
	ShortSide   domain.Side     `json:"shortSide,omitempty"` // Side with the smaller total; empty when balanced
}

// ComputeBalance sums line amounts per side. The draft is balanced when the
// absolute difference is strictly less than tolerance; a non-positive
// tolerance falls back to DefaultBalanceTolerance. It does not modify lines.
func ComputeBalance(lines []domain.EntryLine, tolerance decimal.Decimal) Balance {
	if !tolerance.IsPositive() {
		tolerance = DefaultBalanceTolerance
	}

	debitsSum := decimal.Zero
	creditsSum := decimal.Zero
	for _, line := range lines {
		amount, _ := ParseAmount(line.Amount)
		switch line.Side {
		case domain.Debit:
			debitsSum = debitsSum.Add(amount)
		case domain.Credit:
			creditsSum = creditsSum.Add(amount)
		}
	}

	diff := debitsSum.Sub(creditsSum).Abs()
	b := Balance{
		TotalDebit:  debitsSum,
		TotalCredit: creditsSum,
		Difference:  diff,
		IsBalanced:  diff.LessThan(tolerance),
	}
	if !b.IsBalanced {
		if debitsSum.LessThan(creditsSum) {
			b.ShortSide = domain.Debit
		} else {
			b.ShortSide = domain.Credit
		}
	}
	return b
}
