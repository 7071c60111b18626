package accounting

import "github.com/SscSPs/journal_draft_app/internal/core/domain"

// UnitPrice returns amount / quantity at 4-decimal precision for lines on
// material accounts. It reports false (and an empty string, never "0") when
// the account does not track quantities or the quantity is zero, absent or
// unparseable. The value is display-only.
func UnitPrice(line domain.EntryLine, refs References) (string, bool) {
	if !refs.IsMaterial(line.AccountID) {
		return "", false
	}
	qty, ok := ParseAmount(line.MaterialQuantity)
	if !ok || qty.IsZero() {
		return "", false
	}
	amount, _ := ParseAmount(line.Amount)
	return amount.Div(qty).StringFixed(4), true
}
