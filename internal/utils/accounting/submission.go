package accounting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrDraftUnbalanced    = errors.New("journal draft does not balance")
	ErrLineMissingAccount = errors.New("journal draft line has no account")
)

// UnbalancedError reports which side is short and by how much.
type UnbalancedError struct {
	Balance Balance
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%s: %s side is short by %s (debit %s, credit %s)",
		ErrDraftUnbalanced,
		strings.ToLower(string(e.Balance.ShortSide)),
		e.Balance.Difference.StringFixed(2),
		e.Balance.TotalDebit.StringFixed(2),
		e.Balance.TotalCredit.StringFixed(2))
}

func (e *UnbalancedError) Unwrap() error { return ErrDraftUnbalanced }

// MissingAccountError lists the 1-based numbers of lines without an account.
type MissingAccountError struct {
	LineNumbers []int
}

func (e *MissingAccountError) Error() string {
	nums := make([]string, len(e.LineNumbers))
	for i, n := range e.LineNumbers {
		nums[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("%s: line(s) %s", ErrLineMissingAccount, strings.Join(nums, ", "))
}

func (e *MissingAccountError) Unwrap() error { return ErrLineMissingAccount }

// SubmissionLine is a fully resolved line as sent to the gateway. Exactly one
// of DebitAmount and CreditAmount is non-zero for a non-zero line.
type SubmissionLine struct {
	AccountID      string
	DebitAmount    decimal.Decimal
	CreditAmount   decimal.Decimal
	CurrencyCode   string           // Set for foreign-currency lines only
	CurrencyAmount *decimal.Decimal // Set for foreign-currency lines only
	ExchangeRate   *decimal.Decimal // Set for foreign-currency lines only
	Quantity       *decimal.Decimal // Set for material lines with a quantity
	UnitOfMeasure  string
	Description    string
}

// PrepareSubmission is the gate in front of the save mutation. It refuses
// drafts with lines lacking an account and drafts that do not balance, so
// no request is made for them.
func PrepareSubmission(lines []domain.EntryLine, refs References, tolerance decimal.Decimal) ([]SubmissionLine, Balance, error) {
	balance := ComputeBalance(lines, tolerance)

	var missing []int
	for i, line := range lines {
		if strings.TrimSpace(line.AccountID) == "" {
			missing = append(missing, i+1)
		}
	}
	if len(missing) > 0 {
		return nil, balance, &MissingAccountError{LineNumbers: missing}
	}
	for i, line := range lines {
		if line.Side != domain.Debit && line.Side != domain.Credit {
			return nil, balance, fmt.Errorf("%w: line %d has side %q", ErrInvalidSide, i+1, line.Side)
		}
	}
	if !balance.IsBalanced {
		return nil, balance, &UnbalancedError{Balance: balance}
	}

	out := make([]SubmissionLine, len(lines))
	for i, line := range lines {
		amount, _ := ParseAmount(line.Amount)
		sl := SubmissionLine{
			AccountID:    line.AccountID,
			DebitAmount:  decimal.Zero,
			CreditAmount: decimal.Zero,
			Description:  line.Description,
		}
		switch line.Side {
		case domain.Debit:
			sl.DebitAmount = amount
		case domain.Credit:
			sl.CreditAmount = amount
		}

		if refs.IsForeign(line) {
			ca, _ := ParseAmount(line.CurrencyAmount)
			rate, _ := ParseAmount(line.ExchangeRate)
			sl.CurrencyCode = strings.ToUpper(strings.TrimSpace(line.CurrencyCode))
			sl.CurrencyAmount = &ca
			sl.ExchangeRate = &rate
		}

		if refs.IsMaterial(line.AccountID) {
			if qty, ok := ParseAmount(line.MaterialQuantity); ok {
				sl.Quantity = &qty
			}
			sl.UnitOfMeasure = line.UnitOfMeasure
		}
		out[i] = sl
	}
	return out, balance, nil
}
