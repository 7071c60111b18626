package accounting_test

import (
	"testing"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraft() domain.JournalDraft {
	return domain.JournalDraft{
		DraftID:   "draft-1",
		CompanyID: "company-1",
		Lines:     accounting.NewDraftLines("BGN"),
	}
}

func TestNewDraftLines(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	require.Len(t, lines, 2)
	assert.Equal(t, domain.Debit, lines[0].Side)
	assert.Equal(t, domain.Credit, lines[1].Side)
	for _, l := range lines {
		assert.Equal(t, "BGN", l.CurrencyCode)
		assert.Equal(t, "1", l.ExchangeRate)
		assert.Empty(t, l.AccountID)
		assert.Empty(t, l.Amount)
	}
}

func TestReduce_UpdateLine(t *testing.T) {
	draft := newDraft()

	next, err := accounting.Reduce(draft, accounting.UpdateLineAction{Index: 0, Field: domain.FieldAccountID, Value: "goods"}, testRefs())
	require.NoError(t, err)

	assert.Equal(t, "goods", next.Lines[0].AccountID)
	assert.Equal(t, "kg", next.Lines[0].UnitOfMeasure)
	assert.Empty(t, draft.Lines[0].AccountID, "input draft must not change")
}

func TestReduce_UpdateLineError(t *testing.T) {
	draft := newDraft()
	same, err := accounting.Reduce(draft, accounting.UpdateLineAction{Index: 5, Field: domain.FieldAmount, Value: "1"}, testRefs())
	assert.ErrorIs(t, err, accounting.ErrLineIndexOutOfRange)
	assert.Equal(t, draft, same)
}

func TestReduce_AddAndRemoveLines(t *testing.T) {
	draft := newDraft()

	next, err := accounting.Reduce(draft, accounting.AddLineAction{Side: domain.Credit}, testRefs())
	require.NoError(t, err)
	require.Len(t, next.Lines, 3)
	assert.Equal(t, domain.Credit, next.Lines[2].Side)
	assert.Equal(t, "BGN", next.Lines[2].CurrencyCode)
	assert.Len(t, draft.Lines, 2)

	next, err = accounting.Reduce(next, accounting.UpdateLineAction{Index: 2, Field: domain.FieldDescription, Value: "third"}, testRefs())
	require.NoError(t, err)

	removed, err := accounting.Reduce(next, accounting.RemoveLineAction{Index: 1}, testRefs())
	require.NoError(t, err)
	require.Len(t, removed.Lines, 2)
	assert.Equal(t, "third", removed.Lines[1].Description)
	assert.Len(t, next.Lines, 3, "input draft must keep its lines")
	assert.Empty(t, next.Lines[1].Description)

	_, err = accounting.Reduce(removed, accounting.RemoveLineAction{Index: 0}, testRefs())
	assert.ErrorIs(t, err, accounting.ErrTooFewLines)

	_, err = accounting.Reduce(next, accounting.RemoveLineAction{Index: 3}, testRefs())
	assert.ErrorIs(t, err, accounting.ErrLineIndexOutOfRange)
}

func TestReduce_AddLineInvalidSide(t *testing.T) {
	_, err := accounting.Reduce(newDraft(), accounting.AddLineAction{Side: "SIDEWAYS"}, testRefs())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestReduce_SetHeader(t *testing.T) {
	draft := newDraft()
	vat := &domain.VATClassification{DocumentType: domain.DocInvoice, Operation: domain.VATPurchaseFullCredit}
	header := domain.DraftHeader{
		DocumentNumber: "0000012345",
		DocumentDate:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		AccountingDate: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Description:    "Покупка на стоки",
		CounterpartID:  "cp-1",
		VAT:            vat,
	}

	next, err := accounting.Reduce(draft, accounting.SetHeaderAction{Header: header}, testRefs())
	require.NoError(t, err)
	assert.Equal(t, header.DocumentNumber, next.Header.DocumentNumber)
	assert.Equal(t, *vat, *next.Header.VAT)
	assert.Equal(t, draft.Lines, next.Lines)

	vat.Operation = domain.VATPurchaseNoCredit
	assert.Equal(t, domain.VATPurchaseFullCredit, next.Header.VAT.Operation, "header is copied, not aliased")
}

func TestReduce_OrderedEdits(t *testing.T) {
	draft := newDraft()
	actions := []accounting.Action{
		accounting.UpdateLineAction{Index: 0, Field: domain.FieldAccountID, Value: "goods"},
		accounting.UpdateLineAction{Index: 0, Field: domain.FieldCurrencyCode, Value: "USD"},
		accounting.UpdateLineAction{Index: 0, Field: domain.FieldCurrencyAmount, Value: "50"},
		accounting.UpdateLineAction{Index: 0, Field: domain.FieldExchangeRate, Value: "1.08"},
		accounting.UpdateLineAction{Index: 0, Field: domain.FieldMaterialQuantity, Value: "4"},
		accounting.UpdateLineAction{Index: 1, Field: domain.FieldAccountID, Value: "bank"},
		accounting.UpdateLineAction{Index: 1, Field: domain.FieldAmount, Value: "54.00"},
	}

	var err error
	for _, a := range actions {
		draft, err = accounting.Reduce(draft, a, testRefs())
		require.NoError(t, err)
	}

	assert.Equal(t, "54.00", draft.Lines[0].Amount)
	assert.Equal(t, "4", draft.Lines[0].MaterialQuantity)
	price, ok := accounting.UnitPrice(draft.Lines[0], testRefs())
	assert.True(t, ok)
	assert.Equal(t, "13.5000", price)
	assert.True(t, accounting.ComputeBalance(draft.Lines, accounting.DefaultBalanceTolerance).IsBalanced)
}
