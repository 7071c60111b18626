package accounting_test

import (
	"testing"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRefs() accounting.References {
	return accounting.NewReferences("BGN", []domain.Account{
		{AccountID: "cash", Code: "501", Name: "Каса", IsActive: true},
		{AccountID: "bank", Code: "503", Name: "Разплащателна сметка", IsActive: true},
		{AccountID: "goods", Code: "304", Name: "Стоки", SupportsQuantity: true, DefaultUnit: "kg", IsActive: true},
		{AccountID: "materials", Code: "302", Name: "Материали", SupportsQuantity: true, DefaultUnit: "бр", IsActive: true},
	})
}

func mustUpdate(t *testing.T, lines []domain.EntryLine, index int, field domain.LineField, value string) []domain.EntryLine {
	t.Helper()
	out, err := accounting.UpdateLine(lines, index, field, value, testRefs())
	require.NoError(t, err)
	return out
}

func TestUpdateLine_ForeignCurrencyDerivesAmount(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")

	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "USD")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "50")
	assert.Equal(t, "50.00", lines[0].Amount)

	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1.08")
	assert.Equal(t, "54.00", lines[0].Amount)
	assert.Equal(t, "50", lines[0].CurrencyAmount)
	assert.Equal(t, "1.08", lines[0].ExchangeRate)
}

func TestUpdateLine_DerivedAmountIsRoundedToCents(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "EUR")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "10.005")
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1.95583")

	// 10.005 * 1.95583 = 19.56807915
	assert.Equal(t, "19.57", lines[0].Amount)
}

func TestUpdateLine_ManualAmountOverrideIsKept(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "USD")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "50")
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1.08")

	lines = mustUpdate(t, lines, 0, domain.FieldAmount, "54.10")
	assert.Equal(t, "54.10", lines[0].Amount)

	lines = mustUpdate(t, lines, 0, domain.FieldDescription, "fx fee included")
	assert.Equal(t, "54.10", lines[0].Amount, "only currencyAmount/exchangeRate edits rewrite amount")
}

func TestUpdateLine_BaseCurrencyPinsRate(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "USD")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "50")
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1.8")

	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "BGN")
	assert.Equal(t, "1", lines[0].ExchangeRate)
	assert.Empty(t, lines[0].CurrencyAmount)
	assert.Equal(t, "90.00", lines[0].Amount, "amount stays as last derived")

	// Foreign-currency fields are inert on a base-currency line.
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "2")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "7")
	assert.Equal(t, "1", lines[0].ExchangeRate)
	assert.Empty(t, lines[0].CurrencyAmount)
	assert.Equal(t, "90.00", lines[0].Amount)
}

func TestUpdateLine_BaseCurrencyComparisonIgnoresCase(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 1, domain.FieldCurrencyCode, "bgn")
	lines = mustUpdate(t, lines, 1, domain.FieldCurrencyAmount, "12")
	assert.Empty(t, lines[1].CurrencyAmount)
	assert.Equal(t, "1", lines[1].ExchangeRate)
}

func TestUpdateLine_UnparseableInputIsPreserved(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "USD")
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1.1")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "12abc")

	assert.Equal(t, "12abc", lines[0].CurrencyAmount)
	assert.Equal(t, "0.00", lines[0].Amount)

	lines = mustUpdate(t, lines, 0, domain.FieldAmount, "not a number")
	assert.Equal(t, "not a number", lines[0].Amount)
}

func TestUpdateLine_DecimalComma(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "EUR")
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1,95583")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "100,00")
	assert.Equal(t, "195.58", lines[0].Amount)
}

func TestUpdateLine_AccountChangeResetsUnitAndQuantity(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "goods")
	assert.Equal(t, "kg", lines[0].UnitOfMeasure)

	lines = mustUpdate(t, lines, 0, domain.FieldMaterialQuantity, "4")
	lines = mustUpdate(t, lines, 0, domain.FieldUnitOfMeasure, "t")
	assert.Equal(t, "4", lines[0].MaterialQuantity)

	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "materials")
	assert.Equal(t, "бр", lines[0].UnitOfMeasure)
	assert.Empty(t, lines[0].MaterialQuantity, "quantity of the previous account must not carry over")
}

func TestUpdateLine_NonMaterialAccountClearsQuantity(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "goods")
	lines = mustUpdate(t, lines, 0, domain.FieldMaterialQuantity, "4")

	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "cash")
	assert.Empty(t, lines[0].MaterialQuantity)
	assert.Empty(t, lines[0].UnitOfMeasure)

	// Disabled: entering a quantity on a non-material line has no effect.
	lines = mustUpdate(t, lines, 0, domain.FieldMaterialQuantity, "9")
	assert.Empty(t, lines[0].MaterialQuantity)

	// Switching back does not resurrect the old value.
	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "goods")
	assert.Empty(t, lines[0].MaterialQuantity)
	assert.Equal(t, "kg", lines[0].UnitOfMeasure)
}

func TestUpdateLine_ReselectingSameAccountKeepsQuantity(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "goods")
	lines = mustUpdate(t, lines, 0, domain.FieldMaterialQuantity, "3")

	again := mustUpdate(t, lines, 0, domain.FieldAccountID, "goods")
	assert.Equal(t, lines, again)
}

func TestUpdateLine_Idempotent(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldAccountID, "goods")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "USD")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "50")
	lines = mustUpdate(t, lines, 0, domain.FieldExchangeRate, "1.08")
	lines = mustUpdate(t, lines, 0, domain.FieldMaterialQuantity, "2")

	fields := []domain.LineField{
		domain.FieldAccountID, domain.FieldSide, domain.FieldAmount, domain.FieldCurrencyCode,
		domain.FieldCurrencyAmount, domain.FieldExchangeRate, domain.FieldMaterialQuantity,
		domain.FieldUnitOfMeasure, domain.FieldDescription,
	}
	for _, f := range fields {
		t.Run(string(f), func(t *testing.T) {
			once := mustUpdate(t, lines, 0, f, lines[0].Get(f))
			twice := mustUpdate(t, once, 0, f, once[0].Get(f))
			assert.Equal(t, lines, once)
			assert.Equal(t, once, twice)
		})
	}
}

func TestUpdateLine_LeavesOtherLinesAndInputUntouched(t *testing.T) {
	lines := []domain.EntryLine{
		{AccountID: "cash", Side: domain.Debit, Amount: "10", CurrencyCode: "BGN", ExchangeRate: "1"},
		{AccountID: "bank", Side: domain.Credit, Amount: "10", CurrencyCode: "BGN", ExchangeRate: "1"},
		{AccountID: "bank", Side: domain.Credit, Amount: "0", CurrencyCode: "BGN", ExchangeRate: "1"},
	}
	snapshot := append([]domain.EntryLine(nil), lines...)

	out := mustUpdate(t, lines, 1, domain.FieldAmount, "7")

	assert.Equal(t, snapshot, lines, "input must not be mutated")
	assert.Equal(t, "7", out[1].Amount)
	assert.Equal(t, lines[0], out[0])
	assert.Equal(t, lines[2], out[2])
}

func TestUpdateLine_Side(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldSide, "credit")
	assert.Equal(t, domain.Credit, lines[0].Side)

	_, err := accounting.UpdateLine(lines, 0, domain.FieldSide, "both", testRefs())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.ErrorIs(t, err, accounting.ErrInvalidSide)
}

func TestUpdateLine_InvalidArguments(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")

	_, err := accounting.UpdateLine(lines, 2, domain.FieldAmount, "1", testRefs())
	assert.ErrorIs(t, err, accounting.ErrLineIndexOutOfRange)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = accounting.UpdateLine(lines, -1, domain.FieldAmount, "1", testRefs())
	assert.ErrorIs(t, err, accounting.ErrLineIndexOutOfRange)

	_, err = accounting.UpdateLine(lines, 0, domain.LineField("debitAmount"), "1", testRefs())
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "100", want: "100", wantOK: true},
		{in: " 12.5 ", want: "12.5", wantOK: true},
		{in: "12,5", want: "12.5", wantOK: true},
		{in: "1 000,50", want: "1000.5", wantOK: true},
		{in: "1,000.50", want: "1000.5", wantOK: true},
		{in: "-3.10", want: "-3.1", wantOK: true},
		{in: "", want: "0", wantOK: false},
		{in: "abc", want: "0", wantOK: false},
		{in: "1.2.3", want: "0", wantOK: false},
		{in: "1.234,56", want: "1234.56", wantOK: true},
		{in: "1.234.567,89", want: "1234567.89", wantOK: true},
		{in: "1,234,567.89", want: "1234567.89", wantOK: true},
		{in: "+7", want: "7", wantOK: true},
		{in: "1e3", want: "0", wantOK: false},
		{in: "1E-2", want: "0", wantOK: false},
		{in: "1e3000000", want: "0", wantOK: false},
		{in: "5-", want: "0", wantOK: false},
		{in: "123456789012345678901234567890123", want: "0", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := accounting.ParseAmount(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestUpdateLine_ExponentInputIsNotDerived(t *testing.T) {
	lines := accounting.NewDraftLines("BGN")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyCode, "USD")
	lines = mustUpdate(t, lines, 0, domain.FieldCurrencyAmount, "1e3000000")

	assert.Equal(t, "1e3000000", lines[0].CurrencyAmount, "raw text is kept")
	assert.Equal(t, "0.00", lines[0].Amount)

	balance := accounting.ComputeBalance(lines, accounting.DefaultBalanceTolerance)
	assert.True(t, balance.TotalDebit.IsZero())
}
