package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/samber/lo"
)

// DateLayout is the wire format of header dates.
const DateLayout = "2006-01-02"

// UpdateLineRequest sets one field of one line to the raw text the user typed.
type UpdateLineRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"max=1024"`
}

// AddLineRequest appends a blank line on the given side.
type AddLineRequest struct {
	Side domain.Side `json:"side" binding:"required,side"`
}

// SetHeaderRequest replaces the entry-level metadata of a draft.
type SetHeaderRequest struct {
	DocumentNumber string `json:"documentNumber" binding:"max=64"`
	DocumentDate   string `json:"documentDate" binding:"omitempty,datetime=2006-01-02"`
	AccountingDate string `json:"accountingDate" binding:"required,datetime=2006-01-02"`
	Description    string `json:"description" binding:"max=512"`
	CounterpartID  string `json:"counterpartID"`
	DocumentType   string `json:"documentType" binding:"omitempty,oneof=01 02 03 07 09 81"`
	VATOperation   string `json:"vatOperation"`
}

// ToDomainHeader converts the request into a domain.DraftHeader. Dates and
// codes are validated again here since the request may not come through gin binding.
func (r SetHeaderRequest) ToDomainHeader() (domain.DraftHeader, error) {
	header := domain.DraftHeader{
		DocumentNumber: r.DocumentNumber,
		Description:    r.Description,
		CounterpartID:  r.CounterpartID,
	}

	var err error
	if header.AccountingDate, err = parseDate(r.AccountingDate); err != nil {
		return domain.DraftHeader{}, err
	}
	if header.DocumentDate, err = parseDate(r.DocumentDate); err != nil {
		return domain.DraftHeader{}, err
	}

	docType, err := domain.ParseDocumentType(r.DocumentType)
	if err != nil {
		return domain.DraftHeader{}, err
	}
	op, err := domain.ParseVATOperation(r.VATOperation)
	if err != nil {
		return domain.DraftHeader{}, err
	}
	if docType != "" || op != "" {
		header.VAT = &domain.VATClassification{DocumentType: docType, Operation: op}
	}
	return header, nil
}

// ListDraftsParams defines query parameters for listing drafts.
type ListDraftsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// DraftSummaryResponse is one row of the draft list.
type DraftSummaryResponse struct {
	DraftID        string    `json:"draftID"`
	SourceEntryID  string    `json:"sourceEntryID,omitempty"`
	DocumentNumber string    `json:"documentNumber"`
	Description    string    `json:"description"`
	LineCount      int       `json:"lineCount"`
	TotalDebit     string    `json:"totalDebit"`
	TotalCredit    string    `json:"totalCredit"`
	IsBalanced     bool      `json:"isBalanced"`
	LastUpdatedAt  time.Time `json:"lastUpdatedAt"`
}

// ListDraftsResponse defines the paginated response for listing drafts.
type ListDraftsResponse struct {
	Drafts    []DraftSummaryResponse `json:"drafts"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// DraftHeaderResponse is the header of a draft with dates as YYYY-MM-DD.
type DraftHeaderResponse struct {
	DocumentNumber string `json:"documentNumber"`
	DocumentDate   string `json:"documentDate,omitempty"`
	AccountingDate string `json:"accountingDate,omitempty"`
	Description    string `json:"description"`
	CounterpartID  string `json:"counterpartID,omitempty"`
	DocumentType   string `json:"documentType,omitempty"`
	VATOperation   string `json:"vatOperation,omitempty"`
}

// DraftLineResponse is a line as typed plus the values derived for display.
type DraftLineResponse struct {
	Index             int    `json:"index"`
	AccountID         string `json:"accountID"`
	Side              string `json:"side"`
	Amount            string `json:"amount"`
	CurrencyCode      string `json:"currencyCode"`
	CurrencyAmount    string `json:"currencyAmount"`
	ExchangeRate      string `json:"exchangeRate"`
	MaterialQuantity  string `json:"materialQuantity"`
	UnitOfMeasure     string `json:"unitOfMeasure"`
	Description       string `json:"description"`
	QuantityEnabled   bool   `json:"quantityEnabled"`
	IsForeignCurrency bool   `json:"isForeignCurrency"`
	UnitPrice         string `json:"unitPrice,omitempty"` // Empty unless a quantity is set on a material account
}

// BalanceResponse reports the totals of a draft. Amounts have two decimals.
type BalanceResponse struct {
	TotalDebit  string `json:"totalDebit"`
	TotalCredit string `json:"totalCredit"`
	Difference  string `json:"difference"`
	IsBalanced  bool   `json:"isBalanced"`
	ShortSide   string `json:"shortSide,omitempty"`
}

// DraftResponse defines the data returned for a draft.
type DraftResponse struct {
	DraftID       string              `json:"draftID"`
	CompanyID     string              `json:"companyID"`
	SourceEntryID string              `json:"sourceEntryID,omitempty"`
	BaseCurrency  string              `json:"baseCurrency"`
	Version       int64               `json:"version"`
	Header        DraftHeaderResponse `json:"header"`
	Lines         []DraftLineResponse `json:"lines"`
	Balance       BalanceResponse     `json:"balance"`
	CreatedAt     time.Time           `json:"createdAt"`
	LastUpdatedAt time.Time           `json:"lastUpdatedAt"`
}

// SubmitDraftResponse is returned once the gateway stored the entry.
type SubmitDraftResponse struct {
	EntryID string `json:"entryID"`
	Updated bool   `json:"updated"` // True when an existing entry was replaced
}

// SubmitRejectedResponse explains why a draft was not submitted.
type SubmitRejectedResponse struct {
	Error               string           `json:"error"`
	Balance             *BalanceResponse `json:"balance,omitempty"`
	MissingAccountLines []int            `json:"missingAccountLines,omitempty"`
}

// ToBalanceResponse converts an accounting.Balance to BalanceResponse DTO
func ToBalanceResponse(b accounting.Balance) BalanceResponse {
	return BalanceResponse{
		TotalDebit:  b.TotalDebit.StringFixed(2),
		TotalCredit: b.TotalCredit.StringFixed(2),
		Difference:  b.Difference.StringFixed(2),
		IsBalanced:  b.IsBalanced,
		ShortSide:   string(b.ShortSide),
	}
}

// ToDraftResponse converts an accounting.DraftView to DraftResponse DTO
func ToDraftResponse(view accounting.DraftView) DraftResponse {
	d := view.Draft
	lines := make([]DraftLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DraftLineResponse{
			Index:            i,
			AccountID:        l.AccountID,
			Side:             string(l.Side),
			Amount:           l.Amount,
			CurrencyCode:     l.CurrencyCode,
			CurrencyAmount:   l.CurrencyAmount,
			ExchangeRate:     l.ExchangeRate,
			MaterialQuantity: l.MaterialQuantity,
			UnitOfMeasure:    l.UnitOfMeasure,
			Description:      l.Description,
		}
		if i < len(view.Lines) {
			lines[i].QuantityEnabled = view.Lines[i].QuantityEnabled
			lines[i].IsForeignCurrency = view.Lines[i].IsForeignCurrency
			lines[i].UnitPrice = view.Lines[i].UnitPrice
		}
	}

	return DraftResponse{
		DraftID:       d.DraftID,
		CompanyID:     d.CompanyID,
		SourceEntryID: d.SourceEntryID,
		BaseCurrency:  view.BaseCurrency,
		Version:       d.Version,
		Header:        ToDraftHeaderResponse(d.Header),
		Lines:         lines,
		Balance:       ToBalanceResponse(view.Balance),
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

// ToDraftHeaderResponse converts a domain.DraftHeader to DraftHeaderResponse DTO
func ToDraftHeaderResponse(h domain.DraftHeader) DraftHeaderResponse {
	res := DraftHeaderResponse{
		DocumentNumber: h.DocumentNumber,
		DocumentDate:   formatDate(h.DocumentDate),
		AccountingDate: formatDate(h.AccountingDate),
		Description:    h.Description,
		CounterpartID:  h.CounterpartID,
	}
	if h.VAT != nil {
		res.DocumentType = string(h.VAT.DocumentType)
		res.VATOperation = string(h.VAT.Operation)
	}
	return res
}

// ToDraftSummaryResponse converts a draft to its list row.
func ToDraftSummaryResponse(d domain.JournalDraft, balance accounting.Balance) DraftSummaryResponse {
	return DraftSummaryResponse{
		DraftID:        d.DraftID,
		SourceEntryID:  d.SourceEntryID,
		DocumentNumber: d.Header.DocumentNumber,
		Description:    d.Header.Description,
		LineCount:      len(d.Lines),
		TotalDebit:     balance.TotalDebit.StringFixed(2),
		TotalCredit:    balance.TotalCredit.StringFixed(2),
		IsBalanced:     balance.IsBalanced,
		LastUpdatedAt:  d.LastUpdatedAt,
	}
}

// ToSubmitRejectedResponse describes a submission refused by the balance or account checks.
func ToSubmitRejectedResponse(err error, balance accounting.Balance, missing []int) SubmitRejectedResponse {
	res := SubmitRejectedResponse{
		Error:               err.Error(),
		MissingAccountLines: missing,
	}
	if len(missing) == 0 {
		res.Balance = lo.ToPtr(ToBalanceResponse(balance))
	}
	return res
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
