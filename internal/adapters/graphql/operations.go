package graphql

import (
	"context"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

const accountsQuery = `query Accounts($companyId: ID!) {
  accounts(companyId: $companyId) { id code name supportsQuantities defaultUnit isActive }
}`

const currenciesQuery = `query Currencies($companyId: ID!) {
  currencies(companyId: $companyId) { code name isBase }
}`

const counterpartsQuery = `query Counterparts($companyId: ID!) {
  counterparts(companyId: $companyId) { id name eik vatNumber }
}`

const journalEntryQuery = `query JournalEntry($companyId: ID!, $id: ID!) {
  journalEntry(companyId: $companyId, id: $id) {
    id documentNumber documentDate accountingDate description counterpartId vatDocumentType vatOperation
    lines { accountId debitAmount creditAmount currencyCode currencyAmount exchangeRate quantity unitOfMeasure description }
  }
}`

const createJournalEntryMutation = `mutation CreateJournalEntry($input: JournalEntryInput!) {
  createJournalEntry(input: $input) { id }
}`

const updateJournalEntryMutation = `mutation UpdateJournalEntry($id: ID!, $input: JournalEntryInput!) {
  updateJournalEntry(id: $id, input: $input) { id }
}`

type accountNode struct {
	ID                 string `json:"id"`
	Code               string `json:"code"`
	Name               string `json:"name"`
	SupportsQuantities bool   `json:"supportsQuantities"`
	DefaultUnit        string `json:"defaultUnit"`
	IsActive           bool   `json:"isActive"`
}

type currencyNode struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	IsBase bool   `json:"isBase"`
}

type counterpartNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	EIK       string `json:"eik"`
	VATNumber string `json:"vatNumber"`
}

type journalLineNode struct {
	AccountID      string           `json:"accountId"`
	DebitAmount    decimal.Decimal  `json:"debitAmount"`
	CreditAmount   decimal.Decimal  `json:"creditAmount"`
	CurrencyCode   string           `json:"currencyCode"`
	CurrencyAmount *decimal.Decimal `json:"currencyAmount"`
	ExchangeRate   *decimal.Decimal `json:"exchangeRate"`
	Quantity       *decimal.Decimal `json:"quantity"`
	UnitOfMeasure  string           `json:"unitOfMeasure"`
	Description    string           `json:"description"`
}

type journalEntryNode struct {
	ID              string            `json:"id"`
	DocumentNumber  string            `json:"documentNumber"`
	DocumentDate    string            `json:"documentDate"`
	AccountingDate  string            `json:"accountingDate"`
	Description     string            `json:"description"`
	CounterpartID   string            `json:"counterpartId"`
	VATDocumentType string            `json:"vatDocumentType"`
	VATOperation    string            `json:"vatOperation"`
	Lines           []journalLineNode `json:"lines"`
}

type idNode struct {
	ID string `json:"id"`
}

// journalEntryInput is the JournalEntryInput of the create/update mutations.
type journalEntryInput struct {
	CompanyID       string            `json:"companyId"`
	DocumentNumber  string            `json:"documentNumber,omitempty"`
	DocumentDate    string            `json:"documentDate,omitempty"`
	AccountingDate  string            `json:"accountingDate,omitempty"`
	Description     string            `json:"description,omitempty"`
	CounterpartID   string            `json:"counterpartId,omitempty"`
	VATDocumentType string            `json:"vatDocumentType,omitempty"`
	VATOperation    string            `json:"vatOperation,omitempty"`
	Lines           []journalLineNode `json:"lines"`
}

func (c *Client) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	data, err := execute[struct {
		Accounts []accountNode `json:"accounts"`
	}](ctx, c, "accounts", accountsQuery, map[string]any{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	return lo.Map(data.Accounts, func(n accountNode, _ int) domain.Account {
		return domain.Account{
			AccountID:        n.ID,
			Code:             n.Code,
			Name:             n.Name,
			SupportsQuantity: n.SupportsQuantities,
			DefaultUnit:      n.DefaultUnit,
			IsActive:         n.IsActive,
		}
	}), nil
}

func (c *Client) ListCurrencies(ctx context.Context, companyID string) ([]domain.Currency, error) {
	data, err := execute[struct {
		Currencies []currencyNode `json:"currencies"`
	}](ctx, c, "currencies", currenciesQuery, map[string]any{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	return lo.Map(data.Currencies, func(n currencyNode, _ int) domain.Currency {
		return domain.Currency{CurrencyCode: n.Code, Name: n.Name, IsBase: n.IsBase}
	}), nil
}

func (c *Client) ListCounterparts(ctx context.Context, companyID string) ([]domain.Counterpart, error) {
	data, err := execute[struct {
		Counterparts []counterpartNode `json:"counterparts"`
	}](ctx, c, "counterparts", counterpartsQuery, map[string]any{"companyId": companyID})
	if err != nil {
		return nil, err
	}
	return lo.Map(data.Counterparts, func(n counterpartNode, _ int) domain.Counterpart {
		return domain.Counterpart{CounterpartID: n.ID, Name: n.Name, EIK: n.EIK, VATNumber: n.VATNumber}
	}), nil
}

func (c *Client) GetJournalEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	data, err := execute[struct {
		JournalEntry *journalEntryNode `json:"journalEntry"`
	}](ctx, c, "journalEntry", journalEntryQuery, map[string]any{"companyId": companyID, "id": entryID})
	if err != nil {
		return nil, err
	}
	if data.JournalEntry == nil {
		return nil, errors.Wrapf(apperrors.ErrNotFound, "journal entry %s", entryID)
	}

	n := data.JournalEntry
	header, err := toDomainHeader(n)
	if err != nil {
		return nil, err
	}
	return &domain.JournalEntry{
		EntryID:   n.ID,
		CompanyID: companyID,
		Header:    header,
		Lines: lo.Map(n.Lines, func(l journalLineNode, _ int) domain.JournalEntryLine {
			return domain.JournalEntryLine{
				AccountID:      l.AccountID,
				DebitAmount:    l.DebitAmount,
				CreditAmount:   l.CreditAmount,
				CurrencyCode:   l.CurrencyCode,
				CurrencyAmount: l.CurrencyAmount,
				ExchangeRate:   l.ExchangeRate,
				Quantity:       l.Quantity,
				UnitOfMeasure:  l.UnitOfMeasure,
				Description:    l.Description,
			}
		}),
	}, nil
}

func (c *Client) CreateJournalEntry(ctx context.Context, input portsrepo.SaveEntryInput) (string, error) {
	data, err := execute[struct {
		CreateJournalEntry idNode `json:"createJournalEntry"`
	}](ctx, c, "createJournalEntry", createJournalEntryMutation, map[string]any{"input": toEntryInput(input)})
	if err != nil {
		return "", err
	}
	return data.CreateJournalEntry.ID, nil
}

func (c *Client) UpdateJournalEntry(ctx context.Context, entryID string, input portsrepo.SaveEntryInput) (string, error) {
	data, err := execute[struct {
		UpdateJournalEntry idNode `json:"updateJournalEntry"`
	}](ctx, c, "updateJournalEntry", updateJournalEntryMutation, map[string]any{"id": entryID, "input": toEntryInput(input)})
	if err != nil {
		return "", err
	}
	return data.UpdateJournalEntry.ID, nil
}

func toDomainHeader(n *journalEntryNode) (domain.DraftHeader, error) {
	header := domain.DraftHeader{
		DocumentNumber: n.DocumentNumber,
		Description:    n.Description,
		CounterpartID:  n.CounterpartID,
	}
	var err error
	if header.DocumentDate, err = parseDate(n.DocumentDate); err != nil {
		return domain.DraftHeader{}, err
	}
	if header.AccountingDate, err = parseDate(n.AccountingDate); err != nil {
		return domain.DraftHeader{}, err
	}

	docType, err := domain.ParseDocumentType(n.VATDocumentType)
	if err != nil {
		return domain.DraftHeader{}, errors.Wrapf(err, "journal entry %s", n.ID)
	}
	op, err := domain.ParseVATOperation(n.VATOperation)
	if err != nil {
		return domain.DraftHeader{}, errors.Wrapf(err, "journal entry %s", n.ID)
	}
	if docType != "" || op != "" {
		header.VAT = &domain.VATClassification{DocumentType: docType, Operation: op}
	}
	return header, nil
}

func toEntryInput(in portsrepo.SaveEntryInput) journalEntryInput {
	out := journalEntryInput{
		CompanyID:      in.CompanyID,
		DocumentNumber: in.Header.DocumentNumber,
		DocumentDate:   formatDate(in.Header.DocumentDate),
		AccountingDate: formatDate(in.Header.AccountingDate),
		Description:    in.Header.Description,
		CounterpartID:  in.Header.CounterpartID,
		Lines: lo.Map(in.Lines, func(l accounting.SubmissionLine, _ int) journalLineNode {
			return journalLineNode{
				AccountID:      l.AccountID,
				DebitAmount:    l.DebitAmount,
				CreditAmount:   l.CreditAmount,
				CurrencyCode:   l.CurrencyCode,
				CurrencyAmount: l.CurrencyAmount,
				ExchangeRate:   l.ExchangeRate,
				Quantity:       l.Quantity,
				UnitOfMeasure:  l.UnitOfMeasure,
				Description:    l.Description,
			}
		}),
	}
	if vat := in.Header.VAT; vat != nil {
		out.VATDocumentType = string(vat.DocumentType)
		out.VATOperation = string(vat.Operation)
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	// Accept both plain dates and full timestamps.
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "invalid date %q from gateway", s)
	}
	return t.UTC().Truncate(24 * time.Hour), nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
