package domain

import (
	"fmt"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
)

// DocumentType is the VAT-ledger document kind (codes as used in the VAT
// purchase and sales journals).
type DocumentType string

const (
	DocInvoice            DocumentType = "01"
	DocDebitNote          DocumentType = "02"
	DocCreditNote         DocumentType = "03"
	DocCustomsDeclaration DocumentType = "07"
	DocProtocol           DocumentType = "09"
	DocSummaryReport      DocumentType = "81"
)

// ParseDocumentType validates a document type code. The empty string means
// "not classified".
func ParseDocumentType(s string) (DocumentType, error) {
	d := DocumentType(s)
	switch d {
	case "", DocInvoice, DocDebitNote, DocCreditNote, DocCustomsDeclaration, DocProtocol, DocSummaryReport:
		return d, nil
	default:
		return "", fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, s)
	}
}

// VATOperation classifies how the document is reported for VAT.
type VATOperation string

const (
	VATPurchaseFullCredit    VATOperation = "PURCHASE_FULL_CREDIT"
	VATPurchasePartialCredit VATOperation = "PURCHASE_PARTIAL_CREDIT"
	VATPurchaseNoCredit      VATOperation = "PURCHASE_NO_CREDIT"
	VATSaleStandard          VATOperation = "SALE_STANDARD"
	VATSaleReduced           VATOperation = "SALE_REDUCED"
	VATSaleZeroRate          VATOperation = "SALE_ZERO_RATE"
	VATSaleExempt            VATOperation = "SALE_EXEMPT"
	VATIntraEUAcquisition    VATOperation = "INTRA_EU_ACQUISITION"
	VATIntraEUSupply         VATOperation = "INTRA_EU_SUPPLY"
)

// ParseVATOperation validates a VAT operation code. The empty string means
// "not classified".
func ParseVATOperation(s string) (VATOperation, error) {
	op := VATOperation(s)
	switch op {
	case "", VATPurchaseFullCredit, VATPurchasePartialCredit, VATPurchaseNoCredit,
		VATSaleStandard, VATSaleReduced, VATSaleZeroRate, VATSaleExempt,
		VATIntraEUAcquisition, VATIntraEUSupply:
		return op, nil
	default:
		return "", fmt.Errorf("%w: unknown VAT operation %q", apperrors.ErrValidation, s)
	}
}

// VATClassification is optional VAT metadata carried on a draft.
type VATClassification struct {
	DocumentType DocumentType `json:"documentType" yaml:"documentType"`
	Operation    VATOperation `json:"operation" yaml:"operation"`
}
