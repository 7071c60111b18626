package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/adapters/database/memory"
	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/core/services"
	"github.com/SscSPs/journal_draft_app/internal/dto"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	companyID = "company-1"
	ownerID   = "user-1"
	draftID   = "draft-1"
)

var fixedNow = time.Date(2024, 5, 20, 8, 15, 0, 0, time.UTC)

func testRefs() accounting.References {
	return accounting.NewReferences("BGN", []domain.Account{
		{AccountID: "cash", Code: "501"},
		{AccountID: "bank", Code: "503"},
		{AccountID: "goods", Code: "304", SupportsQuantity: true, DefaultUnit: "kg"},
	})
}

func storedDraft(lines ...domain.EntryLine) *domain.JournalDraft {
	if len(lines) == 0 {
		lines = accounting.NewDraftLines("BGN")
	}
	return &domain.JournalDraft{
		DraftID:     draftID,
		CompanyID:   companyID,
		OwnerUserID: ownerID,
		Lines:       lines,
		Version:     4,
	}
}

type DraftServiceTestSuite struct {
	suite.Suite
	drafts  *MockDraftRepository
	gateway *MockGateway
	refs    *MockReferenceLoader
	events  *MockEventSink
	service portssvc.DraftSvcFacade
	ctx     context.Context
}

func (suite *DraftServiceTestSuite) SetupTest() {
	suite.drafts = new(MockDraftRepository)
	suite.gateway = new(MockGateway)
	suite.refs = new(MockReferenceLoader)
	suite.events = new(MockEventSink)
	suite.ctx = context.Background()
	suite.service = services.NewDraftService(suite.drafts, suite.gateway, suite.refs,
		services.WithEventSink(suite.events),
		services.WithClock(func() time.Time { return fixedNow }),
	)
	suite.refs.On("LoadReferences", mock.Anything, companyID).Return(testRefs(), nil).Maybe()
}

func (suite *DraftServiceTestSuite) TearDownTest() {
	suite.drafts.AssertExpectations(suite.T())
	suite.gateway.AssertExpectations(suite.T())
	suite.events.AssertExpectations(suite.T())
}

func (suite *DraftServiceTestSuite) TestCreateDraft() {
	suite.drafts.On("SaveDraft", suite.ctx, mock.MatchedBy(func(d domain.JournalDraft) bool {
		return d.DraftID != "" && d.CompanyID == companyID && d.OwnerUserID == ownerID &&
			d.Version == 1 && len(d.Lines) == 2 && d.CreatedAt.Equal(fixedNow)
	}), int64(0)).Return(nil).Once()

	view, err := suite.service.CreateDraft(suite.ctx, companyID, ownerID)
	suite.Require().NoError(err)
	suite.Equal("BGN", view.BaseCurrency)
	suite.Equal(domain.Debit, view.Draft.Lines[0].Side)
	suite.Equal(domain.Credit, view.Draft.Lines[1].Side)
	suite.Equal(time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), view.Draft.Header.AccountingDate)
	suite.True(view.Balance.IsBalanced, "two empty lines balance at zero")
}

func (suite *DraftServiceTestSuite) TestCreateDraft_SaveError() {
	suite.drafts.On("SaveDraft", suite.ctx, mock.Anything, int64(0)).Return(assert.AnError).Once()

	view, err := suite.service.CreateDraft(suite.ctx, companyID, ownerID)
	suite.Nil(view)
	suite.ErrorIs(err, assert.AnError)
}

func (suite *DraftServiceTestSuite) TestHydrateDraft() {
	qty := decimal.NewFromInt(10)
	entry := &domain.JournalEntry{
		EntryID:   "entry-9",
		CompanyID: companyID,
		Header:    domain.DraftHeader{DocumentNumber: "0000000777"},
		Lines: []domain.JournalEntryLine{
			{AccountID: "goods", DebitAmount: decimal.NewFromInt(40), Quantity: &qty, UnitOfMeasure: "kg"},
			{AccountID: "bank", CreditAmount: decimal.NewFromInt(40)},
		},
	}
	suite.gateway.On("GetJournalEntry", suite.ctx, companyID, "entry-9").Return(entry, nil).Once()
	suite.drafts.On("SaveDraft", suite.ctx, mock.MatchedBy(func(d domain.JournalDraft) bool {
		return d.SourceEntryID == "entry-9" && d.Header.DocumentNumber == "0000000777"
	}), int64(0)).Return(nil).Once()

	view, err := suite.service.HydrateDraft(suite.ctx, companyID, "entry-9", ownerID)
	suite.Require().NoError(err)
	suite.True(view.Draft.IsEdit())
	suite.Equal("40.00", view.Draft.Lines[0].Amount)
	suite.Equal("4.0000", view.Lines[0].UnitPrice)
	suite.True(view.Balance.IsBalanced)
}

func (suite *DraftServiceTestSuite) TestHydrateDraft_NotFound() {
	suite.gateway.On("GetJournalEntry", suite.ctx, companyID, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.HydrateDraft(suite.ctx, companyID, "missing", ownerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DraftServiceTestSuite) TestGetDraft_OtherOwnerIsNotFound() {
	d := storedDraft()
	d.OwnerUserID = "someone-else"
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(d, nil).Once()

	_, err := suite.service.GetDraft(suite.ctx, companyID, draftID, ownerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DraftServiceTestSuite) TestGetDraft_OtherCompanyIsNotFound() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(), nil).Once()

	_, err := suite.service.GetDraft(suite.ctx, "company-2", draftID, ownerID)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DraftServiceTestSuite) TestListDrafts() {
	token := "next"
	drafts := []domain.JournalDraft{
		*storedDraft(
			domain.EntryLine{AccountID: "cash", Side: domain.Debit, Amount: "10"},
			domain.EntryLine{AccountID: "bank", Side: domain.Credit, Amount: "7"},
		),
	}
	suite.drafts.On("ListDraftsByOwner", suite.ctx, companyID, ownerID, 20, (*string)(nil)).Return(drafts, &token, nil).Once()

	res, err := suite.service.ListDrafts(suite.ctx, companyID, ownerID, dto.ListDraftsParams{})
	suite.Require().NoError(err)
	suite.Require().Len(res.Drafts, 1)
	suite.Equal("10.00", res.Drafts[0].TotalDebit)
	suite.Equal("7.00", res.Drafts[0].TotalCredit)
	suite.False(res.Drafts[0].IsBalanced)
	suite.Equal(&token, res.NextToken)
}

func (suite *DraftServiceTestSuite) TestApplyAction_UpdatesAndBumpsVersion() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(), nil).Once()
	suite.drafts.On("SaveDraft", suite.ctx, mock.MatchedBy(func(d domain.JournalDraft) bool {
		return d.Version == 5 && d.Lines[0].AccountID == "goods" && d.Lines[0].UnitOfMeasure == "kg" &&
			d.LastUpdatedBy == ownerID && d.LastUpdatedAt.Equal(fixedNow)
	}), int64(4)).Return(nil).Once()

	view, err := suite.service.ApplyAction(suite.ctx, companyID, draftID, ownerID,
		accounting.UpdateLineAction{Index: 0, Field: domain.FieldAccountID, Value: "goods"})
	suite.Require().NoError(err)
	suite.Equal(int64(5), view.Draft.Version)
	suite.True(view.Lines[0].QuantityEnabled)
}

func (suite *DraftServiceTestSuite) TestApplyAction_ReducerErrorDoesNotSave() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(), nil).Once()

	_, err := suite.service.ApplyAction(suite.ctx, companyID, draftID, ownerID, accounting.RemoveLineAction{Index: 0})
	suite.ErrorIs(err, accounting.ErrTooFewLines)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.drafts.AssertNotCalled(suite.T(), "SaveDraft", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestApplyAction_Conflict() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(), nil).Once()
	suite.drafts.On("SaveDraft", suite.ctx, mock.Anything, int64(4)).Return(apperrors.ErrConflict).Once()

	_, err := suite.service.ApplyAction(suite.ctx, companyID, draftID, ownerID, accounting.AddLineAction{Side: domain.Debit})
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *DraftServiceTestSuite) TestDiscardDraft() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(), nil).Once()
	suite.drafts.On("DeleteDraft", suite.ctx, draftID).Return(nil).Once()
	suite.events.On("Enqueue", ownerID, services.EventDraftDiscarded, mock.Anything).Return().Once()

	suite.NoError(suite.service.DiscardDraft(suite.ctx, companyID, draftID, ownerID))
}

func (suite *DraftServiceTestSuite) TestSubmitDraft_Unbalanced() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(
		domain.EntryLine{AccountID: "cash", Side: domain.Debit, Amount: "100"},
		domain.EntryLine{AccountID: "bank", Side: domain.Credit, Amount: "99.98"},
	), nil).Once()

	res, err := suite.service.SubmitDraft(suite.ctx, companyID, draftID, ownerID)
	suite.Nil(res)
	suite.ErrorIs(err, accounting.ErrDraftUnbalanced)

	var unbalanced *accounting.UnbalancedError
	suite.Require().True(errors.As(err, &unbalanced))
	suite.Equal(domain.Credit, unbalanced.Balance.ShortSide)
	suite.Equal("0.02", unbalanced.Balance.Difference.StringFixed(2))
	suite.gateway.AssertNotCalled(suite.T(), "CreateJournalEntry", mock.Anything, mock.Anything)
}

func (suite *DraftServiceTestSuite) TestSubmitDraft_MissingAccount() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(
		domain.EntryLine{AccountID: "cash", Side: domain.Debit, Amount: "5"},
		domain.EntryLine{Side: domain.Credit, Amount: "5"},
	), nil).Once()

	_, err := suite.service.SubmitDraft(suite.ctx, companyID, draftID, ownerID)
	var missing *accounting.MissingAccountError
	suite.Require().True(errors.As(err, &missing))
	suite.Equal([]int{2}, missing.LineNumbers)
}

func (suite *DraftServiceTestSuite) TestSubmitDraft_Create() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(
		domain.EntryLine{AccountID: "cash", Side: domain.Debit, Amount: "100", CurrencyCode: "BGN", ExchangeRate: "1"},
		domain.EntryLine{AccountID: "bank", Side: domain.Credit, Amount: "99.995", CurrencyCode: "BGN", ExchangeRate: "1"},
	), nil).Once()
	suite.gateway.On("CreateJournalEntry", suite.ctx, mock.MatchedBy(func(in portsrepo.SaveEntryInput) bool {
		return in.CompanyID == companyID && len(in.Lines) == 2 &&
			in.Lines[0].DebitAmount.Equal(decimal.NewFromInt(100)) && in.Lines[1].CreditAmount.IsPositive()
	})).Return("entry-100", nil).Once()
	suite.drafts.On("DeleteDraft", suite.ctx, draftID).Return(nil).Once()
	suite.events.On("Enqueue", ownerID, services.EventEntrySubmitted, mock.MatchedBy(func(p map[string]any) bool {
		return p["entry_id"] == "entry-100" && p["is_edit"] == false
	})).Return().Once()

	res, err := suite.service.SubmitDraft(suite.ctx, companyID, draftID, ownerID)
	suite.Require().NoError(err)
	suite.Equal("entry-100", res.EntryID)
	suite.False(res.Updated)
}

func (suite *DraftServiceTestSuite) TestSubmitDraft_UpdatesSourceEntry() {
	d := storedDraft(
		domain.EntryLine{AccountID: "cash", Side: domain.Debit, Amount: "1"},
		domain.EntryLine{AccountID: "bank", Side: domain.Credit, Amount: "1"},
	)
	d.SourceEntryID = "entry-5"
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(d, nil).Once()
	suite.gateway.On("UpdateJournalEntry", suite.ctx, "entry-5", mock.Anything).Return("entry-5", nil).Once()
	suite.drafts.On("DeleteDraft", suite.ctx, draftID).Return(assert.AnError).Once()
	suite.events.On("Enqueue", ownerID, services.EventEntrySubmitted, mock.Anything).Return().Once()

	res, err := suite.service.SubmitDraft(suite.ctx, companyID, draftID, ownerID)
	suite.Require().NoError(err, "a failed cleanup does not fail the submit")
	suite.True(res.Updated)
}

func (suite *DraftServiceTestSuite) TestSubmitDraft_RemoteErrorKeepsDraft() {
	suite.drafts.On("FindDraftByID", suite.ctx, draftID).Return(storedDraft(
		domain.EntryLine{AccountID: "cash", Side: domain.Debit, Amount: "1"},
		domain.EntryLine{AccountID: "bank", Side: domain.Credit, Amount: "1"},
	), nil).Once()
	remote := &portsrepo.RemoteError{Messages: []string{"Периодът е приключен"}}
	suite.gateway.On("CreateJournalEntry", suite.ctx, mock.Anything).Return("", remote).Once()

	_, err := suite.service.SubmitDraft(suite.ctx, companyID, draftID, ownerID)
	suite.ErrorIs(err, portsrepo.ErrRemote)
	suite.Contains(err.Error(), "Периодът е приключен")
	suite.drafts.AssertNotCalled(suite.T(), "DeleteDraft", mock.Anything, mock.Anything)
}

func TestDraftServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DraftServiceTestSuite))
}

func TestApplyAction_ConcurrentEditsAreSerialised(t *testing.T) {
	store := memory.NewDraftRepository(time.Hour)
	seed := storedDraft()
	require.NoError(t, store.SaveDraft(context.Background(), *seed, 0))
	refs := new(MockReferenceLoader)
	refs.On("LoadReferences", mock.Anything, companyID).Return(testRefs(), nil)
	svc := services.NewDraftService(store, new(MockGateway), refs)

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ApplyAction(context.Background(), companyID, draftID, ownerID, accounting.AddLineAction{Side: domain.Debit})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	final, err := store.FindDraftByID(context.Background(), draftID)
	require.NoError(t, err)
	assert.Len(t, final.Lines, len(seed.Lines)+n)
	assert.Equal(t, seed.Version+n, final.Version)
}
