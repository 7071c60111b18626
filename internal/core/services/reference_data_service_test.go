package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/apperrors"
	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/SscSPs/journal_draft_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ReferenceDataServiceTestSuite struct {
	suite.Suite
	gateway *MockGateway
	ctx     context.Context
}

func (suite *ReferenceDataServiceTestSuite) SetupTest() {
	suite.gateway = new(MockGateway)
	suite.ctx = context.Background()
}

func (suite *ReferenceDataServiceTestSuite) TestListAccounts_IsCached() {
	accounts := []domain.Account{{AccountID: "a1", Code: "501", Name: "Каса"}}
	suite.gateway.On("ListAccounts", suite.ctx, "c1").Return(accounts, nil).Once()

	svc := services.NewReferenceDataService(suite.gateway, time.Minute)
	for i := 0; i < 3; i++ {
		got, err := svc.ListAccounts(suite.ctx, "c1")
		suite.Require().NoError(err)
		suite.Equal(accounts, got)
	}
	suite.gateway.AssertExpectations(suite.T())
}

func (suite *ReferenceDataServiceTestSuite) TestListAccounts_NoCache() {
	suite.gateway.On("ListAccounts", suite.ctx, "c1").Return(nil, nil).Twice()

	svc := services.NewReferenceDataService(suite.gateway, 0)
	for i := 0; i < 2; i++ {
		got, err := svc.ListAccounts(suite.ctx, "c1")
		suite.Require().NoError(err)
		suite.NotNil(got)
		suite.Empty(got)
	}
	suite.gateway.AssertExpectations(suite.T())
}

func (suite *ReferenceDataServiceTestSuite) TestListAccounts_ErrorsAreNotCached() {
	suite.gateway.On("ListAccounts", suite.ctx, "c1").Return(nil, assert.AnError).Once()
	suite.gateway.On("ListAccounts", suite.ctx, "c1").Return([]domain.Account{{AccountID: "a1"}}, nil).Once()

	svc := services.NewReferenceDataService(suite.gateway, time.Minute)
	_, err := svc.ListAccounts(suite.ctx, "c1")
	suite.ErrorIs(err, assert.AnError)

	got, err := svc.ListAccounts(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Len(got, 1)
}

func (suite *ReferenceDataServiceTestSuite) TestListCurrencies_RequiresSingleBase() {
	suite.gateway.On("ListCurrencies", suite.ctx, "none").Return([]domain.Currency{{CurrencyCode: "EUR"}}, nil)
	suite.gateway.On("ListAccounts", suite.ctx, "none").Return([]domain.Account{}, nil)
	suite.gateway.On("ListCurrencies", suite.ctx, "two").Return([]domain.Currency{
		{CurrencyCode: "BGN", IsBase: true}, {CurrencyCode: "EUR", IsBase: true},
	}, nil)

	svc := services.NewReferenceDataService(suite.gateway, time.Minute)

	_, err := svc.ListCurrencies(suite.ctx, "none")
	suite.ErrorIs(err, portsrepo.ErrRemote)
	suite.NotErrorIs(err, apperrors.ErrNotFound)
	suite.ErrorContains(err, "no base currency")

	_, err = svc.ListCurrencies(suite.ctx, "two")
	suite.ErrorIs(err, portsrepo.ErrRemote)
	suite.NotErrorIs(err, apperrors.ErrValidation)

	_, err = svc.LoadReferences(suite.ctx, "none")
	suite.ErrorIs(err, portsrepo.ErrRemote)
}

func (suite *ReferenceDataServiceTestSuite) TestListCounterparts() {
	cps := []domain.Counterpart{{CounterpartID: "cp1", Name: "Доставчик ООД", EIK: "123456789"}}
	suite.gateway.On("ListCounterparts", suite.ctx, "c1").Return(cps, nil).Once()

	svc := services.NewReferenceDataService(suite.gateway, time.Minute)
	got, err := svc.ListCounterparts(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Equal(cps, got)
}

func (suite *ReferenceDataServiceTestSuite) TestLoadReferences() {
	suite.gateway.On("ListAccounts", suite.ctx, "c1").Return([]domain.Account{
		{AccountID: "goods", SupportsQuantity: true, DefaultUnit: "kg"},
		{AccountID: "bank"},
	}, nil)
	suite.gateway.On("ListCurrencies", suite.ctx, "c1").Return([]domain.Currency{
		{CurrencyCode: "EUR"}, {CurrencyCode: "BGN", IsBase: true},
	}, nil)

	svc := services.NewReferenceDataService(suite.gateway, time.Minute)
	refs, err := svc.LoadReferences(suite.ctx, "c1")
	suite.Require().NoError(err)
	suite.Equal("BGN", refs.BaseCurrency)
	suite.True(refs.IsMaterial("goods"))
	suite.False(refs.IsMaterial("bank"))
}

func (suite *ReferenceDataServiceTestSuite) TestLoadReferences_GatewayError() {
	suite.gateway.On("ListAccounts", suite.ctx, "c1").Return(nil, assert.AnError)
	suite.gateway.On("ListCurrencies", suite.ctx, "c1").Return([]domain.Currency{{CurrencyCode: "BGN", IsBase: true}}, nil)

	svc := services.NewReferenceDataService(suite.gateway, time.Minute)
	_, err := svc.LoadReferences(suite.ctx, "c1")
	suite.ErrorIs(err, assert.AnError)
}

func TestReferenceDataServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReferenceDataServiceTestSuite))
}
