package services_test

import (
	"context"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/stretchr/testify/mock"
)

// MockDraftRepository is a mock type for the DraftRepositoryFacade interface
type MockDraftRepository struct {
	mock.Mock
}

func (m *MockDraftRepository) FindDraftByID(ctx context.Context, draftID string) (*domain.JournalDraft, error) {
	args := m.Called(ctx, draftID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalDraft), args.Error(1)
}

func (m *MockDraftRepository) ListDraftsByOwner(ctx context.Context, companyID, ownerUserID string, limit int, nextToken *string) ([]domain.JournalDraft, *string, error) {
	args := m.Called(ctx, companyID, ownerUserID, limit, nextToken)
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, token, args.Error(2)
	}
	return args.Get(0).([]domain.JournalDraft), token, args.Error(2)
}

func (m *MockDraftRepository) SaveDraft(ctx context.Context, draft domain.JournalDraft, expectedVersion int64) error {
	args := m.Called(ctx, draft, expectedVersion)
	return args.Error(0)
}

func (m *MockDraftRepository) DeleteDraft(ctx context.Context, draftID string) error {
	args := m.Called(ctx, draftID)
	return args.Error(0)
}

var _ portsrepo.DraftRepositoryFacade = (*MockDraftRepository)(nil)

// MockGateway is a mock type for the AccountingGatewayFacade interface
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockGateway) ListCurrencies(ctx context.Context, companyID string) ([]domain.Currency, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

func (m *MockGateway) ListCounterparts(ctx context.Context, companyID string) ([]domain.Counterpart, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Counterpart), args.Error(1)
}

func (m *MockGateway) GetJournalEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, companyID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockGateway) CreateJournalEntry(ctx context.Context, input portsrepo.SaveEntryInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) UpdateJournalEntry(ctx context.Context, entryID string, input portsrepo.SaveEntryInput) (string, error) {
	args := m.Called(ctx, entryID, input)
	return args.String(0), args.Error(1)
}

var _ portsrepo.AccountingGatewayFacade = (*MockGateway)(nil)

// MockReferenceLoader is a mock type for the ReferenceLoaderSvc interface
type MockReferenceLoader struct {
	mock.Mock
}

func (m *MockReferenceLoader) LoadReferences(ctx context.Context, companyID string) (accounting.References, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(accounting.References), args.Error(1)
}

// MockEventSink records analytics events.
type MockEventSink struct {
	mock.Mock
}

func (m *MockEventSink) Enqueue(distinctID string, event string, properties map[string]any) {
	m.Called(distinctID, event, properties)
}
