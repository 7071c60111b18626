package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	portsrepo "github.com/SscSPs/journal_draft_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/journal_draft_app/internal/core/ports/services"
	"github.com/SscSPs/journal_draft_app/internal/middleware"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/gammazero/workerpool"
	"github.com/patrickmn/go-cache"
)

const referencePoolSize = 2

// referenceDataService reads reference data from the gateway and caches it per company.
type referenceDataService struct {
	gateway portsrepo.ReferenceDataReader
	cache   *cache.Cache
}

// NewReferenceDataService creates a reference-data service. Entries are kept
// for ttl; a non-positive ttl disables caching.
func NewReferenceDataService(gateway portsrepo.ReferenceDataReader, ttl time.Duration) portssvc.ReferenceDataSvcFacade {
	s := &referenceDataService{gateway: gateway}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

var _ portssvc.ReferenceDataSvcFacade = (*referenceDataService)(nil)

func (s *referenceDataService) ListAccounts(ctx context.Context, companyID string) ([]domain.Account, error) {
	return cached(s, ctx, "accounts:"+companyID, func() ([]domain.Account, error) {
		return s.gateway.ListAccounts(ctx, companyID)
	})
}

func (s *referenceDataService) ListCurrencies(ctx context.Context, companyID string) ([]domain.Currency, error) {
	currencies, err := cached(s, ctx, "currencies:"+companyID, func() ([]domain.Currency, error) {
		return s.gateway.ListCurrencies(ctx, companyID)
	})
	if err != nil {
		return nil, err
	}
	if _, err := domain.FindBaseCurrency(currencies); err != nil {
		return nil, misconfiguredCompany(companyID, err)
	}
	return currencies, nil
}

func (s *referenceDataService) ListCounterparts(ctx context.Context, companyID string) ([]domain.Counterpart, error) {
	return cached(s, ctx, "counterparts:"+companyID, func() ([]domain.Counterpart, error) {
		return s.gateway.ListCounterparts(ctx, companyID)
	})
}

// LoadReferences fetches accounts and currencies concurrently.
func (s *referenceDataService) LoadReferences(ctx context.Context, companyID string) (accounting.References, error) {
	var (
		mu         sync.Mutex
		accounts   []domain.Account
		currencies []domain.Currency
		finalErr   error
	)

	pool := workerpool.New(referencePoolSize)
	pool.Submit(func() {
		res, err := s.ListAccounts(ctx, companyID)
		mu.Lock()
		defer mu.Unlock()
		accounts, finalErr = res, errors.Join(finalErr, err)
	})
	pool.Submit(func() {
		res, err := s.ListCurrencies(ctx, companyID)
		mu.Lock()
		defer mu.Unlock()
		currencies, finalErr = res, errors.Join(finalErr, err)
	})
	pool.StopWait()

	if finalErr != nil {
		return accounting.References{}, fmt.Errorf("failed to load reference data: %w", finalErr)
	}

	base, err := domain.FindBaseCurrency(currencies)
	if err != nil {
		return accounting.References{}, misconfiguredCompany(companyID, err)
	}
	return accounting.NewReferences(base.CurrencyCode, accounts), nil
}

// misconfiguredCompany reports reference data the gateway served for a
// company that cannot be used, e.g. currencies without a single base. The
// caller's request was fine, so the cause is not kept in the chain.
func misconfiguredCompany(companyID string, err error) error {
	return fmt.Errorf("%w: company %s: %v", portsrepo.ErrRemote, companyID, err)
}

func cached[T any](s *referenceDataService, ctx context.Context, key string, fetch func() ([]T, error)) ([]T, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.([]T), nil
		}
	}

	items, err := fetch()
	if err != nil {
		logger.Error("Failed to fetch reference data", slog.String("key", key), slog.String("error", err.Error()))
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	if s.cache != nil {
		s.cache.SetDefault(key, items)
	}
	logger.Debug("Reference data fetched", slog.String("key", key), slog.Int("count", len(items)))
	return items, nil
}
