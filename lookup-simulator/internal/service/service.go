// Package service composes the lookup resolvers with caching, auditing, event
// fan-out and metrics.
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/bank"
	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/crypto"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/metrics"
	"github.com/Checker-Finance/simulators/internal/store"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/pkg/cache"
	"github.com/Checker-Finance/simulators/pkg/eventbus"
	"github.com/Checker-Finance/simulators/pkg/model"
	"github.com/Checker-Finance/simulators/pkg/utils"
)

// ErrAuditUnavailable is returned by RecentLookups when no audit ledger is configured.
var ErrAuditUnavailable = errors.New("lookup audit is not configured")

// BankResolver is the banking side of the simulator.
type BankResolver interface {
	LookupAccount(ctx context.Context, accountNumber, institutionCode string) (model.AccountInfo, error)
	NetworkFault(accountNumber, institutionCode string) error
	TransactionHistory(accountNumber string) ([]model.Transaction, error)
	NearestBranches(ctx context.Context, location string) ([]model.Branch, error)
	Institutions() []catalog.Institution
}

// CryptoResolver is the wallet side of the simulator.
type CryptoResolver interface {
	LookupAddress(ctx context.Context, address, chainID string) (model.WalletInfo, error)
	Chains() []catalog.Chain
}

// Generator synthesizes unseeded profiles.
type Generator interface {
	RandomAccount() model.AccountInfo
	RandomWallet() model.WalletInfo
	RandomName(opts synth.NameOptions) model.NameInfo
}

// Service is safe for concurrent use.
type Service struct {
	bank     BankResolver
	crypto   CryptoResolver
	gen      Generator
	store    store.Store
	l1       *cache.Cache[model.AccountInfo]
	bus      *eventbus.EventBus
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// New wires a Service. st and bus are optional. A non-positive cacheTTL
// disables result caching.
func New(bankR BankResolver, cryptoR CryptoResolver, gen Generator, st store.Store, bus *eventbus.EventBus, cacheTTL time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		bank:     bankR,
		crypto:   cryptoR,
		gen:      gen,
		store:    st,
		bus:      bus,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
	if cacheTTL > 0 {
		s.l1 = cache.New[model.AccountInfo](cacheTTL)
	}
	return s
}

// StartCacheCleaner evicts expired L1 entries every interval until stop closes.
func (s *Service) StartCacheCleaner(interval time.Duration, stop <-chan struct{}) {
	if s.l1 == nil || interval <= 0 {
		return
	}
	s.l1.StartCleaner(interval, stop)
}

// Institutions lists supported banks ordered by name.
func (s *Service) Institutions() []catalog.Institution {
	return s.bank.Institutions()
}

// Chains lists supported chains.
func (s *Service) Chains() []catalog.Chain {
	return s.crypto.Chains()
}

// LookupBank resolves an account. Bank outcomes are a pure function of the
// inputs and the catalog, so everything except validation failures and
// injected faults is cached. A cache hit still rolls the transient network
// fault, so every call sees the same fault rate.
func (s *Service) LookupBank(ctx context.Context, accountNumber, institutionCode string) (model.AccountInfo, error) {
	start := time.Now()
	defer metrics.ObserveDuration(metrics.LookupDuration, start, string(model.KindBank))

	acct := strings.TrimSpace(accountNumber)
	code := strings.TrimSpace(institutionCode)
	cacheKey := code + ":" + acct
	cacheable := s.cacheTTL > 0 && code != "" && bank.ValidAccountNumber(acct)

	if cacheable {
		if info, ok := s.cachedAccount(ctx, cacheKey, acct, code); ok {
			if err := s.bank.NetworkFault(acct, code); err != nil {
				return model.AccountInfo{}, s.bankFailure(ctx, acct, code, err)
			}
			s.recordBank(ctx, acct, code, info, true)
			return info, nil
		}
	}

	info, err := s.bank.LookupAccount(ctx, acct, code)
	if err != nil {
		return model.AccountInfo{}, s.bankFailure(ctx, acct, code, err)
	}

	if cacheable && cacheableOutcome(info) {
		s.l1.Put(cacheKey, info)
		if s.store != nil {
			if err := s.store.PutAccount(ctx, code, acct, info, s.cacheTTL); err != nil {
				s.logger.Warn("service.cache.put_failed", zap.Error(err))
				metrics.IncError("store", "cache_put_failed")
			}
		}
	}
	s.recordBank(ctx, acct, code, info, false)
	return info, nil
}

func (s *Service) bankFailure(ctx context.Context, acct, code string, err error) error {
	if errors.Is(err, faults.ErrTransientNetwork) {
		s.recordBank(ctx, acct, code, model.Failed(model.ErrKeyNetwork), false)
	} else {
		metrics.IncError("bank", "lookup_failed")
	}
	return err
}

func (s *Service) cachedAccount(ctx context.Context, key, acct, code string) (model.AccountInfo, bool) {
	if info, ok := s.l1.Get(key); ok {
		metrics.IncCache("l1_hit")
		return info, true
	}
	if s.store != nil {
		cached, err := s.store.GetAccount(ctx, code, acct)
		if err != nil {
			s.logger.Warn("service.cache.get_failed", zap.Error(err))
			metrics.IncError("store", "cache_get_failed")
		} else if cached != nil {
			metrics.IncCache("redis_hit")
			s.l1.Put(key, *cached)
			return *cached, true
		}
	}
	metrics.IncCache("miss")
	return model.AccountInfo{}, false
}

func cacheableOutcome(info model.AccountInfo) bool {
	switch info.ErrorKey {
	case model.ErrKeyMissingFields, model.ErrKeyInvalidAccountFormat, model.ErrKeyNetwork:
		return false
	}
	return true
}

// LookupCrypto resolves a wallet. Results are never cached: unseeded holdings
// must differ between calls.
func (s *Service) LookupCrypto(ctx context.Context, address, chainID string) (model.WalletInfo, error) {
	start := time.Now()
	defer metrics.ObserveDuration(metrics.LookupDuration, start, string(model.KindCrypto))

	info, err := s.crypto.LookupAddress(ctx, address, chainID)
	if err != nil {
		if errors.Is(err, faults.ErrTransientNetwork) {
			s.record(ctx, model.LookupEvent{
				Kind:      model.KindCrypto,
				Key:       utils.MaskAddress(crypto.NormalizeAddress(address)),
				Qualifier: chainID,
				ErrorKey:  model.ErrKeyNetwork,
			})
		} else {
			metrics.IncError("crypto", "lookup_failed")
		}
		return model.WalletInfo{}, err
	}

	s.record(ctx, model.LookupEvent{
		Kind:      model.KindCrypto,
		Key:       utils.MaskAddress(info.Address),
		Qualifier: info.ChainID,
		Success:   info.Success,
		Source:    info.Source,
	})
	return info, nil
}

// TransactionHistory returns the seeded statement for accountNumber.
func (s *Service) TransactionHistory(accountNumber string) ([]model.Transaction, error) {
	return s.bank.TransactionHistory(strings.TrimSpace(accountNumber))
}

// NearestBranches finds branches near location.
func (s *Service) NearestBranches(ctx context.Context, location string) ([]model.Branch, error) {
	return s.bank.NearestBranches(ctx, location)
}

// RandomAccount synthesizes an unseeded account.
func (s *Service) RandomAccount() model.AccountInfo {
	return s.gen.RandomAccount()
}

// RandomWallet synthesizes an unseeded wallet.
func (s *Service) RandomWallet() model.WalletInfo {
	return s.gen.RandomWallet()
}

// RandomName synthesizes a name.
func (s *Service) RandomName(opts synth.NameOptions) model.NameInfo {
	return s.gen.RandomName(opts)
}

// RecentLookups reads the audit ledger.
func (s *Service) RecentLookups(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error) {
	if s.store == nil {
		return nil, ErrAuditUnavailable
	}
	events, err := s.store.RecentLookups(ctx, kind, limit)
	if errors.Is(err, store.ErrAuditDisabled) {
		return nil, ErrAuditUnavailable
	}
	return events, err
}

func (s *Service) recordBank(ctx context.Context, acct, code string, info model.AccountInfo, cached bool) {
	s.record(ctx, model.LookupEvent{
		Kind:      model.KindBank,
		Key:       utils.MaskAccountNumber(acct),
		Qualifier: code,
		Success:   info.Success,
		ErrorKey:  info.ErrorKey,
		Source:    info.Source,
		Cached:    cached,
	})
}

// record stamps ev, counts it, writes it to the audit ledger and hands it to
// the bus. Audit failures are logged and never fail the lookup.
func (s *Service) record(ctx context.Context, ev model.LookupEvent) {
	ev.ID = uuid.New()
	ev.OccurredAt = s.now().UTC()

	outcome := "ok"
	if !ev.Success {
		outcome = string(ev.ErrorKey)
	}
	metrics.IncLookup(string(ev.Kind), string(ev.Source), outcome)

	if s.store != nil {
		if err := s.store.RecordLookup(ctx, ev); err != nil {
			s.logger.Warn("service.audit.write_failed",
				zap.String("kind", string(ev.Kind)),
				zap.Error(err))
			metrics.IncError("store", "audit_failed")
		}
	}
	if s.bus != nil {
		s.bus.Publish(ev)
	}

	s.logger.Debug("service.lookup",
		zap.String("kind", string(ev.Kind)),
		zap.String("key", ev.Key),
		zap.String("qualifier", ev.Qualifier),
		zap.String("outcome", outcome),
		zap.Bool("cached", ev.Cached))
}
