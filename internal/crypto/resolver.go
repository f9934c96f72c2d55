// Package crypto simulates wallet balance lookups.
//
// Only curated wallets are stable. Any other address gets freshly drawn,
// unseeded holdings on every call.
package crypto

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/pkg/model"
	"github.com/Checker-Finance/simulators/pkg/utils"
)

// Resolver answers wallet lookups against a catalog.
type Resolver struct {
	cat    *catalog.Catalog
	synth  *synth.Synthesizer
	faults *faults.Injector
	logger *zap.Logger
}

// NewResolver creates a Resolver. A nil injector disables fault injection.
func NewResolver(cat *catalog.Catalog, s *synth.Synthesizer, inj *faults.Injector, logger *zap.Logger) *Resolver {
	if inj == nil {
		inj = faults.Disabled()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cat: cat, synth: s, faults: inj, logger: logger}
}

// Chains lists the supported networks.
func (r *Resolver) Chains() []catalog.Chain {
	return r.cat.Chains()
}

// NormalizeAddress is the key used for curated wallet lookups.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// LookupAddress reports the holdings of address on chainID. Any address string
// is accepted; an empty one is replaced by a synthesized address. An empty or
// unknown chainID selects the default chain. The only error is an injected
// network fault (or context cancellation).
func (r *Resolver) LookupAddress(ctx context.Context, address, chainID string) (model.WalletInfo, error) {
	if err := ctx.Err(); err != nil {
		return model.WalletInfo{}, err
	}
	if err := r.faults.Network(); err != nil {
		r.logger.Warn("crypto.lookup.network_fault",
			zap.String("address", utils.MaskAddress(address)),
			zap.String("chain_id", chainID))
		return model.WalletInfo{}, err
	}

	chain, ok := r.cat.Chain(strings.TrimSpace(chainID))
	if !ok {
		chain = r.cat.DefaultChain()
	}

	key := NormalizeAddress(address)
	if key == "" {
		key = r.synth.RandomAddress()
	}

	if w, ok := r.cat.StaticWallet(key); ok {
		return r.staticResult(w, chain), nil
	}

	h := r.synth.RandomHoldings(chain)
	return model.WalletInfo{
		Success:   true,
		Address:   key,
		ChainID:   chain.ID,
		ChainName: chain.Name,
		Balance:   h.Balance,
		Symbol:    chain.Symbol,
		USDValue:  h.USDValue,
		Tokens:    h.Tokens,
		Source:    model.SourceRandom,
	}, nil
}

// staticResult reports a curated wallet. The wallet's own chain wins over the
// requested one when it is in the catalog.
func (r *Resolver) staticResult(w catalog.StaticWallet, requested catalog.Chain) model.WalletInfo {
	chain := requested
	if own, ok := r.cat.Chain(w.ChainID); ok {
		chain = own
	}
	return model.WalletInfo{
		Success:   true,
		Address:   w.Address,
		ChainID:   chain.ID,
		ChainName: chain.Name,
		Label:     w.Label,
		Balance:   w.Balance,
		Symbol:    w.Symbol,
		USDValue:  synth.USDValue(w.Balance, r.cat.Price(w.Symbol)),
		Source:    model.SourceStatic,
	}
}
