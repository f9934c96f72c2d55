package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/seed"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

func newTestResolver(t *testing.T, mutate func(*catalog.Config)) *Resolver {
	t.Helper()
	cfg := catalog.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	cat, err := catalog.New(cfg)
	require.NoError(t, err)
	r := NewResolver(cat, faults.Disabled(), zap.NewNop())
	r.now = func() time.Time { return time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC) }
	return r
}

func lookup(t *testing.T, r *Resolver, acct, code string) model.AccountInfo {
	t.Helper()
	info, err := r.LookupAccount(context.Background(), acct, code)
	require.NoError(t, err)
	return info
}

// ─── Validation ───────────────────────────────────────────────────────────────

func TestLookupAccount_Validation(t *testing.T) {
	r := newTestResolver(t, nil)

	tests := []struct {
		name string
		acct string
		code string
		key  model.ErrorKey
	}{
		{"missing account", "", "044", model.ErrKeyMissingFields},
		{"missing code", "0123456789", "", model.ErrKeyMissingFields},
		{"blank account", "   ", "044", model.ErrKeyMissingFields},
		{"too short", "123", "044", model.ErrKeyInvalidAccountFormat},
		{"too long", "01234567890", "044", model.ErrKeyInvalidAccountFormat},
		{"non digits", "01234abcde", "044", model.ErrKeyInvalidAccountFormat},
		{"unicode digits", "０１２３４５６７８９", "044", model.ErrKeyInvalidAccountFormat},
		{"unknown institution", "0000000000", "999", model.ErrKeyInvalidInstitution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := lookup(t, r, tt.acct, tt.code)
			assert.False(t, info.Success)
			assert.Equal(t, tt.key, info.ErrorKey)
			assert.Equal(t, model.Messages[tt.key], info.Error)
		})
	}
}

// ─── Static records ───────────────────────────────────────────────────────────

func TestLookupAccount_StaticRecord(t *testing.T) {
	r := newTestResolver(t, nil)
	info := lookup(t, r, "0123456789", "044")

	if seed.PseudoRandom(float64(seed.FromString("0123456789"))) < StaticBlockRate {
		assert.Equal(t, model.ErrKeyAccountBlocked, info.ErrorKey)
		return
	}
	require.True(t, info.Success)
	assert.Equal(t, "Adebayo Olamide Johnson", info.AccountName)
	assert.True(t, info.Balance.Equal(decimal.RequireFromString("2450000.50")))
	assert.Equal(t, "Access Bank", info.InstitutionName)
	assert.Equal(t, "NGN", info.Currency)
	assert.Equal(t, model.SourceDatabase, info.Source)
	assert.Equal(t, model.OriginStatic, info.Origin)
}

func TestLookupAccount_StaticRecordTrimmedInput(t *testing.T) {
	r := newTestResolver(t, nil)
	a := lookup(t, r, " 0123456789 ", " 044")
	b := lookup(t, r, "0123456789", "044")
	assert.Equal(t, b, a)
}

func TestLookupAccount_StaticRecordBlocked(t *testing.T) {
	// 0000079190 seeds below the static block threshold.
	require.Less(t, seed.PseudoRandom(float64(seed.FromString("0000079190"))), StaticBlockRate)

	r := newTestResolver(t, func(cfg *catalog.Config) {
		cfg.Accounts = append(cfg.Accounts, catalog.StaticAccount{
			AccountNumber: "0000079190", InstitutionCode: "044",
			AccountName: "Blocked Person", Balance: decimal.NewFromInt(10),
		})
	})
	info := lookup(t, r, "0000079190", "044")
	assert.False(t, info.Success)
	assert.Equal(t, model.ErrKeyAccountBlocked, info.ErrorKey)
}

// ─── Generated records ────────────────────────────────────────────────────────

func TestLookupAccount_GeneratedIsDeterministic(t *testing.T) {
	r := newTestResolver(t, nil)
	first := lookup(t, r, "0000000000", "044")
	second := lookup(t, r, "0000000000", "044")

	require.True(t, first.Success)
	assert.Equal(t, first, second)
	assert.Equal(t, model.OriginGenerated, first.Origin)
	assert.Equal(t, model.SourceDatabase, first.Source)
	assert.Equal(t, "0000000000", first.AccountNumber)
	assert.Equal(t, "044", first.InstitutionCode)
}

func TestLookupAccount_GeneratedDependsOnInstitution(t *testing.T) {
	r := newTestResolver(t, nil)
	a := lookup(t, r, "5555555555", "044")
	b := lookup(t, r, "5555555555", "058")
	require.True(t, a.Success)
	require.True(t, b.Success)
	assert.False(t, a.Balance.Equal(b.Balance))
}

func TestLookupAccount_GeneratedBalanceFormula(t *testing.T) {
	r := newTestResolver(t, nil)
	info := lookup(t, r, "0000000000", "044")
	require.True(t, info.Success)

	base := seed.FromString("0000000000044")
	want := decimal.NewFromFloat(seed.Derive(base, 1.23456)*5_000_000 + 50_000).Round(2)
	assert.True(t, info.Balance.Equal(want), "got %s want %s", info.Balance, want)
	assert.True(t, info.Balance.GreaterThanOrEqual(decimal.NewFromInt(50_000)))
	assert.True(t, info.Balance.LessThan(decimal.NewFromInt(5_050_000)))
}

func TestLookupAccount_GeneratedNameFromTables(t *testing.T) {
	r := newTestResolver(t, nil)
	tables := catalog.DefaultNames()
	firsts := append(append([]string{}, tables.MaleFirst...), tables.FemaleFirst...)
	var surnames []string
	for _, g := range tables.SurnameGroup {
		surnames = append(surnames, g.Surnames...)
	}

	for _, acct := range []string{"0000000000", "0000000001", "0000000003", "1029384756"} {
		info := lookup(t, r, acct, "044")
		if !info.Success {
			continue
		}
		parts := strings.Split(info.AccountName, " ")
		require.Len(t, parts, 2, info.AccountName)
		assert.Contains(t, firsts, parts[0])
		assert.Contains(t, surnames, parts[1])
	}
}

func TestLookupAccount_GeneratedNameFallback(t *testing.T) {
	r := newTestResolver(t, func(cfg *catalog.Config) { cfg.Names = nil })
	info := lookup(t, r, "0000000000", "044")
	require.True(t, info.Success)
	assert.Equal(t, "John Doe", info.AccountName)
}

func TestLookupAccount_NotFound(t *testing.T) {
	r := newTestResolver(t, nil)
	require.Less(t, seed.PseudoRandom(float64(seed.FromString("8080808080044"))), NotFoundRate)

	for i := 0; i < 3; i++ {
		info := lookup(t, r, "8080808080", "044")
		assert.False(t, info.Success)
		assert.Equal(t, model.ErrKeyAccountNotFound, info.ErrorKey)
	}
}

func TestLookupAccount_GeneratedBlocked(t *testing.T) {
	r := newTestResolver(t, nil)
	base := seed.FromString("0000000385044")
	require.GreaterOrEqual(t, seed.PseudoRandom(float64(base)), NotFoundRate)
	require.Less(t, seed.Derive(base, 1.5), GeneratedBlockRate)

	info := lookup(t, r, "0000000385", "044")
	assert.False(t, info.Success)
	assert.Equal(t, model.ErrKeyAccountBlocked, info.ErrorKey)
}

func TestLookupAccount_OutcomeMixIsPlausible(t *testing.T) {
	r := newTestResolver(t, nil)
	notFound := 0
	const n = 2000
	for i := 0; i < n; i++ {
		info := lookup(t, r, fmt.Sprintf("%010d", i*7919), "058")
		if info.ErrorKey == model.ErrKeyAccountNotFound {
			notFound++
		}
	}
	assert.InDelta(t, NotFoundRate, float64(notFound)/n, 0.05)
}

// ─── Faults and context ───────────────────────────────────────────────────────

func TestLookupAccount_NetworkFaultPrecedesValidation(t *testing.T) {
	cat, err := catalog.New(catalog.Default())
	require.NoError(t, err)
	r := NewResolver(cat, faults.New(faults.Rates{Network: 1}), nil)

	info, err := r.LookupAccount(context.Background(), "123", "044")
	assert.ErrorIs(t, err, faults.ErrTransientNetwork)
	assert.True(t, faults.IsRetryable(err))
	assert.Equal(t, model.AccountInfo{}, info)
}

func TestNetworkFault_FollowsRate(t *testing.T) {
	cat, err := catalog.New(catalog.Default())
	require.NoError(t, err)

	assert.NoError(t, NewResolver(cat, faults.Disabled(), nil).NetworkFault("0123456789", "044"))
	assert.ErrorIs(t, NewResolver(cat, faults.New(faults.Rates{Network: 1}), nil).NetworkFault("0123456789", "044"),
		faults.ErrTransientNetwork)
}

func TestLookupAccount_CanceledContext(t *testing.T) {
	r := newTestResolver(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.LookupAccount(ctx, "0123456789", "044")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestInstitutions(t *testing.T) {
	r := newTestResolver(t, nil)
	list := r.Institutions()
	require.NotEmpty(t, list)
	assert.Equal(t, "Access Bank", list[0].Name)
}
