package synth

import (
	"math/rand/v2"
	"regexp"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// ─── Helpers ──────────────────────────────────────────────────────────────────

// scriptedRand replays fixed draws, then falls back to zero.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *scriptedRand) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	i := r.ints[0] % n
	r.ints = r.ints[1:]
	return i
}

func newCatalog(t *testing.T, mutate func(*catalog.Config)) *catalog.Catalog {
	t.Helper()
	cfg := catalog.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := catalog.New(cfg)
	require.NoError(t, err)
	return c
}

func seeded() *rand.Rand { return rand.New(rand.NewPCG(7, 11)) }

func boolPtr(b bool) *bool { return &b }

var addressRe = regexp.MustCompile(`^0x[1-9a-f][0-9a-f]{39}$`)

// ─── Addresses and balances ───────────────────────────────────────────────────

func TestRandomAddress_Shape(t *testing.T) {
	s := NewWithRand(newCatalog(t, nil), seeded())
	for i := 0; i < 200; i++ {
		addr := s.RandomAddress()
		assert.Len(t, addr, 42)
		assert.Regexp(t, addressRe, addr)
	}
}

func TestRandomAddress_UsesPrefixSet(t *testing.T) {
	c := newCatalog(t, func(cfg *catalog.Config) { cfg.AddressPrefixes = []string{"A"} })
	s := NewWithRand(c, seeded())
	assert.True(t, strings.HasPrefix(s.RandomAddress(), "0xa"))
}

func TestRandomBalance_WithinRangeAndPrecision(t *testing.T) {
	s := NewWithRand(newCatalog(t, nil), seeded())
	r := catalog.Range{Min: decimal.NewFromInt(100), Max: decimal.NewFromInt(200)}
	for i := 0; i < 500; i++ {
		v := s.RandomBalance(r, 2)
		assert.True(t, v.GreaterThanOrEqual(r.Min), v.String())
		assert.True(t, v.LessThanOrEqual(r.Max), v.String())
		assert.LessOrEqual(t, -v.Exponent(), int32(2))
	}
}

func TestRandomBalance_DegenerateRange(t *testing.T) {
	s := NewWithRand(newCatalog(t, nil), seeded())
	r := catalog.Range{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(5)}
	assert.True(t, s.RandomBalance(r, 8).Equal(decimal.NewFromInt(5)))
}

// ─── Contact details ──────────────────────────────────────────────────────────

func TestPhoneNumber(t *testing.T) {
	c := newCatalog(t, nil)
	s := NewWithRand(c, seeded())
	for i := 0; i < 50; i++ {
		p := s.PhoneNumber()
		assert.Len(t, p, 11)
		assert.Contains(t, c.PhonePrefixes(), p[:4])
	}
}

func TestPhoneNumber_NoPrefixes(t *testing.T) {
	s := NewWithRand(newCatalog(t, func(cfg *catalog.Config) { cfg.PhonePrefixes = nil }), seeded())
	p := s.PhoneNumber()
	assert.True(t, strings.HasPrefix(p, "0800"))
	assert.Len(t, p, 11)
}

func TestEmail_DerivedFromName(t *testing.T) {
	s := NewWithRand(newCatalog(t, nil), &scriptedRand{ints: []int{0, 42}})
	email := s.Email(model.NameInfo{FirstName: "Ngozi", LastName: "Okafor-Eze"})
	assert.Equal(t, "ngozi.okaforeze42@gmail.com", email)
}

func TestRandomAccountNumber(t *testing.T) {
	s := NewWithRand(newCatalog(t, nil), seeded())
	assert.Regexp(t, `^[0-9]{10}$`, s.RandomAccountNumber())
}

// ─── Accounts ─────────────────────────────────────────────────────────────────

func TestRandomAccount(t *testing.T) {
	c := newCatalog(t, nil)
	s := NewWithRand(c, seeded())
	acct := s.RandomAccount()

	assert.True(t, acct.Success)
	assert.Equal(t, model.SourceRandom, acct.Source)
	assert.Regexp(t, `^[0-9]{10}$`, acct.AccountNumber)
	_, ok := c.Institution(acct.InstitutionCode)
	assert.True(t, ok)
	assert.NotEmpty(t, acct.AccountName)
	assert.Contains(t, acct.Email, "@")
	assert.Equal(t, "NGN", acct.Currency)
	assert.True(t, acct.Balance.GreaterThanOrEqual(c.AccountBalance().Min))
	assert.True(t, acct.Balance.LessThanOrEqual(c.AccountBalance().Max))
}

// ─── Wallets ──────────────────────────────────────────────────────────────────

func TestRandomHoldings_ZeroBalance(t *testing.T) {
	c := newCatalog(t, nil)
	s := NewWithRand(c, &scriptedRand{floats: []float64{0.1}})
	h := s.RandomHoldings(c.DefaultChain())
	assert.True(t, h.Balance.IsZero())
	assert.True(t, h.USDValue.IsZero())
	assert.Empty(t, h.Tokens)
}

func TestRandomHoldings_NoTokens(t *testing.T) {
	c := newCatalog(t, nil)
	// not empty, balance draw 0.5, token roll 0.9 (no tokens)
	s := NewWithRand(c, &scriptedRand{floats: []float64{0.5, 0.5, 0.9}})
	chain := c.DefaultChain()
	h := s.RandomHoldings(chain)

	want := chain.Range.Min.Add(chain.Range.Max.Sub(chain.Range.Min).Mul(decimal.NewFromFloat(0.5))).Round(8)
	assert.True(t, h.Balance.Equal(want), h.Balance.String())
	assert.True(t, h.USDValue.Equal(want.Mul(decimal.NewFromInt(3200)).Round(2)))
	assert.Empty(t, h.Tokens)
}

func TestRandomHoldings_WithDistinctTokens(t *testing.T) {
	c := newCatalog(t, nil)
	chain, _ := c.Chain("1")
	s := NewWithRand(c, &scriptedRand{
		floats: []float64{0.5, 0.5, 0.1, 0.5, 0.5, 0.5},
		ints:   []int{2, 0, 0, 0}, // count=3, then always swap in the current slot
	})
	h := s.RandomHoldings(chain)
	require.Len(t, h.Tokens, 3)

	seen := map[string]bool{}
	for _, tk := range h.Tokens {
		assert.False(t, seen[tk.Symbol], "duplicate token %s", tk.Symbol)
		seen[tk.Symbol] = true
		assert.True(t, tk.USDValue.Equal(USDValue(tk.Balance, c.Price(tk.Symbol))))
	}
	assert.Equal(t, []string{"USDT", "USDC", "DAI"}, []string{h.Tokens[0].Symbol, h.Tokens[1].Symbol, h.Tokens[2].Symbol})
}

func TestRandomHoldings_TokenCountBounded(t *testing.T) {
	c := newCatalog(t, nil)
	s := NewWithRand(c, seeded())
	for _, chain := range c.Chains() {
		for i := 0; i < 100; i++ {
			h := s.RandomHoldings(chain)
			assert.LessOrEqual(t, len(h.Tokens), MaxTokens)
		}
	}
}

func TestRandomWallet(t *testing.T) {
	c := newCatalog(t, nil)
	s := NewWithRand(c, seeded())
	w := s.RandomWallet()

	assert.True(t, w.Success)
	assert.Equal(t, model.SourceRandom, w.Source)
	assert.Regexp(t, addressRe, w.Address)
	chain, ok := c.Chain(w.ChainID)
	require.True(t, ok)
	assert.Equal(t, chain.Symbol, w.Symbol)
	assert.Equal(t, chain.Name, w.ChainName)
}

func TestUSDValue(t *testing.T) {
	got := USDValue(decimal.RequireFromString("1.123456"), decimal.NewFromInt(3))
	assert.Equal(t, "3.37", got.String())
}
