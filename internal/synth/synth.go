// Package synth fabricates identities, balances and wallets from unseeded
// randomness. Nothing it returns is reproducible.
package synth

import (
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/pkg/model"
)

const (
	// ZeroBalanceRate is the chance a random wallet is empty.
	ZeroBalanceRate = 0.20
	// TokenAttachRate is the chance a non-empty random wallet carries tokens.
	TokenAttachRate = 0.50
	// MaxTokens caps the number of distinct tokens attached to one wallet.
	MaxTokens = 3

	middleNameRate = 0.30
	titleRate      = 0.20

	addressNibbles = 40
	hexDigits      = "0123456789abcdef"
	accountDigits  = 10
	phoneDigits    = 7

	// BalancePlaces is the precision of fiat balances; CryptoPlaces of coin balances.
	BalancePlaces = 2
	CryptoPlaces  = 8
)

// Rand is the subset of *rand.Rand the synthesizer draws from.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
func (globalRand) IntN(n int) int   { return rand.IntN(n) }

// Synthesizer produces random profiles from a catalog.
type Synthesizer struct {
	cat *catalog.Catalog
	rnd Rand
}

// New creates a Synthesizer drawing from the global math/rand/v2 source.
func New(cat *catalog.Catalog) *Synthesizer {
	return &Synthesizer{cat: cat, rnd: globalRand{}}
}

// NewWithRand creates a Synthesizer drawing from r. A *rand.Rand is not safe
// for concurrent use; callers sharing one must serialize access.
func NewWithRand(cat *catalog.Catalog, r Rand) *Synthesizer {
	return &Synthesizer{cat: cat, rnd: r}
}

func (s *Synthesizer) pick(list []string) string {
	return list[s.rnd.IntN(len(list))]
}

func (s *Synthesizer) digits(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(byte('0' + s.rnd.IntN(10)))
	}
	return b.String()
}

// RandomAddress returns "0x" followed by one nibble from the configured prefix
// set and 39 further random nibbles.
func (s *Synthesizer) RandomAddress() string {
	var b strings.Builder
	b.Grow(2 + addressNibbles)
	b.WriteString("0x")
	b.WriteString(strings.ToLower(s.pick(s.cat.AddressPrefixes())))
	for i := 1; i < addressNibbles; i++ {
		b.WriteByte(hexDigits[s.rnd.IntN(len(hexDigits))])
	}
	return b.String()
}

// RandomBalance draws uniformly from r and rounds to places.
func (s *Synthesizer) RandomBalance(r catalog.Range, places int32) decimal.Decimal {
	span := r.Max.Sub(r.Min)
	v := r.Min.Add(span.Mul(decimal.NewFromFloat(s.rnd.Float64()))).Round(places)
	if v.GreaterThan(r.Max) {
		return r.Max
	}
	if v.LessThan(r.Min) {
		return r.Min
	}
	return v
}

// RandomAccountNumber returns ten random digits.
func (s *Synthesizer) RandomAccountNumber() string {
	return s.digits(accountDigits)
}

// PhoneNumber returns a configured prefix followed by seven random digits.
func (s *Synthesizer) PhoneNumber() string {
	prefixes := s.cat.PhonePrefixes()
	if len(prefixes) == 0 {
		return "0800" + s.digits(phoneDigits)
	}
	return s.pick(prefixes) + s.digits(phoneDigits)
}

// Email derives an address from name: first.last plus up to three digits.
func (s *Synthesizer) Email(name model.NameInfo) string {
	domain := "example.com"
	if domains := s.cat.EmailDomains(); len(domains) > 0 {
		domain = s.pick(domains)
	}
	local := letters(name.FirstName) + "." + letters(name.LastName)
	if n := s.rnd.IntN(1000); n > 0 {
		local += strconv.Itoa(n)
	}
	return local + "@" + domain
}

func letters(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, s)
}

// RandomAccount fabricates a bank account at a random institution.
func (s *Synthesizer) RandomAccount() model.AccountInfo {
	insts := s.cat.Institutions()
	var inst catalog.Institution
	if len(insts) > 0 {
		inst = insts[s.rnd.IntN(len(insts))]
	}
	name := s.RandomName(NameOptions{})
	return model.AccountInfo{
		Success:         true,
		AccountNumber:   s.RandomAccountNumber(),
		AccountName:     name.FullName,
		InstitutionCode: inst.Code,
		InstitutionName: inst.Name,
		Balance:         s.RandomBalance(s.cat.AccountBalance(), BalancePlaces),
		Currency:        s.cat.Currency(),
		Phone:           s.PhoneNumber(),
		Email:           s.Email(name),
		Source:          model.SourceRandom,
	}
}

// Holdings is the randomly drawn content of a wallet.
type Holdings struct {
	Balance  decimal.Decimal
	USDValue decimal.Decimal
	Tokens   []model.TokenBalance
}

// RandomHoldings applies the random-wallet policy for chain: ZeroBalanceRate
// empty, otherwise a native balance and, with TokenAttachRate, one to
// MaxTokens distinct tokens.
func (s *Synthesizer) RandomHoldings(chain catalog.Chain) Holdings {
	if s.rnd.Float64() < ZeroBalanceRate {
		return Holdings{Balance: decimal.Zero, USDValue: decimal.Zero}
	}
	bal := s.RandomBalance(chain.Range, CryptoPlaces)
	h := Holdings{
		Balance:  bal,
		USDValue: USDValue(bal, s.cat.Price(chain.Symbol)),
	}
	if len(chain.Tokens) > 0 && s.rnd.Float64() < TokenAttachRate {
		h.Tokens = s.randomTokens(chain.Tokens)
	}
	return h
}

func (s *Synthesizer) randomTokens(tokens []catalog.Token) []model.TokenBalance {
	limit := min(MaxTokens, len(tokens))
	count := 1 + s.rnd.IntN(limit)

	idx := make([]int, len(tokens))
	for i := range idx {
		idx[i] = i
	}
	out := make([]model.TokenBalance, 0, count)
	for i := 0; i < count; i++ {
		j := i + s.rnd.IntN(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		tk := tokens[idx[i]]
		bal := s.RandomBalance(tk.Range, CryptoPlaces)
		out = append(out, model.TokenBalance{
			Symbol:   tk.Symbol,
			Name:     tk.Name,
			Contract: tk.Contract,
			Balance:  bal,
			USDValue: USDValue(bal, s.cat.Price(tk.Symbol)),
		})
	}
	return out
}

// RandomWallet fabricates a wallet on a random chain.
func (s *Synthesizer) RandomWallet() model.WalletInfo {
	chains := s.cat.Chains()
	chain := s.cat.DefaultChain()
	if len(chains) > 0 {
		chain = chains[s.rnd.IntN(len(chains))]
	}
	h := s.RandomHoldings(chain)
	return model.WalletInfo{
		Success:   true,
		Address:   s.RandomAddress(),
		ChainID:   chain.ID,
		ChainName: chain.Name,
		Balance:   h.Balance,
		Symbol:    chain.Symbol,
		USDValue:  h.USDValue,
		Tokens:    h.Tokens,
		Source:    model.SourceRandom,
	}
}

// USDValue prices amount and rounds to cents.
func USDValue(amount, price decimal.Decimal) decimal.Decimal {
	return amount.Mul(price).Round(2)
}
