// Package catalog holds the immutable reference data the resolvers and the
// synthesizer read from: institutions, curated records, chains, prices, name
// tables and branches. A Catalog is built once and never mutated, so it can be
// shared by reference across goroutines.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidCatalog is wrapped by every validation failure in New.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Institution is a bank, unique by Code.
type Institution struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// StaticAccount is a curated bank record keyed by (InstitutionCode, AccountNumber).
type StaticAccount struct {
	AccountNumber   string          `json:"accountNumber"`
	InstitutionCode string          `json:"bankCode"`
	AccountName     string          `json:"accountName"`
	Balance         decimal.Decimal `json:"balance"`
	Currency        string          `json:"currency"`
}

// Range is an inclusive decimal interval.
type Range struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Token is an asset that may be attached to a random wallet.
type Token struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Contract string `json:"contract"`
	Range    Range  `json:"range"`
}

// Chain is a blockchain network, unique by ID.
type Chain struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Range  Range   `json:"range"`
	Tokens []Token `json:"tokens"`
}

// StaticWallet is a curated wallet keyed by lowercase Address.
type StaticWallet struct {
	Address string          `json:"address"`
	ChainID string          `json:"chainId"`
	Label   string          `json:"label"`
	Balance decimal.Decimal `json:"balance"`
	Symbol  string          `json:"symbol"`
}

// SurnameGroup is a set of surnames drawn from together.
type SurnameGroup struct {
	Name     string   `json:"name"`
	Surnames []string `json:"surnames"`
}

// NameTables feed the name synthesizer. Middle names and titles are optional;
// an empty slice disables that part of the name.
type NameTables struct {
	MaleFirst    []string       `json:"maleFirst"`
	FemaleFirst  []string       `json:"femaleFirst"`
	Middle       []string       `json:"middle,omitempty"`
	SurnameGroup []SurnameGroup `json:"surnameGroups"`
	MaleTitles   []string       `json:"maleTitles,omitempty"`
	FemaleTitles []string       `json:"femaleTitles,omitempty"`
}

// Usable reports whether the tables can produce a first name and a surname
// for either gender.
func (n *NameTables) Usable() bool {
	if n == nil || len(n.MaleFirst) == 0 || len(n.FemaleFirst) == 0 || len(n.SurnameGroup) == 0 {
		return false
	}
	for _, g := range n.SurnameGroup {
		if len(g.Surnames) == 0 {
			return false
		}
	}
	return true
}

// Branch is a physical branch of an institution.
type Branch struct {
	ID              string `json:"id"`
	InstitutionCode string `json:"bankCode"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	City            string `json:"city"`
}

// Config is the raw, JSON-loadable form of a Catalog.
type Config struct {
	Currency        string                     `json:"currency"`
	AccountBalance  Range                      `json:"accountBalance"`
	Institutions    []Institution              `json:"institutions"`
	Accounts        []StaticAccount            `json:"accounts"`
	DefaultChainID  string                     `json:"defaultChainId"`
	Chains          []Chain                    `json:"chains"`
	Wallets         []StaticWallet             `json:"wallets"`
	Prices          map[string]decimal.Decimal `json:"prices"`
	AddressPrefixes []string                   `json:"addressPrefixes"`
	Names           *NameTables                `json:"names,omitempty"`
	PhonePrefixes   []string                   `json:"phonePrefixes"`
	EmailDomains    []string                   `json:"emailDomains"`
	FallbackCity    string                     `json:"fallbackCity"`
	Branches        []Branch                   `json:"branches"`
}

func (cfg Config) clone() Config {
	out := cfg
	out.Institutions = slices.Clone(cfg.Institutions)
	out.Accounts = slices.Clone(cfg.Accounts)
	out.Chains = slices.Clone(cfg.Chains)
	for i := range out.Chains {
		out.Chains[i].Tokens = slices.Clone(cfg.Chains[i].Tokens)
	}
	out.Wallets = slices.Clone(cfg.Wallets)
	out.Prices = maps.Clone(cfg.Prices)
	out.AddressPrefixes = slices.Clone(cfg.AddressPrefixes)
	out.PhonePrefixes = slices.Clone(cfg.PhonePrefixes)
	out.EmailDomains = slices.Clone(cfg.EmailDomains)
	out.Branches = slices.Clone(cfg.Branches)
	if cfg.Names != nil {
		n := *cfg.Names
		n.MaleFirst = slices.Clone(n.MaleFirst)
		n.FemaleFirst = slices.Clone(n.FemaleFirst)
		n.Middle = slices.Clone(n.Middle)
		n.MaleTitles = slices.Clone(n.MaleTitles)
		n.FemaleTitles = slices.Clone(n.FemaleTitles)
		n.SurnameGroup = slices.Clone(n.SurnameGroup)
		for i := range n.SurnameGroup {
			n.SurnameGroup[i].Surnames = slices.Clone(n.SurnameGroup[i].Surnames)
		}
		out.Names = &n
	}
	return out
}

// Catalog is the validated, indexed, read-only view of a Config.
type Catalog struct {
	cfg          Config
	institutions map[string]Institution
	accounts     map[string]StaticAccount
	chains       map[string]Chain
	wallets      map[string]StaticWallet
	prices       map[string]decimal.Decimal
	sortedInst   []Institution
}

func accountKey(code, acct string) string { return code + "|" + acct }

// New validates cfg and builds its indexes. cfg is deep-copied; later changes
// to the caller's slices, maps and name tables do not leak into the Catalog.
func New(cfg Config) (*Catalog, error) {
	cfg = cfg.clone()
	c := &Catalog{
		cfg:          cfg,
		institutions: make(map[string]Institution, len(cfg.Institutions)),
		accounts:     make(map[string]StaticAccount, len(cfg.Accounts)),
		chains:       make(map[string]Chain, len(cfg.Chains)),
		wallets:      make(map[string]StaticWallet, len(cfg.Wallets)),
		prices:       make(map[string]decimal.Decimal, len(cfg.Prices)),
	}

	if cfg.Currency == "" {
		return nil, fmt.Errorf("%w: currency is required", ErrInvalidCatalog)
	}
	if err := checkRange("accountBalance", cfg.AccountBalance); err != nil {
		return nil, err
	}

	for _, inst := range cfg.Institutions {
		if inst.Code == "" {
			return nil, fmt.Errorf("%w: institution %q has no code", ErrInvalidCatalog, inst.Name)
		}
		if _, dup := c.institutions[inst.Code]; dup {
			return nil, fmt.Errorf("%w: duplicate institution code %s", ErrInvalidCatalog, inst.Code)
		}
		c.institutions[inst.Code] = inst
	}
	c.sortedInst = make([]Institution, 0, len(c.institutions))
	for _, inst := range c.institutions {
		c.sortedInst = append(c.sortedInst, inst)
	}
	sort.Slice(c.sortedInst, func(i, j int) bool {
		if c.sortedInst[i].Name == c.sortedInst[j].Name {
			return c.sortedInst[i].Code < c.sortedInst[j].Code
		}
		return c.sortedInst[i].Name < c.sortedInst[j].Name
	})

	for _, a := range cfg.Accounts {
		if _, ok := c.institutions[a.InstitutionCode]; !ok {
			return nil, fmt.Errorf("%w: account %s references unknown institution %s", ErrInvalidCatalog, a.AccountNumber, a.InstitutionCode)
		}
		if a.Currency == "" {
			a.Currency = cfg.Currency
		}
		c.accounts[accountKey(a.InstitutionCode, a.AccountNumber)] = a
	}

	for _, ch := range cfg.Chains {
		if ch.ID == "" || ch.Symbol == "" {
			return nil, fmt.Errorf("%w: chain %q needs id and symbol", ErrInvalidCatalog, ch.Name)
		}
		if err := checkRange("chain "+ch.ID, ch.Range); err != nil {
			return nil, err
		}
		for _, tk := range ch.Tokens {
			if err := checkRange("token "+tk.Symbol, tk.Range); err != nil {
				return nil, err
			}
		}
		c.chains[ch.ID] = ch
	}
	if _, ok := c.chains[cfg.DefaultChainID]; !ok {
		return nil, fmt.Errorf("%w: default chain %q not in catalog", ErrInvalidCatalog, cfg.DefaultChainID)
	}

	for _, w := range cfg.Wallets {
		w.Address = strings.ToLower(w.Address)
		c.wallets[w.Address] = w
	}
	for sym, p := range cfg.Prices {
		c.prices[strings.ToUpper(sym)] = p
	}

	if len(cfg.AddressPrefixes) == 0 {
		return nil, fmt.Errorf("%w: at least one address prefix is required", ErrInvalidCatalog)
	}
	for _, p := range cfg.AddressPrefixes {
		if len(p) != 1 || !strings.Contains("0123456789abcdef", strings.ToLower(p)) {
			return nil, fmt.Errorf("%w: address prefix %q is not a single hex nibble", ErrInvalidCatalog, p)
		}
	}

	return c, nil
}

func checkRange(what string, r Range) error {
	if r.Min.IsNegative() || r.Max.LessThan(r.Min) {
		return fmt.Errorf("%w: %s range [%s, %s] is invalid", ErrInvalidCatalog, what, r.Min, r.Max)
	}
	return nil
}

// Institution returns the institution for code.
func (c *Catalog) Institution(code string) (Institution, bool) {
	inst, ok := c.institutions[code]
	return inst, ok
}

// Institutions returns all institutions ordered by name.
func (c *Catalog) Institutions() []Institution {
	out := make([]Institution, len(c.sortedInst))
	copy(out, c.sortedInst)
	return out
}

// StaticAccount returns the curated record for (code, acct).
func (c *Catalog) StaticAccount(code, acct string) (StaticAccount, bool) {
	a, ok := c.accounts[accountKey(code, acct)]
	return a, ok
}

// Chain returns the chain for id.
func (c *Catalog) Chain(id string) (Chain, bool) {
	ch, ok := c.chains[id]
	return ch, ok
}

// DefaultChain returns the network used when a caller names none or an unknown one.
func (c *Catalog) DefaultChain() Chain {
	return c.chains[c.cfg.DefaultChainID]
}

// Chains returns the chains in configuration order. Token slices are shared.
func (c *Catalog) Chains() []Chain {
	out := make([]Chain, len(c.cfg.Chains))
	copy(out, c.cfg.Chains)
	return out
}

// StaticWallet returns the curated wallet for an already-lowercased address.
func (c *Catalog) StaticWallet(address string) (StaticWallet, bool) {
	w, ok := c.wallets[address]
	return w, ok
}

// Price returns the USD price of symbol, or 1 when none is configured.
func (c *Catalog) Price(symbol string) decimal.Decimal {
	if p, ok := c.prices[strings.ToUpper(symbol)]; ok {
		return p
	}
	return decimal.NewFromInt(1)
}

// Names returns the name tables, or nil when none are configured. The tables
// are shared with the Catalog and must not be modified.
func (c *Catalog) Names() *NameTables { return c.cfg.Names }

// Currency is the currency of every bank balance.
func (c *Catalog) Currency() string { return c.cfg.Currency }

// AccountBalance is the range random accounts draw their balance from.
func (c *Catalog) AccountBalance() Range { return c.cfg.AccountBalance }

// AddressPrefixes, PhonePrefixes and EmailDomains return shared slices; callers must not modify them.
func (c *Catalog) AddressPrefixes() []string { return c.cfg.AddressPrefixes }

func (c *Catalog) PhonePrefixes() []string { return c.cfg.PhonePrefixes }

func (c *Catalog) EmailDomains() []string { return c.cfg.EmailDomains }

// FallbackCity is used by the branch finder when no location is known.
func (c *Catalog) FallbackCity() string { return c.cfg.FallbackCity }

// BranchesIn returns the branches whose city matches city, case-insensitively,
// in configuration order.
func (c *Catalog) BranchesIn(city string) []Branch {
	var out []Branch
	for _, b := range c.cfg.Branches {
		if strings.EqualFold(b.City, city) {
			out = append(out, b)
		}
	}
	return out
}
