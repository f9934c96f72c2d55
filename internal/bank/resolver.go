// Package bank simulates bank account verification.
//
// Every outcome except the injected network fault is a pure function of the
// request: curated records come from the catalog, everything else is derived
// from a seed of the account number and institution code.
package bank

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/seed"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/pkg/model"
	"github.com/Checker-Finance/simulators/pkg/utils"
)

const (
	// StaticBlockRate is the share of curated accounts reported as blocked.
	StaticBlockRate = 0.02
	// NotFoundRate is the share of generated accounts reported as missing.
	NotFoundRate = 0.15
	// GeneratedBlockRate is the share of generated accounts reported as blocked.
	GeneratedBlockRate = 0.02

	balanceScale = 5_000_000
	balanceFloor = 50_000
)

// Sub-seed factors, in derivation order.
const (
	genderFactor    = 1.1
	firstNameFactor = 1.2
	groupFactor     = 1.3
	surnameFactor   = 1.4
	blockFactor     = 1.5
	balanceFactor   = 1.23456
)

var accountNumberRe = regexp.MustCompile(`^[0-9]{10}$`)

// ValidAccountNumber reports whether acct is exactly ten ASCII digits.
func ValidAccountNumber(acct string) bool {
	return accountNumberRe.MatchString(acct)
}

// Resolver answers bank lookups against a catalog.
type Resolver struct {
	cat    *catalog.Catalog
	faults *faults.Injector
	logger *zap.Logger
	now    func() time.Time
}

// NewResolver creates a Resolver. A nil injector disables fault injection.
func NewResolver(cat *catalog.Catalog, inj *faults.Injector, logger *zap.Logger) *Resolver {
	if inj == nil {
		inj = faults.Disabled()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cat: cat, faults: inj, logger: logger, now: time.Now}
}

// Institutions lists the catalog's institutions ordered by name.
func (r *Resolver) Institutions() []catalog.Institution {
	return r.cat.Institutions()
}

// NetworkFault rolls the transient network fault a lookup of accountNumber
// at institutionCode is subject to. LookupAccount rolls it first; callers
// answering from a cache roll it themselves.
func (r *Resolver) NetworkFault(accountNumber, institutionCode string) error {
	if err := r.faults.Network(); err != nil {
		r.logger.Warn("bank.lookup.network_fault",
			zap.String("account", utils.MaskAccountNumber(accountNumber)),
			zap.String("bank_code", institutionCode))
		return err
	}
	return nil
}

// LookupAccount verifies accountNumber at institutionCode. Structural failures
// (missing fields, bad format, unknown institution, not found, blocked) are
// reported in the returned AccountInfo; the error is reserved for injected
// faults and context cancellation.
func (r *Resolver) LookupAccount(ctx context.Context, accountNumber, institutionCode string) (model.AccountInfo, error) {
	if err := ctx.Err(); err != nil {
		return model.AccountInfo{}, err
	}
	if err := r.NetworkFault(accountNumber, institutionCode); err != nil {
		return model.AccountInfo{}, err
	}

	acct := strings.TrimSpace(accountNumber)
	code := strings.TrimSpace(institutionCode)

	if acct == "" || code == "" {
		return model.Failed(model.ErrKeyMissingFields), nil
	}
	if !ValidAccountNumber(acct) {
		return model.Failed(model.ErrKeyInvalidAccountFormat), nil
	}
	inst, ok := r.cat.Institution(code)
	if !ok {
		return model.Failed(model.ErrKeyInvalidInstitution), nil
	}

	if rec, ok := r.cat.StaticAccount(code, acct); ok {
		return r.resolveStatic(rec, inst), nil
	}
	return r.resolveGenerated(acct, inst), nil
}

func (r *Resolver) resolveStatic(rec catalog.StaticAccount, inst catalog.Institution) model.AccountInfo {
	if seed.PseudoRandom(float64(seed.FromString(rec.AccountNumber))) < StaticBlockRate {
		r.logger.Debug("bank.lookup.blocked",
			zap.String("account", utils.MaskAccountNumber(rec.AccountNumber)),
			zap.String("origin", string(model.OriginStatic)))
		return model.Failed(model.ErrKeyAccountBlocked)
	}
	return model.AccountInfo{
		Success:         true,
		AccountNumber:   rec.AccountNumber,
		AccountName:     rec.AccountName,
		InstitutionCode: inst.Code,
		InstitutionName: inst.Name,
		Balance:         rec.Balance,
		Currency:        rec.Currency,
		Source:          model.SourceDatabase,
		Origin:          model.OriginStatic,
	}
}

func (r *Resolver) resolveGenerated(acct string, inst catalog.Institution) model.AccountInfo {
	base := seed.FromString(acct + inst.Code)
	if seed.PseudoRandom(float64(base)) < NotFoundRate {
		r.logger.Debug("bank.lookup.not_found",
			zap.String("account", utils.MaskAccountNumber(acct)),
			zap.String("bank_code", inst.Code))
		return model.Failed(model.ErrKeyAccountNotFound)
	}

	name := r.seededName(base)

	if seed.Derive(base, blockFactor) < GeneratedBlockRate {
		r.logger.Debug("bank.lookup.blocked",
			zap.String("account", utils.MaskAccountNumber(acct)),
			zap.String("origin", string(model.OriginGenerated)))
		return model.Failed(model.ErrKeyAccountBlocked)
	}

	balance := seed.Derive(base, balanceFactor)*balanceScale + balanceFloor

	return model.AccountInfo{
		Success:         true,
		AccountNumber:   acct,
		AccountName:     name,
		InstitutionCode: inst.Code,
		InstitutionName: inst.Name,
		Balance:         decimal.NewFromFloat(balance).Round(2),
		Currency:        r.cat.Currency(),
		Source:          model.SourceDatabase,
		Origin:          model.OriginGenerated,
	}
}

// seededName picks gender, first name, surname group and surname from
// successive sub-seeds of base.
func (r *Resolver) seededName(base uint32) string {
	tables := r.cat.Names()
	if !tables.Usable() {
		return synth.FallbackName().FullName
	}

	firsts := tables.FemaleFirst
	if seed.Derive(base, genderFactor) > 0.5 {
		firsts = tables.MaleFirst
	}
	first := firsts[seed.Index(seed.Derive(base, firstNameFactor), len(firsts))]
	group := tables.SurnameGroup[seed.Index(seed.Derive(base, groupFactor), len(tables.SurnameGroup))]
	surname := group.Surnames[seed.Index(seed.Derive(base, surnameFactor), len(group.Surnames))]

	return first + " " + surname
}
