package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/bank"
	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/lookup-simulator/internal/service"
	"github.com/Checker-Finance/simulators/pkg/model"
	"github.com/Checker-Finance/simulators/pkg/utils"
)

// LookupService defines the operations exposed over HTTP.
type LookupService interface {
	Institutions() []catalog.Institution
	Chains() []catalog.Chain
	LookupBank(ctx context.Context, accountNumber, institutionCode string) (model.AccountInfo, error)
	LookupCrypto(ctx context.Context, address, chainID string) (model.WalletInfo, error)
	TransactionHistory(accountNumber string) ([]model.Transaction, error)
	NearestBranches(ctx context.Context, location string) ([]model.Branch, error)
	RandomAccount() model.AccountInfo
	RandomWallet() model.WalletInfo
	RandomName(opts synth.NameOptions) model.NameInfo
	RecentLookups(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error)
}

// LookupHandler serves the simulator's REST surface.
type LookupHandler struct {
	logger  *zap.Logger
	service LookupService
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(logger *zap.Logger, svc LookupService) *LookupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LookupHandler{logger: logger, service: svc}
}

// ListInstitutions handles GET /api/v1/institutions.
func (h *LookupHandler) ListInstitutions(c *fiber.Ctx) error {
	return c.JSON(InstitutionsResponse{Success: true, Institutions: h.service.Institutions()})
}

// LookupBank handles POST /api/v1/bank/lookup.
func (h *LookupHandler) LookupBank(c *fiber.Ctx) error {
	var req BankLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err.Error())
	}

	info, err := h.service.LookupBank(c.UserContext(), req.AccountNumber, req.BankCode)
	if err != nil {
		return h.lookupError(c, "bank.lookup.failed", err,
			zap.String("account", utils.MaskAccountNumber(req.AccountNumber)),
			zap.String("bank_code", req.BankCode))
	}
	if !info.Success {
		h.logger.Info("bank.lookup.rejected",
			zap.String("account", utils.MaskAccountNumber(req.AccountNumber)),
			zap.String("bank_code", req.BankCode),
			zap.String("error_key", string(info.ErrorKey)))
	}
	return c.Status(statusFor(info.ErrorKey)).JSON(info)
}

// RandomAccount handles GET /api/v1/bank/accounts/random.
func (h *LookupHandler) RandomAccount(c *fiber.Ctx) error {
	return c.JSON(h.service.RandomAccount())
}

// TransactionHistory handles GET /api/v1/bank/accounts/:accountNumber/transactions.
func (h *LookupHandler) TransactionHistory(c *fiber.Ctx) error {
	acct := c.Params("accountNumber")
	txs, err := h.service.TransactionHistory(acct)
	if err != nil {
		var verr *bank.ValidationError
		if errors.As(err, &verr) {
			return failure(c, verr.Key)
		}
		h.logger.Error("bank.transactions.failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	return c.JSON(TransactionsResponse{Success: true, AccountNumber: acct, Transactions: txs})
}

// NearestBranches handles GET /api/v1/bank/branches?location=.
func (h *LookupHandler) NearestBranches(c *fiber.Ctx) error {
	location := c.Query("location")
	branches, err := h.service.NearestBranches(c.UserContext(), location)
	if err != nil {
		if errors.Is(err, faults.ErrGeolocationUnavailable) {
			return failure(c, model.ErrKeyGeolocationUnavailable)
		}
		return h.lookupError(c, "bank.branches.failed", err, zap.String("location", location))
	}
	return c.JSON(BranchesResponse{Success: true, Location: location, Branches: branches})
}

// ListChains handles GET /api/v1/crypto/chains.
func (h *LookupHandler) ListChains(c *fiber.Ctx) error {
	return c.JSON(ChainsResponse{Success: true, Chains: h.service.Chains()})
}

// LookupCrypto handles POST /api/v1/crypto/lookup. An empty body looks up a
// synthesized address on the default chain.
func (h *LookupHandler) LookupCrypto(c *fiber.Ctx) error {
	var req CryptoLookupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, err.Error())
		}
	}

	info, err := h.service.LookupCrypto(c.UserContext(), req.Address, string(req.ChainID))
	if err != nil {
		return h.lookupError(c, "crypto.lookup.failed", err,
			zap.String("address", utils.MaskAddress(req.Address)),
			zap.String("chain_id", string(req.ChainID)))
	}
	return c.JSON(info)
}

// RandomWallet handles GET /api/v1/crypto/wallets/random.
func (h *LookupHandler) RandomWallet(c *fiber.Ctx) error {
	return c.JSON(h.service.RandomWallet())
}

// RandomName handles GET /api/v1/names/random?gender=&middle=&title=.
func (h *LookupHandler) RandomName(c *fiber.Ctx) error {
	opts, err := parseNameOptions(c.Query("gender"), c.Query("middle"), c.Query("title"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(NameResponse{Success: true, NameInfo: h.service.RandomName(opts)})
}

// RecentLookups handles GET /api/v1/lookups/recent?kind=&limit=.
func (h *LookupHandler) RecentLookups(c *fiber.Ctx) error {
	kind, err := parseLookupKind(c.Query("kind"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	limit, err := parseLimit(c.Query("limit"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	rows, err := h.service.RecentLookups(c.UserContext(), kind, limit)
	if err != nil {
		if errors.Is(err, service.ErrAuditUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"success":  false,
				"errorKey": "audit_unavailable",
				"error":    err.Error(),
			})
		}
		h.logger.Error("lookups.recent.failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
	}
	if rows == nil {
		rows = []model.LookupEvent{}
	}
	return c.JSON(RecentLookupsResponse{Success: true, Lookups: rows})
}

// lookupError maps resolver errors: injected faults become 503 network
// failures, anything else is a 500.
func (h *LookupHandler) lookupError(c *fiber.Ctx, event string, err error, fields ...zap.Field) error {
	if faults.IsRetryable(err) {
		h.logger.Warn(event, append(fields, zap.Error(err))...)
		return failure(c, model.ErrKeyNetwork)
	}
	h.logger.Error(event, append(fields, zap.Error(err))...)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": err.Error()})
}
