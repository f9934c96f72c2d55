package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/pkg/model"
)

// statusFor maps a structural failure to its HTTP status.
func statusFor(key model.ErrorKey) int {
	switch key {
	case "":
		return fiber.StatusOK
	case model.ErrKeyMissingFields, model.ErrKeyInvalidAccountFormat, model.ErrKeyInvalidInstitution:
		return fiber.StatusBadRequest
	case model.ErrKeyAccountNotFound:
		return fiber.StatusNotFound
	case model.ErrKeyAccountBlocked:
		return fiber.StatusForbidden
	case model.ErrKeyNetwork, model.ErrKeyGeolocationUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// failure writes the standard failure body for key.
func failure(c *fiber.Ctx, key model.ErrorKey) error {
	return c.Status(statusFor(key)).JSON(model.Failed(key))
}

// badRequest writes a failure for malformed query or body input.
func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success":  false,
		"errorKey": "invalid_request",
		"error":    msg,
	})
}

// InstitutionsResponse lists supported banks.
type InstitutionsResponse struct {
	Success      bool                  `json:"success"`
	Institutions []catalog.Institution `json:"banks"`
}

// ChainsResponse lists supported chains.
type ChainsResponse struct {
	Success bool            `json:"success"`
	Chains  []catalog.Chain `json:"chains"`
}

// TransactionsResponse carries a seeded statement.
type TransactionsResponse struct {
	Success       bool                `json:"success"`
	AccountNumber string              `json:"accountNumber"`
	Transactions  []model.Transaction `json:"transactions"`
}

// BranchesResponse carries the nearest branches.
type BranchesResponse struct {
	Success  bool           `json:"success"`
	Location string         `json:"location,omitempty"`
	Branches []model.Branch `json:"branches"`
}

// NameResponse wraps a synthesized name.
type NameResponse struct {
	Success bool `json:"success"`
	model.NameInfo
}

// RecentLookupsResponse carries audit rows.
type RecentLookupsResponse struct {
	Success bool                `json:"success"`
	Lookups []model.LookupEvent `json:"lookups"`
}
