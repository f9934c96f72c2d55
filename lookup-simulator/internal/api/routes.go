package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Checker-Finance/simulators/internal/rate"
	"github.com/Checker-Finance/simulators/internal/store"
)

// RegisterRoutes mounts health, metrics and the v1 API. nc, st and limiter are
// optional; a nil dependency reports "disabled" in /health.
func RegisterRoutes(app *fiber.App, nc *nats.Conn, st store.Store, limiter *rate.Manager, h *LookupHandler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		checks := map[string]string{
			"nats":  "disabled",
			"store": "disabled",
		}
		status := "ok"
		code := fiber.StatusOK

		if nc != nil {
			checks["nats"] = "ok"
			if !nc.IsConnected() {
				checks["nats"] = "disconnected"
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			} else if err := nc.FlushTimeout(1 * time.Second); err != nil {
				checks["nats"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		if st != nil {
			checks["store"] = "ok"
			healthCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := st.HealthCheck(healthCtx); err != nil {
				checks["store"] = err.Error()
				status = "degraded"
				code = fiber.StatusServiceUnavailable
			}
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	})

	// API routes
	v1 := app.Group("/api/v1")
	if limiter != nil {
		v1.Use(rate.Middleware(limiter, rate.ByIP))
	}
	v1.Get("/institutions", h.ListInstitutions)

	bankGroup := v1.Group("/bank")
	bankGroup.Post("/lookup", h.LookupBank)
	bankGroup.Get("/accounts/random", h.RandomAccount)
	bankGroup.Get("/accounts/:accountNumber/transactions", h.TransactionHistory)
	bankGroup.Get("/branches", h.NearestBranches)

	cryptoGroup := v1.Group("/crypto")
	cryptoGroup.Get("/chains", h.ListChains)
	cryptoGroup.Post("/lookup", h.LookupCrypto)
	cryptoGroup.Get("/wallets/random", h.RandomWallet)

	v1.Get("/names/random", h.RandomName)
	v1.Get("/lookups/recent", h.RecentLookups)
}
