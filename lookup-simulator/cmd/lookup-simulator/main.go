package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"

	"github.com/Checker-Finance/simulators/internal/bank"
	"github.com/Checker-Finance/simulators/internal/catalog"
	"github.com/Checker-Finance/simulators/internal/crypto"
	"github.com/Checker-Finance/simulators/internal/faults"
	"github.com/Checker-Finance/simulators/internal/jobs"
	"github.com/Checker-Finance/simulators/internal/publisher"
	"github.com/Checker-Finance/simulators/internal/rate"
	"github.com/Checker-Finance/simulators/internal/secrets"
	"github.com/Checker-Finance/simulators/internal/store"
	"github.com/Checker-Finance/simulators/internal/synth"
	"github.com/Checker-Finance/simulators/lookup-simulator/internal/api"
	"github.com/Checker-Finance/simulators/lookup-simulator/internal/service"
	"github.com/Checker-Finance/simulators/lookup-simulator/pkg/config"
	"github.com/Checker-Finance/simulators/pkg/eventbus"
	"github.com/Checker-Finance/simulators/pkg/logger"
	pkgsecrets "github.com/Checker-Finance/simulators/pkg/secrets"
	"github.com/Checker-Finance/simulators/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [lookup-simulator]...")

	// --- Connection secrets ---
	if cfg.UseAWSSecrets {
		provider, err := pkgsecrets.NewAWSProvider(ctx, cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to init AWS secrets provider", "error", err)
		}
		conn, err := secrets.Resolve(ctx, logger.L(), provider, cfg.Env, cfg.ServiceName)
		if err != nil {
			logg.Fatalw("failed to resolve connection secrets", "error", err)
		}
		cfg.ApplyConnections(conn)
	}

	// --- Catalog ---
	cat, err := catalog.Load(cfg.CatalogPath, logger.L(), catalog.WithDefaultChain(cfg.DefaultChainID))
	if err != nil {
		logg.Fatalw("failed to load catalog", "path", cfg.CatalogPath, "error", err)
	}

	// --- Resolvers ---
	inj := faults.New(faults.Rates{
		Network:     cfg.NetworkFailureRate,
		Geolocation: cfg.GeolocationFailureRate,
	})
	gen := synth.New(cat)
	bankResolver := bank.NewResolver(cat, inj, logger.L().Named("bank"))
	cryptoResolver := crypto.NewResolver(cat, gen, inj, logger.L().Named("crypto"))

	// --- Store (Redis cache + optional Postgres audit ledger) ---
	var st store.Store
	var pruner *jobs.AuditPruner
	if cfg.RedisAddr != "" {
		if cfg.DatabaseURL != "" {
			logg.Info("connection to DSN: ", utils.MaskDSN(cfg.DatabaseURL))
		}
		hybrid, err := store.NewHybrid(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, cfg.DatabaseURL, store.PGPoolConfig{
			MaxConns:          int32(cfg.PGMaxConns),
			MinConns:          int32(cfg.PGMinConns),
			MaxConnLifetime:   cfg.PGMaxConnLifetime,
			MaxConnIdleTime:   cfg.PGMaxConnIdleTime,
			HealthCheckPeriod: cfg.PGHealthCheckPeriod,
		}, logger.L().Named("store"))
		if err != nil {
			logg.Fatalw("failed to init store", "error", err)
		}
		if err := hybrid.EnsureSchema(ctx); err != nil {
			logg.Fatalw("failed to ensure audit schema", "error", err)
		}
		st = hybrid
		if hybrid.PG != nil {
			pruner = jobs.NewAuditPruner(logger.L().Named("audit_pruner"), hybrid.PG, cfg.AuditRetention, cfg.AuditPruneInterval)
			go pruner.Start(ctx)
		}
	} else {
		logg.Warn("REDIS_ADDR not configured; result cache is in-process only and audit is disabled")
	}

	// --- Event fan-out ---
	bus := eventbus.New()
	var sinks []publisher.Sink

	var nc *nats.Conn
	if cfg.NATSURL != "" {
		nc, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.ServiceName))
		if err != nil {
			logg.Fatalw("failed to connect to NATS", "error", err)
		}
		pub, err := publisher.NewNATS(nc, cfg.EventsSubject, cfg.EventsStream, cfg.ServiceName, logger.L().Named("nats"))
		if err != nil {
			logg.Fatalw("failed to init NATS publisher", "error", err)
		}
		sinks = append(sinks, pub)
	}
	if cfg.AMQPURL != "" {
		pub, err := publisher.NewAMQP(cfg.AMQPURL, logger.L().Named("amqp"))
		if err != nil {
			logg.Fatalw("failed to init RabbitMQ publisher", "error", err)
		}
		sinks = append(sinks, pub)
	}
	for _, sink := range sinks {
		publisher.Attach(bus, sink, logger.L())
	}

	// --- Service ---
	svc := service.New(bankResolver, cryptoResolver, gen, st, bus, cfg.LookupCacheTTL, logger.L().Named("service"))
	stopCleaner := make(chan struct{})
	go svc.StartCacheCleaner(cfg.CacheCleanupFreq, stopCleaner)

	// --- Rate limiter ---
	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	})

	// --- Fiber HTTP Server ---
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		BodyLimit:    cfg.HTTPBodyLimit,
	})
	api.RegisterRoutes(app, nc, st, rateMgr, api.NewLookupHandler(logger.L().Named("api"), svc))

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[lookup-simulator] running",
		"env", cfg.Env,
		"network_failure_rate", inj.Rates().Network,
		"geolocation_failure_rate", inj.Rates().Geolocation,
		"cache_ttl", cfg.LookupCacheTTL,
		"sinks", len(sinks))

	<-ctx.Done()
	logg.Info("shutting down [lookup-simulator]...")

	close(stopCleaner)
	if pruner != nil {
		pruner.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
	bus.Wait()
	for _, sink := range sinks {
		if err := sink.Close(); err != nil {
			logg.Warnw("publisher.close_failed", "sink", sink.Name(), "error", err)
		}
	}
	if st != nil {
		if err := st.Close(); err != nil {
			logg.Warnw("store.close_failed", "error", err)
		}
	}
}
