// Package store caches deterministic lookup results in Redis and keeps an
// audit trail of lookups in Postgres.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/pkg/model"
)

// Store defines the contract for caching and auditing lookups.
type Store interface {
	GetAccount(ctx context.Context, institutionCode, accountNumber string) (*model.AccountInfo, error)
	PutAccount(ctx context.Context, institutionCode, accountNumber string, info model.AccountInfo, ttl time.Duration) error
	RecordLookup(ctx context.Context, ev model.LookupEvent) error
	RecentLookups(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error)
	HealthCheck(ctx context.Context) error
	Close() error
}

// ErrAuditDisabled is returned by ledger reads when no Postgres pool is configured.
var ErrAuditDisabled = errors.New("postgres unavailable: audit ledger disabled")

// HybridStore is Redis-first with an optional Postgres audit ledger.
type HybridStore struct {
	redis  *redis.Client
	PG     *pgxpool.Pool
	logger *zap.Logger
}

// PGPoolConfig tunes the Postgres pool. Zero values keep pgx defaults.
type PGPoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// NewHybrid connects to Redis and, when pgURL is set, to Postgres.
func NewHybrid(redisAddr string, redisDB int, redisPass, pgURL string, pgPoolConfig PGPoolConfig, logger *zap.Logger) (*HybridStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		DB:       redisDB,
		Password: redisPass,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	var pgPool *pgxpool.Pool
	if pgURL != "" {
		cfg, err := pgxpool.ParseConfig(pgURL)
		if err != nil {
			return nil, fmt.Errorf("invalid pg config: %w", err)
		}
		if pgPoolConfig.MaxConns > 0 {
			cfg.MaxConns = pgPoolConfig.MaxConns
		}
		if pgPoolConfig.MinConns > 0 {
			cfg.MinConns = pgPoolConfig.MinConns
		}
		if pgPoolConfig.MaxConnLifetime > 0 {
			cfg.MaxConnLifetime = pgPoolConfig.MaxConnLifetime
		}
		if pgPoolConfig.MaxConnIdleTime > 0 {
			cfg.MaxConnIdleTime = pgPoolConfig.MaxConnIdleTime
		}
		if pgPoolConfig.HealthCheckPeriod > 0 {
			cfg.HealthCheckPeriod = pgPoolConfig.HealthCheckPeriod
		}
		pgPool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
	}

	return &HybridStore{redis: rdb, PG: pgPool, logger: logger}, nil
}

func accountKey(code, acct string) string {
	return fmt.Sprintf("lookup:bank:%s:%s", code, acct)
}

// GetAccount returns the cached result for (code, acct), or nil on a miss.
func (s *HybridStore) GetAccount(ctx context.Context, institutionCode, accountNumber string) (*model.AccountInfo, error) {
	data, err := s.redis.Get(ctx, accountKey(institutionCode, accountNumber)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var info model.AccountInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// PutAccount caches info for (code, acct). A zero ttl never expires.
func (s *HybridStore) PutAccount(ctx context.Context, institutionCode, accountNumber string, info model.AccountInfo, ttl time.Duration) error {
	data, err := json.Marshal(info)
	if err != nil {
		return err
	}
	if err := s.redis.Set(ctx, accountKey(institutionCode, accountNumber), data, ttl).Err(); err != nil {
		s.logger.Error("store.redis.set_failed", zap.Error(err))
		return err
	}
	return nil
}

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS lookup_audit;
	CREATE TABLE IF NOT EXISTS lookup_audit.lookup_event (
		id          UUID PRIMARY KEY,
		kind        TEXT NOT NULL,
		lookup_key  TEXT NOT NULL,
		qualifier   TEXT NOT NULL DEFAULT '',
		success     BOOLEAN NOT NULL,
		error_key   TEXT NOT NULL DEFAULT '',
		source      TEXT NOT NULL DEFAULT '',
		cached      BOOLEAN NOT NULL DEFAULT FALSE,
		occurred_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS lookup_event_kind_time_idx
		ON lookup_audit.lookup_event (kind, occurred_at DESC);
`

// EnsureSchema creates the audit table when Postgres is configured.
func (s *HybridStore) EnsureSchema(ctx context.Context) error {
	if s.PG == nil {
		return nil
	}
	if _, err := s.PG.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// RecordLookup inserts an immutable row into lookup_audit.lookup_event.
func (s *HybridStore) RecordLookup(ctx context.Context, ev model.LookupEvent) error {
	if s.PG == nil {
		return nil
	}
	_, err := s.PG.Exec(ctx, `
		INSERT INTO lookup_audit.lookup_event (
			id, kind, lookup_key, qualifier, success, error_key, source, cached, occurred_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`, ev.ID, string(ev.Kind), ev.Key, ev.Qualifier, ev.Success,
		string(ev.ErrorKey), string(ev.Source), ev.Cached, ev.OccurredAt)
	if err != nil {
		s.logger.Error("store.pg.insert_lookup_failed", zap.Error(err))
	}
	return err
}

// RecentLookups returns the newest audit rows of kind (all kinds when empty).
func (s *HybridStore) RecentLookups(ctx context.Context, kind model.LookupKind, limit int) ([]model.LookupEvent, error) {
	if s.PG == nil {
		return nil, ErrAuditDisabled
	}
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.PG.Query(ctx, `
		SELECT id, kind, lookup_key, qualifier, success, error_key, source, cached, occurred_at
		FROM lookup_audit.lookup_event
		WHERE ($1 = '' OR kind = $1)
		ORDER BY occurred_at DESC
		LIMIT $2;
	`, string(kind), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LookupEvent
	for rows.Next() {
		var (
			ev                    model.LookupEvent
			kindS, errKey, source string
		)
		if err := rows.Scan(&ev.ID, &kindS, &ev.Key, &ev.Qualifier, &ev.Success,
			&errKey, &source, &ev.Cached, &ev.OccurredAt); err != nil {
			return nil, err
		}
		ev.Kind = model.LookupKind(kindS)
		ev.ErrorKey = model.ErrorKey(errKey)
		ev.Source = model.Source(source)
		out = append(out, ev)
	}
	return out, rows.Err()
}

// HealthCheck pings Redis and, when configured, Postgres.
func (s *HybridStore) HealthCheck(ctx context.Context) error {
	if s.redis == nil {
		return fmt.Errorf("redis not initialized")
	}
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if s.PG != nil {
		if err := s.PG.Ping(ctx); err != nil {
			return fmt.Errorf("postgres ping failed: %w", err)
		}
	}
	return nil
}

// Close releases both connections.
func (s *HybridStore) Close() error {
	if s.PG != nil {
		s.PG.Close()
	}
	if s.redis != nil {
		return s.redis.Close()
	}
	return nil
}
