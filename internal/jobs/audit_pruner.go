package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/Checker-Finance/simulators/internal/metrics"
)

const pruneSQL = `DELETE FROM lookup_audit.lookup_event WHERE occurred_at < $1`

// DBExecutor defines minimal subset of pgxpool.Pool needed for execution.
type DBExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AuditPruner periodically deletes lookup audit rows older than the retention window.
type AuditPruner struct {
	logger    *zap.Logger
	db        DBExecutor
	retention time.Duration
	interval  time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewAuditPruner constructs a background job that runs every interval.
func NewAuditPruner(logger *zap.Logger, db DBExecutor, retention, interval time.Duration) *AuditPruner {
	return &AuditPruner{
		logger:    logger,
		db:        db,
		retention: retention,
		interval:  interval,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs the prune loop until Stop is called or ctx is canceled.
// A pass runs immediately so a restarted service catches up.
func (p *AuditPruner) Start(ctx context.Context) {
	if p.interval <= 0 || p.retention <= 0 {
		p.logger.Info("audit_pruner.disabled")
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("audit_pruner.started",
		zap.Duration("interval", p.interval),
		zap.Duration("retention", p.retention))

	p.RunOnce(ctx)
	for {
		select {
		case <-ticker.C:
			p.RunOnce(ctx)
		case <-p.stopCh:
			p.logger.Info("audit_pruner.stopped (manual stop)")
			return
		case <-ctx.Done():
			p.logger.Info("audit_pruner.stopped (context canceled)")
			return
		}
	}
}

// Stop halts the pruner. Safe to call more than once.
func (p *AuditPruner) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// RunOnce executes one prune cycle and returns the number of deleted rows.
func (p *AuditPruner) RunOnce(ctx context.Context) int64 {
	start := time.Now()
	cutoff := p.now().UTC().Add(-p.retention)

	tag, err := p.db.Exec(ctx, pruneSQL, cutoff)
	if err != nil {
		metrics.IncError("audit_pruner", "delete_failed")
		p.logger.Error("audit_pruner.prune_failed", zap.Error(err))
		return 0
	}

	deleted := tag.RowsAffected()
	p.logger.Info("audit_pruner.success",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", deleted),
		zap.Duration("duration", time.Since(start)))
	return deleted
}
