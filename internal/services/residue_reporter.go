package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/clients/internal/infrastructure/journal"
)

var errJournalNotConfigured = errors.New("residue journal not configured")

// ReporterConfig controls how often the journal is reported and how long entries are kept.
type ReporterConfig struct {
	Interval  time.Duration
	Retention time.Duration
	BatchSize int
}

// ResidueReporter periodically surfaces journaled saga residue in the logs and expires old entries.
// It never touches the document stores: reconciling residue is an operator decision.
type ResidueReporter struct {
	store  *journal.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    ReporterConfig
	now    func() time.Time
}

func NewResidueReporter(store *journal.Store, logger *zap.Logger, cfg ReporterConfig) *ResidueReporter {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rr := &ResidueReporter{
		store:  store,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
		now:    time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = rr.cron.AddFunc(schedule, func() {
		if _, err := rr.Report(context.Background()); err != nil {
			rr.logger.Error("residue report failed", zap.Error(err))
		}
	})

	return rr
}

// Start launches the cron scheduler.
func (rr *ResidueReporter) Start() {
	if rr == nil || rr.cron == nil {
		return
	}
	rr.cron.Start()
	rr.logger.Info("residue reporter started", zap.Duration("interval", rr.cfg.Interval))
}

// Stop waits for a running report to finish or ctx to expire.
func (rr *ResidueReporter) Stop(ctx context.Context) {
	if rr == nil || rr.cron == nil {
		return
	}
	stopCtx := rr.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	rr.logger.Info("residue reporter stopped")
}

// Report expires entries past retention, then logs what remains. It returns the remaining count.
func (rr *ResidueReporter) Report(ctx context.Context) (int, error) {
	if rr == nil || rr.store == nil {
		return 0, errJournalNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	removed, err := rr.store.Cleanup(rr.now().Add(-rr.cfg.Retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		rr.logger.Info("expired saga residue", zap.Int("removed", removed))
	}

	size, err := rr.store.Size()
	if err != nil {
		return 0, err
	}
	if size == 0 {
		rr.logger.Debug("no saga residue pending")
		return 0, nil
	}

	entries, err := rr.store.List(rr.cfg.BatchSize)
	if err != nil {
		return size, err
	}
	rr.logger.Warn("saga residue pending review", zap.Int("entries", size))
	for _, e := range entries {
		rr.logger.Warn("saga residue",
			zap.String("entry_id", e.ID),
			zap.String("saga", e.Saga),
			zap.Int("documents", e.Documents()),
			zap.String("cause", e.Cause),
			zap.Time("occurred_at", e.OccurredAt))
	}
	return size, nil
}

// Size returns the number of journaled entries, zero when the journal is unreadable.
func (rr *ResidueReporter) Size() int {
	if rr == nil || rr.store == nil {
		return 0
	}
	size, err := rr.store.Size()
	if err != nil {
		return 0
	}
	return size
}
