package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/config"
	"github.com/mherrera/rodeo/internal/service/herd"
)

// Scheduler periodically re-projects the herd snapshot so long-lived
// subscribers reconcile with writes made outside this process.
type Scheduler struct {
	cron      *cron.Cron
	container *herd.Container
	cfg       config.SnapshotConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.SnapshotConfig, container *herd.Container, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(location)),
		container: container,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the reconciliation job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.reconcileSnapshot)
	if err != nil {
		s.logger.Error("failed to schedule snapshot reconciliation", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) reconcileSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snap, err := s.container.Refresh(ctx)
	if err != nil {
		s.logger.Error("snapshot reconciliation failed", zap.Error(err))
		return
	}

	s.logger.Info("snapshot reconciled",
		zap.Int("animals", len(snap.Stock)),
		zap.Int("lots", len(snap.Lots)))
}
