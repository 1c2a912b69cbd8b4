package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockdesk/internal/config"
	"github.com/mamadbah2/stockdesk/internal/domain/models"
)

const jobTimeout = 2 * time.Minute

// InventorySource is the part of the inventory store the jobs drive.
type InventorySource interface {
	LoadInventory(ctx context.Context) error
	Items() []models.InventoryItem
}

// Exporter writes an inventory snapshot somewhere durable.
type Exporter interface {
	ExportSnapshot(ctx context.Context, items []models.InventoryItem) (int, error)
}

// SessionChecker reports whether an authenticated session is available.
type SessionChecker interface {
	HasToken() bool
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	inventory InventorySource
	exporter  Exporter
	session   SessionChecker
	cfg       config.SchedulerConfig
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. A nil exporter disables the export job.
func NewScheduler(cfg config.SchedulerConfig, inventory InventorySource, exporter Exporter, session SessionChecker, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Standard 5-field cron expressions plus descriptors such as @every 5m.
	c := cron.New()

	return &Scheduler{
		cron:      c,
		inventory: inventory,
		exporter:  exporter,
		session:   session,
		cfg:       cfg,
		logger:    logger,
	}
}

// Start registers the configured jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.cfg.RefreshSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refreshInventory); err != nil {
			s.logger.Error("failed to schedule inventory refresh", zap.String("schedule", s.cfg.RefreshSchedule), zap.Error(err))
		}
	}

	if s.cfg.ExportSchedule != "" && s.exporter != nil {
		if _, err := s.cron.AddFunc(s.cfg.ExportSchedule, s.exportInventory); err != nil {
			s.logger.Error("failed to schedule inventory export", zap.String("schedule", s.cfg.ExportSchedule), zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

func (s *Scheduler) refreshInventory() {
	if !s.session.HasToken() {
		s.logger.Debug("skipping inventory refresh without session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.inventory.LoadInventory(ctx); err != nil {
		s.logger.Error("scheduled inventory refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("inventory refreshed", zap.Int("items", len(s.inventory.Items())))
}

func (s *Scheduler) exportInventory() {
	if !s.session.HasToken() {
		s.logger.Debug("skipping inventory export without session")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	// Export the previous snapshot if the refresh fails.
	if err := s.inventory.LoadInventory(ctx); err != nil {
		s.logger.Warn("refresh before export failed", zap.Error(err))
	}

	n, err := s.exporter.ExportSnapshot(ctx, s.inventory.Items())
	if err != nil {
		s.logger.Error("scheduled inventory export failed", zap.Error(err))
		return
	}
	s.logger.Info("inventory export completed", zap.Int("rows", n))
}
