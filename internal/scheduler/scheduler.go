package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"luxe-marketplace/internal/cleanup"
	"luxe-marketplace/internal/inventory"
	"luxe-marketplace/internal/ratelimit"
)

// Config holds the cron specs. An empty spec disables that job.
type Config struct {
	RefreshCron      string
	SessionSweepCron string
	SyncTimeout      time.Duration
}

// Scheduler runs periodic inventory refreshes and session sweeps
type Scheduler struct {
	cron      *cron.Cron
	syncer    *inventory.Syncer
	sweeper   *cleanup.Service
	limiter   *ratelimit.RateLimiter
	config    Config
	logger    *zap.Logger
	isRunning bool
}

// NewScheduler creates a new scheduler. sweeper and limiter may be nil.
func NewScheduler(syncer *inventory.Syncer, sweeper *cleanup.Service, limiter *ratelimit.RateLimiter, cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = 2 * time.Minute
	}
	logger = logger.With(zap.String("component", "scheduler"))
	cronLogger := zapCronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		syncer:  syncer,
		sweeper: sweeper,
		limiter: limiter,
		config:  cfg,
		logger:  logger,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	if s.config.RefreshCron != "" {
		if _, err := s.cron.AddFunc(s.config.RefreshCron, s.runRefresh); err != nil {
			return err
		}
	}

	if s.config.SessionSweepCron != "" && (s.sweeper != nil || s.limiter != nil) {
		if _, err := s.cron.AddFunc(s.config.SessionSweepCron, s.runSweep); err != nil {
			return err
		}
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Info("scheduler started",
		zap.String("refresh_cron", s.config.RefreshCron),
		zap.String("session_sweep_cron", s.config.SessionSweepCron))

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	if s.isRunning {
		<-s.cron.Stop().Done()
		s.isRunning = false
		s.logger.Info("scheduler stopped")
	}
}

func (s *Scheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.SyncTimeout)
	defer cancel()
	// Failures are logged by the syncer; the previous snapshot stays live.
	_, _ = s.syncer.Sync(ctx, false)
}

func (s *Scheduler) runSweep() {
	if s.sweeper != nil {
		s.sweeper.Run()
	}
	if s.limiter != nil {
		if n := s.limiter.Prune(); n > 0 {
			s.logger.Debug("pruned rate limit clients", zap.Int("clients", n))
		}
	}
}

// RunNow immediately refreshes the inventory, bypassing the cache (for manual trigger)
func (s *Scheduler) RunNow(ctx context.Context) (*inventory.SyncResult, error) {
	s.logger.Info("manual inventory refresh")
	return s.syncer.Sync(ctx, true)
}

// zapCronLogger adapts zap to cron.Logger
type zapCronLogger struct {
	l *zap.Logger
}

func (z zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	z.l.Sugar().Debugw(msg, keysAndValues...)
}

func (z zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	z.l.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
