package audit

import (
	"context"
	"time"

	"go-orgadmin/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// RetentionJob purges audit entries older than the configured retention
// window on a daily schedule.
type RetentionJob struct {
	service   AuditService
	logger    *zap.Logger
	retention time.Duration
	scheduler *cron.Cron
}

func NewRetentionJob(cfg *config.Config, service AuditService, logger *zap.Logger) *RetentionJob {
	return &RetentionJob{
		service:   service,
		logger:    logger,
		retention: time.Duration(cfg.AuditRetentionDays) * 24 * time.Hour,
	}
}

// Start schedules the nightly purge. Safe to call once at startup.
func (j *RetentionJob) Start(ctx context.Context) error {
	j.scheduler = cron.New()
	_, err := j.scheduler.AddFunc("30 2 * * *", j.runOnce)
	if err != nil {
		return err
	}
	j.scheduler.Start()
	j.logger.Info("audit retention scheduler started",
		zap.Duration("retention", j.retention))
	return nil
}

// Stop halts the scheduler and waits for a running purge to finish.
func (j *RetentionJob) Stop() error {
	if j.scheduler != nil {
		<-j.scheduler.Stop().Done()
	}
	return nil
}

func (j *RetentionJob) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-j.retention)
	deleted, err := j.service.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		j.logger.Error("audit retention purge failed", zap.Error(err))
		return
	}
	if deleted > 0 {
		j.logger.Info("audit retention purge completed",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}
