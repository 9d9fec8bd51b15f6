package worker

import (
	"context"
	"time"

	"github.com/ciudad-suerte/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

const (
	roomCacheWarmInterval = 5 * time.Minute
	overlapAuditInterval  = time.Hour
)

// Job 周期任务
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// DefaultJobs 厅缓存预热与营业时段重叠巡检
func (c *Consumer) DefaultJobs() []Job {
	if c == nil || c.Container == nil {
		return nil
	}
	jobs := make([]Job, 0, 2)
	if c.RoomDirectory != nil {
		jobs = append(jobs, Job{
			Name:     "room_cache_warm",
			Interval: roomCacheWarmInterval,
			Run: func(ctx context.Context) {
				rooms := c.RoomDirectory.Warm(ctx)
				logger.Debugw("worker_room_cache_warmed", "rooms", len(rooms.Rooms))
			},
		})
	}
	if c.SettingsService != nil {
		jobs = append(jobs, Job{
			Name:     "operational_hours_audit",
			Interval: overlapAuditInterval,
			Run: func(context.Context) {
				flagged, err := c.SettingsService.AuditOverlaps()
				if err != nil {
					logger.Warnw("worker_overlap_audit_failed", "error", err)
					return
				}
				if flagged > 0 {
					logger.Warnw("worker_overlap_audit_flagged", "terminals", flagged)
				}
			},
		})
	}
	return jobs
}

// newScheduler 注册周期任务，同名任务不并发执行
func newScheduler(ctx context.Context, jobs []Job, location *time.Location) (gocron.Scheduler, error) {
	opts := []gocron.SchedulerOption{}
	if location != nil {
		opts = append(opts, gocron.WithLocation(location))
	}
	scheduler, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		run := job.Run
		if _, err := scheduler.NewJob(
			gocron.DurationJob(job.Interval),
			gocron.NewTask(func() { run(ctx) }),
			gocron.WithName(job.Name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithStartAt(gocron.WithStartImmediately()),
		); err != nil {
			_ = scheduler.Shutdown()
			return nil, err
		}
	}
	return scheduler, nil
}
