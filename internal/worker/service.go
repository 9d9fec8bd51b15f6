package worker

import (
	"context"
	"errors"
	"time"

	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/queue"

	"github.com/go-co-op/gocron/v2"
	"github.com/hibiken/asynq"
)

// Service 打印队列消费与周期任务
// 队列关闭时只运行周期任务
type Service struct {
	name      string
	server    *asynq.Server
	mux       *asynq.ServeMux
	consumer  *Consumer
	jobs      []Job
	location  *time.Location
	scheduler gocron.Scheduler
}

// NewService 创建 worker 服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	svc := &Service{
		name:     "worker",
		consumer: consumer,
		jobs:     consumer.DefaultJobs(),
	}
	if consumer.Container != nil && consumer.Config != nil {
		svc.location = consumer.Config.Raffle.Location()
	}
	if cfg != nil && cfg.Enabled {
		opt, serverCfg := queue.BuildServerConfig(cfg)
		svc.server = asynq.NewServer(opt, serverCfg)
		svc.mux = asynq.NewServeMux()
		consumer.Register(svc.mux)
	}
	if svc.server == nil && len(svc.jobs) == 0 {
		return nil, errors.New("worker has nothing to run")
	}
	return svc, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil {
		return errors.New("worker not initialized")
	}
	if len(s.jobs) > 0 {
		scheduler, err := newScheduler(ctx, s.jobs, s.location)
		if err != nil {
			return err
		}
		s.scheduler = scheduler
		s.scheduler.Start()
		logger.Infow("worker_scheduler_started", "jobs", len(s.jobs))
	}
	if s.server == nil {
		<-ctx.Done()
		return nil
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	_ = ctx
	if s.scheduler != nil {
		if err := s.scheduler.Shutdown(); err != nil {
			logger.Warnw("worker_scheduler_shutdown_failed", "error", err)
		}
	}
	if s.server != nil {
		s.server.Shutdown()
	}
	return nil
}
