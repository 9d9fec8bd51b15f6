package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/provider"
	"github.com/ciudad-suerte/internal/router"
	"github.com/ciudad-suerte/internal/worker"
)

// BuildRunner 按启动模式组装 HTTP 与 worker 服务
func BuildRunner(cfg *config.Config, mode string) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if !validMode(mode) {
		return nil, fmt.Errorf("unknown mode: %s", mode)
	}

	container := provider.NewContainer(cfg)
	warmRoomDirectory(container)

	var services []Service

	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		services = append(services, NewHTTPService(listenAddr(cfg), engine))
	}

	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		workerService, err := worker.NewService(&cfg.Queue, consumer)
		if err != nil {
			return nil, err
		}
		services = append(services, workerService)
	}

	if len(services) == 0 {
		return nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), nil
}

// warmRoomDirectory 启动时预载厅目录，失败时目录自行回退到内置表
func warmRoomDirectory(c *provider.Container) {
	if c == nil || c.RoomDirectory == nil {
		return
	}
	rooms := c.RoomDirectory.Warm(context.Background())
	logger.Infow("app_room_directory_warmed", "rooms", len(rooms.Rooms))
}

func listenAddr(cfg *config.Config) string {
	return cfg.Server.Host + ":" + cfg.Server.Port
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}

	opts.Logger.Infow("app_start", "addr", listenAddr(opts.Config), "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
