package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/provider"
	"github.com/ciudad-suerte/internal/service"
)

// demoStaff 演示账号，仅在 -demo 时创建
var demoStaff = []service.CreateStaffInput{
	{Username: "cajero01", Password: "cajero-demo-01", FullName: "Cajero Demo", Role: constants.RoleCashier},
	{Username: "supervisor01", Password: "supervisor-demo-01", FullName: "Supervisor Demo", Role: constants.RoleFloorManager},
}

func main() {
	var demo bool
	flag.BoolVar(&demo, "demo", false, "创建演示员工账号")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(os.Getenv("RAFFLE_DEFAULT_ADMIN_USERNAME"), os.Getenv("RAFFLE_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Fatalf("Failed to create default admin: %v", err)
	}

	// 容器初始化时写入预置角色策略
	container := provider.NewContainer(cfg)
	ctx := context.Background()

	synced, err := container.RoomDirectory.SyncDefaults(ctx)
	if err != nil {
		stdLog.Fatalf("Failed to sync default rooms: %v", err)
	}
	stdLog.Printf("Synced %d default rooms", synced)

	identifier, err := container.TerminalService.Identity()
	if err != nil {
		stdLog.Fatalf("Failed to resolve terminal identity: %v", err)
	}
	if _, err := container.SettingsService.Resolve(ctx, identifier); err != nil {
		stdLog.Fatalf("Failed to create terminal settings: %v", err)
	}
	stdLog.Printf("Terminal settings ready: %s", identifier)

	if !demo {
		return
	}
	actor := service.Actor{Username: "seed", Role: constants.RoleAdmin}
	for _, input := range demoStaff {
		if _, err := container.StaffService.Create(actor, input); err != nil {
			if errors.Is(err, service.ErrUsernameExists) {
				stdLog.Printf("Staff already exists: %s", input.Username)
				continue
			}
			stdLog.Fatalf("Failed to create staff %s: %v", input.Username, err)
		}
		stdLog.Printf("Created staff: %s (%s)", input.Username, input.Role)
	}
}
