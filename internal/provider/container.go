package provider

import (
	"net/http"

	"github.com/ciudad-suerte/internal/authz"
	"github.com/ciudad-suerte/internal/cache"
	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/printer"
	"github.com/ciudad-suerte/internal/queue"
	"github.com/ciudad-suerte/internal/repository"
	"github.com/ciudad-suerte/internal/service"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	DB          *gorm.DB
	QueueClient *queue.Client

	// Repositories
	StaffRepo    *repository.GormStaffRepository
	PersonRepo   repository.PersonRepository
	CouponRepo   repository.CouponRepository
	ScanRepo     repository.VoucherScanRepository
	ReprintRepo  repository.ReprintRepository
	RoomRepo     repository.RoomRepository
	SequenceRepo repository.SequenceRepository
	SettingsRepo *repository.GormSystemSettingsRepository
	PrinterRepo  *repository.GormPrinterRepository
	AuditLogRepo *repository.GormAuditLogRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	StaffService         *service.StaffService
	AuditService         *service.AuditService
	RoomDirectory        *service.RoomDirectory
	SettingsService      *service.SettingsService
	TerminalService      *service.TerminalService
	SequenceService      *service.SequenceService
	IssuanceService      *service.IssuanceService
	EntryRulesService    *service.EntryRulesService
	VoucherValidator     *service.VoucherValidator
	EntryService         *service.EntryService
	RegistrationService  *service.RegistrationService
	ReprintService       *service.ReprintService
	PrintService         *service.PrintService
	ManualCouponService  *service.ManualCouponService
	PersonService        *service.PersonService
	PrinterConfigService *service.PrinterConfigService
	SummaryService       *service.SummaryService
	PurgeService         *service.PurgeService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	return NewContainerWithDB(cfg, models.DB)
}

// NewContainerWithDB 使用指定数据库初始化容器
func NewContainerWithDB(cfg *config.Config, db *gorm.DB) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := c.DB
	c.StaffRepo = repository.NewStaffRepository(db)
	c.PersonRepo = repository.NewPersonRepository(db)
	c.CouponRepo = repository.NewCouponRepository(db)
	c.ScanRepo = repository.NewVoucherScanRepository(db)
	c.ReprintRepo = repository.NewReprintRepository(db)
	c.RoomRepo = repository.NewRoomRepository(db)
	c.SequenceRepo = repository.NewSequenceRepository(db)
	c.SettingsRepo = repository.NewSystemSettingsRepository(db)
	c.PrinterRepo = repository.NewPrinterRepository(db)
	c.AuditLogRepo = repository.NewAuditLogRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(c.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	rules := service.RaffleRulesFromConfig(c.Config.Raffle)
	var clock service.Clock

	c.AuditService = service.NewAuditService(c.AuditLogRepo)
	c.AuthService = service.NewAuthService(c.Config, c.StaffRepo)
	c.StaffService = service.NewStaffService(c.StaffRepo, c.AuditService)
	c.RoomDirectory = service.NewRoomDirectory(c.RoomRepo, cache.NewRoomCache(), c.AuditService)
	c.SettingsService = service.NewSettingsService(c.SettingsRepo, c.RoomDirectory, c.AuditService)

	store := service.NewFileTerminalConfigStore(
		c.Config.Terminal.ConfigFile,
		c.Config.Terminal.DefaultPrinterName,
		c.Config.Terminal.DefaultPrinterPort,
	)
	c.TerminalService = service.NewTerminalService(store, c.SettingsService, c.RoomDirectory)

	c.SequenceService = service.NewSequenceService(c.SequenceRepo)
	c.IssuanceService = service.NewIssuanceService(c.CouponRepo, c.SequenceService, rules, clock)
	c.EntryRulesService = service.NewEntryRulesService(c.PersonRepo, c.ScanRepo, c.CouponRepo, c.IssuanceService, rules, clock)
	c.VoucherValidator = service.NewVoucherValidator(c.Config.VoucherValidation, c.RoomDirectory, &http.Client{
		Timeout: c.Config.VoucherValidation.Timeout(),
	})
	c.EntryService = service.NewEntryService(c.PersonRepo, c.ScanRepo, c.IssuanceService, c.EntryRulesService, c.VoucherValidator, clock)
	c.RegistrationService = service.NewRegistrationService(c.PersonRepo, c.IssuanceService, rules, clock)
	c.ReprintService = service.NewReprintService(c.CouponRepo, c.ReprintRepo, clock)

	sink, err := printer.NewSink(c.Config.Printer, logger.Named("printer"))
	if err != nil {
		logger.Warnw("provider_init_printer_sink_failed", "sink", c.Config.Printer.Sink, "error", err)
		sink, _ = printer.NewSink(config.PrinterConfig{Sink: "log"}, logger.Named("printer"))
	}
	renderer := printer.Renderer{
		LineWidth: c.Config.Printer.LineWidth,
		PrintQR:   c.Config.Printer.PrintQR,
		QRSize:    c.Config.Printer.QRSizeDots,
	}
	c.PrintService = service.NewPrintService(c.CouponRepo, c.PrinterRepo, c.SettingsService, c.RoomDirectory, renderer, sink, c.QueueClient)
	c.ManualCouponService = service.NewManualCouponService(c.PersonRepo, c.CouponRepo, c.IssuanceService, c.RoomDirectory, c.PrintService)

	c.PersonService = service.NewPersonService(c.PersonRepo, c.AuditService)
	c.PrinterConfigService = service.NewPrinterConfigService(c.PrinterRepo, c.AuditService)
	c.SummaryService = service.NewSummaryService(c.CouponRepo, c.RoomDirectory, rules, clock)
	c.PurgeService = service.NewPurgeService(c.DB, c.AuditService)
}
