package router

import (
	"sort"
	"strings"

	"github.com/ciudad-suerte/internal/authz"
	"github.com/ciudad-suerte/internal/cache"
	"github.com/ciudad-suerte/internal/config"
	adminhandlers "github.com/ciudad-suerte/internal/http/handlers/admin"
	"github.com/ciudad-suerte/internal/http/handlers/shared"
	terminalhandlers "github.com/ciudad-suerte/internal/http/handlers/terminal"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	if err := shared.RegisterValidators(); err != nil {
		logger.Errorw("router_register_validators_failed", "error", err)
	}
	r := gin.New()

	terminalHandler := terminalhandlers.New(c)
	adminHandler := adminhandlers.New(c)
	loginRule := LoginRateLimitRule(cfg.Redis.Prefix, cfg.Security.LoginRateLimit)
	redisClient := cache.Client()

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		r.Use(MetricsMiddleware())
	}

	auth := []gin.HandlerFunc{JWTAuthMiddleware(c.AuthService), RBACMiddleware(c.AuthzService)}

	apiV1 := r.Group("/api/v1")
	{
		// 终端接口
		terminal := apiV1.Group("/terminal")
		terminal.Use(auth...)
		{
			// 终端配置，未配置时也需可访问
			terminal.GET("/config", terminalHandler.GetConfig)
			terminal.PUT("/config", terminalHandler.UpdateConfig)
			terminal.GET("/rooms", terminalHandler.ListRooms)

			configured := terminal.Group("")
			configured.Use(TerminalMiddleware(c.TerminalService))
			{
				configured.POST("/register", terminalHandler.Register)
				configured.GET("/persons/:id_number", terminalHandler.LookupPerson)
				configured.POST("/entries", terminalHandler.SubmitEntry)
				configured.POST("/entries/precheck", terminalHandler.PrecheckEntry)
				configured.POST("/manual-coupons", terminalHandler.CreateManualCoupon)
				configured.GET("/manual-coupons/pending", terminalHandler.ListPendingCoupons)
				configured.POST("/manual-coupons/print", terminalHandler.PrintPendingCoupons)
				configured.POST("/coupons/:id/reprint", terminalHandler.ReprintCoupon)
			}
		}

		// 管理端接口
		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, loginRule, KeyByIPAndJSONField("username")), adminHandler.Login)

			authorized := admin.Group("")
			authorized.Use(auth...)
			{
				authorized.GET("/me", adminHandler.Me)

				// 厅目录
				authorized.GET("/rooms", adminHandler.ListRooms)
				authorized.POST("/rooms", adminHandler.CreateRoom)
				authorized.PUT("/rooms/:id", adminHandler.UpdateRoom)
				authorized.DELETE("/rooms/:id", adminHandler.DeleteRoom)
				authorized.POST("/rooms/sync-defaults", adminHandler.SyncDefaultRooms)

				// 终端设置与打印机
				authorized.GET("/settings", adminHandler.ListSettings)
				authorized.GET("/settings/current", adminHandler.GetSettings)
				authorized.PUT("/settings/current", adminHandler.UpdateSettings)
				authorized.GET("/printer", adminHandler.GetPrinter)
				authorized.PUT("/printer", adminHandler.UpdatePrinter)

				// 参与者
				authorized.GET("/persons", adminHandler.ListPersons)
				authorized.POST("/persons/normalize-names", adminHandler.NormalizePersonNames)

				// 统计与审计
				authorized.GET("/summary", adminHandler.GetSummary)
				authorized.GET("/coupons", adminHandler.ListCoupons)
				authorized.GET("/audit-logs", adminHandler.ListAuditLogs)

				// 员工与权限
				authorized.GET("/staff", adminHandler.ListStaff)
				authorized.POST("/staff", adminHandler.CreateStaff)
				authorized.PUT("/staff/:id", adminHandler.UpdateStaff)
				authorized.GET("/roles", adminHandler.ListRoles)
				authorized.GET("/permissions", func(ctx *gin.Context) {
					response.Success(ctx, buildPermissionCatalog(r))
				})

				authorized.POST("/purge", adminHandler.PurgeRaffleData)
			}
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if cfg.Metrics.Enabled {
		path := strings.TrimSpace(cfg.Metrics.Path)
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(metrics.Handler()))
	}

	return r
}

type permissionCatalogItem struct {
	Module     string `json:"module"`
	Method     string `json:"method"`
	Object     string `json:"object"`
	Permission string `json:"permission"`
}

// buildPermissionCatalog 列出受 RBAC 保护的路由，供角色配置参考
func buildPermissionCatalog(engine *gin.Engine) []permissionCatalogItem {
	if engine == nil {
		return []permissionCatalogItem{}
	}

	routes := engine.Routes()
	seen := make(map[string]struct{}, len(routes))
	items := make([]permissionCatalogItem, 0, len(routes))

	for _, item := range routes {
		method := strings.ToUpper(strings.TrimSpace(item.Method))
		if method == "" || method == "OPTIONS" || method == "HEAD" {
			continue
		}
		if !strings.HasPrefix(item.Path, "/api/v1/admin/") && !strings.HasPrefix(item.Path, "/api/v1/terminal/") {
			continue
		}
		if item.Path == "/api/v1/admin/login" {
			continue
		}
		object := authz.NormalizeObject(item.Path)
		permission := method + ":" + object
		if _, exists := seen[permission]; exists {
			continue
		}
		seen[permission] = struct{}{}
		items = append(items, permissionCatalogItem{
			Module:     derivePermissionModule(object),
			Method:     method,
			Object:     object,
			Permission: permission,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].Module == items[j].Module {
			if items[i].Object == items[j].Object {
				return items[i].Method < items[j].Method
			}
			return items[i].Object < items[j].Object
		}
		return items[i].Module < items[j].Module
	})

	return items
}

// derivePermissionModule 终端接口归为 terminal，管理端按资源名分组
func derivePermissionModule(object string) string {
	normalized := strings.TrimPrefix(strings.TrimSpace(object), "/")
	if normalized == "" {
		return "system"
	}
	segments := strings.Split(normalized, "/")
	if len(segments) <= 1 || segments[0] != "admin" {
		return segments[0]
	}
	return segments[1]
}
