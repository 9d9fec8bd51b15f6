package router

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/authz"
	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

const (
	terminalIDHeader = "X-Terminal-ID"
	roomIDHeader     = "X-Room-ID"
	roomIPHeader     = "X-Room-IP"
)

// CORSMiddleware 跨域中间件
func CORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	allowedMethods := cfg.AllowedMethods
	if len(allowedMethods) == 0 {
		allowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	allowedHeaders := cfg.AllowedHeaders
	if len(allowedHeaders) == 0 {
		allowedHeaders = []string{
			"Content-Type",
			"Content-Length",
			"Accept-Language",
			"Authorization",
			"Cache-Control",
			requestIDHeader,
			terminalIDHeader,
			roomIDHeader,
			roomIPHeader,
		}
	}
	methodsHeader := strings.Join(allowedMethods, ", ")
	headersHeader := strings.Join(allowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowedOrigin := resolveAllowedOrigin(origin, allowedOrigins, cfg.AllowCredentials)
		if allowedOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
			if allowedOrigin != "*" {
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		if cfg.AllowCredentials {
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", headersHeader)
		c.Writer.Header().Set("Access-Control-Allow-Methods", methodsHeader)
		if cfg.MaxAge > 0 {
			c.Writer.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func resolveAllowedOrigin(origin string, allowedOrigins []string, allowCredentials bool) string {
	if len(allowedOrigins) == 0 {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if allowed == "*" {
			if allowCredentials && origin != "" {
				return origin
			}
			return "*"
		}
	}
	if origin == "" {
		return ""
	}
	for _, allowed := range allowedOrigins {
		if strings.EqualFold(allowed, origin) {
			return origin
		}
	}
	return ""
}

// RequestIDMiddleware 请求 ID 中间件
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(constants.CtxKeyRequestID, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// LoggerMiddleware 结构化请求日志中间件
func LoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.L()
	}
	sugar := logger.Sugar()
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log := sugar.With(
			"request_id", getRequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		)
		if staffID, ok := c.Get(constants.CtxKeyStaffID); ok {
			log = log.With("staff_id", staffID)
		}
		if len(c.Errors) > 0 {
			log.Errorw("request", "errors", c.Errors.String())
			return
		}
		log.Infow("request")
	}
}

// MetricsMiddleware 按路由模板记录请求耗时，未匹配路由不计入
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			return
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func getRequestID(c *gin.Context) string {
	return c.GetString(constants.CtxKeyRequestID)
}

// JWTAuthMiddleware 员工 JWT 鉴权中间件
func JWTAuthMiddleware(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService == nil {
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			abortUnauthorized(c, "error.token_invalid")
			return
		}

		claims, err := authService.ParseJWT(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "error.token_invalid")
			return
		}
		state, err := authService.ResolveStaff(c.Request.Context(), claims)
		if err != nil {
			key := "error.token_invalid"
			if errors.Is(err, service.ErrStaffInactive) {
				key = "error.staff_inactive"
			}
			abortUnauthorized(c, key)
			return
		}

		c.Set(constants.CtxKeyStaffID, state.StaffID)
		c.Set(constants.CtxKeyStaffUsername, state.Username)
		c.Set(constants.CtxKeyStaffRole, state.Role)
		c.Next()
	}
}

// RBACMiddleware 按员工角色校验路由权限
func RBACMiddleware(authzService *authz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authzService == nil {
			logger.Errorw("rbac_service_unavailable")
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		role := strings.TrimSpace(c.GetString(constants.CtxKeyStaffRole))
		if role == "" {
			abortUnauthorized(c, "error.unauthorized")
			return
		}

		resource := c.FullPath()
		if strings.TrimSpace(resource) == "" {
			resource = c.Request.URL.Path
		}

		allowed, err := authzService.EnforceRole(role, resource, c.Request.Method)
		if err != nil {
			logger.Errorw("rbac_enforce_failed",
				"role", role,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"error", err,
			)
			abortUnauthorized(c, "error.unauthorized")
			return
		}
		if !allowed {
			logger.Warnw("rbac_permission_denied",
				"staff_id", c.GetUint(constants.CtxKeyStaffID),
				"role", role,
				"method", c.Request.Method,
				"resource", authz.NormalizeObject(resource),
			)
			response.Forbidden(c, i18n.T(i18n.ResolveLocale(c), "error.forbidden"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// TerminalMiddleware 解析终端上下文，请求头可覆盖本地配置
func TerminalMiddleware(terminalService *service.TerminalService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if terminalService == nil {
			response.Error(c, response.CodeTerminalNotConfigured, i18n.T(i18n.ResolveLocale(c), "error.terminal_not_configured"))
			c.Abort()
			return
		}
		override, ok := terminalOverride(c)
		if !ok {
			response.Error(c, response.CodeBadRequest, i18n.T(i18n.ResolveLocale(c), "error.terminal_config_invalid"))
			c.Abort()
			return
		}
		terminal, err := terminalService.Resolve(c.Request.Context(), override)
		if err != nil {
			if errors.Is(err, service.ErrTerminalNotConfigured) {
				response.Error(c, response.CodeTerminalNotConfigured, i18n.T(i18n.ResolveLocale(c), "error.terminal_not_configured"))
				c.Abort()
				return
			}
			logger.Errorw("terminal_resolve_failed", "request_id", getRequestID(c), "error", err)
			response.Error(c, response.CodeInternal, i18n.T(i18n.ResolveLocale(c), "error.internal"))
			c.Abort()
			return
		}
		c.Set(constants.CtxKeyTerminalConfig, terminal)
		c.Next()
	}
}

func terminalOverride(c *gin.Context) (service.TerminalConfig, bool) {
	override := service.TerminalConfig{
		TerminalID: strings.TrimSpace(c.GetHeader(terminalIDHeader)),
		RoomIP:     strings.TrimSpace(c.GetHeader(roomIPHeader)),
	}
	if raw := strings.TrimSpace(c.GetHeader(roomIDHeader)); raw != "" {
		roomID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || roomID == 0 {
			return override, false
		}
		override.RoomID = uint(roomID)
	}
	return override, true
}

func abortUnauthorized(c *gin.Context, key string) {
	response.Unauthorized(c, i18n.T(i18n.ResolveLocale(c), key))
	c.Abort()
}
