package admin

import (
	"strings"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// ListSettings 全部终端设置
func (h *Handler) ListSettings(c *gin.Context) {
	items, err := h.SettingsService.List()
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, items)
}

// GetSettings 读取终端设置，缺省为本机终端
func (h *Handler) GetSettings(c *gin.Context) {
	identifier, ok := h.settingsIdentifier(c)
	if !ok {
		return
	}
	settings, err := h.SettingsService.Resolve(c.Request.Context(), identifier)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"settings": settings,
		"warnings": service.OverlapWarnings(localeOf(c), settings.OperationalHours),
	})
}

// UpdateSettings 修改终端设置，时段重叠只返回警告
func (h *Handler) UpdateSettings(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	identifier, ok := h.settingsIdentifier(c)
	if !ok {
		return
	}
	var req service.SettingsInput
	if !shared.BindJSON(c, &req) {
		return
	}
	settings, _, err := h.SettingsService.Update(c.Request.Context(), actor, identifier, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"settings": settings,
		"warnings": service.OverlapWarnings(localeOf(c), settings.OperationalHours),
	})
}

func (h *Handler) settingsIdentifier(c *gin.Context) (string, bool) {
	if identifier := strings.TrimSpace(c.Query("identifier")); identifier != "" {
		return identifier, true
	}
	identifier, err := h.TerminalService.Identity()
	if err != nil {
		shared.RespondServiceError(c, err)
		return "", false
	}
	return identifier, true
}

// GetPrinter 读取打印机配置
func (h *Handler) GetPrinter(c *gin.Context) {
	cfg, err := h.PrinterConfigService.Get()
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, cfg)
}

// UpdatePrinter 修改打印机配置
func (h *Handler) UpdatePrinter(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req service.PrinterConfigInput
	if !shared.BindJSON(c, &req) {
		return
	}
	cfg, err := h.PrinterConfigService.Update(actor, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, cfg)
}
