package terminal

import (
	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// TerminalConfigRequest 终端配置更新
type TerminalConfigRequest struct {
	TerminalID  string `json:"terminal_id" binding:"omitempty,max=32"`
	RoomID      uint   `json:"room_id"`
	RoomIP      string `json:"room_ip" binding:"omitempty,ip"`
	PrinterName string `json:"printer_name" binding:"omitempty,max=100"`
	PrinterPort string `json:"printer_port" binding:"omitempty,max=32"`
}

// GetConfig 读取终端配置，未配置时 configured=false
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, err := h.TerminalService.Config()
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{
		"config":     cfg,
		"configured": cfg.Complete(),
		"rooms":      h.RoomDirectory.Choices(c.Request.Context()),
	})
}

// UpdateConfig 保存终端配置
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req TerminalConfigRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	cfg, err := h.TerminalService.SaveConfig(c.Request.Context(), service.TerminalConfig{
		TerminalID:  req.TerminalID,
		RoomID:      req.RoomID,
		RoomIP:      req.RoomIP,
		PrinterName: req.PrinterName,
		PrinterPort: req.PrinterPort,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"config": cfg, "configured": cfg.Complete()})
}

// ListRooms 厅下拉选项
func (h *Handler) ListRooms(c *gin.Context) {
	response.Success(c, h.RoomDirectory.Choices(c.Request.Context()))
}
