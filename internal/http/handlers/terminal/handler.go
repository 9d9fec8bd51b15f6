package terminal

import (
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/provider"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler 收银终端接口处理器
type Handler struct {
	*provider.Container
}

// New 创建终端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// dispatchPrint 提交后送打，失败只影响 print 字段
func (h *Handler) dispatchPrint(c *gin.Context, terminal *service.TerminalContext, coupons []uint, reprint bool) service.PrintReport {
	if h.PrintService == nil || len(coupons) == 0 {
		return service.PrintReport{}
	}
	return h.PrintService.Dispatch(c.Request.Context(), service.PrintJob{
		CouponIDs:  coupons,
		Identifier: terminal.Identifier,
		Terminal:   terminal.Config,
		Reprint:    reprint,
		RequestID:  c.GetString(constants.CtxKeyRequestID),
	})
}
