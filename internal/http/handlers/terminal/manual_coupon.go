package terminal

import (
	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// ManualCouponRequest 手工发券请求
type ManualCouponRequest struct {
	IDNumber string `json:"id_number" binding:"required,national_id"`
	RoomID   uint   `json:"room_id"`
}

// PendingScopeRequest 待打印范围
type PendingScopeRequest struct {
	RoomID    uint `json:"room_id" form:"room_id"`
	CreatedBy uint `json:"created_by" form:"created_by"`
}

func (r PendingScopeRequest) toScope() service.PendingScope {
	return service.PendingScope{RoomID: r.RoomID, CreatedByID: r.CreatedBy}
}

// CreateManualCoupon 手工发放一张券
func (h *Handler) CreateManualCoupon(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req ManualCouponRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	coupon, err := h.ManualCouponService.Create(c.Request.Context(), terminal, actor, service.ManualCouponInput{
		IDNumber: req.IDNumber,
		RoomID:   req.RoomID,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.Sprintf(i18n.ResolveLocale(c), "manual.created", coupon.Code), coupon)
}

// ListPendingCoupons 待打印的手工/注册券
func (h *Handler) ListPendingCoupons(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req PendingScopeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	coupons, err := h.ManualCouponService.Pending(actor, terminal.Room.ID, req.toScope())
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"items": coupons, "total": len(coupons)})
}

// PrintPendingCoupons 打印全部待打印券
func (h *Handler) PrintPendingCoupons(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req PendingScopeRequest
	if c.Request.ContentLength > 0 && !shared.BindJSON(c, &req) {
		return
	}
	count, report, err := h.ManualCouponService.PrintPending(c.Request.Context(), terminal, actor, req.toScope())
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.Sprintf(i18n.ResolveLocale(c), "manual.printed", count), gin.H{
		"count": count,
		"print": report,
	})
}
