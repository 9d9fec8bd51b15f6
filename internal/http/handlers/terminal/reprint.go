package terminal

import (
	"strconv"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ReprintCoupon 登记重打并重新送打，每张券只允许一次
func (h *Handler) ReprintCoupon(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	coupon, result, err := h.ReprintService.RegisterReprint(uint(id), actor)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	if !result.Valid {
		shared.RespondCheck(c, result)
		return
	}
	report := h.dispatchPrint(c, terminal, []uint{coupon.ID}, true)
	response.SuccessWithMsg(c, shared.LocalizeCheck(c, result), gin.H{
		"coupon": coupon,
		"print":  report,
	})
}
