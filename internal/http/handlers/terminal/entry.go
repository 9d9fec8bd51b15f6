package terminal

import (
	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// EntryRequest 票据入场请求
type EntryRequest struct {
	IDNumber    string `json:"id_number" binding:"required,national_id"`
	VoucherCode string `json:"voucher_code" binding:"required,max=64"`
}

// PrecheckRequest 票据预校验请求
type PrecheckRequest struct {
	VoucherCode string `json:"voucher_code" binding:"required,max=64"`
}

// SubmitEntry 扫描票据发券，提交后送打
func (h *Handler) SubmitEntry(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	var req EntryRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	result, err := h.EntryService.Submit(c.Request.Context(), terminal, service.EntryInput{
		IDNumber:    req.IDNumber,
		VoucherCode: req.VoucherCode,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}

	report := h.dispatchPrint(c, terminal, couponIDs(result.Coupons), false)
	locale := i18n.ResolveLocale(c)
	response.SuccessWithMsg(c, i18n.Sprintf(locale, "entry.issued", len(result.Coupons)), gin.H{
		"person":  result.Person,
		"scan":    result.Scan,
		"coupons": result.Coupons,
		"remote":  gin.H{"is_valid": result.Remote.Valid, "message": shared.LocalizeCheck(c, result.Remote)},
		"print":   report,
	})
}

// PrecheckEntry 仅远程校验票据
func (h *Handler) PrecheckEntry(c *gin.Context) {
	terminal, ok := shared.CurrentTerminal(c)
	if !ok {
		return
	}
	var req PrecheckRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	result, err := h.EntryService.Precheck(c.Request.Context(), terminal, req.VoucherCode)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	if !result.Valid {
		shared.RespondCheck(c, result)
		return
	}
	response.Success(c, gin.H{"is_valid": true, "message": shared.LocalizeCheck(c, result)})
}
