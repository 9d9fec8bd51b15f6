package admin

import (
	"strconv"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetSummary 按厅与来源统计，缺省为当天
func (h *Handler) GetSummary(c *gin.Context) {
	from, to, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	summary, err := h.SummaryService.Summarize(c.Request.Context(), from, to)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, summary)
}

// ListCoupons 券列表
func (h *Handler) ListCoupons(c *gin.Context) {
	from, to, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	page, pageSize := shared.QueryPagination(c)
	personID, _ := strconv.ParseUint(c.Query("person_id"), 10, 64)
	roomID, _ := strconv.ParseUint(c.Query("room_id"), 10, 64)
	items, total, err := h.SummaryService.ListCoupons(repository.CouponListFilter{
		Page:        page,
		PageSize:    pageSize,
		PersonID:    uint(personID),
		RoomID:      uint(roomID),
		Source:      strings.TrimSpace(c.Query("source")),
		Code:        strings.TrimSpace(c.Query("code")),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}

// ListAuditLogs 操作审计
func (h *Handler) ListAuditLogs(c *gin.Context) {
	from, to, ok := h.parseDateRange(c)
	if !ok {
		return
	}
	page, pageSize := shared.QueryPagination(c)
	operatorID, _ := strconv.ParseUint(c.Query("operator_id"), 10, 64)
	items, total, err := h.AuditService.List(repository.AuditLogListFilter{
		Page:        page,
		PageSize:    pageSize,
		OperatorID:  uint(operatorID),
		Action:      strings.TrimSpace(c.Query("action")),
		CreatedFrom: from,
		CreatedTo:   to,
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}

// parseDateRange from/to 为 YYYY-MM-DD，to 包含当天
func (h *Handler) parseDateRange(c *gin.Context) (*time.Time, *time.Time, bool) {
	loc := h.Config.Raffle.Location()
	var from, to *time.Time
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.ParseInLocation(shared.DateLayout, raw, loc)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return nil, nil, false
		}
		from = &parsed
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.ParseInLocation(shared.DateLayout, raw, loc)
		if err != nil {
			shared.RespondError(c, response.CodeBadRequest, "error.validation_failed", nil)
			return nil, nil, false
		}
		end := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
		to = &end
	}
	return from, to, true
}
