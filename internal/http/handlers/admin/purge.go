package admin

import (
	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"

	"github.com/gin-gonic/gin"
)

// PurgeRequest 清库确认
type PurgeRequest struct {
	Confirm string `json:"confirm" binding:"required,eq=PURGE"`
}

// PurgeRaffleData 清空参与者与券数据，保留厅与设置
func (h *Handler) PurgeRaffleData(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req PurgeRequest
	if !shared.BindJSON(c, &req) {
		return
	}
	result, err := h.PurgeService.Purge(c.Request.Context(), actor)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(localeOf(c), "database.purged"), result)
}
