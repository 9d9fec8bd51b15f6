package admin

import (
	"errors"
	"strconv"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// ListRooms 厅列表，附带是否回退到内置表
func (h *Handler) ListRooms(c *gin.Context) {
	response.Success(c, h.RoomDirectory.Load(c.Request.Context()))
}

// CreateRoom 新增厅
func (h *Handler) CreateRoom(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req service.RoomInput
	if !shared.BindJSON(c, &req) {
		return
	}
	room, err := h.RoomDirectory.Create(c.Request.Context(), actor, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, room)
}

// UpdateRoom 修改厅
func (h *Handler) UpdateRoom(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.RoomInput
	if !shared.BindJSON(c, &req) {
		return
	}
	room, err := h.RoomDirectory.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, room)
}

// DeleteRoom 删除厅，存在关联记录时拒绝
func (h *Handler) DeleteRoom(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.RoomDirectory.Delete(c.Request.Context(), actor, id); err != nil {
		if errors.Is(err, service.ErrRoomInUse) {
			usage, usageErr := h.RoomDirectory.Usage(id)
			if usageErr == nil {
				msg := i18n.T(i18n.ResolveLocale(c), "error.room_in_use")
				response.ErrorWithData(c, response.CodeConflict, msg, gin.H{"usage": usage})
				return
			}
		}
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, nil)
}

// SyncDefaultRooms 补齐内置厅
func (h *Handler) SyncDefaultRooms(c *gin.Context) {
	created, err := h.RoomDirectory.SyncDefaults(c.Request.Context())
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"created": created})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		shared.RespondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
