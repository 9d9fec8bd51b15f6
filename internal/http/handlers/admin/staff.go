package admin

import (
	"strings"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/repository"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// ListStaff 员工列表
func (h *Handler) ListStaff(c *gin.Context) {
	page, pageSize := shared.QueryPagination(c)
	items, total, err := h.StaffService.List(repository.StaffListFilter{
		Page:     page,
		PageSize: pageSize,
		Role:     strings.TrimSpace(c.Query("role")),
		Search:   strings.TrimSpace(c.Query("search")),
	})
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, items, shared.BuildPagination(page, pageSize, total))
}

// CreateStaff 新建员工
func (h *Handler) CreateStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	var req service.CreateStaffInput
	if !shared.BindJSON(c, &req) {
		return
	}
	staff, err := h.StaffService.Create(actor, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, staff)
}

// UpdateStaff 修改员工角色、状态或密码
func (h *Handler) UpdateStaff(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req service.UpdateStaffInput
	if !shared.BindJSON(c, &req) {
		return
	}
	staff, err := h.StaffService.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, staff)
}

// ListRoles 角色与策略
func (h *Handler) ListRoles(c *gin.Context) {
	roles, err := h.AuthzService.DescribeRoles()
	if err != nil {
		shared.RespondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}
