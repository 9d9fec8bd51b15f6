package admin

import (
	"time"

	"github.com/ciudad-suerte/internal/http/handlers/shared"
	"github.com/ciudad-suerte/internal/http/response"

	"github.com/gin-gonic/gin"
)

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token     string                 `json:"token"`
	User      map[string]interface{} `json:"user"`
	ExpiresAt string                 `json:"expires_at"`
}

// Login 员工登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if !shared.BindJSON(c, &req) {
		return
	}

	staff, token, expiresAt, err := h.AuthService.Login(req.Username, req.Password)
	if err != nil {
		shared.RespondServiceError(c, err)
		return
	}
	response.Success(c, LoginResponse{
		Token: token,
		User: map[string]interface{}{
			"id":        staff.ID,
			"username":  staff.Username,
			"full_name": staff.FullName,
			"role":      staff.Role,
		},
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})
}

// Me 当前登录员工
func (h *Handler) Me(c *gin.Context) {
	actor, ok := shared.CurrentActor(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"id":       actor.StaffID,
		"username": actor.Username,
		"role":     actor.Role,
	})
}
