package shared

import (
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/http/response"
	"github.com/ciudad-suerte/internal/service"

	"github.com/gin-gonic/gin"
)

// GetContextUintWithKeys 从上下文读取 uint 值并统一处理错误响应。
func GetContextUintWithKeys(c *gin.Context, key, invalidKey, typeInvalidKey string) (uint, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	case float64:
		if v < 0 {
			RespondError(c, response.CodeBadRequest, invalidKey, nil)
			return 0, false
		}
		return uint(v), true
	default:
		RespondError(c, response.CodeInternal, typeInvalidKey, nil)
		return 0, false
	}
}

// CurrentActor 组装当前登录员工，未登录时返回 false 并已写响应。
func CurrentActor(c *gin.Context) (service.Actor, bool) {
	staffID, ok := GetContextUintWithKeys(c, constants.CtxKeyStaffID, "error.unauthorized", "error.internal")
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{
		StaffID:   staffID,
		Username:  c.GetString(constants.CtxKeyStaffUsername),
		Role:      c.GetString(constants.CtxKeyStaffRole),
		RequestID: c.GetString(constants.CtxKeyRequestID),
	}, true
}

// CurrentTerminal 读取终端中间件解析出的终端上下文。
func CurrentTerminal(c *gin.Context) (*service.TerminalContext, bool) {
	value, exists := c.Get(constants.CtxKeyTerminalConfig)
	if exists {
		if terminal, ok := value.(*service.TerminalContext); ok && terminal != nil {
			return terminal, true
		}
	}
	RespondError(c, response.CodeTerminalNotConfigured, "error.terminal_not_configured", nil)
	return nil, false
}
