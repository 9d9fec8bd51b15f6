package admin

import "github.com/ciudad-suerte/internal/provider"

// Handler 后台管理接口处理器入口
// 说明：登录之外的接口均经过 JWT 与角色策略校验。
type Handler struct {
	*provider.Container
}

// New 创建后台处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
