package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/ciudad-suerte/internal/models"
)

const staffStateCacheTTL = 10 * time.Minute

// StaffAuthState 员工鉴权快照
// 仅用于服务端 Redis 缓存，避免每次请求查询账号状态
type StaffAuthState struct {
	StaffID   uint   `json:"staff_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	UpdatedAt int64  `json:"updated_at"`
}

func staffStateKey(staffID uint) string {
	return fmt.Sprintf("auth:staff:%d", staffID)
}

// BuildStaffAuthState 从员工模型构建鉴权快照
func BuildStaffAuthState(user *models.StaffUser) *StaffAuthState {
	if user == nil {
		return nil
	}
	return &StaffAuthState{
		StaffID:   user.ID,
		Username:  user.Username,
		Role:      user.Role,
		IsActive:  user.IsActive,
		UpdatedAt: time.Now().Unix(),
	}
}

// GetStaffAuthState 获取员工鉴权快照
func GetStaffAuthState(ctx context.Context, staffID uint) (*StaffAuthState, bool, error) {
	if staffID == 0 {
		return nil, false, nil
	}
	var state StaffAuthState
	hit, err := GetJSON(ctx, staffStateKey(staffID), &state)
	if err != nil || !hit {
		return nil, hit, err
	}
	return &state, true, nil
}

// SetStaffAuthState 写入员工鉴权快照
func SetStaffAuthState(ctx context.Context, state *StaffAuthState) error {
	if state == nil || state.StaffID == 0 {
		return nil
	}
	return SetJSON(ctx, staffStateKey(state.StaffID), state, staffStateCacheTTL)
}

// DelStaffAuthState 删除员工鉴权快照
func DelStaffAuthState(ctx context.Context, staffID uint) error {
	if staffID == 0 {
		return nil
	}
	return Del(ctx, staffStateKey(staffID))
}
