package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/ciudad-suerte/internal/cache"
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"
)

// CreateStaffInput 新建员工参数
type CreateStaffInput struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"omitempty,max=150"`
	Role     string `json:"role" binding:"required,oneof=cashier floor_manager admin"`
}

// UpdateStaffInput 修改员工参数，nil 字段保持不变
type UpdateStaffInput struct {
	FullName *string `json:"full_name" binding:"omitempty,max=150"`
	Role     *string `json:"role" binding:"omitempty,oneof=cashier floor_manager admin"`
	IsActive *bool   `json:"is_active"`
	Password *string `json:"password" binding:"omitempty,min=8"`
}

// StaffService 员工账号管理
type StaffService struct {
	repo  *repository.GormStaffRepository
	audit *AuditService
}

// NewStaffService 创建员工服务
func NewStaffService(repo *repository.GormStaffRepository, audit *AuditService) *StaffService {
	return &StaffService{repo: repo, audit: audit}
}

// ValidRole 判断角色是否合法
func ValidRole(role string) bool {
	switch role {
	case constants.RoleCashier, constants.RoleFloorManager, constants.RoleAdmin:
		return true
	}
	return false
}

// List 员工列表
func (s *StaffService) List(filter repository.StaffListFilter) ([]models.StaffUser, int64, error) {
	return s.repo.List(filter)
}

// Create 新建员工
func (s *StaffService) Create(actor Actor, input CreateStaffInput) (*models.StaffUser, error) {
	role := strings.TrimSpace(input.Role)
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.StaffUser{
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(input.FullName),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrUsernameExists
		}
		return nil, err
	}
	s.record(actor, constants.AuditActionStaffCreate, user, models.JSON{"role": user.Role})
	return user, nil
}

// Update 修改员工信息，角色变更写审计
func (s *StaffService) Update(ctx context.Context, actor Actor, id uint, input UpdateStaffInput) (*models.StaffUser, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrStaffNotFound
	}
	previousRole := user.Role
	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if !ValidRole(role) {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	if input.Password != nil {
		hash, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if err := s.repo.Update(user); err != nil {
		return nil, err
	}
	if err := cache.DelStaffAuthState(ctx, user.ID); err != nil {
		logger.Warnw("staff_auth_state_invalidate_failed", "staff_id", user.ID, "error", err)
	}
	if previousRole != user.Role {
		s.record(actor, constants.AuditActionStaffRoleChange, user, models.JSON{"from": previousRole, "to": user.Role})
	}
	return user, nil
}

func (s *StaffService) record(actor Actor, action string, user *models.StaffUser, detail models.JSON) {
	detail["username"] = user.Username
	if err := s.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     action,
		TargetType: "staff_user",
		TargetID:   strconv.FormatUint(uint64(user.ID), 10),
		Detail:     detail,
	}); err != nil {
		logger.Warnw("staff_audit_record_failed", "action", action, "error", err)
	}
}
