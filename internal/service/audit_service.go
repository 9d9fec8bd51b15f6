package service

import (
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"
)

// Actor 操作人
type Actor struct {
	StaffID   uint
	Username  string
	Role      string
	RequestID string
}

// AuditRecordInput 审计记录输入
type AuditRecordInput struct {
	Actor      Actor
	Action     string
	TargetType string
	TargetID   string
	Detail     models.JSON
}

// AuditService 后台操作审计服务
type AuditService struct {
	repo repository.AuditLogRepository
}

// NewAuditService 创建审计服务
func NewAuditService(repo repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// Record 记录审计日志，无操作人或动作时忽略
func (s *AuditService) Record(input AuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.Actor.StaffID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}
	item := &models.AuditLog{
		OperatorID:       input.Actor.StaffID,
		OperatorUsername: strings.TrimSpace(input.Actor.Username),
		Action:           strings.TrimSpace(input.Action),
		TargetType:       strings.TrimSpace(input.TargetType),
		TargetID:         strings.TrimSpace(input.TargetID),
		RequestID:        strings.TrimSpace(input.Actor.RequestID),
		DetailJSON:       input.Detail,
		CreatedAt:        time.Now().UTC(),
	}
	return s.repo.Create(item)
}

// List 查询审计日志
func (s *AuditService) List(filter repository.AuditLogListFilter) ([]models.AuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
