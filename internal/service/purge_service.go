package service

import (
	"context"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

// PurgeService 清空抽奖业务数据
type PurgeService struct {
	db    *gorm.DB
	audit *AuditService
}

// NewPurgeService 创建清空服务
func NewPurgeService(db *gorm.DB, audit *AuditService) *PurgeService {
	return &PurgeService{db: db, audit: audit}
}

// Purge 一次事务内清空参与者、券、票据、重打与计数器
func (s *PurgeService) Purge(ctx context.Context, actor Actor) (repository.PurgeResult, error) {
	var result repository.PurgeResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = repository.PurgeRaffleData(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	detail := models.JSON{}
	for table, rows := range result {
		detail[table] = rows
	}
	if err := s.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionPurge,
		TargetType: "database",
		Detail:     detail,
	}); err != nil {
		logger.Warnw("purge_audit_record_failed", "error", err)
	}
	logger.Warnw("raffle_data_purged", "staff_id", actor.StaffID, "result", result)
	return result, nil
}
