package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

// SettingsInput 终端设置修改参数，nil 字段保持不变
type SettingsInput struct {
	TerminalName     *string                  `json:"terminal_name" binding:"omitempty,max=100"`
	CurrentRoomID    *uint                    `json:"current_room_id"`
	CompanyName      *string                  `json:"company_name" binding:"omitempty,max=150"`
	CouponLegend     *string                  `json:"coupon_legend"`
	TermsText        *string                  `json:"terms_text"`
	OperationalHours *models.OperationalSlots `json:"operational_hours" binding:"omitempty,dive"`
}

// SettingsService 终端级系统设置
type SettingsService struct {
	repo  *repository.GormSystemSettingsRepository
	rooms *RoomDirectory
	audit *AuditService
}

// NewSettingsService 创建设置服务
func NewSettingsService(repo *repository.GormSystemSettingsRepository, rooms *RoomDirectory, audit *AuditService) *SettingsService {
	return &SettingsService{repo: repo, rooms: rooms, audit: audit}
}

// Resolve 获取终端设置，不存在时接管旧版默认行或按默认值创建
func (s *SettingsService) Resolve(ctx context.Context, identifier string) (*models.SystemSettings, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, ErrTerminalNotConfigured
	}
	existing, err := s.repo.GetByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	defaultRoomID := s.rooms.DefaultRoomID(ctx)
	var resolved *models.SystemSettings
	err = s.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		legacy, err := repo.GetByIdentifierForUpdate(constants.LegacyTerminalIdentity)
		if err != nil {
			return err
		}
		if legacy != nil {
			legacy.TerminalIdentifier = identifier
			if err := repo.Update(legacy); err != nil {
				return err
			}
			resolved = legacy
			return nil
		}
		created := defaultSettings(identifier, defaultRoomID)
		if err := repo.Create(created); err != nil {
			return err
		}
		resolved = created
		return nil
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			// 并发首建，读取另一方写入的结果
			existing, readErr := s.repo.GetByIdentifier(identifier)
			if readErr != nil {
				return nil, readErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return resolved, nil
}

func defaultSettings(identifier string, roomID uint) *models.SystemSettings {
	suffix := identifier
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	room := roomID
	return &models.SystemSettings{
		TerminalIdentifier: identifier,
		TerminalName:       "Terminal " + suffix,
		CurrentRoomID:      &room,
		CompanyName:        constants.DefaultCompanyName,
		CouponLegend:       constants.DefaultCouponLegend,
		OperationalHours:   models.OperationalSlots{},
		TermsText:          constants.DefaultTermsText,
	}
}

// Update 修改设置，返回重叠时段告警
func (s *SettingsService) Update(ctx context.Context, actor Actor, identifier string, input SettingsInput) (*models.SystemSettings, []string, error) {
	settings, err := s.Resolve(ctx, identifier)
	if err != nil {
		return nil, nil, err
	}
	if input.OperationalHours != nil {
		if err := ValidateSlots(*input.OperationalHours); err != nil {
			return nil, nil, err
		}
		settings.OperationalHours = *input.OperationalHours
	}
	if input.CurrentRoomID != nil {
		if _, err := s.rooms.Get(ctx, *input.CurrentRoomID); err != nil {
			return nil, nil, err
		}
		room := *input.CurrentRoomID
		settings.CurrentRoomID = &room
	}
	if input.TerminalName != nil {
		settings.TerminalName = strings.TrimSpace(*input.TerminalName)
	}
	if input.CompanyName != nil {
		settings.CompanyName = strings.TrimSpace(*input.CompanyName)
	}
	if input.CouponLegend != nil {
		settings.CouponLegend = strings.TrimSpace(*input.CouponLegend)
	}
	if input.TermsText != nil {
		settings.TermsText = *input.TermsText
	}
	if err := s.repo.Update(settings); err != nil {
		return nil, nil, err
	}

	warnings := OverlapWarnings(i18n.LocaleES, settings.OperationalHours)
	if err := s.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionSettingsUpdate,
		TargetType: "system_settings",
		TargetID:   settings.TerminalIdentifier,
		Detail: models.JSON{
			"operational_hours": settings.OperationalHours,
			"current_room_id":   settings.CurrentRoomID,
			"warnings":          warnings,
		},
	}); err != nil {
		logger.Warnw("settings_audit_record_failed", "identifier", identifier, "error", err)
	}
	return settings, warnings, nil
}

// List 全部终端设置
func (s *SettingsService) List() ([]models.SystemSettings, error) {
	return s.repo.List()
}

// OverlapWarnings 生成重叠时段提示
func OverlapWarnings(locale string, slots models.OperationalSlots) []string {
	overlaps := FindSlotOverlaps(slots)
	warnings := make([]string, 0, len(overlaps))
	for _, overlap := range overlaps {
		first, second := overlap.Label()
		warnings = append(warnings, i18n.Sprintf(locale, "settings.overlapping_slots", first, second))
	}
	return warnings
}

// AuditOverlaps 巡检全部终端的重叠时段并记录告警，返回存在重叠的终端数
func (s *SettingsService) AuditOverlaps() (int, error) {
	all, err := s.repo.List()
	if err != nil {
		return 0, fmt.Errorf("list settings: %w", err)
	}
	flagged := 0
	for _, item := range all {
		overlaps := FindSlotOverlaps(item.OperationalHours)
		if len(overlaps) == 0 {
			continue
		}
		flagged++
		logger.Warnw("settings_overlapping_slots",
			"identifier", item.TerminalIdentifier,
			"overlaps", len(overlaps),
			"warnings", OverlapWarnings(i18n.LocaleEN, item.OperationalHours),
		)
	}
	return flagged, nil
}
