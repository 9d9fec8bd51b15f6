package service

import (
	"errors"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

// IssueInput 发券输入
type IssueInput struct {
	Person       *models.Person
	Quantity     int
	Source       string
	RoomID       uint
	RoomName     string
	TerminalName string
	Settings     *models.SystemSettings
	CreatedByID  *uint
	Printed      bool
}

// IssuanceService 发券引擎
type IssuanceService struct {
	couponRepo repository.CouponRepository
	sequences  *SequenceService
	rules      RaffleRules
	clock      Clock
}

// NewIssuanceService 创建发券引擎
func NewIssuanceService(couponRepo repository.CouponRepository, sequences *SequenceService, rules RaffleRules, clock Clock) *IssuanceService {
	return &IssuanceService{
		couponRepo: couponRepo,
		sequences:  sequences,
		rules:      rules,
		clock:      clock,
	}
}

// Multiplier 当前时段倍数，仅 entry 来源生效
func (s *IssuanceService) Multiplier(settings *models.SystemSettings, source string) int {
	if source != constants.CouponSourceEntry || settings == nil {
		return 1
	}
	return MultiplierAt(settings.OperationalHours, s.clock.now().In(s.rules.location()))
}

// EffectiveQuantity max(1, quantity) × 倍数
func (s *IssuanceService) EffectiveQuantity(settings *models.SystemSettings, quantity int, source string) int {
	if quantity < 1 {
		quantity = 1
	}
	return quantity * s.Multiplier(settings, source)
}

// IssueCouponsTx 在独立事务中发券
func (s *IssuanceService) IssueCouponsTx(input IssueInput) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.couponRepo.Transaction(func(tx *gorm.DB) error {
		var err error
		coupons, err = s.IssueCoupons(tx, input)
		return err
	})
	if err != nil {
		return nil, err
	}
	recordIssued(input.Source, len(coupons))
	return coupons, nil
}

// IssueCoupons 在调用方事务内逐张取号并写入券
// 任一失败整体回滚，打印由调用方在提交后处理
func (s *IssuanceService) IssueCoupons(tx *gorm.DB, input IssueInput) ([]models.Coupon, error) {
	if input.Person == nil || input.Person.ID == 0 {
		return nil, ErrPersonNotFound
	}
	if !validCouponSource(input.Source) {
		return nil, ErrInvalidCouponSource
	}
	if input.RoomID == 0 {
		return nil, ErrRoomNotFound
	}
	terminal := strings.TrimSpace(input.TerminalName)
	total := s.EffectiveQuantity(input.Settings, input.Quantity, input.Source)
	repo := s.couponRepo.WithTx(tx)
	scope := SequenceScope{
		RoomID:       input.RoomID,
		RoomName:     input.RoomName,
		TerminalName: terminal,
		Manual:       input.Source == constants.CouponSourceManual,
	}

	coupons := make([]models.Coupon, 0, total)
	for i := 0; i < total; i++ {
		code, err := s.sequences.NextCode(tx, scope)
		if err != nil {
			return nil, err
		}
		coupon := models.Coupon{
			Code:         code,
			PersonID:     input.Person.ID,
			Source:       input.Source,
			RoomID:       input.RoomID,
			TerminalName: terminal,
			Printed:      input.Printed,
			CreatedByID:  input.CreatedByID,
			CreatedAt:    s.clock.now(),
		}
		if err := repo.Create(&coupon); err != nil {
			if repository.IsUniqueViolationOn(err, "coupons", "code") {
				return nil, errors.Join(ErrCouponCodeConflict, err)
			}
			return nil, err
		}
		coupon.Person = input.Person
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}

// recordIssued 提交后记录发券数量
func recordIssued(source string, count int) {
	if count > 0 {
		metrics.CouponsIssued.WithLabelValues(source).Add(float64(count))
	}
}

func validCouponSource(source string) bool {
	switch source {
	case constants.CouponSourceEntry, constants.CouponSourceRegister, constants.CouponSourceManual:
		return true
	}
	return false
}
