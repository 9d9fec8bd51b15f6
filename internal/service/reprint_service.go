package service

import (
	"errors"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

const (
	reprintRegisteredKey = "reprint.registered"
	reprintRejectedKey   = "error.coupon_already_reprinted"
)

// ReprintService 重打登记
type ReprintService struct {
	couponRepo  repository.CouponRepository
	reprintRepo repository.ReprintRepository
	clock       Clock
}

// NewReprintService 创建重打登记服务
func NewReprintService(couponRepo repository.CouponRepository, reprintRepo repository.ReprintRepository, clock Clock) *ReprintService {
	return &ReprintService{couponRepo: couponRepo, reprintRepo: reprintRepo, clock: clock}
}

// RegisterReprint 登记唯一一次重打
// 锁定券行、计数加一、建立重打记录并追加日志，全部在同一事务内完成
func (s *ReprintService) RegisterReprint(couponID uint, actor Actor) (*models.Coupon, CheckResult, error) {
	var coupon *models.Coupon
	err := s.couponRepo.Transaction(func(tx *gorm.DB) error {
		couponRepo := s.couponRepo.WithTx(tx)
		reprintRepo := s.reprintRepo.WithTx(tx)

		locked, err := couponRepo.GetByIDForUpdate(couponID)
		if err != nil {
			return err
		}
		if locked == nil {
			return ErrCouponNotFound
		}
		if locked.ReprintCount >= constants.MaxCouponReprints {
			return ErrCouponAlreadyReprinted
		}
		if err := couponRepo.IncrementReprintCount(locked.ID); err != nil {
			return err
		}
		locked.ReprintCount++

		now := s.clock.now()
		userID := staffIDPtr(actor.StaffID)
		existing, err := reprintRepo.GetByCouponID(locked.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			if err := reprintRepo.Create(&models.CouponReprint{
				CouponID:  locked.ID,
				UserID:    userID,
				RoomID:    locked.RoomID,
				CreatedAt: now,
			}); err != nil {
				return err
			}
		}

		number, err := reprintRepo.NextLogNumber(locked.ID)
		if err != nil {
			return err
		}
		if err := reprintRepo.CreateLog(&models.CouponReprintLog{
			CouponID:      locked.ID,
			ReprintNumber: number,
			UserID:        userID,
			RoomID:        locked.RoomID,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
		coupon = locked
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCouponAlreadyReprinted) || repository.IsUniqueViolation(err) {
			metrics.Reprints.WithLabelValues("rejected").Inc()
			logger.Infow("coupon_reprint_rejected", "coupon_id", couponID, "staff_id", actor.StaffID)
			return nil, Reject(ErrCouponAlreadyReprinted, reprintRejectedKey, i18n.T(i18n.LocaleES, reprintRejectedKey)), nil
		}
		return nil, CheckResult{}, err
	}
	metrics.Reprints.WithLabelValues("registered").Inc()
	return coupon, Pass(reprintRegisteredKey, i18n.T(i18n.LocaleES, reprintRegisteredKey)), nil
}

func staffIDPtr(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
