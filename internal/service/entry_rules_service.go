package service

import (
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

const (
	ruleCooldownKey   = "rule.cooldown"
	ruleDailyLimitKey = "rule.daily_limit"
)

// EntryRulesService 入场规则校验（冷却 + 每日上限）
type EntryRulesService struct {
	personRepo repository.PersonRepository
	scanRepo   repository.VoucherScanRepository
	couponRepo repository.CouponRepository
	issuance   *IssuanceService
	rules      RaffleRules
	clock      Clock
}

// NewEntryRulesService 创建入场规则服务
func NewEntryRulesService(
	personRepo repository.PersonRepository,
	scanRepo repository.VoucherScanRepository,
	couponRepo repository.CouponRepository,
	issuance *IssuanceService,
	rules RaffleRules,
	clock Clock,
) *EntryRulesService {
	return &EntryRulesService{
		personRepo: personRepo,
		scanRepo:   scanRepo,
		couponRepo: couponRepo,
		issuance:   issuance,
		rules:      rules,
		clock:      clock,
	}
}

// Validate 按顺序校验冷却与每日上限
// lockRows 为 true 时须在写入事务内调用，读取加行锁
func (s *EntryRulesService) Validate(tx *gorm.DB, person *models.Person, settings *models.SystemSettings, lockRows bool) (CheckResult, error) {
	if person == nil || person.ID == 0 {
		return CheckResult{}, ErrPersonNotFound
	}
	personRepo := s.personRepo.WithTx(tx)
	scanRepo := s.scanRepo.WithTx(tx)
	couponRepo := s.couponRepo.WithTx(tx)

	if lockRows {
		locked, err := personRepo.LockByID(person.ID)
		if err != nil {
			return CheckResult{}, err
		}
		if locked == nil {
			return CheckResult{}, ErrPersonNotFound
		}
	}

	now := s.clock.now()
	last, err := scanRepo.LatestScanAt(person.ID, lockRows)
	if err != nil {
		return CheckResult{}, err
	}
	if last != nil && !now.After(last.Add(s.rules.Cooldown)) {
		metrics.EntryRejections.WithLabelValues("cooldown").Inc()
		return Reject(ErrCooldownActive, ruleCooldownKey, i18n.T(i18n.LocaleES, ruleCooldownKey)), nil
	}

	start, end := s.rules.DayBounds(now)
	existing, err := couponRepo.CountBySourceBetween(person.ID, constants.CouponSourceEntry, start, end, lockRows)
	if err != nil {
		return CheckResult{}, err
	}
	projected := existing + int64(s.issuance.EffectiveQuantity(settings, constants.DefaultEntryQuantity, constants.CouponSourceEntry))
	if projected > int64(s.rules.DailyEntryLimit) {
		metrics.EntryRejections.WithLabelValues("daily_limit").Inc()
		result := Reject(ErrDailyLimitReached, ruleDailyLimitKey, i18n.Sprintf(i18n.LocaleES, ruleDailyLimitKey, s.rules.DailyEntryLimit))
		result.Args = []interface{}{s.rules.DailyEntryLimit}
		return result, nil
	}
	return Pass("", ""), nil
}
