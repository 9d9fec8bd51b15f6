package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/i18n"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

const voucherUsedKey = "error.voucher_used"

// EntryInput 票据入场参数
type EntryInput struct {
	IDNumber    string
	VoucherCode string
}

// EntryResult 入场结果
type EntryResult struct {
	Person  *models.Person      `json:"person"`
	Scan    *models.VoucherScan `json:"scan"`
	Coupons []models.Coupon     `json:"coupons"`
	Remote  CheckResult         `json:"remote"`
}

// EntryService 票据入场流程
type EntryService struct {
	personRepo repository.PersonRepository
	scanRepo   repository.VoucherScanRepository
	issuance   *IssuanceService
	rules      *EntryRulesService
	validator  *VoucherValidator
	clock      Clock
}

// NewEntryService 创建入场服务
func NewEntryService(
	personRepo repository.PersonRepository,
	scanRepo repository.VoucherScanRepository,
	issuance *IssuanceService,
	rules *EntryRulesService,
	validator *VoucherValidator,
	clock Clock,
) *EntryService {
	return &EntryService{
		personRepo: personRepo,
		scanRepo:   scanRepo,
		issuance:   issuance,
		rules:      rules,
		validator:  validator,
		clock:      clock,
	}
}

// NormalizeVoucherCode 票据号统一去空白转大写
func NormalizeVoucherCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Precheck 仅做远程校验，供扫码时即时反馈
func (s *EntryService) Precheck(ctx context.Context, terminal *TerminalContext, code string) (CheckResult, error) {
	if terminal == nil {
		return CheckResult{}, ErrTerminalNotConfigured
	}
	code = NormalizeVoucherCode(code)
	if code == "" {
		return CheckResult{}, ErrVoucherCodeRequired
	}
	return s.validator.ValidateRemote(ctx, code, terminal.Room.ID, terminal.Config.RoomIP), nil
}

// Submit 处理一次票据入场
// 远程校验在事务外执行；事务内加锁复核规则后写入扫描记录与券
func (s *EntryService) Submit(ctx context.Context, terminal *TerminalContext, input EntryInput) (*EntryResult, error) {
	if terminal == nil {
		return nil, ErrTerminalNotConfigured
	}
	code := NormalizeVoucherCode(input.VoucherCode)
	if code == "" {
		return nil, ErrVoucherCodeRequired
	}
	person, err := s.personRepo.GetByIDNumber(NormalizeIDNumber(input.IDNumber))
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, ErrPersonNotFound
	}

	remote := s.validator.ValidateRemote(ctx, code, terminal.Room.ID, terminal.Config.RoomIP)
	if !remote.Valid {
		return nil, remote.Err()
	}

	used, err := s.scanRepo.ExistsByCode(code)
	if err != nil {
		return nil, err
	}
	if used {
		return nil, voucherUsed()
	}
	precheck, err := s.rules.Validate(nil, person, terminal.Settings, false)
	if err != nil {
		return nil, err
	}
	if !precheck.Valid {
		return nil, precheck.Err()
	}

	result := &EntryResult{Person: person, Remote: remote}
	err = s.scanRepo.DB().Transaction(func(tx *gorm.DB) error {
		locked, err := s.rules.Validate(tx, person, terminal.Settings, true)
		if err != nil {
			return err
		}
		if !locked.Valid {
			return locked.Err()
		}
		scanRepo := s.scanRepo.WithTx(tx)
		used, err := scanRepo.ExistsByCode(code)
		if err != nil {
			return err
		}
		if used {
			return voucherUsed()
		}
		scan := &models.VoucherScan{
			Code:         code,
			PersonID:     person.ID,
			RoomID:       terminal.Room.ID,
			TerminalName: terminal.TerminalName,
			Source:       constants.CouponSourceEntry,
			ScannedAt:    s.clock.now(),
		}
		if err := scanRepo.Create(scan); err != nil {
			return err
		}
		coupons, err := s.issuance.IssueCoupons(tx, IssueInput{
			Person:       person,
			Quantity:     constants.DefaultEntryQuantity,
			Source:       constants.CouponSourceEntry,
			RoomID:       terminal.Room.ID,
			RoomName:     terminal.Room.Name,
			TerminalName: terminal.TerminalName,
			Settings:     terminal.Settings,
			Printed:      false,
		})
		if err != nil {
			return err
		}
		result.Scan = scan
		result.Coupons = coupons
		return nil
	})
	if err != nil {
		var ruleErr *RuleError
		if errors.As(err, &ruleErr) {
			return nil, err
		}
		if repository.IsUniqueViolationOn(err, "voucher_scans") {
			logger.Infow("entry_voucher_race_detected", "code", code, "person_id", person.ID)
			return nil, voucherUsed()
		}
		return nil, err
	}
	recordIssued(constants.CouponSourceEntry, len(result.Coupons))
	return result, nil
}

func voucherUsed() error {
	metrics.EntryRejections.WithLabelValues("voucher_used").Inc()
	return Reject(ErrVoucherAlreadyUsed, voucherUsedKey, i18n.T(i18n.LocaleES, voucherUsedKey)).Err()
}
