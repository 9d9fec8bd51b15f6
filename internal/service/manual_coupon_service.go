package service

import (
	"context"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"gorm.io/gorm"
)

var pendingSources = []string{constants.CouponSourceManual, constants.CouponSourceRegister}

// ManualCouponInput 手工发券参数
type ManualCouponInput struct {
	IDNumber string
	RoomID   uint
}

// PendingScope 待打印范围（仅管理员可指定）
type PendingScope struct {
	RoomID      uint
	CreatedByID uint
}

// ManualCouponService 手工券与待打印队列
type ManualCouponService struct {
	personRepo repository.PersonRepository
	couponRepo repository.CouponRepository
	issuance   *IssuanceService
	rooms      *RoomDirectory
	printer    *PrintService
}

// NewManualCouponService 创建手工券服务
func NewManualCouponService(
	personRepo repository.PersonRepository,
	couponRepo repository.CouponRepository,
	issuance *IssuanceService,
	rooms *RoomDirectory,
	printer *PrintService,
) *ManualCouponService {
	return &ManualCouponService{
		personRepo: personRepo,
		couponRepo: couponRepo,
		issuance:   issuance,
		rooms:      rooms,
		printer:    printer,
	}
}

// Create 为已登记参与者发放一张手工券（按厅编号，MN 前缀），待打印
func (s *ManualCouponService) Create(ctx context.Context, terminal *TerminalContext, actor Actor, input ManualCouponInput) (*models.Coupon, error) {
	person, err := s.personRepo.GetByIDNumber(NormalizeIDNumber(input.IDNumber))
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, ErrPersonNotFound
	}
	room, err := s.targetRoom(ctx, terminal, input.RoomID)
	if err != nil {
		return nil, err
	}
	var settings *models.SystemSettings
	if terminal != nil {
		settings = terminal.Settings
	}
	coupons, err := s.issuance.IssueCouponsTx(IssueInput{
		Person:       person,
		Quantity:     1,
		Source:       constants.CouponSourceManual,
		RoomID:       room.ID,
		RoomName:     room.Name,
		TerminalName: actor.Username,
		Settings:     settings,
		CreatedByID:  staffIDPtr(actor.StaffID),
		Printed:      false,
	})
	if err != nil {
		return nil, err
	}
	if len(coupons) == 0 {
		return nil, ErrCouponCodeConflict
	}
	return &coupons[0], nil
}

func (s *ManualCouponService) targetRoom(ctx context.Context, terminal *TerminalContext, roomID uint) (models.Room, error) {
	if roomID != 0 {
		return s.rooms.Get(ctx, roomID)
	}
	if terminal == nil {
		return models.Room{}, ErrTerminalNotConfigured
	}
	return terminal.Room, nil
}

// pendingFilter 按角色收窄可见范围
// 管理员看全部；厅主管看本厅收银员创建的；收银员只看自己创建的
func pendingFilter(actor Actor, activeRoomID uint, scope PendingScope) repository.PendingCouponFilter {
	filter := repository.PendingCouponFilter{Sources: pendingSources}
	switch actor.Role {
	case constants.RoleAdmin:
		filter.RoomID = scope.RoomID
		filter.CreatedByID = scope.CreatedByID
	case constants.RoleFloorManager:
		filter.RoomID = activeRoomID
		if scope.RoomID != 0 {
			filter.RoomID = scope.RoomID
		}
		filter.CreatedByRole = constants.RoleCashier
	default:
		filter.CreatedByID = actor.StaffID
	}
	return filter
}

// Pending 待打印列表
func (s *ManualCouponService) Pending(actor Actor, activeRoomID uint, scope PendingScope) ([]models.Coupon, error) {
	return s.couponRepo.ListPending(pendingFilter(actor, activeRoomID, scope))
}

// PrintPending 锁定待打印券并标记已打印，提交后送打
func (s *ManualCouponService) PrintPending(ctx context.Context, terminal *TerminalContext, actor Actor, scope PendingScope) (int, PrintReport, error) {
	activeRoomID := uint(0)
	if terminal != nil {
		activeRoomID = terminal.Room.ID
	}
	filter := pendingFilter(actor, activeRoomID, scope)
	var ids []uint
	err := s.couponRepo.Transaction(func(tx *gorm.DB) error {
		repo := s.couponRepo.WithTx(tx)
		pending, err := repo.ListPending(filter)
		if err != nil {
			return err
		}
		candidate := make([]uint, 0, len(pending))
		for _, coupon := range pending {
			candidate = append(candidate, coupon.ID)
		}
		locked, err := repo.ListByIDsForUpdate(candidate)
		if err != nil {
			return err
		}
		for _, coupon := range locked {
			if !coupon.Printed {
				ids = append(ids, coupon.ID)
			}
		}
		return repo.MarkPrinted(ids)
	})
	if err != nil {
		return 0, PrintReport{}, err
	}
	if len(ids) == 0 {
		return 0, PrintReport{}, nil
	}
	job := PrintJob{CouponIDs: ids, RequestID: actor.RequestID}
	if terminal != nil {
		job.Identifier = terminal.Identifier
		job.Terminal = terminal.Config
	}
	return len(ids), s.printer.Dispatch(ctx, job), nil
}
