package repository

import (
	"errors"
	"fmt"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository 券号计数器数据访问接口，必须在事务内使用
type SequenceRepository interface {
	LockOrCreate(roomID uint, terminalName string) (*models.CouponSequence, error)
	LockOrCreateManual(roomID uint) (*models.ManualCouponSequence, error)
	SaveNumber(seq *models.CouponSequence) error
	SaveManualNumber(seq *models.ManualCouponSequence) error
	DB() *gorm.DB
	WithTx(tx *gorm.DB) SequenceRepository
}

// GormSequenceRepository GORM 实现
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewSequenceRepository 创建计数器仓库
func NewSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// DB 返回底层连接
func (r *GormSequenceRepository) DB() *gorm.DB {
	return r.db
}

// WithTx 绑定事务
func (r *GormSequenceRepository) WithTx(tx *gorm.DB) SequenceRepository {
	if tx == nil {
		return r
	}
	return &GormSequenceRepository{db: tx}
}

// LockOrCreate 加锁获取（不存在则以 0 创建）终端计数器
func (r *GormSequenceRepository) LockOrCreate(roomID uint, terminalName string) (*models.CouponSequence, error) {
	seq, err := r.lockScope(roomID, terminalName)
	if err != nil || seq != nil {
		return seq, err
	}
	// 并发首建时依赖唯一索引，冲突方忽略插入后重新加锁读取
	created := &models.CouponSequence{RoomID: roomID, TerminalName: terminalName, LastNumber: 0}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, err
	}
	seq, err = r.lockScope(roomID, terminalName)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, fmt.Errorf("coupon sequence %d/%s not found after create", roomID, terminalName)
	}
	return seq, nil
}

func (r *GormSequenceRepository) lockScope(roomID uint, terminalName string) (*models.CouponSequence, error) {
	var seq models.CouponSequence
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ? AND terminal_name = ?", roomID, terminalName).
		First(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seq, nil
}

// LockOrCreateManual 加锁获取（不存在则以 0 创建）手工券计数器
func (r *GormSequenceRepository) LockOrCreateManual(roomID uint) (*models.ManualCouponSequence, error) {
	seq, err := r.lockManual(roomID)
	if err != nil || seq != nil {
		return seq, err
	}
	created := &models.ManualCouponSequence{RoomID: roomID, LastNumber: 0}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(created).Error; err != nil {
		return nil, err
	}
	seq, err = r.lockManual(roomID)
	if err != nil {
		return nil, err
	}
	if seq == nil {
		return nil, fmt.Errorf("manual coupon sequence %d not found after create", roomID)
	}
	return seq, nil
}

func (r *GormSequenceRepository) lockManual(roomID uint) (*models.ManualCouponSequence, error) {
	var seq models.ManualCouponSequence
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("room_id = ?", roomID).
		First(&seq).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &seq, nil
}

// SaveNumber 持久化终端计数器当前值
func (r *GormSequenceRepository) SaveNumber(seq *models.CouponSequence) error {
	return r.db.Model(seq).Update("last_number", seq.LastNumber).Error
}

// SaveManualNumber 持久化手工券计数器当前值
func (r *GormSequenceRepository) SaveManualNumber(seq *models.ManualCouponSequence) error {
	return r.db.Model(seq).Update("last_number", seq.LastNumber).Error
}
