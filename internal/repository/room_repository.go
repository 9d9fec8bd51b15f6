package repository

import (
	"errors"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
)

// RoomRepository 厅数据访问接口
type RoomRepository interface {
	List() ([]models.Room, error)
	GetByID(id uint) (*models.Room, error)
	GetByName(name string) (*models.Room, error)
	Create(room *models.Room) error
	Update(room *models.Room) error
	Delete(id uint) error
	Usage(roomID uint) (RoomUsage, error)
	DB() *gorm.DB
	WithTx(tx *gorm.DB) RoomRepository
}

// GormRoomRepository GORM 实现
type GormRoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建厅仓库
func NewRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// WithTx 绑定事务
func (r *GormRoomRepository) WithTx(tx *gorm.DB) RoomRepository {
	if tx == nil {
		return r
	}
	return &GormRoomRepository{db: tx}
}

// DB 返回底层连接
func (r *GormRoomRepository) DB() *gorm.DB {
	return r.db
}

// List 按ID升序获取全部厅
func (r *GormRoomRepository) List() ([]models.Room, error) {
	rooms := make([]models.Room, 0)
	if err := r.db.Order("id ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetByID 根据ID获取厅
func (r *GormRoomRepository) GetByID(id uint) (*models.Room, error) {
	if id == 0 {
		return nil, nil
	}
	var room models.Room
	if err := r.db.First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// GetByName 根据名称获取厅
func (r *GormRoomRepository) GetByName(name string) (*models.Room, error) {
	var room models.Room
	if err := r.db.Where("name = ?", name).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &room, nil
}

// Create 创建厅
func (r *GormRoomRepository) Create(room *models.Room) error {
	return wrapUnique("rooms", r.db.Create(room).Error)
}

// Update 更新厅
func (r *GormRoomRepository) Update(room *models.Room) error {
	return wrapUnique("rooms", r.db.Save(room).Error)
}

// Delete 删除厅
func (r *GormRoomRepository) Delete(id uint) error {
	return r.db.Delete(&models.Room{}, id).Error
}

// Usage 统计厅在各业务表中的引用数量
func (r *GormRoomRepository) Usage(roomID uint) (RoomUsage, error) {
	var usage RoomUsage
	counters := []struct {
		model  interface{}
		column string
		target *int64
	}{
		{&models.Coupon{}, "room_id", &usage.Coupons},
		{&models.VoucherScan{}, "room_id", &usage.VoucherScans},
		{&models.CouponReprint{}, "room_id", &usage.Reprints},
		{&models.CouponReprintLog{}, "room_id", &usage.ReprintLogs},
		{&models.CouponSequence{}, "room_id", &usage.Sequences},
		{&models.ManualCouponSequence{}, "room_id", &usage.ManualSequences},
		{&models.SystemSettings{}, "current_room_id", &usage.Settings},
	}
	for _, counter := range counters {
		if err := r.db.Model(counter.model).Where(counter.column+" = ?", roomID).Count(counter.target).Error; err != nil {
			return RoomUsage{}, err
		}
	}
	return usage, nil
}
