package repository

import (
	"database/sql"
	"errors"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
)

// ReprintRepository 重打记录数据访问接口
type ReprintRepository interface {
	GetByCouponID(couponID uint) (*models.CouponReprint, error)
	Create(reprint *models.CouponReprint) error
	NextLogNumber(couponID uint) (int, error)
	CreateLog(log *models.CouponReprintLog) error
	CountLogs(couponID uint) (int64, error)
	WithTx(tx *gorm.DB) ReprintRepository
}

// GormReprintRepository GORM 实现
type GormReprintRepository struct {
	db *gorm.DB
}

// NewReprintRepository 创建重打记录仓库
func NewReprintRepository(db *gorm.DB) *GormReprintRepository {
	return &GormReprintRepository{db: db}
}

// DB 返回底层连接
func (r *GormReprintRepository) DB() *gorm.DB {
	return r.db
}

// WithTx 绑定事务
func (r *GormReprintRepository) WithTx(tx *gorm.DB) ReprintRepository {
	if tx == nil {
		return r
	}
	return &GormReprintRepository{db: tx}
}

// GetByCouponID 根据券ID获取重打记录
func (r *GormReprintRepository) GetByCouponID(couponID uint) (*models.CouponReprint, error) {
	var reprint models.CouponReprint
	if err := r.db.Where("coupon_id = ?", couponID).First(&reprint).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reprint, nil
}

// Create 创建重打记录
func (r *GormReprintRepository) Create(reprint *models.CouponReprint) error {
	return wrapUnique("coupon_reprints", r.db.Create(reprint).Error)
}

// NextLogNumber 计算下一条重打日志序号
func (r *GormReprintRepository) NextLogNumber(couponID uint) (int, error) {
	var current sql.NullInt64
	if err := r.db.Model(&models.CouponReprintLog{}).
		Where("coupon_id = ?", couponID).
		Select("MAX(reprint_number)").
		Row().Scan(&current); err != nil {
		return 0, err
	}
	if !current.Valid {
		return 1, nil
	}
	return int(current.Int64) + 1, nil
}

// CreateLog 追加重打日志
func (r *GormReprintRepository) CreateLog(log *models.CouponReprintLog) error {
	return wrapUnique("coupon_reprint_logs", r.db.Create(log).Error)
}

// CountLogs 统计券的重打日志数量
func (r *GormReprintRepository) CountLogs(couponID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.CouponReprintLog{}).Where("coupon_id = ?", couponID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
