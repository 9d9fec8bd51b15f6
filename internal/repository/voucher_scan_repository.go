package repository

import (
	"errors"
	"time"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoucherScanRepository 票据扫描数据访问接口
type VoucherScanRepository interface {
	ExistsByCode(code string) (bool, error)
	Create(scan *models.VoucherScan) error
	LatestScanAt(personID uint, lock bool) (*time.Time, error)
	CountByPerson(personID uint) (int64, error)
	DB() *gorm.DB
	WithTx(tx *gorm.DB) VoucherScanRepository
}

// GormVoucherScanRepository GORM 实现
type GormVoucherScanRepository struct {
	db *gorm.DB
}

// NewVoucherScanRepository 创建票据扫描仓库
func NewVoucherScanRepository(db *gorm.DB) *GormVoucherScanRepository {
	return &GormVoucherScanRepository{db: db}
}

// DB 返回底层连接
func (r *GormVoucherScanRepository) DB() *gorm.DB {
	return r.db
}

// WithTx 绑定事务
func (r *GormVoucherScanRepository) WithTx(tx *gorm.DB) VoucherScanRepository {
	if tx == nil {
		return r
	}
	return &GormVoucherScanRepository{db: tx}
}

// ExistsByCode 判断票据是否已被使用
func (r *GormVoucherScanRepository) ExistsByCode(code string) (bool, error) {
	var total int64
	if err := r.db.Model(&models.VoucherScan{}).Where("code = ?", code).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

// Create 创建扫描记录
func (r *GormVoucherScanRepository) Create(scan *models.VoucherScan) error {
	return wrapUnique("voucher_scans", r.db.Create(scan).Error)
}

// LatestScanAt 获取参与者最近一次扫描时间，无记录返回 nil
func (r *GormVoucherScanRepository) LatestScanAt(personID uint, lock bool) (*time.Time, error) {
	query := r.db.Where("person_id = ?", personID).Order("scanned_at DESC")
	if lock {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var scan models.VoucherScan
	if err := query.First(&scan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &scan.ScannedAt, nil
}

// CountByPerson 统计参与者扫描次数
func (r *GormVoucherScanRepository) CountByPerson(personID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.VoucherScan{}).Where("person_id = ?", personID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
