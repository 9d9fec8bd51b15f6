package repository

import (
	"errors"
	"time"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CouponRepository 抽奖券数据访问接口
type CouponRepository interface {
	GetByID(id uint) (*models.Coupon, error)
	GetByIDForUpdate(id uint) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	IncrementReprintCount(id uint) error
	CountBySourceBetween(personID uint, source string, start, end time.Time, lock bool) (int64, error)
	ListPending(filter PendingCouponFilter) ([]models.Coupon, error)
	ListByIDsForUpdate(ids []uint) ([]models.Coupon, error)
	ListWithRelations(ids []uint) ([]models.Coupon, error)
	MarkPrinted(ids []uint) error
	List(filter CouponListFilter) ([]models.Coupon, int64, error)
	Summary(start, end time.Time) ([]CouponSummaryRow, error)
	CountByRoom(roomID uint) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CouponRepository
}

// GormCouponRepository GORM 实现
type GormCouponRepository struct {
	db *gorm.DB
}

// NewCouponRepository 创建抽奖券仓库
func NewCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCouponRepository) WithTx(tx *gorm.DB) CouponRepository {
	if tx == nil {
		return r
	}
	return &GormCouponRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCouponRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

// GetByID 根据ID获取抽奖券
func (r *GormCouponRepository) GetByID(id uint) (*models.Coupon, error) {
	return r.first(r.db.Preload("Person"), id)
}

// GetByIDForUpdate 加锁获取抽奖券
func (r *GormCouponRepository) GetByIDForUpdate(id uint) (*models.Coupon, error) {
	return r.first(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormCouponRepository) first(query *gorm.DB, id uint) (*models.Coupon, error) {
	if id == 0 {
		return nil, nil
	}
	var coupon models.Coupon
	if err := query.First(&coupon, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// GetByCode 根据券码获取抽奖券
func (r *GormCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.Where("code = ?", code).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &coupon, nil
}

// Create 创建抽奖券
func (r *GormCouponRepository) Create(coupon *models.Coupon) error {
	return wrapUnique("coupons", r.db.Omit(clause.Associations).Create(coupon).Error)
}

// IncrementReprintCount 重打次数加一
func (r *GormCouponRepository) IncrementReprintCount(id uint) error {
	return r.db.Model(&models.Coupon{}).Where("id = ?", id).
		UpdateColumn("reprint_count", gorm.Expr("reprint_count + ?", 1)).Error
}

// CountBySourceBetween 统计参与者在时间区间 [start, end) 内指定来源的券数量
// lock 为 true 时对命中的行加锁后计数（聚合查询不支持 FOR UPDATE）。
func (r *GormCouponRepository) CountBySourceBetween(personID uint, source string, start, end time.Time, lock bool) (int64, error) {
	query := r.db.Model(&models.Coupon{}).
		Where("person_id = ? AND source = ? AND created_at >= ? AND created_at < ?", personID, source, start.UTC(), end.UTC())
	if !lock {
		var total int64
		if err := query.Count(&total).Error; err != nil {
			return 0, err
		}
		return total, nil
	}
	var ids []uint
	if err := query.Clauses(clause.Locking{Strength: "UPDATE"}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

// ListPending 查询待打印的券
func (r *GormCouponRepository) ListPending(filter PendingCouponFilter) ([]models.Coupon, error) {
	query := r.db.Model(&models.Coupon{}).Preload("Person").Preload("CreatedBy").
		Where("coupons.printed = ?", false)
	if len(filter.Sources) > 0 {
		query = query.Where("coupons.source IN ?", filter.Sources)
	}
	if filter.CreatedByID != 0 {
		query = query.Where("coupons.created_by_id = ?", filter.CreatedByID)
	}
	if filter.CreatedByRole != "" {
		query = query.Joins("JOIN staff_users ON staff_users.id = coupons.created_by_id").
			Where("staff_users.role = ?", filter.CreatedByRole)
	}
	if filter.RoomID != 0 {
		query = query.Where("coupons.room_id = ?", filter.RoomID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	coupons := make([]models.Coupon, 0)
	if err := query.Order("coupons.id ASC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// ListByIDsForUpdate 批量加锁获取抽奖券
func (r *GormCouponRepository) ListByIDsForUpdate(ids []uint) ([]models.Coupon, error) {
	if len(ids) == 0 {
		return []models.Coupon{}, nil
	}
	coupons := make([]models.Coupon, 0, len(ids))
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).Order("id ASC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// ListWithRelations 批量获取抽奖券并加载参与者
func (r *GormCouponRepository) ListWithRelations(ids []uint) ([]models.Coupon, error) {
	if len(ids) == 0 {
		return []models.Coupon{}, nil
	}
	coupons := make([]models.Coupon, 0, len(ids))
	if err := r.db.Preload("Person").Where("id IN ?", ids).Order("id ASC").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

// MarkPrinted 标记为已打印
func (r *GormCouponRepository) MarkPrinted(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Coupon{}).Where("id IN ?", ids).Update("printed", true).Error
}

// List 分页查询抽奖券
func (r *GormCouponRepository) List(filter CouponListFilter) ([]models.Coupon, int64, error) {
	query := r.db.Model(&models.Coupon{})
	if filter.PersonID != 0 {
		query = query.Where("person_id = ?", filter.PersonID)
	}
	if filter.RoomID != 0 {
		query = query.Where("room_id = ?", filter.RoomID)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	if filter.Code != "" {
		query = query.Where("code = ?", filter.Code)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", filter.CreatedFrom.UTC())
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at < ?", filter.CreatedTo.UTC())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Preload("Person").Order("id DESC"), filter.Page, filter.PageSize)

	coupons := make([]models.Coupon, 0)
	if err := query.Find(&coupons).Error; err != nil {
		return nil, 0, err
	}
	return coupons, total, nil
}

// Summary 统计时间区间内各厅各来源的券数量
func (r *GormCouponRepository) Summary(start, end time.Time) ([]CouponSummaryRow, error) {
	rows := make([]CouponSummaryRow, 0)
	err := r.db.Model(&models.Coupon{}).
		Select("room_id, source, COUNT(*) AS total").
		Where("created_at >= ? AND created_at < ?", start.UTC(), end.UTC()).
		Group("room_id, source").
		Order("room_id ASC, source ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByRoom 统计厅下的券数量
func (r *GormCouponRepository) CountByRoom(roomID uint) (int64, error) {
	var total int64
	if err := r.db.Model(&models.Coupon{}).Where("room_id = ?", roomID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
