package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
)

// StaffRepository 员工账号数据访问接口
type StaffRepository interface {
	GetByID(id uint) (*models.StaffUser, error)
	GetByUsername(username string) (*models.StaffUser, error)
	Create(user *models.StaffUser) error
	Update(user *models.StaffUser) error
	TouchLogin(id uint, at time.Time) error
	List(filter StaffListFilter) ([]models.StaffUser, int64, error)
}

// GormStaffRepository GORM 实现
type GormStaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建员工仓库
func NewStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

// DB 返回底层连接
func (r *GormStaffRepository) DB() *gorm.DB {
	return r.db
}

// GetByID 根据ID获取员工
func (r *GormStaffRepository) GetByID(id uint) (*models.StaffUser, error) {
	if id == 0 {
		return nil, nil
	}
	var user models.StaffUser
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据账号获取员工
func (r *GormStaffRepository) GetByUsername(username string) (*models.StaffUser, error) {
	var user models.StaffUser
	if err := r.db.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create 创建员工
func (r *GormStaffRepository) Create(user *models.StaffUser) error {
	return wrapUnique("staff_users", r.db.Create(user).Error)
}

// Update 更新员工
func (r *GormStaffRepository) Update(user *models.StaffUser) error {
	return wrapUnique("staff_users", r.db.Save(user).Error)
}

// TouchLogin 更新最后登录时间
func (r *GormStaffRepository) TouchLogin(id uint, at time.Time) error {
	return r.db.Model(&models.StaffUser{}).Where("id = ?", id).Update("last_login_at", at).Error
}

// List 分页查询员工
func (r *GormStaffRepository) List(filter StaffListFilter) ([]models.StaffUser, int64, error) {
	query := r.db.Model(&models.StaffUser{})
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	query = applySearch(query, filter.Search, "username", "full_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query.Order("id ASC"), filter.Page, filter.PageSize)

	users := make([]models.StaffUser, 0)
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
