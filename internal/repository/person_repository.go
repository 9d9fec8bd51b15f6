package repository

import (
	"errors"
	"strings"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PersonRepository 参与者数据访问接口
type PersonRepository interface {
	GetByID(id uint) (*models.Person, error)
	GetByIDNumber(idNumber string) (*models.Person, error)
	LockByID(id uint) (*models.Person, error)
	Create(person *models.Person) error
	UpdateNames(id uint, firstName, lastName string) error
	ListAll() ([]models.Person, error)
	List(filter PersonListFilter) ([]PersonWithCouponCount, int64, error)
	DB() *gorm.DB
	WithTx(tx *gorm.DB) PersonRepository
}

// GormPersonRepository GORM 实现
type GormPersonRepository struct {
	db *gorm.DB
}

// NewPersonRepository 创建参与者仓库
func NewPersonRepository(db *gorm.DB) *GormPersonRepository {
	return &GormPersonRepository{db: db}
}

// DB 返回底层连接
func (r *GormPersonRepository) DB() *gorm.DB {
	return r.db
}

// WithTx 绑定事务
func (r *GormPersonRepository) WithTx(tx *gorm.DB) PersonRepository {
	if tx == nil {
		return r
	}
	return &GormPersonRepository{db: tx}
}

// GetByID 根据ID获取参与者
func (r *GormPersonRepository) GetByID(id uint) (*models.Person, error) {
	if id == 0 {
		return nil, nil
	}
	var person models.Person
	if err := r.db.First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &person, nil
}

// GetByIDNumber 根据证件号获取参与者
func (r *GormPersonRepository) GetByIDNumber(idNumber string) (*models.Person, error) {
	idNumber = strings.TrimSpace(idNumber)
	if idNumber == "" {
		return nil, nil
	}
	var person models.Person
	if err := r.db.Where("id_number = ?", idNumber).First(&person).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &person, nil
}

// LockByID 加锁获取参与者，用于串行化同一参与者的并发入场
func (r *GormPersonRepository) LockByID(id uint) (*models.Person, error) {
	if id == 0 {
		return nil, nil
	}
	var person models.Person
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&person, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &person, nil
}

// Create 创建参与者
func (r *GormPersonRepository) Create(person *models.Person) error {
	return wrapUnique("persons", r.db.Create(person).Error)
}

// UpdateNames 更新参与者姓名
func (r *GormPersonRepository) UpdateNames(id uint, firstName, lastName string) error {
	return r.db.Model(&models.Person{}).Where("id = ?", id).Updates(map[string]interface{}{
		"first_name": firstName,
		"last_name":  lastName,
	}).Error
}

// ListAll 获取全部参与者
func (r *GormPersonRepository) ListAll() ([]models.Person, error) {
	var persons []models.Person
	if err := r.db.Order("id ASC").Find(&persons).Error; err != nil {
		return nil, err
	}
	return persons, nil
}

// List 分页查询参与者及券数量
func (r *GormPersonRepository) List(filter PersonListFilter) ([]PersonWithCouponCount, int64, error) {
	query := applySearch(r.db.Model(&models.Person{}), filter.Search,
		"persons.first_name", "persons.last_name", "persons.id_number")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Select("persons.*, (SELECT COUNT(*) FROM coupons WHERE coupons.person_id = persons.id) AS coupon_count").
		Order("persons.id DESC")
	query = applyPagination(query, filter.Page, filter.PageSize)

	rows := make([]PersonWithCouponCount, 0)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}
