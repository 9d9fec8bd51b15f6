package repository

import (
	"errors"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SystemSettingsRepository 终端设置数据访问接口
type SystemSettingsRepository interface {
	GetByIdentifier(identifier string) (*models.SystemSettings, error)
	GetByIdentifierForUpdate(identifier string) (*models.SystemSettings, error)
	Create(settings *models.SystemSettings) error
	Update(settings *models.SystemSettings) error
	List() ([]models.SystemSettings, error)
	WithTx(tx *gorm.DB) *GormSystemSettingsRepository
}

// GormSystemSettingsRepository GORM 实现
type GormSystemSettingsRepository struct {
	db *gorm.DB
}

// NewSystemSettingsRepository 创建终端设置仓库
func NewSystemSettingsRepository(db *gorm.DB) *GormSystemSettingsRepository {
	return &GormSystemSettingsRepository{db: db}
}

// DB 返回底层连接
func (r *GormSystemSettingsRepository) DB() *gorm.DB {
	return r.db
}

// WithTx 绑定事务
func (r *GormSystemSettingsRepository) WithTx(tx *gorm.DB) *GormSystemSettingsRepository {
	if tx == nil {
		return r
	}
	return &GormSystemSettingsRepository{db: tx}
}

// GetByIdentifier 根据终端标识获取设置
func (r *GormSystemSettingsRepository) GetByIdentifier(identifier string) (*models.SystemSettings, error) {
	return r.find(r.db, identifier)
}

// GetByIdentifierForUpdate 加锁获取终端设置
func (r *GormSystemSettingsRepository) GetByIdentifierForUpdate(identifier string) (*models.SystemSettings, error) {
	return r.find(r.db.Clauses(clause.Locking{Strength: "UPDATE"}), identifier)
}

func (r *GormSystemSettingsRepository) find(query *gorm.DB, identifier string) (*models.SystemSettings, error) {
	var settings models.SystemSettings
	if err := query.Where("terminal_identifier = ?", identifier).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &settings, nil
}

// Create 创建终端设置
func (r *GormSystemSettingsRepository) Create(settings *models.SystemSettings) error {
	return wrapUnique("system_settings", r.db.Create(settings).Error)
}

// Update 更新终端设置
func (r *GormSystemSettingsRepository) Update(settings *models.SystemSettings) error {
	return r.db.Save(settings).Error
}

// List 获取全部终端设置
func (r *GormSystemSettingsRepository) List() ([]models.SystemSettings, error) {
	rows := make([]models.SystemSettings, 0)
	if err := r.db.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
