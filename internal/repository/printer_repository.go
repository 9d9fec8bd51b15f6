package repository

import (
	"errors"

	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
)

// PrinterRepository 打印机配置数据访问接口
type PrinterRepository interface {
	Get() (*models.PrinterConfiguration, error)
	Save(config *models.PrinterConfiguration) error
}

// GormPrinterRepository GORM 实现
type GormPrinterRepository struct {
	db *gorm.DB
}

// NewPrinterRepository 创建打印机配置仓库
func NewPrinterRepository(db *gorm.DB) *GormPrinterRepository {
	return &GormPrinterRepository{db: db}
}

// Get 获取当前打印机配置（单行）
func (r *GormPrinterRepository) Get() (*models.PrinterConfiguration, error) {
	var config models.PrinterConfiguration
	if err := r.db.Order("id ASC").First(&config).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &config, nil
}

// Save 创建或更新打印机配置
func (r *GormPrinterRepository) Save(config *models.PrinterConfiguration) error {
	return r.db.Save(config).Error
}
