package service

import (
	"strconv"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"
)

// PrinterConfigInput 打印机配置参数
type PrinterConfigInput struct {
	Name       string `json:"name" binding:"required,max=100"`
	VendorID   string `json:"vendor_id" binding:"required,hexadecimal"`
	ProductID  string `json:"product_id" binding:"required,hexadecimal"`
	QueueName  string `json:"queue_name" binding:"omitempty,max=100"`
	PaperWidth string `json:"paper_width" binding:"omitempty,oneof=58mm 80mm"`
}

// PrinterConfigService 打印机配置
type PrinterConfigService struct {
	repo  repository.PrinterRepository
	audit *AuditService
}

// NewPrinterConfigService 创建打印机配置服务
func NewPrinterConfigService(repo repository.PrinterRepository, audit *AuditService) *PrinterConfigService {
	return &PrinterConfigService{repo: repo, audit: audit}
}

// Get 读取配置，不存在时返回默认值
func (s *PrinterConfigService) Get() (*models.PrinterConfiguration, error) {
	stored, err := s.repo.Get()
	if err != nil {
		return nil, err
	}
	if stored == nil {
		defaults := models.DefaultPrinterConfiguration()
		return &defaults, nil
	}
	return stored, nil
}

// Update 保存配置
func (s *PrinterConfigService) Update(actor Actor, input PrinterConfigInput) (*models.PrinterConfiguration, error) {
	current, err := s.Get()
	if err != nil {
		return nil, err
	}
	current.Name = strings.TrimSpace(input.Name)
	current.VendorID = normalizeUSBID(input.VendorID)
	current.ProductID = normalizeUSBID(input.ProductID)
	current.QueueName = strings.TrimSpace(input.QueueName)
	if width := strings.TrimSpace(input.PaperWidth); width != "" {
		current.PaperWidth = width
	}
	if _, err := strconv.ParseUint(strings.TrimPrefix(current.VendorID, "0x"), 16, 16); err != nil {
		return nil, ErrInvalidInput
	}
	if _, err := strconv.ParseUint(strings.TrimPrefix(current.ProductID, "0x"), 16, 16); err != nil {
		return nil, ErrInvalidInput
	}
	if err := s.repo.Save(current); err != nil {
		return nil, err
	}
	if err := s.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     constants.AuditActionPrinterUpdate,
		TargetType: "printer_configuration",
		TargetID:   strconv.FormatUint(uint64(current.ID), 10),
		Detail:     models.JSON{"name": current.Name, "vendor_id": current.VendorID, "product_id": current.ProductID},
	}); err != nil {
		logger.Warnw("printer_audit_record_failed", "error", err)
	}
	return current, nil
}

// normalizeUSBID 统一为 0x 前缀小写
func normalizeUSBID(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if !strings.HasPrefix(value, "0x") {
		value = "0x" + value
	}
	return value
}
