package models

import "time"

// PrinterConfiguration 热敏打印机配置
type PrinterConfiguration struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	VendorID   string    `gorm:"type:varchar(10);not null" json:"vendor_id"`
	ProductID  string    `gorm:"type:varchar(10);not null" json:"product_id"`
	QueueName  string    `gorm:"type:varchar(100)" json:"queue_name"`
	PaperWidth string    `gorm:"type:varchar(10)" json:"paper_width"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (PrinterConfiguration) TableName() string {
	return "printer_configurations"
}

// DefaultPrinterConfiguration 默认打印机参数
func DefaultPrinterConfiguration() PrinterConfiguration {
	return PrinterConfiguration{
		Name:       "POS-80",
		VendorID:   "0x0416",
		ProductID:  "0x5011",
		QueueName:  "POS-80",
		PaperWidth: "80mm",
	}
}
