package models

import (
	"time"
)

// Coupon 抽奖券
type Coupon struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Code         string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"`     // 券码
	PersonID     uint           `gorm:"index;not null" json:"person_id"`                       // 参与者ID
	Person       *Person        `gorm:"foreignKey:PersonID" json:"person,omitempty"`           // 参与者
	Source       string         `gorm:"type:varchar(16);index;not null" json:"source"`         // 来源（entry/register/manual）
	RoomID       uint           `gorm:"index;not null" json:"room_id"`                         // 厅ID
	TerminalName string         `gorm:"type:varchar(100)" json:"terminal_name"`                // 终端名称
	Printed      bool           `gorm:"not null;default:false;index" json:"printed"`           // 是否已打印
	ReprintCount int            `gorm:"not null;default:0" json:"reprint_count"`               // 重打次数（上限 1）
	CreatedByID  *uint          `gorm:"index" json:"created_by_id"`                            // 创建人
	CreatedBy    *StaffUser     `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`    // 创建人信息
	Reprint      *CouponReprint `gorm:"foreignKey:CouponID" json:"reprint,omitempty"`          // 重打记录
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                            // 更新时间
}

// TableName 指定表名
func (Coupon) TableName() string {
	return "coupons"
}

// VoucherScan 已消费的机台票据
type VoucherScan struct {
	ID           uint      `gorm:"primarykey" json:"id"`                              // 主键
	Code         string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"code"` // 票据号
	PersonID     uint      `gorm:"index;not null" json:"person_id"`                   // 参与者ID
	RoomID       uint      `gorm:"index;not null" json:"room_id"`                     // 厅ID
	TerminalName string    `gorm:"type:varchar(100)" json:"terminal_name"`            // 终端名称
	Source       string    `gorm:"type:varchar(16);not null" json:"source"`           // 来源
	ScannedAt    time.Time `gorm:"index;not null" json:"scanned_at"`                  // 扫描时间
}

// TableName 指定表名
func (VoucherScan) TableName() string {
	return "voucher_scans"
}
