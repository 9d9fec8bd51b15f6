package models

import "time"

// CouponSequence 按（厅, 终端）划分的券号计数器
type CouponSequence struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RoomID       uint      `gorm:"not null;uniqueIndex:idx_coupon_sequence_scope" json:"room_id"`
	TerminalName string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_coupon_sequence_scope" json:"terminal_name"`
	LastNumber   int64     `gorm:"not null;default:0" json:"last_number"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName 指定表名
func (CouponSequence) TableName() string {
	return "coupon_sequences"
}

// ManualCouponSequence 按厅划分的手工券号计数器
type ManualCouponSequence struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	RoomID     uint      `gorm:"not null;uniqueIndex" json:"room_id"`
	LastNumber int64     `gorm:"not null;default:0" json:"last_number"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName 指定表名
func (ManualCouponSequence) TableName() string {
	return "manual_coupon_sequences"
}
