package models

import "time"

// CouponReprint 抽奖券重打记录（每张券至多一条）
type CouponReprint struct {
	ID        uint      `gorm:"primarykey" json:"id"`                     // 主键
	CouponID  uint      `gorm:"uniqueIndex;not null" json:"coupon_id"`    // 券ID
	UserID    *uint     `gorm:"index" json:"user_id"`                     // 操作人
	RoomID    uint      `gorm:"index;not null" json:"room_id"`            // 厅ID
	CreatedAt time.Time `json:"created_at"`                               // 重打时间
}

// TableName 指定表名
func (CouponReprint) TableName() string {
	return "coupon_reprints"
}

// CouponReprintLog 重打审计日志（只追加）
type CouponReprintLog struct {
	ID            uint      `gorm:"primarykey" json:"id"`                                             // 主键
	CouponID      uint      `gorm:"not null;uniqueIndex:idx_reprint_log_number" json:"coupon_id"`     // 券ID
	ReprintNumber int       `gorm:"not null;uniqueIndex:idx_reprint_log_number" json:"reprint_number"` // 第几次重打
	UserID        *uint     `gorm:"index" json:"user_id"`                                             // 操作人
	RoomID        uint      `gorm:"index;not null" json:"room_id"`                                    // 厅ID
	CreatedAt     time.Time `gorm:"index" json:"created_at"`                                          // 记录时间
}

// TableName 指定表名
func (CouponReprintLog) TableName() string {
	return "coupon_reprint_logs"
}
