package models

import "time"

// Room 厅（游戏厅/门店）
type Room struct {
	ID        uint      `gorm:"primarykey" json:"id"`                              // 主键
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"` // 名称
	IPAddress string    `gorm:"type:varchar(64)" json:"ip_address"`                // 票据校验服务地址
	CreatedAt time.Time `json:"created_at"`                                        // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                        // 更新时间
}

// TableName 指定表名
func (Room) TableName() string {
	return "rooms"
}
