package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OperationalSlot 营业时段及倍数
type OperationalSlot struct {
	Start      string `json:"start" binding:"required,hhmm"` // HH:MM
	End        string `json:"end" binding:"required,hhmm"`   // HH:MM
	Multiplier int    `json:"multiplier" binding:"min=1"`    // 入场券倍数
}

// OperationalSlots 营业时段列表（JSON 存储）
type OperationalSlots []OperationalSlot

// Value 实现 driver.Valuer 接口
func (s OperationalSlots) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口
func (s *OperationalSlots) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = OperationalSlots{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported operational slots type %T", value)
	}
	if len(raw) == 0 {
		*s = OperationalSlots{}
		return nil
	}
	return json.Unmarshal(raw, s)
}

// SystemSettings 终端级系统设置（每个终端标识一行）
type SystemSettings struct {
	ID                 uint             `gorm:"primarykey" json:"id"`                                                // 主键
	TerminalIdentifier string           `gorm:"type:varchar(100);uniqueIndex;not null" json:"terminal_identifier"` // 终端标识
	TerminalName       string           `gorm:"type:varchar(100)" json:"terminal_name"`                            // 终端显示名
	CurrentRoomID      *uint            `gorm:"index" json:"current_room_id"`                                      // 当前厅
	CompanyName        string           `gorm:"type:varchar(150)" json:"company_name"`                             // 公司名称
	CouponLegend       string           `gorm:"type:text" json:"coupon_legend"`                                    // 券面说明
	OperationalHours   OperationalSlots `gorm:"type:text" json:"operational_hours"`                                // 营业时段
	TermsText          string           `gorm:"type:text" json:"terms_text"`                                       // 条款文本
	CreatedAt          time.Time        `json:"created_at"`                                                        // 创建时间
	UpdatedAt          time.Time        `json:"updated_at"`                                                        // 更新时间
}

// TableName 指定表名
func (SystemSettings) TableName() string {
	return "system_settings"
}
