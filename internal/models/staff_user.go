package models

import (
	"time"

	"gorm.io/gorm"
)

// StaffUser 员工账号（收银员/厅主管/管理员）
type StaffUser struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                  // 主键
	Username     string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"` // 登录账号
	PasswordHash string         `gorm:"not null" json:"-"`                                     // 密码哈希
	FullName     string         `gorm:"type:varchar(150)" json:"full_name"`                    // 姓名
	Role         string         `gorm:"type:varchar(32);index;not null" json:"role"`           // 角色
	IsActive     bool           `gorm:"not null;default:true" json:"is_active"`                // 是否启用
	LastLoginAt  *time.Time     `json:"last_login_at"`                                         // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                               // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                            // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                        // 软删除时间
}

// TableName 指定表名
func (StaffUser) TableName() string {
	return "staff_users"
}
