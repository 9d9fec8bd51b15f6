package models

import (
	"strings"
	"time"
)

// Person 抽奖参与者
type Person struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                 // 主键
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`         // 名
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`          // 姓
	IDNumber  string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"id_number"` // 证件号（DNI）
	Email     string    `gorm:"type:varchar(255)" json:"email"`                       // 邮箱
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`                        // 电话
	BirthDate time.Time `gorm:"not null" json:"birth_date"`                           // 出生日期
	CreatedAt time.Time `gorm:"index" json:"created_at"`                              // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                           // 更新时间
}

// TableName 指定表名
func (Person) TableName() string {
	return "persons"
}

// FullName 返回展示姓名
func (p Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}
