package repository

import "time"

// PersonListFilter 参与者列表筛选
type PersonListFilter struct {
	Page     int
	PageSize int
	Search   string
}

// PersonWithCouponCount 参与者及其券数量
type PersonWithCouponCount struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IDNumber    string    `json:"id_number"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	BirthDate   time.Time `json:"birth_date"`
	CreatedAt   time.Time `json:"created_at"`
	CouponCount int64     `json:"coupon_count"`
}

// PendingCouponFilter 待打印券筛选
type PendingCouponFilter struct {
	Sources       []string
	CreatedByID   uint
	CreatedByRole string
	RoomID        uint
	Limit         int
}

// CouponListFilter 抽奖券列表筛选
type CouponListFilter struct {
	Page        int
	PageSize    int
	PersonID    uint
	RoomID      uint
	Source      string
	Code        string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CouponSummaryRow 按厅/来源统计的券数量
type CouponSummaryRow struct {
	RoomID uint   `json:"room_id"`
	Source string `json:"source"`
	Total  int64  `json:"total"`
}

// RoomUsage 厅被引用情况
type RoomUsage struct {
	Coupons         int64 `json:"coupons"`
	VoucherScans    int64 `json:"voucher_scans"`
	Reprints        int64 `json:"reprints"`
	ReprintLogs     int64 `json:"reprint_logs"`
	Sequences       int64 `json:"sequences"`
	ManualSequences int64 `json:"manual_sequences"`
	Settings        int64 `json:"settings"`
}

// Total 引用总数
func (u RoomUsage) Total() int64 {
	return u.Coupons + u.VoucherScans + u.Reprints + u.ReprintLogs + u.Sequences + u.ManualSequences + u.Settings
}

// AuditLogListFilter 审计日志筛选
type AuditLogListFilter struct {
	Page        int
	PageSize    int
	OperatorID  uint
	Action      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// StaffListFilter 员工列表筛选
type StaffListFilter struct {
	Page     int
	PageSize int
	Role     string
	Search   string
}
