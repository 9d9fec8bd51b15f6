package repository

import (
	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
)

// PurgeResult 清空结果（各表删除行数）
type PurgeResult map[string]int64

// PurgeRaffleData 在事务内按依赖顺序清空抽奖业务数据，保留厅、设置与账号
func PurgeRaffleData(tx *gorm.DB) (PurgeResult, error) {
	result := PurgeResult{}
	ordered := []struct {
		name  string
		model interface{}
	}{
		{"coupon_reprint_logs", &models.CouponReprintLog{}},
		{"coupon_reprints", &models.CouponReprint{}},
		{"coupons", &models.Coupon{}},
		{"voucher_scans", &models.VoucherScan{}},
		{"coupon_sequences", &models.CouponSequence{}},
		{"manual_coupon_sequences", &models.ManualCouponSequence{}},
		{"persons", &models.Person{}},
	}
	for _, item := range ordered {
		res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(item.model)
		if res.Error != nil {
			return nil, res.Error
		}
		result[item.name] = res.RowsAffected
	}
	return result, nil
}
