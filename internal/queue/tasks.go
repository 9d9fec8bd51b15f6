package queue

import (
	"encoding/json"

	"github.com/ciudad-suerte/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskCouponPrint 抽奖券打印任务
	TaskCouponPrint = constants.TaskCouponPrint
)

// CouponPrintPayload 打印任务载荷
type CouponPrintPayload struct {
	CouponIDs          []uint `json:"coupon_ids"`
	TerminalIdentifier string `json:"terminal_identifier"`
	PrinterName        string `json:"printer_name"`
	PrinterPort        string `json:"printer_port"`
	Reprint            bool   `json:"reprint"`
	RequestID          string `json:"request_id,omitempty"`
}

// NewCouponPrintTask 创建打印任务
func NewCouponPrintTask(payload CouponPrintPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCouponPrint, body), nil
}

// ParseCouponPrintPayload 解析打印任务载荷
func ParseCouponPrintPayload(body []byte) (CouponPrintPayload, error) {
	var payload CouponPrintPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}
