package worker

import (
	"context"

	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/provider"
	"github.com/ciudad-suerte/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskCouponPrint, c.handleCouponPrint)
}

// handleCouponPrint 打印失败只记录日志，不返回错误以免重复出票
func (c *Consumer) handleCouponPrint(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil || c.Container == nil || c.PrintService == nil {
		logger.Debugw("worker_coupon_print_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseCouponPrintPayload(task.Payload())
	if err != nil {
		logger.Warnw("worker_coupon_print_unmarshal_failed", "error", err)
		return err
	}
	if len(payload.CouponIDs) == 0 {
		logger.Debugw("worker_coupon_print_skip_empty_payload", "request_id", payload.RequestID)
		return nil
	}
	report := c.PrintService.HandleTask(ctx, payload)
	if report.Failed > 0 {
		logger.Warnw("worker_coupon_print_partial",
			"coupon_ids", payload.CouponIDs,
			"printed", report.Printed,
			"failed", report.Failed,
			"request_id", payload.RequestID,
		)
	}
	return nil
}
