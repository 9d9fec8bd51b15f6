package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "raffle"

// Registry 应用独立的指标注册表
var Registry = prometheus.NewRegistry()

var (
	// CouponsIssued 已发放券数量（按来源）
	CouponsIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "coupons_issued_total",
		Help:      "Coupons issued, by source.",
	}, []string{"source"})

	// EntryRejections 入场被拒次数（按原因）
	EntryRejections = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entry_rejections_total",
		Help:      "Rejected entry attempts, by reason.",
	}, []string{"reason"})

	// VoucherValidations 远程票据校验结果
	VoucherValidations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "voucher_validation_total",
		Help:      "Remote voucher validation outcomes.",
	}, []string{"result"})

	// VoucherValidationDuration 远程校验耗时
	VoucherValidationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "voucher_validation_duration_seconds",
		Help:      "Remote voucher validation latency.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	// PrintJobs 打印任务结果
	PrintJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "print_jobs_total",
		Help:      "Coupon print jobs, by result.",
	}, []string{"result"})

	// Reprints 重打结果
	Reprints = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reprints_total",
		Help:      "Reprint attempts, by result.",
	}, []string{"result"})

	// RoomDirectoryFallbacks 厅目录回退到内置表的次数
	RoomDirectoryFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "room_directory_fallback_total",
		Help:      "Room directory loads served from the built-in table, by reason.",
	}, []string{"reason"})

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method, route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		CouponsIssued,
		EntryRejections,
		VoucherValidations,
		VoucherValidationDuration,
		PrintJobs,
		Reprints,
		RoomDirectoryFallbacks,
		HTTPRequestDuration,
	)
}

// Handler 返回 /metrics 处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
