package service

import (
	"context"
	"strings"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/printer"
	"github.com/ciudad-suerte/internal/queue"
	"github.com/ciudad-suerte/internal/repository"
)

// PrintJob 打印请求
type PrintJob struct {
	CouponIDs  []uint
	Identifier string
	Terminal   TerminalConfig
	Reprint    bool
	RequestID  string
}

// PrintReport 打印结果
type PrintReport struct {
	Queued  bool `json:"queued"`
	Printed int  `json:"printed"`
	Failed  int  `json:"failed"`
}

// PrintService 抽奖券打印（提交后执行，失败仅记录）
type PrintService struct {
	couponRepo  repository.CouponRepository
	printerRepo repository.PrinterRepository
	settings    *SettingsService
	rooms       *RoomDirectory
	renderer    printer.Renderer
	sink        printer.Sink
	queue       *queue.Client
}

// NewPrintService 创建打印服务
func NewPrintService(
	couponRepo repository.CouponRepository,
	printerRepo repository.PrinterRepository,
	settings *SettingsService,
	rooms *RoomDirectory,
	renderer printer.Renderer,
	sink printer.Sink,
	queueClient *queue.Client,
) *PrintService {
	return &PrintService{
		couponRepo:  couponRepo,
		printerRepo: printerRepo,
		settings:    settings,
		rooms:       rooms,
		renderer:    renderer,
		sink:        sink,
		queue:       queueClient,
	}
}

// Dispatch 队列可用时投递任务，否则同步打印
func (s *PrintService) Dispatch(ctx context.Context, job PrintJob) PrintReport {
	if len(job.CouponIDs) == 0 {
		return PrintReport{}
	}
	if s.queue.Enabled() {
		err := s.queue.EnqueueCouponPrint(queue.CouponPrintPayload{
			CouponIDs:          job.CouponIDs,
			TerminalIdentifier: job.Identifier,
			PrinterName:        job.Terminal.PrinterName,
			PrinterPort:        job.Terminal.PrinterPort,
			Reprint:            job.Reprint,
			RequestID:          job.RequestID,
		})
		if err == nil {
			metrics.PrintJobs.WithLabelValues("queued").Add(float64(len(job.CouponIDs)))
			return PrintReport{Queued: true}
		}
		logger.Warnw("coupon_print_enqueue_failed", "coupon_ids", job.CouponIDs, "error", err)
	}
	return s.Print(ctx, job)
}

// HandleTask 队列消费入口
func (s *PrintService) HandleTask(ctx context.Context, payload queue.CouponPrintPayload) PrintReport {
	return s.Print(ctx, PrintJob{
		CouponIDs:  payload.CouponIDs,
		Identifier: payload.TerminalIdentifier,
		Terminal:   TerminalConfig{PrinterName: payload.PrinterName, PrinterPort: payload.PrinterPort},
		Reprint:    payload.Reprint,
		RequestID:  payload.RequestID,
	})
}

// Print 同步渲染并送打，成功的券标记为已打印
func (s *PrintService) Print(ctx context.Context, job PrintJob) PrintReport {
	report := PrintReport{}
	coupons, err := s.couponRepo.ListWithRelations(job.CouponIDs)
	if err != nil {
		logger.Errorw("coupon_print_load_failed", "coupon_ids", job.CouponIDs, "error", err)
		report.Failed = len(job.CouponIDs)
		metrics.PrintJobs.WithLabelValues("failed").Add(float64(report.Failed))
		return report
	}

	var settings *models.SystemSettings
	if strings.TrimSpace(job.Identifier) != "" {
		if resolved, err := s.settings.Resolve(ctx, job.Identifier); err == nil {
			settings = resolved
		} else {
			logger.Warnw("coupon_print_settings_failed", "identifier", job.Identifier, "error", err)
		}
	}
	endpoint := s.endpoint(job.Terminal)
	roomSet := s.rooms.Load(ctx)

	printed := make([]uint, 0, len(coupons))
	for _, coupon := range coupons {
		ticket := buildTicket(coupon, settings, roomSet, job.Reprint)
		payload, err := s.renderer.Render(ticket)
		if err == nil {
			err = s.sink.Send(ctx, endpoint, ticket, payload)
		}
		if err != nil {
			report.Failed++
			metrics.PrintJobs.WithLabelValues("failed").Inc()
			logger.Errorw("coupon_print_failed",
				"coupon_id", coupon.ID,
				"code", coupon.Code,
				"printer", endpoint.Queue(),
				"request_id", job.RequestID,
				"error", err,
			)
			continue
		}
		report.Printed++
		metrics.PrintJobs.WithLabelValues("printed").Inc()
		if !coupon.Printed {
			printed = append(printed, coupon.ID)
		}
	}
	if err := s.couponRepo.MarkPrinted(printed); err != nil {
		logger.Warnw("coupon_mark_printed_failed", "coupon_ids", printed, "error", err)
	}
	return report
}

func (s *PrintService) endpoint(terminal TerminalConfig) printer.Endpoint {
	base := models.DefaultPrinterConfiguration()
	if s.printerRepo != nil {
		if stored, err := s.printerRepo.Get(); err == nil && stored != nil {
			base = *stored
		}
	}
	endpoint := printer.Endpoint{
		Name:      base.Name,
		QueueName: base.QueueName,
		VendorID:  base.VendorID,
		ProductID: base.ProductID,
	}
	if name := strings.TrimSpace(terminal.PrinterName); name != "" {
		endpoint.Name = name
		endpoint.QueueName = name
	}
	endpoint.Port = strings.TrimSpace(terminal.PrinterPort)
	return endpoint
}

func buildTicket(coupon models.Coupon, settings *models.SystemSettings, rooms RoomSet, reprint bool) printer.Ticket {
	ticket := printer.Ticket{
		CouponID: coupon.ID,
		Code:     coupon.Code,
		IssuedAt: coupon.CreatedAt,
		Reprint:  reprint,
	}
	if coupon.Person != nil {
		ticket.FullName = coupon.Person.FullName()
		ticket.IDNumber = coupon.Person.IDNumber
		ticket.Phone = coupon.Person.Phone
	}
	if room, ok := rooms.Find(coupon.RoomID); ok {
		ticket.RoomName = room.Name
	}
	ticket.CompanyName = defaultString(settingsField(settings, func(s *models.SystemSettings) string { return s.CompanyName }), constants.DefaultCompanyName)
	ticket.Legend = defaultString(settingsField(settings, func(s *models.SystemSettings) string { return s.CouponLegend }), constants.DefaultCouponLegend)
	return ticket
}

func settingsField(settings *models.SystemSettings, pick func(*models.SystemSettings) string) string {
	if settings == nil {
		return ""
	}
	return strings.TrimSpace(pick(settings))
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
