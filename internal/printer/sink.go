package printer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ciudad-suerte/internal/config"

	"go.uber.org/zap"
)

// Endpoint 打印目标
type Endpoint struct {
	Name      string `json:"name"`
	Port      string `json:"port"`
	QueueName string `json:"queue_name"`
	VendorID  string `json:"vendor_id"`
	ProductID string `json:"product_id"`
}

// Queue 优先使用系统打印队列名，否则使用打印机名
func (e Endpoint) Queue() string {
	if q := strings.TrimSpace(e.QueueName); q != "" {
		return q
	}
	return strings.TrimSpace(e.Name)
}

// Sink 打印输出
type Sink interface {
	Send(ctx context.Context, endpoint Endpoint, ticket Ticket, payload []byte) error
}

// NewSink 按配置创建打印输出
func NewSink(cfg config.PrinterConfig, log *zap.SugaredLogger) (Sink, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Sink)) {
	case "", "log":
		return &LogSink{log: log}, nil
	case "file":
		dir := strings.TrimSpace(cfg.OutputDir)
		if dir == "" {
			dir = "prints"
		}
		return &FileSink{Dir: dir}, nil
	case "command":
		if strings.TrimSpace(cfg.Command) == "" {
			return nil, fmt.Errorf("printer command sink requires printer.command")
		}
		return &CommandSink{Command: cfg.Command}, nil
	default:
		return nil, fmt.Errorf("unknown printer sink %q", cfg.Sink)
	}
}

// LogSink 仅记录日志
type LogSink struct {
	log *zap.SugaredLogger
}

// Send 写日志
func (s *LogSink) Send(_ context.Context, endpoint Endpoint, ticket Ticket, payload []byte) error {
	if s.log == nil {
		return nil
	}
	s.log.Infow("coupon_print_logged",
		"coupon_id", ticket.CouponID,
		"code", ticket.Code,
		"printer", endpoint.Queue(),
		"port", endpoint.Port,
		"bytes", len(payload),
		"reprint", ticket.Reprint,
	)
	return nil
}

// FileSink 每张券写一个 .bin 文件
type FileSink struct {
	Dir string
}

// Send 写文件
func (s *FileSink) Send(_ context.Context, _ Endpoint, ticket Ticket, payload []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	name := fmt.Sprintf("%s_%s.bin", safeFileName(ticket.Code), time.Now().Format("20060102T150405.000000000"))
	return os.WriteFile(filepath.Join(s.Dir, name), payload, 0o644)
}

func safeFileName(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return "coupon"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, code)
}

// CommandSink 通过外部命令送打（如 lp -d {queue} -o raw），字节流写入 stdin
type CommandSink struct {
	Command string
}

// Send 执行命令
func (s *CommandSink) Send(ctx context.Context, endpoint Endpoint, _ Ticket, payload []byte) error {
	args := strings.Fields(s.expand(endpoint))
	if len(args) == 0 {
		return fmt.Errorf("empty printer command")
	}
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("printer command failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func (s *CommandSink) expand(endpoint Endpoint) string {
	replacer := strings.NewReplacer(
		"{queue}", endpoint.Queue(),
		"{name}", endpoint.Name,
		"{port}", endpoint.Port,
	)
	return replacer.Replace(s.Command)
}
