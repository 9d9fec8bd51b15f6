package queue

import (
	"testing"

	"github.com/ciudad-suerte/internal/config"
)

func TestCouponPrintTaskRoundTrip(t *testing.T) {
	task, err := NewCouponPrintTask(CouponPrintPayload{CouponIDs: []uint{3, 4}, TerminalIdentifier: "caja-01-abcd1234", Reprint: true})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskCouponPrint {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseCouponPrintPayload(task.Payload())
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if len(payload.CouponIDs) != 2 || payload.CouponIDs[1] != 4 || !payload.Reprint {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestDisabledClientSkipsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("expected disabled client")
	}
	if err := client.EnqueueCouponPrint(CouponPrintPayload{CouponIDs: []uint{1}}); err != nil {
		t.Fatalf("disabled enqueue should be a no-op: %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380})
	if opt.Addr != "redis:6380" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[PrintingQueue] != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
