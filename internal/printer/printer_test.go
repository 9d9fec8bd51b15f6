package printer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/config"
)

func sampleTicket() Ticket {
	return Ticket{
		CouponID:    7,
		Code:        "SCNT01-000042",
		FullName:    "Ana Pérez",
		IDNumber:    "30111222",
		RoomName:    "SCN",
		IssuedAt:    time.Date(2026, 3, 14, 21, 5, 0, 0, time.UTC),
		CompanyName: "Casinos Gala",
		Legend:      "El Juego Compulsivo es Perjudicial para la Salud y Produce Adicción ley 6169",
	}
}

func TestTicketLinesLayout(t *testing.T) {
	lines := sampleTicket().Lines(32)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"CASINOS GALA", "Código cupón: SCNT01-000042", "Fecha: 14/03/2026 21:05", "Teléfono: -"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in ticket:\n%s", want, joined)
		}
	}
	for _, line := range lines {
		if len([]rune(line)) > 32 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestRenderFramesPayload(t *testing.T) {
	payload, err := Renderer{LineWidth: 42}.Render(sampleTicket())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(payload, cmdInit) {
		t.Fatalf("payload must start with init command")
	}
	if !bytes.HasSuffix(payload, cmdCut) {
		t.Fatalf("payload must end with cut command")
	}
	// é 在 CP858 中为 0x82
	if !bytes.Contains(payload, []byte{'P', 0x82, 'r', 'e', 'z'}) {
		t.Fatalf("expected cp858 encoded name")
	}
}

func TestRenderWithQR(t *testing.T) {
	plain, err := Renderer{}.Render(sampleTicket())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	withQR, err := Renderer{PrintQR: true, QRSize: 200}.Render(sampleTicket())
	if err != nil {
		t.Fatalf("render with qr failed: %v", err)
	}
	if len(withQR) <= len(plain) {
		t.Fatalf("qr payload should be larger: %d <= %d", len(withQR), len(plain))
	}
	if !bytes.Contains(withQR, []byte{0x1d, 0x76, 0x30, 0x00}) {
		t.Fatalf("expected raster image command")
	}
}

func TestFileSinkWritesPayload(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: dir}
	if err := sink.Send(context.Background(), Endpoint{Name: "POS-80"}, sampleTicket(), []byte("data")); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 1 || !strings.HasPrefix(entries[0].Name(), "SCNT01-000042_") {
		t.Fatalf("unexpected files: %v", entries)
	}
	raw, _ := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if string(raw) != "data" {
		t.Fatalf("unexpected file content: %q", raw)
	}
}

func TestNewSinkSelection(t *testing.T) {
	if _, err := NewSink(config.PrinterConfig{Sink: "command"}, nil); err == nil {
		t.Fatalf("command sink without command should fail")
	}
	if _, err := NewSink(config.PrinterConfig{Sink: "usb"}, nil); err == nil {
		t.Fatalf("unknown sink should fail")
	}
	sink, err := NewSink(config.PrinterConfig{}, nil)
	if err != nil {
		t.Fatalf("default sink failed: %v", err)
	}
	if _, ok := sink.(*LogSink); !ok {
		t.Fatalf("expected log sink, got %T", sink)
	}
}

func TestCommandSinkExpandsPlaceholders(t *testing.T) {
	sink := &CommandSink{Command: "lp -d {queue} -o raw"}
	got := sink.expand(Endpoint{Name: "POS-80", QueueName: "CAJA1"})
	if got != "lp -d CAJA1 -o raw" {
		t.Fatalf("unexpected command: %s", got)
	}
}
