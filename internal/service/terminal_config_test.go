package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileTerminalConfigStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terminal", "terminal.yml")
	store := NewFileTerminalConfigStore(path, "POS-80", "USB001")

	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("load missing file failed: %v", err)
	}
	if cfg.Complete() || cfg.PrinterName != "POS-80" || cfg.PrinterPort != "USB001" {
		t.Fatalf("unexpected empty config: %+v", cfg)
	}

	if _, err := store.Save(TerminalConfig{TerminalID: "T01"}); !errors.Is(err, ErrInvalidTerminalConfig) {
		t.Fatalf("err = %v, want ErrInvalidTerminalConfig", err)
	}
	saved, err := store.Save(TerminalConfig{TerminalID: " T01 ", RoomID: 2, RoomIP: "10.32.53.18"})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !saved.Complete() || saved.TerminalID != "T01" {
		t.Fatalf("unexpected saved config: %+v", saved)
	}

	identity, err := store.Identity()
	if err != nil || identity == "" {
		t.Fatalf("identity failed: %q %v", identity, err)
	}

	reopened := NewFileTerminalConfigStore(path, "POS-80", "USB001")
	loaded, err := reopened.Load()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if loaded.RoomID != 2 || loaded.RoomIP != "10.32.53.18" {
		t.Fatalf("unexpected reloaded config: %+v", loaded)
	}
	again, err := reopened.Identity()
	if err != nil || again != identity {
		t.Fatalf("identity changed across reloads: %q != %q (%v)", again, identity, err)
	}
}

func TestFileTerminalConfigStoreRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "terminal.yml")
	if err := os.WriteFile(path, []byte("room_id: [\n"), 0o644); err != nil {
		t.Fatalf("write file failed: %v", err)
	}
	store := NewFileTerminalConfigStore(path, "", "")
	if _, err := store.Load(); !errors.Is(err, ErrInvalidTerminalConfig) {
		t.Fatalf("err = %v, want ErrInvalidTerminalConfig", err)
	}
}

func TestGenerateTerminalIdentifier(t *testing.T) {
	first := GenerateTerminalIdentifier()
	second := GenerateTerminalIdentifier()
	if first == second {
		t.Fatalf("identifiers should differ: %s", first)
	}
	suffix := first[strings.LastIndex(first, "-")+1:]
	if len(suffix) != 8 {
		t.Fatalf("unexpected identifier suffix %q in %s", suffix, first)
	}
}

func TestTerminalServiceResolve(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal, err := f.terminals.Resolve(context.Background(), TerminalConfig{RoomID: 2, RoomIP: "10.0.0.9"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if terminal.Room.Name != "SSP" || terminal.Config.RoomIP != "10.0.0.9" || terminal.TerminalName != "T01" {
		t.Fatalf("unexpected terminal context: %+v", terminal)
	}
	if terminal.Settings == nil || terminal.Settings.TerminalIdentifier != "caja-01-a1b2c3d4" {
		t.Fatalf("unexpected settings: %+v", terminal.Settings)
	}

	unconfigured := NewTerminalService(&StaticTerminalConfigStore{}, f.settings, f.rooms)
	if _, err := unconfigured.Resolve(context.Background(), TerminalConfig{TerminalID: "T02"}); !errors.Is(err, ErrTerminalNotConfigured) {
		t.Fatalf("err = %v, want ErrTerminalNotConfigured", err)
	}
	if _, err := f.terminals.SaveConfig(context.Background(), TerminalConfig{RoomID: 42}); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}
