package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindLegacyEnv(v)
	return v
}

func TestDefaultsMatchRaffleRules(t *testing.T) {
	var cfg Config
	if err := newTestViper().Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.Raffle.DailyEntryLimit != 10 {
		t.Fatalf("unexpected daily limit: %d", cfg.Raffle.DailyEntryLimit)
	}
	if cfg.Raffle.CooldownMinutes != 120 {
		t.Fatalf("unexpected cooldown: %d", cfg.Raffle.CooldownMinutes)
	}
	if cfg.Raffle.RegisterCoupons != 5 {
		t.Fatalf("unexpected register coupons: %d", cfg.Raffle.RegisterCoupons)
	}
	if !cfg.VoucherValidation.Enabled || cfg.VoucherValidation.Action != "getTicket" {
		t.Fatalf("unexpected voucher validation defaults: %+v", cfg.VoucherValidation)
	}
	if cfg.VoucherValidation.Timeout() != 5*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.VoucherValidation.Timeout())
	}
	if cfg.Terminal.DefaultPrinterName != "POS-80" || cfg.Terminal.DefaultPrinterPort != "USB002" {
		t.Fatalf("unexpected terminal defaults: %+v", cfg.Terminal)
	}
}

func TestLegacyVoucherEnvNames(t *testing.T) {
	t.Setenv("VOUCHER_VALIDATION_ENABLED", "0")
	t.Setenv("VOUCHER_VALIDATION_TIMEOUT", "9")
	t.Setenv("VOUCHER_VALIDATION_ACTION", "checkTicket")

	var cfg Config
	if err := newTestViper().Unmarshal(&cfg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if cfg.VoucherValidation.Enabled {
		t.Fatalf("expected validation disabled by legacy env")
	}
	if cfg.VoucherValidation.Timeout() != 9*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.VoucherValidation.Timeout())
	}
	if cfg.VoucherValidation.Action != "checkTicket" {
		t.Fatalf("unexpected action: %s", cfg.VoucherValidation.Action)
	}
}

func TestRaffleLocationFallback(t *testing.T) {
	if loc := (RaffleConfig{}).Location(); loc != time.Local {
		t.Fatalf("expected local timezone, got %s", loc)
	}
	if loc := (RaffleConfig{Timezone: "Not/AZone"}).Location(); loc != time.Local {
		t.Fatalf("expected fallback to local timezone, got %s", loc)
	}
	if loc := (RaffleConfig{Timezone: "America/Lima"}).Location(); loc.String() != "America/Lima" {
		t.Fatalf("unexpected timezone: %s", loc)
	}
}
