package service

import (
	"context"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
)

func TestSummarizeToday(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	if _, err := f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("30555666")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	f.advance(3 * time.Second)
	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: "30555666", VoucherCode: "S001"}); err != nil {
		t.Fatalf("entry failed: %v", err)
	}

	summaries := NewSummaryService(f.couponRepo, f.rooms, RaffleRules{Location: f.now.Location()}, Clock(f.clock))
	summary, err := summaries.Summarize(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if summary.Total != 6 || len(summary.Rooms) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	room := summary.Rooms[0]
	if room.RoomName != "SCN" || room.BySource[constants.CouponSourceRegister] != 5 || room.BySource[constants.CouponSourceEntry] != 1 {
		t.Fatalf("unexpected room summary: %+v", room)
	}

	yesterday := f.now.AddDate(0, 0, -1)
	from := yesterday.Add(-1)
	empty, err := summaries.Summarize(context.Background(), &from, &yesterday)
	if err != nil || empty.Total != 0 {
		t.Fatalf("expected empty summary: %+v %v", empty, err)
	}
}

func TestPurgeKeepsRoomsAndSettings(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	if _, err := f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("30555666")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	purge := NewPurgeService(f.db, f.audit)
	result, err := purge.Purge(context.Background(), Actor{StaffID: 1, Username: "admin", Role: constants.RoleAdmin})
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if result["coupons"] != 5 || result["persons"] != 1 || result["coupon_sequences"] != 1 {
		t.Fatalf("unexpected purge result: %+v", result)
	}

	var rooms, settings, audits int64
	f.db.Model(&models.Room{}).Count(&rooms)
	f.db.Model(&models.SystemSettings{}).Count(&settings)
	f.db.Model(&models.AuditLog{}).Where("action = ?", constants.AuditActionPurge).Count(&audits)
	if rooms != 2 || settings != 1 || audits != 1 {
		t.Fatalf("rooms=%d settings=%d audits=%d", rooms, settings, audits)
	}

	// 清空后计数器从 1 重新开始
	again, err := f.registration.Register(context.Background(), terminal, Actor{}, registrationInput("30555666"))
	if err != nil {
		t.Fatalf("register after purge failed: %v", err)
	}
	if again.Coupons[0].Code != "SCNT01-000001" {
		t.Fatalf("sequence not reset: %s", again.Coupons[0].Code)
	}
}
