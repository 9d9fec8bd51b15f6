package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"

	"gorm.io/gorm"
)

const entryStep = 2*time.Hour + time.Minute

func TestEntrySubmitIssuesCoupon(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")

	result, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: "30.111.222", VoucherCode: " v-0001 "})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.Scan == nil || result.Scan.Code != "V-0001" {
		t.Fatalf("unexpected scan: %+v", result.Scan)
	}
	if !result.Scan.ScannedAt.Equal(f.now) {
		t.Fatalf("scanned_at = %v, want %v", result.Scan.ScannedAt, f.now)
	}
	if len(result.Coupons) != 1 || result.Coupons[0].Code != "SCNT01-000001" {
		t.Fatalf("unexpected coupons: %+v", result.Coupons)
	}
	coupon := result.Coupons[0]
	if coupon.Source != constants.CouponSourceEntry || coupon.Printed || coupon.PersonID != person.ID {
		t.Fatalf("unexpected coupon fields: %+v", coupon)
	}
	if !result.Remote.Valid {
		t.Fatalf("remote validation should pass when disabled")
	}
}

func TestEntryDailyLimit(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")

	for i := 1; i <= 10; i++ {
		if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{
			IDNumber:    person.IDNumber,
			VoucherCode: fmt.Sprintf("V%03d", i),
		}); err != nil {
			t.Fatalf("entry %d failed: %v", i, err)
		}
		f.advance(entryStep)
	}

	_, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "V011"})
	if !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("err = %v, want ErrDailyLimitReached", err)
	}
	var ruleErr *RuleError
	if !errors.As(err, &ruleErr) || ruleErr.Key != ruleDailyLimitKey || len(ruleErr.Args) != 1 || ruleErr.Args[0] != 10 {
		t.Fatalf("unexpected rule error: %#v", err)
	}
	if got := f.countCoupons(t, person.ID, constants.CouponSourceEntry); got != 10 {
		t.Fatalf("entry coupons = %d, want 10", got)
	}
	used, err := f.scanRepo.ExistsByCode("V011")
	if err != nil || used {
		t.Fatalf("rejected voucher must not be stored: used=%v err=%v", used, err)
	}

	// 次日额度重置
	f.now = time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "V012"}); err != nil {
		t.Fatalf("next day entry failed: %v", err)
	}
}

func TestEntryMultiplierCountsTowardLimit(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	terminal.Settings.OperationalHours = models.OperationalSlots{{Start: "00:00", End: "23:59", Multiplier: 3}}
	person := f.createPerson(t, "30111222")

	for i := 1; i <= 3; i++ {
		result, err := f.entry.Submit(context.Background(), terminal, EntryInput{
			IDNumber:    person.IDNumber,
			VoucherCode: fmt.Sprintf("M%03d", i),
		})
		if err != nil {
			t.Fatalf("entry %d failed: %v", i, err)
		}
		if len(result.Coupons) != 3 {
			t.Fatalf("entry %d coupons = %d, want 3", i, len(result.Coupons))
		}
		f.advance(entryStep)
	}

	_, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "M004"})
	if !errors.Is(err, ErrDailyLimitReached) {
		t.Fatalf("err = %v, want ErrDailyLimitReached", err)
	}
	if got := f.countCoupons(t, person.ID, constants.CouponSourceEntry); got != 9 {
		t.Fatalf("entry coupons = %d, want 9", got)
	}
}

func TestEntryCooldown(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")

	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "C001"}); err != nil {
		t.Fatalf("first entry failed: %v", err)
	}

	f.advance(time.Hour)
	_, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "C002"})
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("err = %v, want ErrCooldownActive", err)
	}

	f.advance(time.Hour)
	_, err = f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "C002"})
	if !errors.Is(err, ErrCooldownActive) {
		t.Fatalf("cooldown boundary should still reject, got %v", err)
	}

	f.advance(time.Second)
	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "C002"}); err != nil {
		t.Fatalf("entry after cooldown failed: %v", err)
	}
}

func TestEntryVoucherSingleUse(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	first := f.createPerson(t, "30111222")
	second := f.createPerson(t, "27999888")

	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: first.IDNumber, VoucherCode: "DUP-1"}); err != nil {
		t.Fatalf("first entry failed: %v", err)
	}
	_, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: second.IDNumber, VoucherCode: " dup-1"})
	if !errors.Is(err, ErrVoucherAlreadyUsed) {
		t.Fatalf("err = %v, want ErrVoucherAlreadyUsed", err)
	}
	if got := f.countCoupons(t, second.ID, constants.CouponSourceEntry); got != 0 {
		t.Fatalf("second person coupons = %d, want 0", got)
	}
}

func TestEntryRejectsUnknownPersonAndEmptyCode(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)

	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: "30111222", VoucherCode: "   "}); !errors.Is(err, ErrVoucherCodeRequired) {
		t.Fatalf("err = %v, want ErrVoucherCodeRequired", err)
	}
	if _, err := f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: "00000000", VoucherCode: "X1"}); !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("err = %v, want ErrPersonNotFound", err)
	}
	if _, err := f.entry.Submit(context.Background(), nil, EntryInput{IDNumber: "30111222", VoucherCode: "X1"}); !errors.Is(err, ErrTerminalNotConfigured) {
		t.Fatalf("err = %v, want ErrTerminalNotConfigured", err)
	}
}

func TestEntryRulesIgnoreRegisterCoupons(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")
	if _, err := f.issuance.IssueCouponsTx(IssueInput{
		Person:       person,
		Quantity:     10,
		Source:       constants.CouponSourceRegister,
		RoomID:       terminal.Room.ID,
		RoomName:     terminal.Room.Name,
		TerminalName: terminal.TerminalName,
	}); err != nil {
		t.Fatalf("issue register coupons failed: %v", err)
	}

	result, err := f.entryRules.Validate(nil, person, terminal.Settings, false)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.Valid {
		t.Fatalf("register coupons must not count toward the daily entry limit: %+v", result)
	}
}

func TestEntryConcurrentDuplicateVoucher(t *testing.T) {
	f := setupRaffleServiceTest(t)
	serializeConnections(t, f.db)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.entry.Submit(context.Background(), terminal, EntryInput{IDNumber: person.IDNumber, VoucherCode: "V-DUP"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrVoucherAlreadyUsed), errors.Is(err, ErrCooldownActive):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", succeeded)
	}
	var scans int64
	if err := f.db.Model(&models.VoucherScan{}).Where("code = ?", "V-DUP").Count(&scans).Error; err != nil {
		t.Fatalf("count scans failed: %v", err)
	}
	if scans != 1 {
		t.Fatalf("voucher scans = %d, want 1", scans)
	}
	if got := f.countCoupons(t, person.ID, constants.CouponSourceEntry); got != 1 {
		t.Fatalf("entry coupons = %d, want 1", got)
	}
}

func TestEntryConcurrentScansSamePerson(t *testing.T) {
	f := setupRaffleServiceTest(t)
	serializeConnections(t, f.db)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.entry.Submit(context.Background(), terminal, EntryInput{
				IDNumber:    person.IDNumber,
				VoucherCode: fmt.Sprintf("V-PAR-%d", i),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrCooldownActive):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("succeeded = %d, want 1", succeeded)
	}
	var scans int64
	if err := f.db.Model(&models.VoucherScan{}).Where("person_id = ?", person.ID).Count(&scans).Error; err != nil {
		t.Fatalf("count scans failed: %v", err)
	}
	if scans != 1 {
		t.Fatalf("voucher scans = %d, want 1", scans)
	}
}

func TestDailyLimitUsesBusinessDayInOtherZone(t *testing.T) {
	business, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		t.Fatalf("load location failed: %v", err)
	}
	host := time.FixedZone("UTC+2", 2*60*60)
	f := setupRaffleServiceTestIn(t, business)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")

	// 前一业务日 23:30，与当日券同属一个 UTC 日
	f.now = time.Date(2026, 3, 1, 23, 30, 0, 0, business).In(host)
	issueOne(t, f, terminal, person)
	f.now = time.Date(2026, 3, 2, 0, 30, 0, 0, business).In(host)
	for i := 0; i < 4; i++ {
		issueOne(t, f, terminal, person)
	}
	// 当日 22:00，UTC 已是次日
	f.now = time.Date(2026, 3, 2, 22, 0, 0, 0, business).In(host)
	for i := 0; i < 5; i++ {
		issueOne(t, f, terminal, person)
	}

	start, end := f.rules.DayBounds(f.now)
	counted, err := f.couponRepo.CountBySourceBetween(person.ID, constants.CouponSourceEntry, start, end, false)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if counted != 9 {
		t.Fatalf("entry coupons today = %d, want 9", counted)
	}
	result, err := f.entryRules.Validate(nil, person, terminal.Settings, false)
	if err != nil || !result.Valid {
		t.Fatalf("tenth coupon should be allowed: %+v %v", result, err)
	}

	issueOne(t, f, terminal, person)
	result, err = f.entryRules.Validate(nil, person, terminal.Settings, false)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.Valid || !errors.Is(result.Err(), ErrDailyLimitReached) {
		t.Fatalf("eleventh coupon should be rejected: %+v", result)
	}
	err = f.db.Transaction(func(tx *gorm.DB) error {
		locked, err := f.entryRules.Validate(tx, person, terminal.Settings, true)
		if err != nil {
			return err
		}
		if locked.Valid {
			t.Errorf("locked validation should reject as well")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("locked validate failed: %v", err)
	}
}
