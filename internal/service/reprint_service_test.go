package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
)

func issueOne(t *testing.T, f *raffleFixture, terminal *TerminalContext, person *models.Person) models.Coupon {
	t.Helper()
	coupons, err := f.issuance.IssueCouponsTx(IssueInput{
		Person:       person,
		Quantity:     1,
		Source:       constants.CouponSourceEntry,
		RoomID:       terminal.Room.ID,
		RoomName:     terminal.Room.Name,
		TerminalName: terminal.TerminalName,
		Printed:      true,
	})
	if err != nil {
		t.Fatalf("issue coupon failed: %v", err)
	}
	return coupons[0]
}

func TestRegisterReprintOnlyOnce(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")
	coupon := issueOne(t, f, terminal, person)
	actor := Actor{StaffID: 7, Username: "cajero1", Role: constants.RoleCashier}

	updated, result, err := f.reprints.RegisterReprint(coupon.ID, actor)
	if err != nil {
		t.Fatalf("register reprint failed: %v", err)
	}
	if !result.Valid || updated == nil || updated.ReprintCount != 1 {
		t.Fatalf("unexpected first reprint: %+v %+v", result, updated)
	}

	_, result, err = f.reprints.RegisterReprint(coupon.ID, actor)
	if err != nil {
		t.Fatalf("second reprint returned error: %v", err)
	}
	if result.Valid || !errors.Is(result.Err(), ErrCouponAlreadyReprinted) {
		t.Fatalf("second reprint should be rejected: %+v", result)
	}

	stored, err := f.couponRepo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if stored.ReprintCount != 1 {
		t.Fatalf("reprint_count = %d, want 1", stored.ReprintCount)
	}
	reprint, err := f.reprintRepo.GetByCouponID(coupon.ID)
	if err != nil || reprint == nil {
		t.Fatalf("reprint record missing: %v", err)
	}
	if reprint.RoomID != coupon.RoomID || reprint.UserID == nil || *reprint.UserID != 7 {
		t.Fatalf("unexpected reprint record: %+v", reprint)
	}
	logs, err := f.reprintRepo.CountLogs(coupon.ID)
	if err != nil {
		t.Fatalf("count logs failed: %v", err)
	}
	if logs != 1 {
		t.Fatalf("reprint logs = %d, want 1", logs)
	}
}

func TestRegisterReprintMissingCoupon(t *testing.T) {
	f := setupRaffleServiceTest(t)
	_, _, err := f.reprints.RegisterReprint(999, Actor{})
	if !errors.Is(err, ErrCouponNotFound) {
		t.Fatalf("err = %v, want ErrCouponNotFound", err)
	}
}

func TestRegisterReprintConcurrent(t *testing.T) {
	f := setupRaffleServiceTest(t)
	serializeConnections(t, f.db)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")
	coupon := issueOne(t, f, terminal, person)
	actor := Actor{StaffID: 3, Username: "jefesala", Role: constants.RoleFloorManager}

	const workers = 4
	var wg sync.WaitGroup
	results := make([]CheckResult, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i], errs[i] = f.reprints.RegisterReprint(coupon.ID, actor)
		}(i)
	}
	wg.Wait()

	registered := 0
	for i := range results {
		if errs[i] != nil {
			t.Fatalf("reprint %d returned error: %v", i, errs[i])
		}
		if results[i].Valid {
			registered++
			continue
		}
		if !errors.Is(results[i].Err(), ErrCouponAlreadyReprinted) {
			t.Fatalf("reprint %d rejected for the wrong reason: %+v", i, results[i])
		}
	}
	if registered != 1 {
		t.Fatalf("registered = %d, want 1", registered)
	}
	stored, err := f.couponRepo.GetByID(coupon.ID)
	if err != nil {
		t.Fatalf("get coupon failed: %v", err)
	}
	if stored.ReprintCount != 1 {
		t.Fatalf("reprint_count = %d, want 1", stored.ReprintCount)
	}
	logs, err := f.reprintRepo.CountLogs(coupon.ID)
	if err != nil || logs != 1 {
		t.Fatalf("reprint logs = %d (%v), want 1", logs, err)
	}
}
