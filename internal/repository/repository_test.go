package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func setupRepositoryTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:raffle_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.Models()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm duplicated", gorm.ErrDuplicatedKey, true},
		{"postgres", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "23503"}, false},
		{"wrapped postgres", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: voucher_scans.code (2067)"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsUniqueViolationOn(t *testing.T) {
	sqliteErr := errors.New("UNIQUE constraint failed: voucher_scans.code")
	if !IsUniqueViolationOn(sqliteErr, "voucher_scans") {
		t.Fatalf("expected voucher_scans violation")
	}
	if IsUniqueViolationOn(sqliteErr, "coupons") {
		t.Fatalf("unexpected coupons violation")
	}
	pgErr := &pgconn.PgError{Code: "23505", TableName: "persons", ConstraintName: "idx_persons_id_number"}
	if !IsUniqueViolationOn(pgErr, "persons") {
		t.Fatalf("expected persons violation")
	}
}

func TestSequenceLockOrCreateStartsAtZero(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewSequenceRepository(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		seq, err := repo.WithTx(tx).LockOrCreate(1, "T01")
		if err != nil {
			return err
		}
		if seq.LastNumber != 0 {
			return fmt.Errorf("new sequence should start at 0, got %d", seq.LastNumber)
		}
		seq.LastNumber = 7
		return repo.WithTx(tx).SaveNumber(seq)
	})
	if err != nil {
		t.Fatalf("lock or create failed: %v", err)
	}

	again, err := repo.LockOrCreate(1, "T01")
	if err != nil {
		t.Fatalf("second lock failed: %v", err)
	}
	if again.LastNumber != 7 {
		t.Fatalf("expected persisted last number 7, got %d", again.LastNumber)
	}

	var count int64
	db.Model(&models.CouponSequence{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected one sequence row, got %d", count)
	}
}

func TestReprintNextLogNumber(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewReprintRepository(db)

	next, err := repo.NextLogNumber(42)
	if err != nil {
		t.Fatalf("next log number failed: %v", err)
	}
	if next != 1 {
		t.Fatalf("expected 1 for empty log, got %d", next)
	}
	if err := repo.CreateLog(&models.CouponReprintLog{CouponID: 42, ReprintNumber: 1, RoomID: 1}); err != nil {
		t.Fatalf("create log failed: %v", err)
	}
	next, err = repo.NextLogNumber(42)
	if err != nil {
		t.Fatalf("next log number failed: %v", err)
	}
	if next != 2 {
		t.Fatalf("expected 2, got %d", next)
	}
}

func TestRoomUsageCountsEveryReference(t *testing.T) {
	db := setupRepositoryTest(t)
	repo := NewRoomRepository(db)
	roomID := uint(3)

	person := models.Person{FirstName: "Ana", LastName: "Quispe", IDNumber: "40000001", BirthDate: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&person).Error; err != nil {
		t.Fatalf("create person failed: %v", err)
	}
	if err := db.Create(&models.Coupon{Code: "SCCT01-000001", PersonID: person.ID, Source: "entry", RoomID: roomID}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}
	if err := db.Create(&models.VoucherScan{Code: "V1", PersonID: person.ID, RoomID: roomID, Source: "entry", ScannedAt: time.Now()}).Error; err != nil {
		t.Fatalf("create scan failed: %v", err)
	}
	if err := db.Create(&models.ManualCouponSequence{RoomID: roomID, LastNumber: 2}).Error; err != nil {
		t.Fatalf("create manual sequence failed: %v", err)
	}
	if err := db.Create(&models.SystemSettings{TerminalIdentifier: "caja-1", CurrentRoomID: &roomID}).Error; err != nil {
		t.Fatalf("create settings failed: %v", err)
	}

	usage, err := repo.Usage(roomID)
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if usage.Coupons != 1 || usage.VoucherScans != 1 || usage.ManualSequences != 1 || usage.Settings != 1 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
	if usage.Total() != 4 {
		t.Fatalf("unexpected usage total: %d", usage.Total())
	}

	empty, err := repo.Usage(99)
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if empty.Total() != 0 {
		t.Fatalf("expected no usage for unknown room, got %+v", empty)
	}
}

func TestPurgeRaffleDataKeepsRooms(t *testing.T) {
	db := setupRepositoryTest(t)
	if err := db.Create(&models.Room{ID: 1, Name: "SCN", IPAddress: "10.32.51.18"}).Error; err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	person := models.Person{FirstName: "Luis", LastName: "Rojas", IDNumber: "40000002", BirthDate: time.Date(1985, 5, 5, 0, 0, 0, 0, time.UTC)}
	if err := db.Create(&person).Error; err != nil {
		t.Fatalf("create person failed: %v", err)
	}
	if err := db.Create(&models.Coupon{Code: "SCNT01-000001", PersonID: person.ID, Source: "register", RoomID: 1}).Error; err != nil {
		t.Fatalf("create coupon failed: %v", err)
	}

	var result PurgeResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = PurgeRaffleData(tx)
		return err
	})
	if err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if result["coupons"] != 1 || result["persons"] != 1 {
		t.Fatalf("unexpected purge result: %+v", result)
	}
	var rooms int64
	db.Model(&models.Room{}).Count(&rooms)
	if rooms != 1 {
		t.Fatalf("rooms should be kept, got %d", rooms)
	}
}

func TestWrapUniqueKeepsSentinelAndTable(t *testing.T) {
	err := wrapUnique("voucher_scans", gorm.ErrDuplicatedKey)
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("wrapped error must still match ErrDuplicatedKey")
	}
	if !IsUniqueViolationOn(err, "voucher_scans") || IsUniqueViolationOn(err, "coupons") {
		t.Fatalf("unexpected table detection for %v", err)
	}
	plain := errors.New("boom")
	if wrapUnique("coupons", plain) != plain {
		t.Fatalf("non-unique errors must pass through")
	}
}

func TestGormRepositoriesSatisfyInterfaces(t *testing.T) {
	db := setupRepositoryTest(t)
	var (
		_ SequenceRepository    = NewSequenceRepository(db)
		_ CouponRepository      = NewCouponRepository(db)
		_ VoucherScanRepository = NewVoucherScanRepository(db)
		_ PersonRepository      = NewPersonRepository(db)
		_ ReprintRepository     = NewReprintRepository(db)
		_ RoomRepository        = NewRoomRepository(db)
	)
	tx := db.Begin()
	defer tx.Rollback()
	if _, ok := NewCouponRepository(db).WithTx(tx).(*GormCouponRepository); !ok {
		t.Fatalf("WithTx should return the gorm implementation")
	}
}
