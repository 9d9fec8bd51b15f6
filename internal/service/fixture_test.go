package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/config"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type raffleFixture struct {
	db  *gorm.DB
	now time.Time

	rules RaffleRules

	personRepo  repository.PersonRepository
	couponRepo  repository.CouponRepository
	scanRepo    repository.VoucherScanRepository
	reprintRepo repository.ReprintRepository

	audit        *AuditService
	rooms        *RoomDirectory
	settings     *SettingsService
	sequences    *SequenceService
	issuance     *IssuanceService
	entryRules   *EntryRulesService
	entry        *EntryService
	registration *RegistrationService
	reprints     *ReprintService
	terminals    *TerminalService
}

func openServiceTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.Models()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

// setupRaffleServiceTest 厅 1 为 SCN，终端 T01，远程校验关闭，时钟固定在 UTC 零点
func setupRaffleServiceTest(t *testing.T) *raffleFixture {
	t.Helper()
	return setupRaffleServiceTestIn(t, time.UTC)
}

// setupRaffleServiceTestIn 业务时区为 location
func setupRaffleServiceTestIn(t *testing.T, location *time.Location) *raffleFixture {
	t.Helper()
	db := openServiceTestDB(t, "raffle_service_test")
	if err := db.Create(&[]models.Room{
		{ID: 1, Name: "SCN", IPAddress: "10.32.51.18"},
		{ID: 2, Name: "SSP", IPAddress: "10.32.53.18"},
	}).Error; err != nil {
		t.Fatalf("create rooms failed: %v", err)
	}

	f := &raffleFixture{
		db:          db,
		now:         time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		personRepo:  repository.NewPersonRepository(db),
		couponRepo:  repository.NewCouponRepository(db),
		scanRepo:    repository.NewVoucherScanRepository(db),
		reprintRepo: repository.NewReprintRepository(db),
	}
	clock := Clock(f.clock)
	rules := DefaultRaffleRules()
	rules.Location = location
	f.rules = rules

	f.audit = NewAuditService(repository.NewAuditLogRepository(db))
	f.rooms = NewRoomDirectory(repository.NewRoomRepository(db), nil, f.audit)
	f.settings = NewSettingsService(repository.NewSystemSettingsRepository(db), f.rooms, f.audit)
	f.sequences = NewSequenceService(repository.NewSequenceRepository(db))
	f.issuance = NewIssuanceService(f.couponRepo, f.sequences, rules, clock)
	f.entryRules = NewEntryRulesService(f.personRepo, f.scanRepo, f.couponRepo, f.issuance, rules, clock)
	validator := NewVoucherValidator(config.VoucherValidationConfig{Enabled: false}, f.rooms, nil)
	f.entry = NewEntryService(f.personRepo, f.scanRepo, f.issuance, f.entryRules, validator, clock)
	f.registration = NewRegistrationService(f.personRepo, f.issuance, rules, clock)
	f.reprints = NewReprintService(f.couponRepo, f.reprintRepo, clock)
	f.terminals = NewTerminalService(&StaticTerminalConfigStore{Config: TerminalConfig{
		TerminalID: "T01",
		RoomID:     1,
		RoomIP:     "10.32.51.18",
		Identifier: "caja-01-a1b2c3d4",
	}}, f.settings, f.rooms)
	return f
}

func (f *raffleFixture) clock() time.Time {
	return f.now
}

func (f *raffleFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *raffleFixture) terminal(t *testing.T) *TerminalContext {
	t.Helper()
	terminal, err := f.terminals.Resolve(context.Background(), TerminalConfig{})
	if err != nil {
		t.Fatalf("resolve terminal failed: %v", err)
	}
	return terminal
}

func (f *raffleFixture) createPerson(t *testing.T, idNumber string) *models.Person {
	t.Helper()
	person := &models.Person{
		FirstName: "Ana",
		LastName:  "Gómez",
		IDNumber:  idNumber,
		BirthDate: time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
	}
	if err := f.personRepo.Create(person); err != nil {
		t.Fatalf("create person failed: %v", err)
	}
	return person
}

func (f *raffleFixture) countCoupons(t *testing.T, personID uint, source string) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.Coupon{}).Where("person_id = ? AND source = ?", personID, source).Count(&count).Error; err != nil {
		t.Fatalf("count coupons failed: %v", err)
	}
	return count
}

// serializeConnections 限制为单连接，使 SQLite 上的并发事务排队执行
func serializeConnections(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
}
