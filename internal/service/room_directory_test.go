package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestRoomDirectoryLoadsStoredRooms(t *testing.T) {
	f := setupRaffleServiceTest(t)
	set := f.rooms.Load(context.Background())
	if set.Fallback || len(set.Rooms) != 2 {
		t.Fatalf("unexpected room set: %+v", set)
	}
	room, err := f.rooms.Get(context.Background(), 2)
	if err != nil || room.Name != "SSP" {
		t.Fatalf("get room 2: %+v %v", room, err)
	}
	if _, err := f.rooms.Get(context.Background(), 99); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
	if got := f.rooms.DefaultRoomID(context.Background()); got != 1 {
		t.Fatalf("default room = %d, want 1", got)
	}
}

type contextRecordingCache struct {
	setErrs []error
}

func (c *contextRecordingCache) GetRooms(context.Context) ([]models.Room, bool, error) {
	return nil, false, nil
}

func (c *contextRecordingCache) SetRooms(ctx context.Context, _ []models.Room) error {
	c.setErrs = append(c.setErrs, ctx.Err())
	return ctx.Err()
}

func (c *contextRecordingCache) DeleteRooms(context.Context) error {
	return nil
}

func TestRoomDirectoryCacheWriteSurvivesCallerCancel(t *testing.T) {
	f := setupRaffleServiceTest(t)
	recorder := &contextRecordingCache{}
	rooms := &RoomDirectory{repo: repository.NewRoomRepository(f.db), cache: recorder}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	set := rooms.Load(ctx)
	if set.Fallback || len(set.Rooms) != 2 {
		t.Fatalf("unexpected room set: %+v", set)
	}
	if len(recorder.setErrs) != 1 || recorder.setErrs[0] != nil {
		t.Fatalf("cache write should not inherit the caller cancellation: %v", recorder.setErrs)
	}
}

func TestRoomDirectoryFallsBackWhenEmpty(t *testing.T) {
	db := openServiceTestDB(t, "room_directory_empty")
	rooms := NewRoomDirectory(repository.NewRoomRepository(db), nil, nil)
	set := rooms.Load(context.Background())
	if !set.Fallback || len(set.Rooms) != len(DefaultRooms()) {
		t.Fatalf("expected built-in rooms, got %+v", set)
	}
	if room, ok := set.Find(8); !ok || room.Name != "ERAY" {
		t.Fatalf("unexpected fallback room 8: %+v", room)
	}
}

func TestRoomDirectoryFallsBackOnStoreError(t *testing.T) {
	dsn := fmt.Sprintf("file:room_directory_broken_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	// 未迁移，rooms 表不存在
	rooms := NewRoomDirectory(repository.NewRoomRepository(db), nil, nil)
	set := rooms.Load(context.Background())
	if !set.Fallback || len(set.Rooms) != 8 {
		t.Fatalf("expected built-in rooms, got %+v", set)
	}
}

func TestRoomDirectoryCrud(t *testing.T) {
	f := setupRaffleServiceTest(t)
	actor := Actor{StaffID: 1, Username: "admin", Role: constants.RoleAdmin}
	ctx := context.Background()

	created, err := f.rooms.Create(ctx, actor, RoomInput{Name: " SGU ", IPAddress: "10.32.54.18"})
	if err != nil {
		t.Fatalf("create room failed: %v", err)
	}
	if created.Name != "SGU" {
		t.Fatalf("name = %q, want SGU", created.Name)
	}
	if _, err := f.rooms.Create(ctx, actor, RoomInput{Name: "SGU"}); !errors.Is(err, ErrRoomNameExists) {
		t.Fatalf("err = %v, want ErrRoomNameExists", err)
	}

	updated, err := f.rooms.Update(ctx, actor, created.ID, RoomInput{Name: "SGU2", IPAddress: "10.32.54.19"})
	if err != nil {
		t.Fatalf("update room failed: %v", err)
	}
	if updated.Name != "SGU2" || updated.IPAddress != "10.32.54.19" {
		t.Fatalf("unexpected updated room: %+v", updated)
	}

	if err := f.rooms.Delete(ctx, actor, created.ID); err != nil {
		t.Fatalf("delete room failed: %v", err)
	}
	if _, err := f.rooms.Get(ctx, created.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("deleted room still visible: %v", err)
	}

	var audits int64
	if err := f.db.Model(&models.AuditLog{}).Where("target_type = ?", "room").Count(&audits).Error; err != nil {
		t.Fatalf("count audit logs failed: %v", err)
	}
	if audits != 3 {
		t.Fatalf("room audit logs = %d, want 3", audits)
	}
}

func TestRoomDirectoryDeleteGuard(t *testing.T) {
	f := setupRaffleServiceTest(t)
	terminal := f.terminal(t)
	person := f.createPerson(t, "30111222")
	issueOne(t, f, terminal, person)

	err := f.rooms.Delete(context.Background(), Actor{StaffID: 1}, terminal.Room.ID)
	if !errors.Is(err, ErrRoomInUse) {
		t.Fatalf("err = %v, want ErrRoomInUse", err)
	}
	usage, err := f.rooms.Usage(terminal.Room.ID)
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if usage.Coupons != 1 || usage.Sequences != 1 {
		t.Fatalf("unexpected usage: %+v", usage)
	}
	if err := f.rooms.Delete(context.Background(), Actor{StaffID: 1}, 99); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

func TestRoomDirectorySyncDefaults(t *testing.T) {
	f := setupRaffleServiceTest(t)
	count, err := f.rooms.SyncDefaults(context.Background())
	if err != nil {
		t.Fatalf("sync defaults failed: %v", err)
	}
	if count != 8 {
		t.Fatalf("synced = %d, want 8", count)
	}
	set := f.rooms.Load(context.Background())
	if set.Fallback || len(set.Rooms) != 8 {
		t.Fatalf("unexpected rooms after sync: %+v", set)
	}
	choices := f.rooms.Choices(context.Background())
	if choices[1].Name != "SSP" || choices[7].Name != "ERAY" {
		t.Fatalf("unexpected choices: %+v", choices)
	}
}
