package cache

import (
	"context"
	"testing"

	"github.com/ciudad-suerte/internal/models"
)

func TestBuildKeyUsesPrefix(t *testing.T) {
	UseClient(nil, "sala")
	t.Cleanup(func() { UseClient(nil, "") })

	if got := BuildKey("rooms:all"); got != "sala:rooms:all" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := BuildKey("  "); got != "sala" {
		t.Fatalf("unexpected empty key: %s", got)
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	UseClient(nil, "")
	ctx := context.Background()
	roomCache := NewRoomCache()

	if err := roomCache.SetRooms(ctx, []models.Room{{ID: 1, Name: "SCN"}}); err != nil {
		t.Fatalf("set rooms on disabled cache failed: %v", err)
	}
	rooms, hit, err := roomCache.GetRooms(ctx)
	if err != nil || hit || rooms != nil {
		t.Fatalf("disabled cache should miss, got rooms=%v hit=%v err=%v", rooms, hit, err)
	}
	state, hit, err := GetStaffAuthState(ctx, 1)
	if err != nil || hit || state != nil {
		t.Fatalf("disabled cache should miss staff state")
	}
}
