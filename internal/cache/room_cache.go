package cache

import (
	"context"
	"time"

	"github.com/ciudad-suerte/internal/models"
)

const (
	roomsCacheKey = "rooms:all"
	roomsCacheTTL = 5 * time.Minute
)

// RoomCache 厅列表 Redis 缓存
type RoomCache struct{}

// NewRoomCache 创建厅缓存
func NewRoomCache() *RoomCache {
	return &RoomCache{}
}

// GetRooms 读取缓存的厅列表
func (RoomCache) GetRooms(ctx context.Context) ([]models.Room, bool, error) {
	var rooms []models.Room
	hit, err := GetJSON(ctx, roomsCacheKey, &rooms)
	if err != nil || !hit {
		return nil, false, err
	}
	return rooms, len(rooms) > 0, nil
}

// SetRooms 写入厅列表
func (RoomCache) SetRooms(ctx context.Context, rooms []models.Room) error {
	if len(rooms) == 0 {
		return nil
	}
	return SetJSON(ctx, roomsCacheKey, rooms, roomsCacheTTL)
}

// DeleteRooms 使厅列表缓存失效
func (RoomCache) DeleteRooms(ctx context.Context) error {
	return Del(ctx, roomsCacheKey)
}
