package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/ciudad-suerte/internal/cache"
	"github.com/ciudad-suerte/internal/constants"
	"github.com/ciudad-suerte/internal/logger"
	"github.com/ciudad-suerte/internal/metrics"
	"github.com/ciudad-suerte/internal/models"
	"github.com/ciudad-suerte/internal/repository"

	"github.com/jinzhu/copier"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultRooms 存储不可用或未初始化时的内置厅表
var defaultRooms = []models.Room{
	{ID: 1, Name: "SCN", IPAddress: "10.32.51.18"},
	{ID: 2, Name: "SSP", IPAddress: "10.32.53.18"},
	{ID: 3, Name: "SCC", IPAddress: "10.32.51.18"},
	{ID: 4, Name: "R11", IPAddress: "10.32.52.18"},
	{ID: 5, Name: "SGU", IPAddress: "10.32.54.18"},
	{ID: 6, Name: "SFO", IPAddress: "10.32.57.18"},
	{ID: 7, Name: "SBQ", IPAddress: "10.32.56.18"},
	{ID: 8, Name: "ERAY", IPAddress: "10.32.58.18"},
}

// DefaultRooms 返回内置厅表副本
func DefaultRooms() []models.Room {
	rooms := make([]models.Room, len(defaultRooms))
	copy(rooms, defaultRooms)
	return rooms
}

// RoomSet 厅列表及其来源
type RoomSet struct {
	Rooms    []models.Room `json:"rooms"`
	Fallback bool          `json:"fallback"`
}

// Find 按ID查找
func (s RoomSet) Find(id uint) (models.Room, bool) {
	for _, room := range s.Rooms {
		if room.ID == id {
			return room, true
		}
	}
	return models.Room{}, false
}

// RoomChoice 下拉选项
type RoomChoice struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// RoomInput 厅写入参数
type RoomInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	IPAddress string `json:"ip_address" binding:"omitempty,ip"`
}

// roomListCache 厅列表缓存
type roomListCache interface {
	GetRooms(ctx context.Context) ([]models.Room, bool, error)
	SetRooms(ctx context.Context, rooms []models.Room) error
	DeleteRooms(ctx context.Context) error
}

// RoomDirectory 厅目录：存储优先，失败或为空时回退内置表
type RoomDirectory struct {
	repo  repository.RoomRepository
	cache roomListCache
	audit *AuditService
	group singleflight.Group
}

// NewRoomDirectory 创建厅目录
func NewRoomDirectory(repo repository.RoomRepository, roomCache *cache.RoomCache, audit *AuditService) *RoomDirectory {
	d := &RoomDirectory{repo: repo, audit: audit}
	if roomCache != nil {
		d.cache = roomCache
	}
	return d
}

// Load 解析厅列表
// 存储出错时重置连接重试一次，仍失败或无数据时返回内置表
func (d *RoomDirectory) Load(ctx context.Context) RoomSet {
	if d.cache != nil {
		if rooms, hit, err := d.cache.GetRooms(ctx); err == nil && hit {
			return RoomSet{Rooms: rooms}
		}
	}
	// 同一轮加载由多个请求共享，不随首个请求取消
	flightCtx := context.WithoutCancel(ctx)
	value, _, _ := d.group.Do("rooms", func() (interface{}, error) {
		return d.loadFromStore(flightCtx), nil
	})
	return value.(RoomSet)
}

func (d *RoomDirectory) loadFromStore(ctx context.Context) RoomSet {
	rooms, err := d.repo.List()
	if err != nil {
		logger.Warnw("room_directory_query_failed_retrying", "error", err)
		if resetErr := models.ResetConnections(ctx, d.repo.DB()); resetErr != nil {
			logger.Warnw("room_directory_reset_failed", "error", resetErr)
		}
		rooms, err = d.repo.List()
	}
	if err != nil {
		logger.Errorw("room_directory_fallback", "reason", "store_error", "error", err)
		metrics.RoomDirectoryFallbacks.WithLabelValues("store_error").Inc()
		return RoomSet{Rooms: DefaultRooms(), Fallback: true}
	}
	if len(rooms) == 0 {
		metrics.RoomDirectoryFallbacks.WithLabelValues("empty").Inc()
		return RoomSet{Rooms: DefaultRooms(), Fallback: true}
	}
	if d.cache != nil {
		if err := d.cache.SetRooms(ctx, rooms); err != nil {
			logger.Warnw("room_directory_cache_set_failed", "error", err)
		}
	}
	return RoomSet{Rooms: rooms}
}

// All 全部厅
func (d *RoomDirectory) All(ctx context.Context) []models.Room {
	return d.Load(ctx).Rooms
}

// Get 按ID获取厅
func (d *RoomDirectory) Get(ctx context.Context, id uint) (models.Room, error) {
	room, ok := d.Load(ctx).Find(id)
	if !ok {
		return models.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// Choices 厅下拉选项
func (d *RoomDirectory) Choices(ctx context.Context) []RoomChoice {
	rooms := d.All(ctx)
	choices := make([]RoomChoice, 0, len(rooms))
	for _, room := range rooms {
		choices = append(choices, RoomChoice{ID: room.ID, Name: room.Name})
	}
	return choices
}

// DefaultRoomID 第一个厅
func (d *RoomDirectory) DefaultRoomID(ctx context.Context) uint {
	rooms := d.All(ctx)
	if len(rooms) == 0 {
		return defaultRooms[0].ID
	}
	return rooms[0].ID
}

// Warm 预热缓存
func (d *RoomDirectory) Warm(ctx context.Context) RoomSet {
	d.invalidate(ctx)
	return d.Load(ctx)
}

// Create 新增厅
func (d *RoomDirectory) Create(ctx context.Context, actor Actor, input RoomInput) (*models.Room, error) {
	room := &models.Room{}
	if err := copier.Copy(room, &input); err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(room.Name)
	room.IPAddress = strings.TrimSpace(room.IPAddress)
	if room.Name == "" {
		return nil, ErrInvalidInput
	}
	if err := d.repo.Create(room); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRoomNameExists
		}
		return nil, err
	}
	d.invalidate(ctx)
	d.record(actor, constants.AuditActionRoomCreate, room, nil)
	return room, nil
}

// Update 修改厅名称或地址
func (d *RoomDirectory) Update(ctx context.Context, actor Actor, id uint, input RoomInput) (*models.Room, error) {
	room, err := d.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	before := *room
	if err := copier.Copy(room, &input); err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(room.Name)
	room.IPAddress = strings.TrimSpace(room.IPAddress)
	if room.Name == "" {
		return nil, ErrInvalidInput
	}
	if err := d.repo.Update(room); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrRoomNameExists
		}
		return nil, err
	}
	d.invalidate(ctx)
	d.record(actor, constants.AuditActionRoomUpdate, room, models.JSON{
		"before_name": before.Name,
		"before_ip":   before.IPAddress,
	})
	return room, nil
}

// Delete 删除未被任何业务数据引用的厅
func (d *RoomDirectory) Delete(ctx context.Context, actor Actor, id uint) error {
	var deleted *models.Room
	err := d.repo.DB().Transaction(func(tx *gorm.DB) error {
		repo := d.repo.WithTx(tx)
		room, err := repo.GetByID(id)
		if err != nil {
			return err
		}
		if room == nil {
			return ErrRoomNotFound
		}
		usage, err := repo.Usage(id)
		if err != nil {
			return err
		}
		if usage.Total() > 0 {
			return ErrRoomInUse
		}
		deleted = room
		return repo.Delete(id)
	})
	if err != nil {
		return err
	}
	d.invalidate(ctx)
	d.record(actor, constants.AuditActionRoomDelete, deleted, nil)
	return nil
}

// SyncDefaults 将内置厅表写入存储，已存在的按ID覆盖名称与地址
func (d *RoomDirectory) SyncDefaults(ctx context.Context) (int, error) {
	rooms := DefaultRooms()
	err := d.repo.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "ip_address"}),
	}).Create(&rooms).Error
	if err != nil {
		return 0, err
	}
	if d.repo.DB().Dialector.Name() == "postgres" {
		// 显式写入主键后同步自增序列
		if err := d.repo.DB().WithContext(ctx).
			Exec("SELECT setval(pg_get_serial_sequence('rooms', 'id'), (SELECT MAX(id) FROM rooms))").Error; err != nil {
			return 0, err
		}
	}
	d.invalidate(ctx)
	return len(rooms), nil
}

// Usage 厅引用情况
func (d *RoomDirectory) Usage(id uint) (repository.RoomUsage, error) {
	return d.repo.Usage(id)
}

func (d *RoomDirectory) invalidate(ctx context.Context) {
	if d.cache == nil {
		return
	}
	if err := d.cache.DeleteRooms(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warnw("room_directory_cache_invalidate_failed", "error", err)
	}
}

func (d *RoomDirectory) record(actor Actor, action string, room *models.Room, detail models.JSON) {
	if room == nil {
		return
	}
	if detail == nil {
		detail = models.JSON{}
	}
	detail["name"] = room.Name
	detail["ip_address"] = room.IPAddress
	if err := d.audit.Record(AuditRecordInput{
		Actor:      actor,
		Action:     action,
		TargetType: "room",
		TargetID:   strconv.FormatUint(uint64(room.ID), 10),
		Detail:     detail,
	}); err != nil {
		logger.Warnw("room_audit_record_failed", "action", action, "error", err)
	}
}
