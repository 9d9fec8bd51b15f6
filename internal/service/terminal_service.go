package service

import (
	"context"
	"strings"

	"github.com/ciudad-suerte/internal/models"
)

// TerminalContext 一次请求内解析出的终端上下文
type TerminalContext struct {
	Config       TerminalConfig
	Identifier   string
	Settings     *models.SystemSettings
	Room         models.Room
	TerminalName string
}

// TerminalService 终端配置与上下文解析
type TerminalService struct {
	store    TerminalConfigStore
	settings *SettingsService
	rooms    *RoomDirectory
}

// NewTerminalService 创建终端服务
func NewTerminalService(store TerminalConfigStore, settings *SettingsService, rooms *RoomDirectory) *TerminalService {
	return &TerminalService{store: store, settings: settings, rooms: rooms}
}

// Resolve 合并本地配置与请求覆盖，配置不完整时返回 ErrTerminalNotConfigured
func (s *TerminalService) Resolve(ctx context.Context, override TerminalConfig) (*TerminalContext, error) {
	stored, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	cfg := stored.Merge(override)
	if !cfg.Complete() {
		return nil, ErrTerminalNotConfigured
	}
	identifier, err := s.store.Identity()
	if err != nil {
		return nil, err
	}
	settings, err := s.settings.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}
	room, err := s.rooms.Get(ctx, cfg.RoomID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cfg.TerminalID)
	if name == "" {
		name = strings.TrimSpace(settings.TerminalName)
	}
	return &TerminalContext{
		Config:       cfg,
		Identifier:   identifier,
		Settings:     settings,
		Room:         room,
		TerminalName: name,
	}, nil
}

// Config 读取本地配置
func (s *TerminalService) Config() (TerminalConfig, error) {
	return s.store.Load()
}

// SaveConfig 保存本地配置，厅必须存在
func (s *TerminalService) SaveConfig(ctx context.Context, patch TerminalConfig) (TerminalConfig, error) {
	if patch.RoomID != 0 {
		if _, err := s.rooms.Get(ctx, patch.RoomID); err != nil {
			return TerminalConfig{}, err
		}
	}
	return s.store.Save(patch)
}

// Identity 终端标识
func (s *TerminalService) Identity() (string, error) {
	return s.store.Identity()
}
