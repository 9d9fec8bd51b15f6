package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

// TerminalConfig 终端本地配置
type TerminalConfig struct {
	TerminalID  string `yaml:"terminal_id" json:"terminal_id"`
	RoomID      uint   `yaml:"room_id" json:"room_id"`
	RoomIP      string `yaml:"room_ip" json:"room_ip"`
	PrinterName string `yaml:"printer_name" json:"printer_name"`
	PrinterPort string `yaml:"printer_port" json:"printer_port"`
	Identifier  string `yaml:"identifier" json:"identifier"`
}

// Complete 终端号、厅与厅地址齐全才可进入业务流程
func (c TerminalConfig) Complete() bool {
	return strings.TrimSpace(c.TerminalID) != "" && c.RoomID != 0 && strings.TrimSpace(c.RoomIP) != ""
}

// Merge 用非空字段覆盖
func (c TerminalConfig) Merge(patch TerminalConfig) TerminalConfig {
	if v := strings.TrimSpace(patch.TerminalID); v != "" {
		c.TerminalID = v
	}
	if patch.RoomID != 0 {
		c.RoomID = patch.RoomID
	}
	if v := strings.TrimSpace(patch.RoomIP); v != "" {
		c.RoomIP = v
	}
	if v := strings.TrimSpace(patch.PrinterName); v != "" {
		c.PrinterName = v
	}
	if v := strings.TrimSpace(patch.PrinterPort); v != "" {
		c.PrinterPort = v
	}
	return c
}

// TerminalConfigStore 终端配置存取
type TerminalConfigStore interface {
	Load() (TerminalConfig, error)
	Save(patch TerminalConfig) (TerminalConfig, error)
	Identity() (string, error)
}

// FileTerminalConfigStore YAML 文件实现，进程内缓存
type FileTerminalConfigStore struct {
	path               string
	defaultPrinterName string
	defaultPrinterPort string

	mu     sync.Mutex
	cached *TerminalConfig
}

// NewFileTerminalConfigStore 创建文件配置存储
func NewFileTerminalConfigStore(path, defaultPrinterName, defaultPrinterPort string) *FileTerminalConfigStore {
	return &FileTerminalConfigStore{
		path:               path,
		defaultPrinterName: defaultPrinterName,
		defaultPrinterPort: defaultPrinterPort,
	}
}

// Load 读取配置；文件不存在返回空配置
func (s *FileTerminalConfigStore) Load() (TerminalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileTerminalConfigStore) loadLocked() (TerminalConfig, error) {
	if s.cached != nil {
		return *s.cached, nil
	}
	cfg := TerminalConfig{}
	raw, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return TerminalConfig{}, err
	}
	if err == nil {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return TerminalConfig{}, fmt.Errorf("%w: %v", ErrInvalidTerminalConfig, err)
		}
	}
	cfg = s.withDefaults(cfg)
	s.cached = &cfg
	return cfg, nil
}

// Save 合并写入，结果不完整时拒绝
func (s *FileTerminalConfigStore) Save(patch TerminalConfig) (TerminalConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.loadLocked()
	if err != nil && !errors.Is(err, ErrInvalidTerminalConfig) {
		return TerminalConfig{}, err
	}
	next := s.withDefaults(current.Merge(patch))
	if !next.Complete() {
		return TerminalConfig{}, ErrInvalidTerminalConfig
	}
	if err := s.writeLocked(next); err != nil {
		return TerminalConfig{}, err
	}
	return next, nil
}

// Identity 终端持久标识，首次调用时生成：主机名 slug + 8 位随机串
func (s *FileTerminalConfigStore) Identity() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, err := s.loadLocked()
	if err != nil {
		return "", err
	}
	if id := strings.TrimSpace(current.Identifier); id != "" {
		return id, nil
	}
	current.Identifier = GenerateTerminalIdentifier()
	if err := s.writeLocked(current); err != nil {
		return "", err
	}
	return current.Identifier, nil
}

func (s *FileTerminalConfigStore) writeLocked(cfg TerminalConfig) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		return err
	}
	s.cached = &cfg
	return nil
}

func (s *FileTerminalConfigStore) withDefaults(cfg TerminalConfig) TerminalConfig {
	cfg.TerminalID = strings.TrimSpace(cfg.TerminalID)
	cfg.RoomIP = strings.TrimSpace(cfg.RoomIP)
	if strings.TrimSpace(cfg.PrinterName) == "" {
		cfg.PrinterName = s.defaultPrinterName
	}
	if strings.TrimSpace(cfg.PrinterPort) == "" {
		cfg.PrinterPort = s.defaultPrinterPort
	}
	return cfg
}

// GenerateTerminalIdentifier 生成终端标识
func GenerateTerminalIdentifier() string {
	host, _ := os.Hostname()
	base := slug.Make(host)
	if base == "" {
		base = "terminal"
	}
	if len(base) > 100 {
		base = base[:100]
	}
	return base + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// StaticTerminalConfigStore 固定配置，测试或请求头覆盖时使用
type StaticTerminalConfigStore struct {
	Config TerminalConfig
}

// Load 返回固定配置
func (s *StaticTerminalConfigStore) Load() (TerminalConfig, error) {
	return s.Config, nil
}

// Save 合并到内存
func (s *StaticTerminalConfigStore) Save(patch TerminalConfig) (TerminalConfig, error) {
	next := s.Config.Merge(patch)
	if !next.Complete() {
		return TerminalConfig{}, ErrInvalidTerminalConfig
	}
	s.Config = next
	return next, nil
}

// Identity 返回固定标识
func (s *StaticTerminalConfigStore) Identity() (string, error) {
	if s.Config.Identifier == "" {
		s.Config.Identifier = GenerateTerminalIdentifier()
	}
	return s.Config.Identifier, nil
}
