package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// idleConns 记录各连接池配置的最大空闲连接数，重置后按此恢复
var idleConns sync.Map

// defaultMaxIdleConns 与 database/sql 默认值一致
const defaultMaxIdleConns = 2

// UTCNow 落库时间统一为 UTC，SQLite 按文本比较带偏移的时间
func UTCNow() time.Time {
	return time.Now().UTC()
}

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// InitDB 初始化数据库连接
func InitDB(driver, dsn string, pool DBPoolConfig, debug bool) error {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}

	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
		NowFunc:        UTCNow,
	})
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	DB = db
	return nil
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
		idleConns.Store(sqlDB, pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// ResetConnections 丢弃空闲连接并重新探活，用于连接失效后的重试
func ResetConnections(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(0)
	sqlDB.SetMaxIdleConns(configuredIdleConns(sqlDB))
	return sqlDB.PingContext(ctx)
}

func configuredIdleConns(sqlDB *sql.DB) int {
	if value, ok := idleConns.Load(sqlDB); ok {
		return value.(int)
	}
	return defaultMaxIdleConns
}

// Models 返回需要迁移的全部模型
func Models() []interface{} {
	return []interface{}{
		&StaffUser{},
		&AuditLog{},
		&Person{},
		&Room{},
		&Coupon{},
		&VoucherScan{},
		&CouponSequence{},
		&ManualCouponSequence{},
		&CouponReprint{},
		&CouponReprintLog{},
		&SystemSettings{},
		&PrinterConfiguration{},
	}
}

// AutoMigrate 自动迁移所有数据库表
func AutoMigrate() error {
	return DB.AutoMigrate(Models()...)
}
