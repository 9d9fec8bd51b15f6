package models

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openPoolTestDB(t *testing.T) (*gorm.DB, *sql.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:pool_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db, sqlDB
}

func TestResetConnectionsKeepsConfiguredIdleLimit(t *testing.T) {
	db, sqlDB := openPoolTestDB(t)
	applyDBPool(sqlDB, DBPoolConfig{MaxOpenConns: 5, MaxIdleConns: 1})
	ctx := context.Background()

	if err := ResetConnections(ctx, db); err != nil {
		t.Fatalf("reset connections failed: %v", err)
	}

	conns := make([]*sql.Conn, 0, 3)
	for i := 0; i < 3; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Fatalf("open conn failed: %v", err)
		}
		conns = append(conns, conn)
	}
	for _, conn := range conns {
		_ = conn.Close()
	}
	if idle := sqlDB.Stats().Idle; idle != 1 {
		t.Fatalf("idle connections = %d, want 1", idle)
	}
}

func TestConfiguredIdleConnsDefault(t *testing.T) {
	_, sqlDB := openPoolTestDB(t)
	if got := configuredIdleConns(sqlDB); got != defaultMaxIdleConns {
		t.Fatalf("idle default = %d, want %d", got, defaultMaxIdleConns)
	}
}

func TestUTCNow(t *testing.T) {
	if loc := UTCNow().Location(); loc != time.UTC {
		t.Fatalf("location = %v, want UTC", loc)
	}
}
