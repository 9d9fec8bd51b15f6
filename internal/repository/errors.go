package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation 判断错误是否为唯一约束冲突（兼容 postgres 与 sqlite）
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed") ||
		strings.Contains(message, "duplicate key value violates unique constraint")
}

// IsUniqueViolationOn 判断唯一约束冲突是否发生在指定表/约束上
func IsUniqueViolationOn(err error, names ...string) bool {
	if !IsUniqueViolation(err) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		for _, name := range names {
			if strings.Contains(pgErr.ConstraintName, name) || strings.EqualFold(pgErr.TableName, name) {
				return true
			}
		}
		return false
	}
	message := err.Error()
	for _, name := range names {
		if strings.Contains(message, name) {
			return true
		}
	}
	return false
}

// wrapUnique 为唯一约束冲突附加表名，翻译后的 gorm.ErrDuplicatedKey 不携带表信息
func wrapUnique(table string, err error) error {
	if err == nil || !IsUniqueViolation(err) {
		return err
	}
	return fmt.Errorf("%s: %w", table, err)
}
