// Package sqlitetest opens an isolated in-memory database with the full schema.
package sqlitetest

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infradb "coinlend-backend/internal/infrastructure/db"
	"coinlend-backend/pkg/id"
)

// Open returns a fresh shared-cache memory db. The pool is pinned to one
// connection so every goroutine sees the same database and transactions
// serialize the way row locks would on mysql.
func Open(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + id.NewID32() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := infradb.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
