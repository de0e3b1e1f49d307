package tester

import (
	"path/filepath"
	"testing"

	"github.com/emrgen/pagepurge/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Setup opens a fresh sqlite database for the test and migrates the schema.
func Setup(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "purge.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err != nil {
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Warnf("close test database: %v", err)
		}
	})

	return db
}

// Count returns the number of rows of table matching cond.
func Count(t testing.TB, db *gorm.DB, table any, cond map[string]any) int64 {
	t.Helper()

	var count int64
	query := db.Model(table)
	if len(cond) > 0 {
		query = query.Where(cond)
	}
	if err := query.Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}

	return count
}
