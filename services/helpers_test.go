package services

import (
	"context"
	"testing"

	"scoreboard/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a seeded in-memory sqlite database. The pool is pinned to
// one connection because every sqlite ":memory:" connection is its own
// database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("Failed to close test database: %v", err)
		}
	})

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	if err := Seed(context.Background(), db, DefaultCatalog()); err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return db
}

func amount(v float64) *float64 {
	return &v
}

func totalFor(t *testing.T, db *gorm.DB, personName, gameKey string) float64 {
	t.Helper()
	var total float64
	err := db.Table("scores").
		Select("scores.total").
		Joins("JOIN people ON people.id = scores.person_id").
		Joins("JOIN games ON games.id = scores.game_id").
		Where("people.name = ? AND games.key = ?", personName, gameKey).
		Scan(&total).Error
	if err != nil {
		t.Fatalf("Failed to read total for %s/%s: %v", personName, gameKey, err)
	}
	return total
}

func countRows(t *testing.T, db *gorm.DB, model any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("Failed to count rows: %v", err)
	}
	return n
}
