package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the SQLite database holding load jobs and API metrics.
// The catalog itself is never stored here.
func Init(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer; metric inserts run from goroutines
	sqlDB.SetMaxOpenConns(1)

	DB = db
	return DB, nil
}

// TestDBInit opens a throwaway database under dir and migrates it
func TestDBInit(dir string) *gorm.DB {
	db, err := Init(filepath.Join(dir, "catalog_test.db"))
	if err != nil {
		panic(fmt.Sprintf("db err: (TestDBInit) %v", err))
	}
	if err := AutoMigrateJobs(db); err != nil {
		panic(fmt.Sprintf("db err: (TestDBInit) %v", err))
	}
	return db
}

// TestDBFree closes a database opened by TestDBInit
func TestDBFree(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if DB == db {
		DB = nil
	}
	return sqlDB.Close()
}

// GetDB returns the shared connection
func GetDB() *gorm.DB {
	return DB
}
