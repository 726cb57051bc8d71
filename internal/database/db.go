package database

import (
	"fmt"
	"time"

	"huddleboard/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

var db *gorm.DB

// InitDB opens the database. A non-empty databaseURL selects PostgreSQL;
// otherwise dbPath opens a SQLite file.
func InitDB(dbPath, databaseURL string) error {
	var err error
	if databaseURL != "" {
		db, err = gorm.Open("postgres", databaseURL)
	} else {
		db, err = gorm.Open("sqlite3", dbPath)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	db.AutoMigrate(
		&models.FollowUpRecord{},
		&models.HuddleRecord{},
	)

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return db
}

// CloseDB closes the database connection
func CloseDB() error {
	if db != nil {
		return db.Close()
	}
	return nil
}
