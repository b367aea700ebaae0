package datastore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// collectionRecord is one stored collection document.
type collectionRecord struct {
	Name      string `gorm:"primaryKey;type:text"`
	Data      string `gorm:"not null;type:text"`
	UpdatedAt time.Time
}

// TableName returns the table name for collection documents.
func (collectionRecord) TableName() string {
	return "collections"
}

// SQLiteBackend stores collection documents in a SQLite table through GORM.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the collections table.
// Use ":memory:" for an in-memory database.
func OpenSQLite(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&collectionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	var rec collectionRecord
	if err := b.db.WithContext(ctx).First(&rec, "name = ?", collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotExist
		}
		return nil, err
	}
	return []byte(rec.Data), nil
}

func (b *SQLiteBackend) Write(ctx context.Context, collection string, data []byte) error {
	rec := collectionRecord{
		Name:      collection,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rec).Error
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
