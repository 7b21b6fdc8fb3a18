package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johndosdos/chatrelay/internal/model"
)

// GormStore keeps messages in a SQLite file through GORM.
type GormStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the database at path and migrates the
// messages table. Use ":memory:" for a throwaway store.
func OpenSQLite(path string, debug bool) (*GormStore, error) {
	level := logger.Silent
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, persistenceErr("open sqlite", err)
	}

	// One connection so an in-memory database is shared by every query.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, persistenceErr("open sqlite", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.ChatMessage{}); err != nil {
		sqlDB.Close()
		return nil, persistenceErr("migrate", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) Append(ctx context.Context, nickname, body string, createdAt time.Time) (int64, error) {
	if err := validate(nickname, body); err != nil {
		return 0, err
	}

	m := model.ChatMessage{
		Nickname:  nickname,
		Body:      body,
		CreatedAt: createdAtOrNow(createdAt),
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return 0, persistenceErr("insert message", err)
	}

	return m.ID, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	if err := s.db.WithContext(ctx).Order("id").Find(&messages).Error; err != nil {
		return nil, persistenceErr("list messages", err)
	}

	return messages, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return sqlDB.Close()
}
