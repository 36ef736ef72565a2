package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"spine-mod-loader/assets"
)

// Store persists recently opened mod folders in sqlite
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the history database at path
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("history database path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history database %s: %w", path, err)
	}

	store, err := OpenWithDB(db, logger)
	if err != nil {
		return nil, err
	}
	store.logger.Debug("history opened", zap.String("path", path))
	return store, nil
}

// OpenWithDB wraps an existing gorm handle and migrates the schema
func OpenWithDB(db *gorm.DB, logger *zap.Logger) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Record marks folder as opened now. A folder already in the history only has
// its classification and timestamp refreshed; older entries beyond MaxEntries
// are dropped.
func (s *Store) Record(ctx context.Context, folder string, category assets.ModCategory, id *string) (*Entry, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("path = ?", folder).First(&entry).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = Entry{Path: folder}
		case err != nil:
			return err
		}

		entry.ModType = category.String()
		entry.CharacterID = id
		entry.OpenedAt = s.now()
		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return s.trim(tx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record %s: %w", folder, err)
	}

	s.logger.Debug("history recorded",
		zap.String("folder", folder),
		zap.Uint("id", entry.ID))
	return &entry, nil
}

func (s *Store) trim(tx *gorm.DB) error {
	var ids []uint
	if err := tx.Model(&Entry{}).Order("opened_at DESC, id DESC").Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) <= MaxEntries {
		return nil
	}
	stale := ids[MaxEntries:]
	s.logger.Debug("history trimmed", zap.Int("evicted", len(stale)))
	return tx.Delete(&Entry{}, stale).Error
}

// List returns the history, most recently opened first
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry
	if err := s.db.WithContext(ctx).Order("opened_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	return entries, nil
}

// Remove deletes the entry with id and reports whether it existed
func (s *Store) Remove(ctx context.Context, id uint) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&Entry{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove history entry %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Clear deletes every entry
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&Entry{}).Error; err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close releases the underlying connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
