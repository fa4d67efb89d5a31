// Package store is the SQLite persistence layer: the processed-unit
// ledger and the generated-question archive.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/abhisek/wikiquiz/internal/quizgen"
)

// Store wraps the gorm handle and exposes the repositories.
type Store struct {
	db *gorm.DB
}

// Open connects to the SQLite database at dsn, applies pragmas, and
// runs auto-migration for all models.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := db.AutoMigrate(&ProcessedRecord{}, &QuestionRecord{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RecordUnit marks a unit processed and archives its questions in one
// transaction, mark first. Two runs racing on the same key past the
// ledger read cannot both persist: the conflict-ignoring mark decides a
// single winner and the loser's transaction writes nothing, reported as
// ok=false.
func (s *Store) RecordUnit(ctx context.Context, rec ProcessedRecord, prov Provenance, qs []quizgen.Question) (bool, error) {
	won := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inserted, err := markRecord(tx, rec)
		if err != nil {
			if errors.Is(err, errEmptyUnitKey) {
				return err
			}
			return &LedgerUnavailableError{Op: "record unit", Err: err}
		}
		if !inserted {
			return nil
		}
		won = true
		return saveQuestions(tx, prov, qs)
	})
	if err != nil {
		return false, err
	}
	return won, nil
}

// Ledger returns the processed-unit ledger backed by this store.
func (s *Store) Ledger(opts LedgerOptions) *Ledger {
	return &Ledger{db: s.db, opts: opts}
}

// Questions returns the question archive backed by this store.
func (s *Store) Questions() *QuestionRepo {
	return &QuestionRepo{db: s.db}
}

// applyPragmas configures SQLite for concurrent single-process use.
func applyPragmas(db *gorm.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. WIKIQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/wikiquiz/wikiquiz.db
// 3. ~/.local/share/wikiquiz/wikiquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("WIKIQUIZ_DB"); p != "" {
		return p, ensureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "wikiquiz", "wikiquiz.db")
	return p, ensureDir(p)
}

// ensureDir creates the parent directory of path if it doesn't exist.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
