package db

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	embeddedmigrations "github.com/terraincognita07/cyclecast/migrations"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenSQLite opens the entry database and applies the store migrations.
func OpenSQLite(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	return openSQLite(dbPath, 0o600, embeddedmigrations.Store, "store", logger)
}

func openSQLite(dbPath string, mode os.FileMode, files fs.FS, dir string, logger *zap.Logger) (*gorm.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := ensureFileMode(dbPath, mode); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(
			zap.NewStdLog(logger.Named("gorm")),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(database, files, dir); err != nil {
		return nil, fmt.Errorf("apply embedded migrations: %w", err)
	}

	return database, nil
}

// ensureFileMode creates the database file up front so it never exists with
// looser permissions than mode.
func ensureFileMode(dbPath string, mode os.FileMode) error {
	file, err := os.OpenFile(dbPath, os.O_CREATE|os.O_RDWR, mode)
	if err != nil {
		return fmt.Errorf("create db file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close db file: %w", err)
	}
	if err := os.Chmod(dbPath, mode); err != nil {
		return fmt.Errorf("set db file mode: %w", err)
	}
	return nil
}

// Close releases the connection pool behind database.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
