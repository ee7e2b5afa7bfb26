package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/myaicademy/curriculum-ops/internal/logger"
	"github.com/myaicademy/curriculum-ops/internal/types"
	"github.com/myaicademy/curriculum-ops/internal/utils"
)

type SQLiteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSQLiteService(log *logger.Logger) (*SQLiteService, error) {
	serviceLog := log.With("service", "SQLiteService")

	log.Info("Loading environment variables...")
	dbPath := utils.GetEnv("DB_PATH", "data/curriculum.db", log)
	log.Debug("Environment variables loaded")

	log.Info("Opening SQLite database...", "path", dbPath)
	gdb, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		log.Error("Failed to open SQLite database", "error", err)
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// Single-writer store; WAL keeps readers unblocked during writes.
	if err := gdb.Exec(`PRAGMA journal_mode = WAL;`).Error; err != nil {
		log.Error("Failed to enable WAL mode", "error", err)
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteService{db: gdb, log: serviceLog}, nil
}

func (s *SQLiteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	err := s.db.AutoMigrate(
		&types.Provider{},
		&types.Lesson{},
		&types.Course{},
		&types.CourseLesson{},
		&types.MappingRule{},
		&types.Update{},
		&types.ImpactReport{},
		&types.AuditLog{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for sqlite tables", "error", err)
		return err
	}
	return nil
}

func (s *SQLiteService) DB() *gorm.DB {
	return s.db
}
