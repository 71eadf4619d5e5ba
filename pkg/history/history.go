package history

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sdejongh/dirsync/pkg/models"
)

// Run is one recorded run
type Run struct {
	ID         string    `gorm:"primaryKey"`
	Source     string    `gorm:"not null"`
	Target     string    `gorm:"not null"`
	Mode       string    `gorm:"not null"`
	Direction  string    `gorm:"not null"`
	Status     string    `gorm:"not null;index"`
	StartedAt  time.Time `gorm:"not null;index"`
	DurationMs int64

	DirsScanned  int
	FilesCopied  int
	FilesUpdated int
	FilesPurged  int
	DirsPurged   int
	DirsCreated  int
	Failures     int
	FirstError   string
}

// Stats summarises the recorded runs
type Stats struct {
	Total   int64
	Success int64
	Partial int64
}

// Store persists run reports in a SQLite database
type Store struct {
	db *gorm.DB
}

// Open opens or creates the database at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	if err := db.AutoMigrate(&Run{}); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("failed to migrate history: %w", err)
	}

	return &Store{db: db}, nil
}

// Record stores a finished report
func (s *Store) Record(report *models.Report) error {
	run := Run{
		ID:           report.ID,
		Source:       report.SourcePath,
		Target:       report.TargetPath,
		Mode:         string(report.Mode),
		Direction:    string(report.Direction),
		Status:       string(report.Status),
		StartedAt:    report.StartTime,
		DurationMs:   report.Duration.Milliseconds(),
		DirsScanned:  report.Stats.DirsScanned,
		FilesCopied:  report.Stats.FilesCopied,
		FilesUpdated: report.Stats.FilesUpdated,
		FilesPurged:  report.Stats.FilesPurged,
		DirsPurged:   report.Stats.DirsPurged,
		DirsCreated:  report.Stats.DirsCreated,
		Failures:     report.Stats.Failures(),
	}
	if len(report.Errors) > 0 {
		e := report.Errors[0]
		run.FirstError = fmt.Sprintf("%s %s: %s", e.Operation, e.FilePath, e.Error)
	}

	if err := s.db.Create(&run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first
func (s *Store) Recent(limit int) ([]Run, error) {
	var runs []Run
	result := s.db.
		Order("started_at desc").
		Limit(limit).
		Find(&runs)

	return runs, result.Error
}

// Stats counts recorded runs by status
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	if err := s.db.Model(&Run{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}

	if err := s.db.Model(&Run{}).
		Where("status = ?", string(models.StatusSuccess)).
		Count(&stats.Success).Error; err != nil {
		return stats, err
	}

	stats.Partial = stats.Total - stats.Success
	return stats, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
