package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// BackupService copies the SQLite file to a backup directory on a fixed
// interval and prunes copies past the retention window.
type BackupService struct {
	dbPath        string
	storagePath   string
	interval      time.Duration
	retentionDays int
	logger        *zerolog.Logger
}

func NewBackupService(dbPath, storagePath string, interval time.Duration, retentionDays int, logger *zerolog.Logger) *BackupService {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &BackupService{
		dbPath:        dbPath,
		storagePath:   storagePath,
		interval:      interval,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Start runs the backup loop until ctx is cancelled. The first backup runs
// immediately.
func (s *BackupService) Start(ctx context.Context) {
	s.logger.Info().Dur("interval", s.interval).Str("path", s.storagePath).Msg("backup service started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.PerformBackup(); err != nil {
		s.logger.Error().Err(err).Msg("initial backup failed")
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.PerformBackup(); err != nil {
				s.logger.Error().Err(err).Msg("scheduled backup failed")
			}
			s.CleanupOldBackups()
		}
	}
}

// PerformBackup writes a timestamped copy of the database file.
func (s *BackupService) PerformBackup() error {
	if err := os.MkdirAll(s.storagePath, 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("backup_%s.db", time.Now().Format("20060102_150405"))
	backupPath := filepath.Join(s.storagePath, name)

	source, err := os.Open(s.dbPath)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		return err
	}

	s.logger.Info().Str("path", backupPath).Msg("backup completed")
	return nil
}

// CleanupOldBackups removes backup files older than the retention window.
func (s *BackupService) CleanupOldBackups() {
	if s.retentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.storagePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("read backup directory failed")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			s.logger.Info().Str("file", file.Name()).Msg("deleting old backup")
			os.Remove(filepath.Join(s.storagePath, file.Name()))
		}
	}
}
