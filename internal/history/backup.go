package history

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"chewsy/internal/config"
)

// BackupService snapshots the journal once a day and prunes snapshots
// older than the retention window. Snapshots go through VACUUM INTO so a
// copy taken while the bot is writing is still consistent.
type BackupService struct {
	journal *DB
	cfg     config.BackupConfig
	logger  *zerolog.Logger
}

func NewBackupService(journal *DB, cfg config.BackupConfig, logger *zerolog.Logger) *BackupService {
	return &BackupService{journal: journal, cfg: cfg, logger: logger}
}

// Run blocks until ctx is cancelled. The first snapshot is taken right
// away so a fresh deployment is covered before the first tick.
func (s *BackupService) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		s.logger.Info().Msg("journal backups disabled")
		return
	}

	s.logger.Info().Str("dir", s.cfg.StoragePath).Msg("journal backups enabled")

	if err := s.Snapshot(ctx); err != nil {
		s.logger.Error().Err(err).Msg("initial journal backup failed")
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Snapshot(ctx); err != nil {
				s.logger.Error().Err(err).Msg("journal backup failed")
			}
			s.prune()
		}
	}
}

// Snapshot writes one timestamped copy of the journal into the backup
// directory.
func (s *BackupService) Snapshot(ctx context.Context) error {
	if err := os.MkdirAll(s.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}

	name := fmt.Sprintf("journal_%s.db", time.Now().Format("20060102_150405"))
	target := filepath.Join(s.cfg.StoragePath, name)

	if _, err := s.journal.ExecContext(ctx, "VACUUM INTO ?", target); err != nil {
		return fmt.Errorf("vacuum into %s: %w", target, err)
	}

	s.logger.Info().Str("path", target).Msg("journal backup written")
	return nil
}

func (s *BackupService) prune() {
	if s.cfg.RetentionDays <= 0 {
		return
	}

	files, err := os.ReadDir(s.cfg.StoragePath)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read backup dir")
		return
	}

	cutoff := time.Now().AddDate(0, 0, -s.cfg.RetentionDays)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		info, err := f.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		s.logger.Info().Str("file", f.Name()).Msg("pruning old journal backup")
		_ = os.Remove(filepath.Join(s.cfg.StoragePath, f.Name()))
	}
}
