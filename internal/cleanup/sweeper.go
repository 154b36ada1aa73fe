// Package cleanup removes export files that have outlived their retention.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Ductam7415vn/SumUp-sub002/internal/repository"
	"github.com/Ductam7415vn/SumUp-sub002/internal/storage"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

// Sweeper deletes expired export rows together with their files and shared
// copies, then any summary_* file under the export directories that is older
// than the cutoff.
type Sweeper struct {
	repo      repository.Repository
	remote    storage.Unsharer
	dirs      []string
	retention time.Duration
	now       func() time.Time
	logger    *utils.Logger
	cron      *cron.Cron
}

// Result counts what one sweep removed.
type Result struct {
	Records int64
	Files   int
}

// NewSweeper builds a sweeper; remote may be nil when nothing is shared
// outside the export directories.
func NewSweeper(repo repository.Repository, remote storage.Unsharer, dirs []string, retention time.Duration, logger *utils.Logger) *Sweeper {
	return &Sweeper{
		repo:      repo,
		remote:    remote,
		dirs:      dirs,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result
	cutoff := s.now().Add(-s.retention)

	stale, err := s.repo.ListExportsBefore(ctx, cutoff)
	if err != nil {
		return res, fmt.Errorf("failed to list expired exports: %w", err)
	}

	for _, exp := range stale {
		if exp.ShareURL != "" && s.remote != nil {
			if err := s.remote.Unshare(ctx, exp.Path); err != nil {
				s.logger.Warn("Failed to withdraw shared export", "id", exp.ID, "error", err)
			}
		}
		if err := os.Remove(exp.Path); err == nil {
			res.Files++
		} else if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Failed to remove expired export", "path", exp.Path, "error", err)
		}
	}

	if res.Records, err = s.repo.DeleteExportsBefore(ctx, cutoff); err != nil {
		return res, fmt.Errorf("failed to delete expired exports: %w", err)
	}

	for _, dir := range s.dirs {
		n, err := removeOlderThan(dir, cutoff)
		res.Files += n
		if err != nil {
			return res, err
		}
	}

	return res, nil
}

// removeOlderThan deletes export files in dir modified before cutoff. It
// covers files no row points at, such as leftovers from a crash.
func removeOlderThan(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "summary_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Start runs Sweep on schedule until Stop is called.
func (s *Sweeper) Start(ctx context.Context, schedule string) error {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		res, err := s.Sweep(ctx)
		if err != nil {
			s.logger.Error("Export cleanup failed", "error", err)
			return
		}
		s.logger.Info("Export cleanup completed", "records", res.Records, "files", res.Files)
	})
	if err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", schedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("Export cleanup scheduled", "schedule", schedule, "retention", s.retention.String())
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}
