// Package backup dumps the database into compressed files and prunes old ones.
package backup

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strawberry-py/strawberry-go/internal/database"
	"github.com/strawberry-py/strawberry-go/internal/eventlog"
)

const (
	fileSuffix = ".sql.gz"
	timeLayout = "2006-01-02_15-04-05"
)

// ErrRunning is returned when a backup is requested while one is in progress.
var ErrRunning = errors.New("backup is already running")

// Dumper writes a plain SQL dump of the database to w.
type Dumper interface {
	Dump(ctx context.Context, w io.Writer) error
}

// PgDump runs the pg_dump binary.
type PgDump struct {
	DSN string
	// Binary defaults to "pg_dump" looked up in PATH.
	Binary string
}

// Dump implements Dumper.
func (p PgDump) Dump(ctx context.Context, w io.Writer) error {
	bin := p.Binary
	if bin == "" {
		bin = "pg_dump"
	}

	var stderr strings.Builder
	cmd := exec.CommandContext(ctx, bin, "--dbname="+database.NormalizeDSN(p.DSN), "--no-password")
	cmd.Stdout = w
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

// Result describes a finished backup.
type Result struct {
	Path    string
	Size    int64
	Took    time.Duration
	Removed []string
}

// Service creates backups. Only one backup runs at a time.
type Service struct {
	dumper   Dumper
	dir      string
	instance string
	keep     int
	events   *eventlog.Logger
	logger   *zap.Logger
	now      func() time.Time

	running sync.Mutex
}

// Options configure a Service.
type Options struct {
	Dir      string
	Instance string
	// Keep is the number of dumps retained. Below 1 nothing is pruned.
	Keep     int
	Location *time.Location
}

// NewService creates a Service. events may be nil.
func NewService(dumper Dumper, opts Options, events *eventlog.Logger, logger *zap.Logger) *Service {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	return &Service{
		dumper:   dumper,
		dir:      opts.Dir,
		instance: opts.Instance,
		keep:     opts.Keep,
		events:   events,
		logger:   logger.Named("backup"),
		now:      func() time.Time { return time.Now().In(loc) },
	}
}

// SetClock replaces the time source. Used by tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// FileName returns the name of a backup taken at t.
func (s *Service) FileName(t time.Time) string {
	return s.instance + "_" + t.Format(timeLayout) + fileSuffix
}

// Run dumps the database and prunes old backups.
func (s *Service) Run(ctx context.Context) (Result, error) {
	if !s.running.TryLock() {
		return Result{}, ErrRunning
	}
	defer s.running.Unlock()

	start := s.now()
	res := Result{Path: filepath.Join(s.dir, s.FileName(start))}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return Result{}, fmt.Errorf("failed to create backup directory: %w", err)
	}

	size, err := s.write(ctx, res.Path)
	if err != nil {
		s.report(ctx, eventlog.LevelError, "Database backup failed.", err)
		return Result{}, err
	}
	res.Size = size
	res.Took = time.Since(start)

	res.Removed, err = s.Prune()
	if err != nil {
		s.logger.Warn("Failed to prune old backups", zap.Error(err))
	}

	s.logger.Info("Database backup created",
		zap.String("path", res.Path),
		zap.Int64("size", res.Size),
		zap.Duration("took", res.Took),
		zap.Int("removed", len(res.Removed)),
	)
	s.report(ctx, eventlog.LevelInfo, fmt.Sprintf("Database backup %s created.", filepath.Base(res.Path)), nil)

	return res, nil
}

func (s *Service) write(ctx context.Context, path string) (int64, error) {
	tmp := path + ".part"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		return 0, fmt.Errorf("failed to create backup file: %w", err)
	}
	defer os.Remove(tmp)

	zw := gzip.NewWriter(f)
	zw.Name = strings.TrimSuffix(filepath.Base(path), ".gz")
	zw.ModTime = s.now()

	if err := s.dumper.Dump(ctx, zw); err != nil {
		f.Close()
		return 0, err
	}
	if err := zw.Close(); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to compress backup: %w", err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to write backup: %w", err)
	}

	info, err := os.Stat(tmp)
	if err != nil {
		return 0, err
	}
	if err := os.Rename(tmp, path); err != nil {
		return 0, fmt.Errorf("failed to finish backup: %w", err)
	}

	return info.Size(), nil
}

// List returns the backups of this instance, newest first.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	prefix := s.instance + "_"
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), fileSuffix)
		if _, err := time.Parse(timeLayout, stamp); err != nil {
			continue
		}
		names = append(names, name)
	}

	// the timestamp layout sorts chronologically
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	return names, nil
}

// Prune removes all but the newest backups and returns the removed names.
func (s *Service) Prune() ([]string, error) {
	if s.keep < 1 {
		return nil, nil
	}

	names, err := s.List()
	if err != nil || len(names) <= s.keep {
		return nil, err
	}

	var removed []string
	var errs []error
	for _, name := range names[s.keep:] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, name)
	}

	return removed, errors.Join(errs...)
}

func (s *Service) report(ctx context.Context, level eventlog.Level, message string, err error) {
	if s.events == nil {
		return
	}

	var opts []eventlog.Option
	if err != nil {
		opts = append(opts, eventlog.WithError(err))
	}

	switch level {
	case eventlog.LevelError:
		s.events.Error(ctx, eventlog.Actor{}, eventlog.Source{}, message, opts...)
	default:
		s.events.Info(ctx, eventlog.Actor{}, eventlog.Source{}, message, opts...)
	}
}
