package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"

	"trackstrip/internal/logging"
	"trackstrip/internal/media"
	"trackstrip/internal/snapshot"
)

// ErrNoRoot indicates a fresh scan was requested without a root directory.
var ErrNoRoot = errors.New("inventory root path is required")

// Scanner produces the media inventory, either from a fresh walk or from the
// persisted snapshot.
type Scanner struct {
	fs       afero.Fs
	prober   Prober
	store    *snapshot.Store
	logger   *slog.Logger
	workers  int
	progress io.Writer
	now      func() time.Time
}

// Option customizes a Scanner.
type Option func(*Scanner)

// WithFs replaces the OS filesystem, typically with afero.NewMemMapFs in tests.
func WithFs(fsys afero.Fs) Option {
	return func(s *Scanner) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithWorkers bounds concurrent probes. Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = max(n, 1)
	}
}

// WithProgress renders a progress bar to w while probing.
func WithProgress(w io.Writer) Option {
	return func(s *Scanner) {
		s.progress = w
	}
}

// NewScanner wires a scanner around a prober and snapshot store.
func NewScanner(prober Prober, store *snapshot.Store, logger *slog.Logger, opts ...Option) *Scanner {
	s := &Scanner{
		fs:      afero.NewOsFs(),
		prober:  prober,
		store:   store,
		logger:  logging.NewComponentLogger(logger, "inventory"),
		workers: 1,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan returns the inventory for root. With useCache set, an existing snapshot
// is returned as-is; a missing one falls back to a fresh scan when root is
// given. A corrupt snapshot is an error. Fresh scans replace the snapshot
// before returning; a cancelled scan persists nothing.
func (s *Scanner) Scan(ctx context.Context, root string, useCache bool) ([]media.MediaFile, error) {
	root = strings.TrimSpace(root)
	if useCache {
		snap, err := s.store.Load(ctx)
		switch {
		case err == nil:
			s.logger.Info("starting from a cached file scan",
				logging.String("snapshot", s.store.Path()),
				logging.String(logging.FieldScanID, snap.ScanID),
				logging.Int("files", len(snap.Files)),
			)
			return snap.Files, nil
		case errors.Is(err, snapshot.ErrNoSnapshot) && root != "":
			s.logger.Info("no cached file scan found, scanning input",
				logging.String("snapshot", s.store.Path()),
				logging.String("root", root),
			)
		default:
			return nil, err
		}
	}
	if root == "" {
		return nil, ErrNoRoot
	}

	started := s.now()
	scanID := uuid.NewString()
	ctx = logging.WithScanID(ctx, scanID)
	logger := logging.WithContext(ctx, s.logger)

	logger.Info("searching for compatible files", logging.String("root", root))
	paths, err := Discover(s.fs, root, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("reading stream info", logging.Int("files", len(paths)), logging.Int("workers", s.workers))
	files, err := s.inspectAll(ctx, logger, paths)
	if err != nil {
		return nil, err
	}

	logger.Info("storing file scan",
		logging.String("snapshot", s.store.Path()),
		logging.Int("files", len(files)),
		logging.Duration("elapsed", s.now().Sub(started)),
	)
	if err := s.store.Save(ctx, snapshot.Snapshot{
		ScanID:  scanID,
		Root:    root,
		Created: s.now(),
		Files:   files,
	}); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}
	return files, nil
}

type inspection struct {
	info media.MediaFileInfo
	err  error
}

// inspectAll probes paths on a bounded pool and returns successes in
// enumeration order. Failures are logged and skipped.
func (s *Scanner) inspectAll(ctx context.Context, logger *slog.Logger, paths []string) ([]media.MediaFile, error) {
	results := make([]inspection, len(paths))
	bar := s.newProgressBar(len(paths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range min(s.workers, max(len(paths), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				info, err := Inspect(ctx, s.fs, s.prober, paths[idx])
				results[idx] = inspection{info: info, err: err}
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

feed:
	for idx := range paths {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- idx:
		}
	}
	close(jobs)
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files := make([]media.MediaFile, 0, len(paths))
	for idx, result := range results {
		if result.err != nil {
			logging.WarnWithContext(logger, "file skipped", "file_skipped",
				logging.String(logging.FieldPath, paths[idx]),
				logging.Error(result.err),
				logging.String(logging.FieldImpact, "file is excluded from the script"),
			)
			continue
		}
		files = append(files, media.MediaFile{Path: paths[idx], Info: result.info})
	}
	return files, nil
}

func (s *Scanner) newProgressBar(total int) *progressbar.ProgressBar {
	if s.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(s.progress),
		progressbar.OptionSetDescription("read stream info"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
