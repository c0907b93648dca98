package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"

	"trackstrip/internal/config"
	"trackstrip/internal/fileutil"
	"trackstrip/internal/inventory"
	"trackstrip/internal/language"
	"trackstrip/internal/logging"
	"trackstrip/internal/media"
	"trackstrip/internal/media/ffprobe"
	"trackstrip/internal/preflight"
	"trackstrip/internal/script"
	"trackstrip/internal/snapshot"
)

var (
	// ErrMissingInput indicates neither an input path nor the cache was requested.
	ErrMissingInput = errors.New("you must provide --input-path or use --cached")
	// ErrNoLanguages indicates the allow-list is empty after parsing.
	ErrNoLanguages = errors.New("at least one language must be provided")
)

// scriptMode makes the generated script directly executable.
const scriptMode = 0o755

// Scanner produces the media inventory.
type Scanner interface {
	Scan(ctx context.Context, root string, useCache bool) ([]media.MediaFile, error)
}

// Options describes one run.
type Options struct {
	InputPath  string
	ScriptPath string
	Languages  language.AllowList
	UseCache   bool
}

// Validate rejects requests that cannot produce a script.
func (o Options) Validate() error {
	if strings.TrimSpace(o.InputPath) == "" && !o.UseCache {
		return ErrMissingInput
	}
	if o.Languages.Len() == 0 {
		return ErrNoLanguages
	}
	if strings.TrimSpace(o.ScriptPath) == "" {
		return errors.New("script path is required")
	}
	return nil
}

// Summary reports what a run produced.
type Summary struct {
	Files         int
	AudioDrops    int
	SubtitleDrops int
	ScriptPath    string
}

// Runner holds the collaborators of a run.
type Runner struct {
	scanner      Scanner
	generator    script.Generator
	snapshotPath string
	logger       *slog.Logger
	progress     io.Writer
}

// NewRunner wires a runner from explicit collaborators. progress may be nil.
func NewRunner(scanner Scanner, generator script.Generator, snapshotPath string, logger *slog.Logger, progress io.Writer) *Runner {
	return &Runner{
		scanner:      scanner,
		generator:    generator,
		snapshotPath: snapshotPath,
		logger:       logging.NewComponentLogger(logger, "pipeline"),
		progress:     progress,
	}
}

// FromConfig wires the production runner: ffprobe on the OS filesystem, the
// configured snapshot and the configured ffmpeg binary.
func FromConfig(cfg *config.Config, logger *slog.Logger, progress io.Writer) *Runner {
	prober := ffprobe.NewProber(cfg.Tools.FFprobe, cfg.ProbeTimeout())
	store := snapshot.NewStore(cfg.Paths.Snapshot)
	opts := []inventory.Option{inventory.WithWorkers(cfg.Probe.Workers)}
	if progress != nil {
		opts = append(opts, inventory.WithProgress(progress))
	}
	scanner := inventory.NewScanner(prober, store, logger, opts...)
	generator := script.Generator{FFmpeg: cfg.Tools.FFmpeg, Logger: logger}
	return NewRunner(scanner, generator, cfg.Paths.Snapshot, logger, progress)
}

// Run executes the scan and writes the script. Validation failures return
// before any file is touched.
func (r *Runner) Run(ctx context.Context, opts Options) (Summary, error) {
	opts.InputPath = strings.TrimSpace(opts.InputPath)
	opts.ScriptPath = strings.TrimSpace(opts.ScriptPath)
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}
	if unknown := opts.Languages.Unrecognized(); len(unknown) > 0 {
		logging.WarnWithContext(r.logger, "allow-list contains unrecognized language codes", "language_unrecognized",
			logging.String("codes", strings.Join(unknown, ",")),
			logging.String(logging.FieldImpact, "streams are matched literally against these codes"),
		)
	}

	if err := preflight.Err(preflight.RunAll(
		preflight.Target{Name: "Script", Path: opts.ScriptPath},
		preflight.Target{Name: "Snapshot", Path: r.snapshotPath},
	)); err != nil {
		return Summary{}, err
	}

	files, err := r.scanner.Scan(ctx, opts.InputPath, opts.UseCache)
	if err != nil {
		return Summary{}, fmt.Errorf("build inventory: %w", err)
	}

	r.logger.Info("processing media", logging.Int("files", len(files)), logging.String("languages", opts.Languages.String()))
	summary := Summary{Files: len(files), ScriptPath: opts.ScriptPath}
	bar := r.newProgressBar(len(files))
	entries := make([]script.Entry, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return Summary{}, err
		}
		entry := r.generator.Entry(file, opts.Languages)
		summary.AudioDrops += len(entry.Drops.Audio)
		summary.SubtitleDrops += len(entry.Drops.Subtitle)
		entries = append(entries, entry)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := fileutil.ReplaceFile(opts.ScriptPath, []byte(script.Render(entries)), scriptMode); err != nil {
		return Summary{}, fmt.Errorf("write script: %w", err)
	}
	r.logger.Info("script written",
		logging.String("script", opts.ScriptPath),
		logging.Int("files", summary.Files),
		logging.Int("audio_drops", summary.AudioDrops),
		logging.Int("subtitle_drops", summary.SubtitleDrops),
	)
	return summary, nil
}

func (r *Runner) newProgressBar(total int) *progressbar.ProgressBar {
	if r.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.progress),
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
