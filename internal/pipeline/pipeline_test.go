package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackstrip/internal/config"
	"trackstrip/internal/inventory"
	"trackstrip/internal/language"
	"trackstrip/internal/media"
	"trackstrip/internal/pipeline"
	"trackstrip/internal/script"
	"trackstrip/internal/snapshot"
	"trackstrip/internal/testsupport"
)

type fixture struct {
	cfg    *config.Config
	prober *testsupport.FakeProber
	runner *pipeline.Runner
	logs   *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	prober := testsupport.NewFakeProber().
		Set("/library/movie.mkv", media.Streams{
			Audio:    testsupport.Streams("aac", "jpn", "eng"),
			Video:    testsupport.Streams("h264", ""),
			Subtitle: testsupport.Streams("subrip", "eng"),
		}).
		Set("/library/extra.mp4", media.Streams{Audio: testsupport.Streams("aac", "")}).
		Fail("/library/broken.avi")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	fsys := testsupport.MemFS(t, "/library/movie.mkv", "/library/extra.mp4", "/library/broken.avi", "/library/cover.jpg")
	scanner := inventory.NewScanner(prober, snapshot.NewStore(cfg.Paths.Snapshot), logger, inventory.WithFs(fsys))
	runner := pipeline.NewRunner(scanner, script.Generator{FFmpeg: "ffmpeg", Logger: logger}, cfg.Paths.Snapshot, logger, nil)
	return fixture{cfg: cfg, prober: prober, runner: runner, logs: &logs}
}

func TestRunWritesExecutableScript(t *testing.T) {
	fx := newFixture(t)

	summary, err := fx.runner.Run(context.Background(), pipeline.Options{
		InputPath:  "/library",
		ScriptPath: fx.cfg.Paths.Script,
		Languages:  language.ParseAllowList("jpn"),
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if summary.Files != 2 || summary.AudioDrops != 1 || summary.SubtitleDrops != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	data, err := os.ReadFile(fx.cfg.Paths.Script)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	want := strings.Join([]string{
		"#!/bin/bash",
		"",
		`echo "Processing /library/movie.mkv..."`,
		"ffmpeg -i /library/movie.mkv -map 0 -map -0:a:1 -map -0:s:0 -c copy /library/movie.cleaned.mkv",
		"",
		`echo "Processing /library/extra.mp4..."`,
		"ffmpeg -i /library/extra.mp4 -map 0 -c copy /library/extra.cleaned.mp4",
		"",
		"",
	}, "\n")
	if string(data) != want {
		t.Fatalf("unexpected script:\n%s\nwant:\n%s", data, want)
	}

	info, err := os.Stat(fx.cfg.Paths.Script)
	if err != nil {
		t.Fatalf("stat script: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Fatalf("expected mode 0755, got %v", info.Mode().Perm())
	}
	if !strings.Contains(fx.logs.String(), "drop stream") {
		t.Fatalf("expected drop log lines, got:\n%s", fx.logs.String())
	}
}

func TestRunReplacesExistingScript(t *testing.T) {
	fx := newFixture(t)
	if err := os.WriteFile(fx.cfg.Paths.Script, []byte("stale\n"), 0o600); err != nil {
		t.Fatalf("write stale script: %v", err)
	}

	if _, err := fx.runner.Run(context.Background(), pipeline.Options{
		InputPath:  "/library",
		ScriptPath: fx.cfg.Paths.Script,
		Languages:  language.ParseAllowList("jpn,eng"),
	}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	data, err := os.ReadFile(fx.cfg.Paths.Script)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if strings.Contains(string(data), "stale") || !strings.HasPrefix(string(data), "#!/bin/bash\n\n") {
		t.Fatalf("script was not replaced:\n%s", data)
	}
}

func TestRunResumesFromCache(t *testing.T) {
	fx := newFixture(t)
	opts := pipeline.Options{
		InputPath:  "/library",
		ScriptPath: fx.cfg.Paths.Script,
		Languages:  language.ParseAllowList("jpn"),
	}
	if _, err := fx.runner.Run(context.Background(), opts); err != nil {
		t.Fatalf("initial run: %v", err)
	}
	probes := len(fx.prober.Calls())

	opts.InputPath = ""
	opts.UseCache = true
	summary, err := fx.runner.Run(context.Background(), opts)
	if err != nil {
		t.Fatalf("cached run: %v", err)
	}
	if summary.Files != 2 {
		t.Fatalf("unexpected cached summary: %+v", summary)
	}
	if len(fx.prober.Calls()) != probes {
		t.Fatalf("cached run probed again: %v", fx.prober.Calls())
	}
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    func(scriptPath string) pipeline.Options
		wantErr error
	}{
		{
			name: "no input and no cache",
			opts: func(scriptPath string) pipeline.Options {
				return pipeline.Options{ScriptPath: scriptPath, Languages: language.ParseAllowList("eng")}
			},
			wantErr: pipeline.ErrMissingInput,
		},
		{
			name: "empty allow-list",
			opts: func(scriptPath string) pipeline.Options {
				return pipeline.Options{InputPath: "/library", ScriptPath: scriptPath, Languages: language.ParseAllowList(" , ")}
			},
			wantErr: pipeline.ErrNoLanguages,
		},
		{
			name: "cache requested but absent",
			opts: func(scriptPath string) pipeline.Options {
				return pipeline.Options{ScriptPath: scriptPath, Languages: language.ParseAllowList("eng"), UseCache: true}
			},
			wantErr: snapshot.ErrNoSnapshot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t)
			_, err := fx.runner.Run(context.Background(), tt.opts(fx.cfg.Paths.Script))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(fx.prober.Calls()) != 0 {
				t.Fatalf("no probing expected, got %v", fx.prober.Calls())
			}
			if _, err := os.Stat(fx.cfg.Paths.Script); !os.IsNotExist(err) {
				t.Fatalf("script should not be written: %v", err)
			}
		})
	}
}

func TestRunPreflightFailure(t *testing.T) {
	fx := newFixture(t)
	scriptPath := filepath.Join(testsupport.BaseDir(fx.cfg), "missing-dir", "out.sh")
	_, err := fx.runner.Run(context.Background(), pipeline.Options{
		InputPath:  "/library",
		ScriptPath: scriptPath,
		Languages:  language.ParseAllowList("eng"),
	})
	if err == nil || !strings.Contains(err.Error(), "preflight script") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
	if len(fx.prober.Calls()) != 0 {
		t.Fatalf("preflight failure should stop before probing, got %v", fx.prober.Calls())
	}
}

func TestRunWarnsOnUnrecognizedLanguages(t *testing.T) {
	fx := newFixture(t)
	if _, err := fx.runner.Run(context.Background(), pipeline.Options{
		InputPath:  "/library",
		ScriptPath: fx.cfg.Paths.Script,
		Languages:  language.ParseAllowList("jpn,zz9"),
	}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !strings.Contains(fx.logs.String(), "unrecognized language codes") {
		t.Fatalf("expected unrecognized language warning, got:\n%s", fx.logs.String())
	}
}
