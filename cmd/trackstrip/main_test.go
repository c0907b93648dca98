package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trackstrip/internal/config"
	"trackstrip/internal/pipeline"
	"trackstrip/internal/testsupport"
)

const fakeFFprobe = `#!/bin/sh
case "$*" in
  *"-select_streams a"*)
    echo '{"streams":[{"index":1,"codec_name":"aac","tags":{"language":"eng"}},{"index":2,"codec_name":"aac","tags":{"language":"jpn"}}]}' ;;
  *"-select_streams v"*)
    echo '{"streams":[{"index":0,"codec_name":"h264"}]}' ;;
  *)
    echo '{"streams":[]}' ;;
esac
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	library    string
	ffprobe    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	t.Setenv("TRACKSTRIP_LANGUAGES", "")

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)

	ffprobe := filepath.Join(base, "bin", "ffprobe")
	if err := os.MkdirAll(filepath.Dir(ffprobe), 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	if err := os.WriteFile(ffprobe, []byte(fakeFFprobe), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	cfg.Tools.FFprobe = ffprobe

	library := filepath.Join(base, "library")
	testsupport.WriteFile(t, filepath.Join(library, "movie.mkv"))
	testsupport.WriteFile(t, filepath.Join(library, "notes.txt"))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, library: library, ffprobe: ffprobe}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestRootRequiresInputOrCache(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"-l", "jpn"}, env.configPath)
	if !errors.Is(err, pipeline.ErrMissingInput) {
		t.Fatalf("expected ErrMissingInput, got %v", err)
	}
	if _, statErr := os.Stat(env.cfg.Paths.LogFile); !os.IsNotExist(statErr) {
		t.Fatalf("log file should not be created before validation: %v", statErr)
	}
}

func TestRootRequiresLanguages(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"-i", env.library}, env.configPath)
	if !errors.Is(err, pipeline.ErrNoLanguages) {
		t.Fatalf("expected ErrNoLanguages, got %v", err)
	}
}

func TestRootScanThenResume(t *testing.T) {
	env := setupCLITestEnv(t)
	scriptPath := filepath.Join(testsupport.BaseDir(env.cfg), "strip.sh")
	movie := filepath.Join(env.library, "movie.mkv")

	out, stderr, err := runCLI(t, []string{"-i", env.library, "-l", "jpn", "-s", scriptPath, "-v"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Wrote "+scriptPath)
	requireContains(t, stderr, "drop stream")

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	requireContains(t, string(data), "#!/bin/bash\n\n")
	requireContains(t, string(data), `echo "Processing `+movie+`..."`)
	requireContains(t, string(data), "ffmpeg -i "+movie+" -map 0 -map -0:a:0 -c copy "+filepath.Join(env.library, "movie.cleaned.mkv"))
	if strings.Contains(string(data), "notes") {
		t.Fatalf("non-media file leaked into script:\n%s", data)
	}

	logContent, err := os.ReadFile(env.cfg.Paths.LogFile)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	requireContains(t, string(logContent), "script written")

	// The resume must not probe again.
	if err := os.Remove(env.ffprobe); err != nil {
		t.Fatalf("remove fake ffprobe: %v", err)
	}
	if _, _, err := runCLI(t, []string{"--cached", "-l", "jpn,eng", "-s", scriptPath}, env.configPath); err != nil {
		t.Fatalf("cached run: %v", err)
	}
	data, err = os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	requireContains(t, string(data), "ffmpeg -i "+movie+" -map 0 -c copy ")

	out, _, err = runCLI(t, []string{"inventory", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("inventory show: %v", err)
	}
	requireContains(t, out, movie)
	requireContains(t, out, "eng (English)")
	requireContains(t, out, "jpn (Japanese)")
}

func TestInventoryShowWithoutSnapshot(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"inventory", "show"}, env.configPath); err == nil {
		t.Fatal("expected error without a cached scan")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", target}, ""); err == nil {
		t.Fatal("expected refusal to overwrite existing config")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--overwrite", target}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestStatusAndVersion(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "FFprobe")
	requireContains(t, out, env.ffprobe)
	requireContains(t, out, "Cached scan: no")

	out, _, err = runCLI(t, []string{"version"}, "")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "trackstrip dev")
}
