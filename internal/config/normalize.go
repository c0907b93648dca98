package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeSelection()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogFile) == "" {
		c.Paths.LogFile = defaultLogFile
	}
	if c.Paths.LogFile, err = expandPath(c.Paths.LogFile); err != nil {
		return fmt.Errorf("paths.log_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.Snapshot) == "" {
		c.Paths.Snapshot = defaultSnapshotFile
	}
	if c.Paths.Snapshot, err = expandPath(c.Paths.Snapshot); err != nil {
		return fmt.Errorf("paths.snapshot: %w", err)
	}
	if strings.TrimSpace(c.Paths.Script) == "" {
		c.Paths.Script = defaultScriptFile
	}
	if c.Paths.Script, err = expandPath(c.Paths.Script); err != nil {
		return fmt.Errorf("paths.script: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	if c.Tools.FFprobe == "" {
		c.Tools.FFprobe = defaultFFprobeBinary
	}
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpegBinary
	}
}

// normalizeSelection trims entries but keeps their case; matching is literal.
func (c *Config) normalizeSelection() {
	if len(c.Selection.Languages) == 0 {
		if value, ok := os.LookupEnv(languagesEnv); ok {
			c.Selection.Languages = strings.Split(value, ",")
		}
	}
	langs := make([]string, 0, len(c.Selection.Languages))
	seen := make(map[string]struct{}, len(c.Selection.Languages))
	for _, lang := range c.Selection.Languages {
		trimmed := strings.TrimSpace(lang)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		langs = append(langs, trimmed)
	}
	c.Selection.Languages = langs
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
