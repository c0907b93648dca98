package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Paths.Snapshot == c.Paths.Script || c.Paths.LogFile == c.Paths.Script {
		return errors.New("paths.script must differ from paths.snapshot and paths.log_file")
	}
	return nil
}

func (c *Config) validateProbe() error {
	if c.Probe.TimeoutSeconds < 0 {
		return errors.New("probe.timeout_seconds must be zero or positive")
	}
	if c.Probe.Workers < 1 {
		return errors.New("probe.workers must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
