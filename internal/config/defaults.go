package config

const (
	defaultLogFile        = "app.log"
	defaultSnapshotFile   = "media-inventory.db"
	defaultScriptFile     = "process-media-files.sh"
	defaultFFprobeBinary  = "ffprobe"
	defaultFFmpegBinary   = "ffmpeg"
	defaultProbeWorkers   = 1
	defaultProbeTimeout   = 0
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
	defaultConfigLocation = "~/.config/trackstrip/config.toml"
	projectConfigFile     = "trackstrip.toml"
	languagesEnv          = "TRACKSTRIP_LANGUAGES"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogFile:  defaultLogFile,
			Snapshot: defaultSnapshotFile,
			Script:   defaultScriptFile,
		},
		Tools: Tools{
			FFprobe: defaultFFprobeBinary,
			FFmpeg:  defaultFFmpegBinary,
		},
		Probe: Probe{
			TimeoutSeconds: defaultProbeTimeout,
			Workers:        defaultProbeWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
