// Package config defines the Mudra service configuration and its loading rules.
package config

// Config holds process configuration. Fields marked runtime-adjustable
// (debounce, mapping) seed the engine and can be changed afterwards
// through the config API without touching this struct.
type Config struct {
	// AppVersion is reported by the health endpoint.
	AppVersion string `koanf:"app_version"`

	// Addr is the HTTP listen address, e.g. ":8001".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DBPath is the SQLite database file for the event log.
	DBPath string `koanf:"db_path"`

	// OutputDir receives preprocessed frame images.
	OutputDir string `koanf:"output_dir"`

	// MaxFileSize caps frame uploads, in bytes.
	MaxFileSize int64 `koanf:"max_file_size"`

	// CORSOrigins lists the origins allowed by the CORS middleware.
	CORSOrigins []string `koanf:"cors_origins"`

	// DebounceSec is the initial debounce window in seconds.
	DebounceSec float64 `koanf:"debounce_sec"`

	// LogRetentionDays controls how long event rows are kept.
	LogRetentionDays int `koanf:"log_retention_days"`

	// SweepIntervalSec is the retention sweeper schedule in seconds.
	SweepIntervalSec int `koanf:"sweep_interval_sec"`

	// AnalyticsCacheSec is the TTL of cached analytics responses.
	// Zero disables caching.
	AnalyticsCacheSec int `koanf:"analytics_cache_sec"`

	// Mapping is the initial gesture-to-command table. Keys are
	// upper-cased when loaded into the engine.
	Mapping map[string]string `koanf:"mapping"`
}

// New returns a Config populated with defaults. The default mapping
// matches the table shipped with the original control frontend.
func New() *Config {
	return &Config{
		AppVersion:        "2.3.0",
		Addr:              ":8001",
		LogLevel:          "info",
		DBPath:            "gesture_logs.db",
		OutputDir:         "outputs",
		MaxFileSize:       10 * 1024 * 1024,
		CORSOrigins:       []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		DebounceSec:       0.5,
		LogRetentionDays:  30,
		SweepIntervalSec:  3600,
		AnalyticsCacheSec: 60,
		Mapping: map[string]string{
			"THUMBS_UP": "GOOD",
			"SIX":       "SIX_GESTURE",
			"PALM":      "OPEN_HAND",
			"FIST":      "CLOSED_HAND",
			"POINT":     "POINT_FORWARD",
			"V":         "VICTORY",
			"OK":        "OK_SIGN",
			"UNKNOWN":   "NO_GESTURE",
		},
	}
}
