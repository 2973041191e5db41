package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Settings represents configuration loaded from config.yaml.
// Field names match snake_case YAML keys.
type Settings struct {
	DBPath            string   `yaml:"db_path"`
	ReportEndpoint    string   `yaml:"report_endpoint"`
	ReportMaxAttempts int      `yaml:"report_max_attempts"`
	ReportTimeoutSecs int      `yaml:"report_timeout_seconds"`
	MaxErrorLogs      int      `yaml:"max_error_logs"`
	CrisisKeywords    []string `yaml:"crisis_keywords"`
}

// HandlerSettings are effective runtime values used by the error handler and
// reporter after defaults and clamps are applied.
type HandlerSettings struct {
	ReportEndpoint    string   `json:"report_endpoint"`
	ReportMaxAttempts int      `json:"report_max_attempts"`
	ReportTimeoutSecs int      `json:"report_timeout_seconds"`
	MaxErrorLogs      int      `json:"max_error_logs"`
	CrisisKeywords    []string `json:"crisis_keywords,omitempty"`
}

const (
	defaultReportMaxAttempts = 3
	defaultReportTimeoutSecs = 10
	defaultMaxErrorLogs      = 100
)

// EffectiveHandlerSettings returns validated handler settings with defaults.
// Invalid or missing config values fall back to safe defaults. The configured
// crisis keyword list only ever extends the built-in floor.
func EffectiveHandlerSettings() HandlerSettings {
	cfg := HandlerSettings{
		ReportMaxAttempts: defaultReportMaxAttempts,
		ReportTimeoutSecs: defaultReportTimeoutSecs,
		MaxErrorLogs:      defaultMaxErrorLogs,
	}

	s, err := LoadSettings()
	if err != nil {
		return cfg
	}

	cfg.ReportEndpoint = s.ReportEndpoint
	if v := os.Getenv("BEACON_REPORT_ENDPOINT"); v != "" {
		cfg.ReportEndpoint = v
	}
	if s.ReportMaxAttempts > 0 {
		cfg.ReportMaxAttempts = s.ReportMaxAttempts
	}
	if s.ReportTimeoutSecs > 0 {
		cfg.ReportTimeoutSecs = s.ReportTimeoutSecs
	}
	if s.MaxErrorLogs > 0 {
		cfg.MaxErrorLogs = s.MaxErrorLogs
	}
	cfg.CrisisKeywords = s.CrisisKeywords

	if cfg.ReportMaxAttempts > 10 {
		cfg.ReportMaxAttempts = 10
	}
	if cfg.MaxErrorLogs > 10000 {
		cfg.MaxErrorLogs = 10000
	}
	return cfg
}

// settingsOnce, settings, settingsErr implement the sync.Once lazy-load singleton for config.
// dbPathOverrideMu and dbPathOverride implement a mutex-protected process-wide override for CLI --db-path.
// These globals are required by the sync.Once pattern and the RWMutex pattern; they cannot be avoided.
//
//nolint:gochecknoglobals // sync.Once singleton + RWMutex override are intentional process-wide state
var (
	settingsOnce sync.Once
	settings     Settings
	settingsErr  error

	dbPathOverrideMu sync.RWMutex
	dbPathOverride   string
)

// SetDBPathOverride sets a process-wide database path override.
// Intended for CLI flag support (e.g. --db-path).
func SetDBPathOverride(path string) {
	dbPathOverrideMu.Lock()
	dbPathOverride = path
	dbPathOverrideMu.Unlock()
}

func getDBPathOverride() string {
	dbPathOverrideMu.RLock()
	v := dbPathOverride
	dbPathOverrideMu.RUnlock()
	return v
}

// LoadSettings loads configuration once using the documented lookup order.
// Lookup order (first found wins):
// 1) ~/.config/beacon/config.yaml
// 2) /etc/beacon/config.yaml
// 3) ./config.yaml (lowest priority; allows repo-local overrides if desired)
// Environment variables are handled separately.
func LoadSettings() (Settings, error) {
	settingsOnce.Do(func() {
		settings = Settings{}

		// 1) User config (~/.config/beacon/config.yaml)
		dir, err := ConfigDir()
		if err != nil {
			settingsErr = err
			return
		}
		if s, err := loadSettingsFile(filepath.Join(dir, "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		// 2) /etc
		if s, err := loadSettingsFile(filepath.Join(string(os.PathSeparator), "etc", "beacon", "config.yaml")); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}

		// 3) Local ./config.yaml (lowest priority)
		if s, err := loadSettingsFile("config.yaml"); err == nil {
			settings = s
			return
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			settingsErr = err
			return
		}
	})

	return settings, settingsErr
}

func loadSettingsFile(path string) (Settings, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, err
	}

	var s Settings
	if err := yaml.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
