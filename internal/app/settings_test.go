package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadSettings_PrefersUserConfigOverLocal(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	workdir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	userConfigPath := filepath.Join(home, ".config", "beacon", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfigPath), 0o755))
	require.NoError(t, os.WriteFile(userConfigPath, []byte("db_path: /tmp/from-user.db\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(workdir, "config.yaml"), []byte("db_path: /tmp/from-local.db\n"), 0o600))

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-user.db", s.DBPath)
}

func TestLoadSettings_FallsBackToLocalConfig(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	workdir := t.TempDir()
	oldwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(workdir))
	t.Cleanup(func() { _ = os.Chdir(oldwd) })

	require.NoError(t, os.WriteFile(filepath.Join(workdir, "config.yaml"), []byte("db_path: /tmp/from-local.db\n"), 0o600))

	s, err := LoadSettings()
	require.NoError(t, err)
	require.Equal(t, "/tmp/from-local.db", s.DBPath)
}

func TestLoadSettings_InvalidYAMLReturnsError(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	userConfigPath := filepath.Join(home, ".config", "beacon", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfigPath), 0o755))
	require.NoError(t, os.WriteFile(userConfigPath, []byte("db_path: ["), 0o600))

	_, err := LoadSettings()
	require.Error(t, err)
}

func TestLoadSettingsFile_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/read.db\n"), 0o600))

	s, err := loadSettingsFile(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/read.db", s.DBPath)
}

func TestLoadSettingsFile_ReadsHandlerFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "report_endpoint: https://reports.example.com/v1/errors\n" +
		"report_max_attempts: 5\n" +
		"report_timeout_seconds: 20\n" +
		"max_error_logs: 250\n" +
		"crisis_keywords:\n  - custom phrase\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := loadSettingsFile(path)
	require.NoError(t, err)
	require.Equal(t, "https://reports.example.com/v1/errors", s.ReportEndpoint)
	require.Equal(t, 5, s.ReportMaxAttempts)
	require.Equal(t, 20, s.ReportTimeoutSecs)
	require.Equal(t, 250, s.MaxErrorLogs)
	require.Equal(t, []string{"custom phrase"}, s.CrisisKeywords)
}

func TestEffectiveHandlerSettings_DefaultsAndClamp(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)

	// No config file: defaults
	cfg := EffectiveHandlerSettings()
	require.Equal(t, 3, cfg.ReportMaxAttempts)
	require.Equal(t, 10, cfg.ReportTimeoutSecs)
	require.Equal(t, 100, cfg.MaxErrorLogs)
	require.Empty(t, cfg.ReportEndpoint)

	// Out-of-range config values should be clamped/sanitized
	userConfigPath := filepath.Join(home, ".config", "beacon", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfigPath), 0o755))
	require.NoError(t, os.WriteFile(userConfigPath, []byte(strings.Join([]string{
		"report_max_attempts: 99",
		"max_error_logs: 99999",
		"",
	}, "\n")), 0o600))

	resetSettingsStateForTest()
	cfg = EffectiveHandlerSettings()
	require.Equal(t, 10, cfg.ReportMaxAttempts)
	require.Equal(t, 10000, cfg.MaxErrorLogs)
}

func TestEffectiveHandlerSettings_EnvEndpointOverride(t *testing.T) {
	resetSettingsStateForTest()
	t.Cleanup(resetSettingsStateForTest)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("BEACON_REPORT_ENDPOINT", "https://env.example.com/errors")

	userConfigPath := filepath.Join(home, ".config", "beacon", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(userConfigPath), 0o755))
	require.NoError(t, os.WriteFile(userConfigPath, []byte("report_endpoint: https://file.example.com/errors\n"), 0o600))

	cfg := EffectiveHandlerSettings()
	require.Equal(t, "https://env.example.com/errors", cfg.ReportEndpoint)
}
