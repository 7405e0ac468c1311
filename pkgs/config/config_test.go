package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadYaml(t *testing.T, content string) (*Configuration, error) {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	bindEnv(v)
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	return load(v)
}

func TestLoad_Defaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := loadYaml(t, "")

	require.NoError(t, err)
	assert.True(t, cfg.Printer.Enabled)
	assert.Equal(t, 4*time.Second, cfg.Printer.Idle)
	assert.Equal(t, 20*time.Millisecond, cfg.Printer.Cadence)
	assert.Equal(t, filepath.Join(home, DefaultFileName), cfg.Printer.Path)
}

func TestLoad_FromYaml(t *testing.T) {
	cfg, err := loadYaml(t, `
printer:
  enabled: false
  path: /var/spool/st.prn
  idle: 10s
  cadence: 16ms
`)

	require.NoError(t, err)
	assert.False(t, cfg.Printer.Enabled)
	assert.Equal(t, "/var/spool/st.prn", cfg.Printer.Path)
	assert.Equal(t, 10*time.Second, cfg.Printer.Idle)
	assert.Equal(t, 16*time.Millisecond, cfg.Printer.Cadence)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PRINTSINK_PRINTER_PATH", "/tmp/from-env.prn")
	t.Setenv("PRINTSINK_PRINTER_ENABLED", "false")

	cfg, err := loadYaml(t, "printer:\n  path: /tmp/from-file.prn\n")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/from-env.prn", cfg.Printer.Path)
	assert.False(t, cfg.Printer.Enabled)
}

func TestLoad_RejectsNonPositiveDurations(t *testing.T) {
	_, err := loadYaml(t, "printer:\n  idle: 0s\n")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "printer.idle")

	_, err = loadYaml(t, "printer:\n  cadence: -20ms\n")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "printer.cadence")
}

func TestNewConfig_WithoutFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())

	cfg, err := NewConfig()

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultFileName), cfg.Printer.Path)
}

func TestNewConfig_EnvironmentIsNotSaved(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	chdir(t, t.TempDir())
	t.Setenv("PRINTSINK_PRINTER_ENABLED", "false")
	t.Setenv("PRINTSINK_PRINTER_PATH", "/tmp/from-env.prn")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.False(t, cfg.Printer.Enabled)
	assert.Equal(t, "/tmp/from-env.prn", cfg.Printer.Path)

	require.NoError(t, os.Unsetenv("PRINTSINK_PRINTER_ENABLED"))
	require.NoError(t, os.Unsetenv("PRINTSINK_PRINTER_PATH"))

	cfg, err = NewConfig()
	require.NoError(t, err)
	assert.True(t, cfg.Printer.Enabled)
	assert.Equal(t, filepath.Join(home, DefaultFileName), cfg.Printer.Path)
}

func TestResolvePath(t *testing.T) {
	withHome := func() (string, error) { return "/home/st", nil }
	noHome := func() (string, error) { return "", errors.New("$HOME is not defined") }
	longHome := func() (string, error) { return "/" + strings.Repeat("h", MaxPathLength), nil }

	tests := []struct {
		name       string
		configured string
		home       func() (string, error)
		expected   string
	}{
		{name: "configured path kept", configured: "/tmp/out.prn", home: withHome, expected: "/tmp/out.prn"},
		{name: "empty path", configured: "", home: withHome, expected: filepath.Join("/home/st", DefaultFileName)},
		{name: "single character path", configured: "x", home: withHome, expected: filepath.Join("/home/st", DefaultFileName)},
		{name: "too long path", configured: strings.Repeat("p", MaxPathLength+1), home: withHome, expected: filepath.Join("/home/st", DefaultFileName)},
		{name: "no home directory", configured: "", home: noHome, expected: "." + string(filepath.Separator) + DefaultFileName},
		{name: "home directory too long", configured: "", home: longHome, expected: "." + string(filepath.Separator) + DefaultFileName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolvePath(tt.configured, tt.home))
		})
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
