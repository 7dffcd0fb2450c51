package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, LoggingConfig{Level: "info", Format: "text"}, cfg.Logging)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, configPath, "database:\n  path: /var/lib/coursebook.db\nlogging:\n  level: DEBUG\n")

	cfg, path, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, "/var/lib/coursebook.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
}

func TestLoadFromPathJSONC(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "coursebook.jsonc")
	writeFile(t, configPath, `{
  // listener
  "server": {"addr": ":9090", "read_timeout": "15s",},
  /* storage */
  "database": {"path": "/tmp/students.db"},
}
`)

	cfg, _, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration())
	assert.Equal(t, "/tmp/students.db", cfg.Database.Path)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err, "missing file")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "server: [unclosed")
	_, _, err = LoadFromPath(bad)
	assert.Error(t, err, "malformed YAML")

	invalid := filepath.Join(dir, "invalid.yaml")
	writeFile(t, invalid, "logging:\n  format: xml\n")
	_, _, err = LoadFromPath(invalid)
	assert.Error(t, err, "unsupported log format")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{"info text", "info", "text", false},
		{"debug json", "debug", "json", false},
		{"warn", "warn", "text", false},
		{"upper case", "DEBUG", "JSON", false},
		{"mixed case", "Warn", "Text", false},
		{"bad level", "loud", "text", true},
		{"bad format", "info", "xml", true},
		{"empty format", "info", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Logging.Level = tt.level
			cfg.Logging.Format = tt.format
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"key":"value"`)

	buf.Reset()
	LoggingConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestNewLoggerIgnoresCase(t *testing.T) {
	var buf bytes.Buffer
	LoggingConfig{Level: "DEBUG", Format: "JSON"}.NewLogger(&buf).Debug("loud")
	assert.Contains(t, buf.String(), `"msg":"loud"`)
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:9000"
	cfg.Server.WriteTimeout = Duration(45 * time.Second)
	cfg.Logging.Format = "json"
	require.NoError(t, cfg.Save(configPath))

	loaded, _, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// isolate points every search location at empty temp directories
func isolate(t *testing.T) (workDir, xdgHome, home string) {
	t.Helper()
	workDir, xdgHome, home = t.TempDir(), t.TempDir(), t.TempDir()
	t.Chdir(workDir)
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", xdgHome)
	t.Setenv("HOME", home)
	return workDir, xdgHome, home
}

func TestFindConfigPath(t *testing.T) {
	t.Run("working directory", func(t *testing.T) {
		workDir, _, _ := isolate(t)
		want := filepath.Join(workDir, "coursebook.yaml")
		require.NoError(t, DefaultConfig().Save(want))

		assert.Equal(t, want, FindConfigPath())

		t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
		assert.Equal(t, want, FindConfigPath(), "missing explicit path falls through")

		explicit := filepath.Join(t.TempDir(), "explicit.yaml")
		require.NoError(t, DefaultConfig().Save(explicit))
		t.Setenv(EnvConfigPath, explicit)
		assert.Equal(t, explicit, FindConfigPath())
	})

	t.Run("jsonc in working directory", func(t *testing.T) {
		workDir, _, _ := isolate(t)
		want := filepath.Join(workDir, "coursebook.jsonc")
		writeFile(t, want, `{"server": {"addr": ":7070"}, // local
}`)

		found := FindConfigPath()
		require.Equal(t, want, found)
		cfg, _, err := LoadFromPath(found)
		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.Server.Addr)
	})

	t.Run("yaml wins over json in one location", func(t *testing.T) {
		workDir, _, _ := isolate(t)
		writeFile(t, filepath.Join(workDir, "coursebook.json"), `{}`)
		writeFile(t, filepath.Join(workDir, "coursebook.yml"), "version: 1\n")

		assert.Equal(t, filepath.Join(workDir, "coursebook.yml"), FindConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		_, xdgHome, home := isolate(t)
		writeFile(t, filepath.Join(home, ".config", "coursebook", "config.yaml"), "version: 1\n")
		want := filepath.Join(xdgHome, "coursebook", "config.json")
		writeFile(t, want, `{"version": 1}`)

		assert.Equal(t, want, FindConfigPath())
	})

	t.Run("home config", func(t *testing.T) {
		_, _, home := isolate(t)
		want := filepath.Join(home, ".config", "coursebook", "config.jsonc")
		writeFile(t, want, `{"version": 1}`)

		assert.Equal(t, want, FindConfigPath())
	})

	t.Run("directory named like a config", func(t *testing.T) {
		workDir, _, _ := isolate(t)
		require.NoError(t, os.Mkdir(filepath.Join(workDir, "coursebook.yaml"), 0755))

		assert.Empty(t, FindConfigPath())
	})
}

func TestDefaultConfigPath(t *testing.T) {
	_, xdgHome, home := isolate(t)
	assert.Equal(t, filepath.Join(xdgHome, "coursebook", "config.yaml"), DefaultConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	assert.Equal(t, filepath.Join(home, ".config", "coursebook", "config.yaml"), DefaultConfigPath())

	t.Setenv("HOME", "")
	assert.Equal(t, "coursebook.yaml", DefaultConfigPath())
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, d.Duration())

	marshaled, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", marshaled)
}
