package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture points the package logger at a text buffer gated by the shared
// level, and restores the previous state when the test ends.
func capture(t *testing.T, base slog.Level) *bytes.Buffer {
	t.Helper()
	prevLogger, prevBase := logger, baseLevel
	t.Cleanup(func() {
		logger, baseLevel = prevLogger, prevBase
		level.Set(prevBase)
	})

	var buf bytes.Buffer
	baseLevel = base
	level.Set(base)
	logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level, ReplaceAttr: replaceLevelName}))
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file keeps defaults", func(t *testing.T) {
		cfg, err := LoadConfig("nonexistent.yaml")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
		assert.Equal(t, DefaultFilePath, cfg.FilePath)
	})

	t.Run("logging section of the daemon config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`skills_dir: data/skills
logging:
  level: DEBUG
  console_format: json
  file_enabled: true
  file_path: test.log
  file_max_size_mb: 20
`), 0644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "DEBUG", cfg.Level)
		assert.Equal(t, "json", cfg.ConsoleFormat)
		assert.True(t, cfg.FileEnabled)
		assert.Equal(t, "test.log", cfg.FilePath)
		assert.Equal(t, 20, cfg.FileMaxSizeMB)
		assert.True(t, cfg.ConsoleEnabled, "absent keys keep their defaults")
		assert.Equal(t, 5, cfg.FileMaxBackups)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "ERROR")
		t.Setenv("LOG_CONSOLE_FORMAT", "json")
		t.Setenv("LOG_FILE_ENABLED", "true")
		t.Setenv("LOG_FILE_PATH", "/custom/path.log")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "ERROR", cfg.Level)
		assert.Equal(t, "json", cfg.ConsoleFormat)
		assert.True(t, cfg.FileEnabled)
		assert.Equal(t, "/custom/path.log", cfg.FilePath)
	})
}

func TestInitializeWritesRotatingJSONFile(t *testing.T) {
	prev := logger
	t.Cleanup(func() {
		logger = prev
		baseLevel = slog.LevelInfo
		level.Set(slog.LevelInfo)
	})

	path := filepath.Join(t.TempDir(), "skillsd.log")
	require.NoError(t, Initialize(Config{
		Level:          "WARNING",
		FileEnabled:    true,
		FilePath:       path,
		FileFormat:     "json",
		FileMaxSizeMB:  1,
		FileMaxBackups: 1,
	}))

	Info("Cast requested", "skill", "fireball")
	Always("Skills loaded", "loaded", 3)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1, "INFO is below the configured level")

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "ALWAYS", rec["level"])
	assert.Equal(t, "Skills loaded", rec["msg"])
	assert.Equal(t, float64(3), rec["loaded"])
}

func TestAlwaysBypassesLogLevel(t *testing.T) {
	buf := capture(t, slog.LevelError)

	Debug("debug message")
	Info("info message")
	Warning("warning message")
	Error("error message")
	Always("reload summary")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.NotContains(t, out, "warning message")
	assert.Contains(t, out, "error message")
	assert.Contains(t, out, "level=ALWAYS msg=\"reload summary\"")
}

func TestSetDebugTogglesAtRuntime(t *testing.T) {
	buf := capture(t, slog.LevelInfo)

	Debug("hidden trace")
	assert.False(t, DebugEnabled())

	SetDebug(true)
	assert.True(t, DebugEnabled())
	Debug("Cast denied by cooldown", "skill", "blink")

	SetDebug(false)
	assert.False(t, DebugEnabled())
	Debug("hidden again")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "skill=blink")
}

func TestMultiHandlerFansOutByLevel(t *testing.T) {
	var info, errs bytes.Buffer
	prev := logger
	t.Cleanup(func() { logger = prev })

	logger = slog.New(newMultiHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	).WithAttrs([]slog.Attr{slog.String("component", "engine")}))

	Info("Skills loaded", "loaded", 2)
	Error("Failed to read journal")

	assert.Contains(t, info.String(), "Skills loaded")
	assert.Contains(t, info.String(), "component=engine")
	assert.Contains(t, info.String(), "Failed to read journal")
	assert.NotContains(t, errs.String(), "Skills loaded")
	assert.Contains(t, errs.String(), "Failed to read journal")
}

func TestNilLoggerIsSilent(t *testing.T) {
	prev := logger
	t.Cleanup(func() { logger = prev })
	logger = nil

	assert.NotPanics(t, func() {
		Debug("debug")
		Info("info")
		Warning("warning")
		Error("error")
		Always("always")
	})
}
