package logger

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "console", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.OTelBridge)
	assert.NotEmpty(t, cfg.TimeFormat)
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig()

	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
}

func TestNew(t *testing.T) {
	t.Run("stderr and stdout", func(t *testing.T) {
		for _, output := range []string{"stderr", "stdout", ""} {
			cfg := DefaultConfig()
			cfg.Output = output
			l, err := New(cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		}
	})

	t.Run("file output", func(t *testing.T) {
		cfg := ProductionConfig()
		cfg.Output = filepath.Join(t.TempDir(), "stocky.log")

		l, err := New(cfg)
		require.NoError(t, err)
		l.Info("written")
		require.NoError(t, l.Sync())
	})

	t.Run("unwritable file is an error", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Output = filepath.Join(t.TempDir(), "missing", "dir", "stocky.log")

		_, err := New(cfg)
		assert.Error(t, err)
	})

	t.Run("bridge tee keeps the base output", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := ProductionConfig()
		cfg.OTelBridge = true

		l := NewWithWriter(cfg, &buf)
		l.Info("bridged", zap.String("intent", "balance"))

		assert.Contains(t, buf.String(), `"intent":"balance"`)
	})
}

func TestNewForEnvironment(t *testing.T) {
	l, err := NewForEnvironment("production")
	require.NoError(t, err)
	assert.NotNil(t, l)

	l, err = NewForEnvironment("development")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	cfg := ProductionConfig()
	cfg.Level = "warn"

	l := NewWithWriter(cfg, &buf)
	l.Info("dropped")
	l.Warn("kept", zap.Int("records", 3))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, float64(3), entry["records"])
	assert.Contains(t, entry, "caller")
}

func TestLevelFilterCore(t *testing.T) {
	var buf bytes.Buffer
	base := zapcore.NewCore(createEncoder(ProductionConfig()), zapcore.AddSync(&buf), zapcore.DebugLevel)
	filtered := &levelFilterCore{Core: base, minLevel: zapcore.WarnLevel}

	assert.False(t, filtered.Enabled(zapcore.InfoLevel))
	assert.True(t, filtered.Enabled(zapcore.ErrorLevel))

	l := zap.New(filtered.With([]zapcore.Field{zap.String("k", "v")}))
	l.Info("skip")
	l.Error("keep")

	assert.NotContains(t, buf.String(), "skip")
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	l := Named(NewWithWriter(ProductionConfig(), &buf), "kvstore")
	l.Info("hello")

	assert.Contains(t, buf.String(), `"logger":"kvstore"`)
}
