package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		encoding string
		level    zapcore.Level
		output   string
	}{
		{name: "defaults", opts: Options{}, encoding: "console", level: zapcore.InfoLevel, output: "stderr"},
		{name: "json debug", opts: Options{JSON: true, Debug: true}, encoding: "json", level: zapcore.DebugLevel, output: "stderr"},
		{name: "custom output", opts: Options{Output: " /tmp/cv.log "}, encoding: "console", level: zapcore.InfoLevel, output: "/tmp/cv.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config(tt.opts)
			assert.Equal(t, tt.encoding, cfg.Encoding)
			assert.Equal(t, tt.level, cfg.Level.Level())
			assert.Equal(t, []string{tt.output}, cfg.OutputPaths)
			assert.Equal(t, "step", cfg.EncoderConfig.MessageKey)
		})
	}
}

func TestBuildWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.log")

	log, err := Build(Options{JSON: true, Output: path})
	require.NoError(t, err)

	log.Info("document text extracted", zap.String(FieldFilename, "ana.pdf"))
	log.Debug("hidden at info level")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "document text extracted", entry["step"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "ana.pdf", entry[FieldFilename])
}
