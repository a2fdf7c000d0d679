package main

import (
	"bytes"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"quote-favorites/internal/config"
	"quote-favorites/internal/favorites"
	"quote-favorites/internal/logger"
	"quote-favorites/internal/store"
)

func captureStdLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return &buf
}

func TestBootstrapLogger_ReportsInitError(t *testing.T) {
	buf := captureStdLog(t)
	initLogger = func(string, string) error { return errors.New("open sink: permission denied") }
	t.Cleanup(func() { initLogger = logger.Init })

	bootstrapLogger()

	assert.Contains(t, buf.String(), "bootstrap logger error: open sink: permission denied")
	assert.NotNil(t, logger.Get())
}

func TestBootstrapLogger_Success(t *testing.T) {
	buf := captureStdLog(t)

	bootstrapLogger()

	assert.Empty(t, buf.String())
	assert.True(t, logger.Get().Desugar().Core().Enabled(zapcore.InfoLevel))
}

func TestOpenSlot_Backends(t *testing.T) {
	cfg := config.Default()

	cfg.Favorites.Backend = config.BackendMemory
	slot, closeSlot, err := openSlot(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &favorites.MemorySlot{}, slot)
	assert.NoError(t, closeSlot())

	cfg.Favorites.Backend = config.BackendSQLite
	cfg.Store.Sqlite.Path = t.TempDir() + "/favorites.db"
	slot, closeSlot, err = openSlot(&cfg)
	require.NoError(t, err)
	assert.IsType(t, &store.Store{}, slot)
	assert.NoError(t, closeSlot())
}
