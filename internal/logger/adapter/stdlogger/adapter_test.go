package stdlogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/logger/adapter/stdlogger"
)

func captureGlobal(t *testing.T, level zerolog.Level) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer

	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(level)

	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})

	return &buf
}

func TestLevels(t *testing.T) {
	buf := captureGlobal(t, zerolog.InfoLevel)

	l := stdlogger.New()
	l.Debugf("hidden %s", "debug")
	l.Infof("shown %s", "info")
	l.Warningf("shown %d", 2)
	l.Errorf("shown %v", "error")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var entry map[string]any

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "shown info", entry["message"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	assert.Equal(t, "error", entry["level"])
}

func TestPrintf(t *testing.T) {
	buf := captureGlobal(t, zerolog.DebugLevel)

	l := &stdlogger.Logger{PrintLevel: zerolog.InfoLevel, Component: "gorm"}
	l.Printf("\n[%.3fms] [rows:%d] %s", 1.5, 1, "INSERT INTO zone_files")

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "gorm", entry["component"])
	assert.Equal(t, "[1.500ms] [rows:1] INSERT INTO zone_files", entry["message"])
}
