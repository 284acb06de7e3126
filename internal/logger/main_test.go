package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/logger"
)

func TestInit(t *testing.T) {
	testCases := []struct {
		name       string
		cfg        logger.Log
		wantOutput bool
		wantJSON   bool
	}{
		{
			name:       "nothing enabled",
			cfg:        logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"},
			wantOutput: false,
		},
		{
			name: "console json",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true},
			},
			wantOutput: true,
			wantJSON:   true,
		},
		{
			name: "console writer",
			cfg: logger.Log{
				LogLevel: "info", ServiceName: "test", AppName: "test",
				Console: logger.Console{Enabled: true, UseConsoleWriter: true},
			},
			wantOutput: true,
		},
		{
			name: "trace with caller and stack",
			cfg: logger.Log{
				LogLevel: "trace", ServiceName: "test", AppName: "test", ReportCaller: true,
				Console: logger.Console{Enabled: true},
			},
			wantOutput: true,
			wantJSON:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := capture(t, tc.cfg)

			if !tc.wantOutput {
				assert.Empty(t, out)
				return
			}

			require.NotEmpty(t, out)

			if tc.wantJSON {
				for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
					var entry map[string]any
					require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
					assert.Equal(t, "test", entry["app"])
				}
			}
		})
	}
}

func TestInitErrors(t *testing.T) {
	require.Error(t, logger.Init(logger.Log{LogLevel: "loud", ServiceName: "s", AppName: "a"}))
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", AppName: "a"}), logger.ErrServiceNameIsEmpty)
	require.ErrorIs(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "s"}), logger.ErrAppNameIsEmpty)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	err := logger.Init(logger.Log{
		LogLevel: "info", ServiceName: "s", AppName: "a",
		File: logger.LogFile{Enabled: true, Path: filepath.Join(blocker, "log")},
	})
	require.ErrorIs(t, err, logger.ErrLogDir)
}

func TestVerbose(t *testing.T) {
	require.NoError(t, logger.Init(logger.Log{LogLevel: "warn", Verbose: true, ServiceName: "test", AppName: "test"}))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	require.NoError(t, logger.Init(logger.Log{LogLevel: "trace", Verbose: true, ServiceName: "test", AppName: "test"}))
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestLevelWriter(t *testing.T) {
	var errBuf, infoBuf, traceBuf, warnBuf bytes.Buffer

	lw := &logger.LevelWriter{ErrorWriter: &errBuf, InfoWriter: &infoBuf, TraceWriter: &traceBuf, WarnWriter: &warnBuf}

	l := zerolog.New(lw).Level(zerolog.TraceLevel)
	l.Trace().Msg("t")
	l.Debug().Msg("d")
	l.Info().Msg("i")
	l.Warn().Msg("w")
	l.Error().Msg("e")

	assert.Equal(t, 1, strings.Count(traceBuf.String(), "\n"))
	assert.Equal(t, 2, strings.Count(infoBuf.String(), "\n"))
	assert.Equal(t, 1, strings.Count(warnBuf.String(), "\n"))
	assert.Equal(t, 1, strings.Count(errBuf.String(), "\n"))
}

func TestLogStatements(t *testing.T) {
	require.NoError(t, logger.Init(logger.Log{LogLevel: "info", ServiceName: "test", AppName: "test"}))

	before := logger.LogStatements(zerolog.WarnLevel)
	log.Warn().Msg("counted")
	assert.InDelta(t, before+1, logger.LogStatements(zerolog.WarnLevel), 0)
}

func capture(t *testing.T, cfg logger.Log) string {
	t.Helper()

	stdout, stderr := os.Stdout, os.Stderr

	r, w, err := os.Pipe()
	require.NoError(t, err)

	os.Stdout, os.Stderr = w, w

	initErr := logger.Init(cfg)

	log.Info().Msg("info message")
	log.Error().Err(errors.New("a test error")).Msg("error message") //nolint:err113

	outC := make(chan string)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout, os.Stderr = stdout, stderr

	out := <-outC

	require.NoError(t, initErr)

	return out
}
