/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logging_test.go
Description: Tests for logger construction and the custom formatter. Covers
config validation, level and format selection, file duplication, timestamp and
color rendering, and stable field ordering.
*/

package logging_test

import (
	"os"
	"testing"
	"time"

	"github.com/kleascm/akaylee-identifier/pkg/logging"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoggerConfigValidate tests format and level validation
func TestLoggerConfigValidate(t *testing.T) {
	valid := &logging.LoggerConfig{Level: logging.LogLevelInfo, Format: logging.LogFormatJSON}
	require.NoError(t, valid.Validate())

	badFormat := &logging.LoggerConfig{Level: logging.LogLevelInfo, Format: "xml"}
	require.Error(t, badFormat.Validate())

	badLevel := &logging.LoggerConfig{Level: "loud", Format: logging.LogFormatJSON}
	require.Error(t, badLevel.Validate())
}

// TestNewLogger tests logger construction per format and level
func TestNewLogger(t *testing.T) {
	for _, format := range []logging.LogFormat{
		logging.LogFormatJSON, logging.LogFormatText, logging.LogFormatCustom,
	} {
		logger, err := logging.NewLogger(&logging.LoggerConfig{
			Level:  logging.LogLevelDebug,
			Format: format,
		})
		require.NoError(t, err)
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	}

	_, err := logging.NewLogger(&logging.LoggerConfig{Level: "loud", Format: logging.LogFormatJSON})
	require.Error(t, err)

	// A nil config falls back to sensible defaults.
	logger, err := logging.NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

// TestNewLoggerFileOutput tests duplication into a timestamped file
func TestNewLoggerFileOutput(t *testing.T) {
	dir := t.TempDir()
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:     logging.LogLevelInfo,
		Format:    logging.LogFormatJSON,
		OutputDir: dir,
	})
	require.NoError(t, err)

	logger.Info("identification started")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "identifier_")

	data, err := os.ReadFile(dir + "/" + entries[0].Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "identification started")
}

// TestCustomFormatter tests the rendered entry shape
func TestCustomFormatter(t *testing.T) {
	formatter := &logging.CustomFormatter{Timestamp: true, Colors: false}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "leaf reached",
		Data:    logrus.Fields{"candidates": 2, "iteration": 1},
	}

	output, err := formatter.Format(entry)
	require.NoError(t, err)

	line := string(output)
	assert.Contains(t, line, "2026-03-14 09:26:53.000")
	assert.Contains(t, line, "INFO leaf reached")
	assert.Contains(t, line, "[candidates=2 iteration=1]", "fields render in stable key order")
	assert.NotContains(t, line, "\033[", "colors are off")
}

// TestCustomFormatterColors tests ANSI color rendering
func TestCustomFormatterColors(t *testing.T) {
	formatter := &logging.CustomFormatter{Colors: true}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.ErrorLevel,
		Message: "transport fault",
	}

	output, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(output), "\033[31mERROR\033[0m")
}
