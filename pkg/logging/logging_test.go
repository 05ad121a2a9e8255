// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetLogLevel(t *testing.T) {
	opts := LogOptions{}

	// case doesn't matter with log options
	opts[LevelOpt] = "DeBuG"
	require.Equal(t, slog.LevelDebug, opts.GetLogLevel())

	opts[LevelOpt] = "warning"
	require.Equal(t, slog.LevelWarn, opts.GetLogLevel())

	opts[LevelOpt] = "Invalid"
	require.Equal(t, DefaultLogLevel, opts.GetLogLevel())
}

func TestGetLogFormat(t *testing.T) {
	opts := LogOptions{}

	// case doesn't matter with log options
	opts[FormatOpt] = "JsOn"
	require.Equal(t, LogFormatJSON, opts.GetLogFormat())

	opts[FormatOpt] = "Invalid"
	require.Equal(t, DefaultLogFormat, opts.GetLogFormat())
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogOptions{FormatOpt: "json"})

	logger.Info("ESN is not supported", "err", errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	require.Equal(t, "info", record["level"])
	require.Equal(t, "boom", record["error"])
	require.NotContains(t, record, "time")
}

func TestNewLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogOptions{LevelOpt: "warn"})

	logger.Info("dropped")
	require.Empty(t, buf.String())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "level=warn")
	require.Contains(t, buf.String(), "msg=kept")
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, LogOptions{FormatOpt: "text-ts"})

	logger.Info("hello")
	require.Contains(t, buf.String(), "time=")
}
