// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of Cilium

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cilium/ipsec-vectors/pkg/logging/logfields"
)

// logrErrorKey is the key used by the logr library for the error parameter.
const logrErrorKey = "err"

const (
	// LevelOpt is the option key for the log level
	LevelOpt = "level"
	// FormatOpt is the option key for the log format
	FormatOpt = "format"
)

type LogFormat string

const (
	LogFormatText          LogFormat = "text"
	LogFormatTextTimestamp LogFormat = "text-ts"
	LogFormatJSON          LogFormat = "json"
	LogFormatJSONTimestamp LogFormat = "json-ts"

	DefaultLogFormat LogFormat = LogFormatText
	DefaultLogLevel            = slog.LevelInfo
)

// LogOptions maps configuration key-value pairs related to logging.
type LogOptions map[string]string

// GetLogLevel returns the log level specified in the provided LogOptions. If
// it is not set in the options or is invalid, it will return the default level.
func (o LogOptions) GetLogLevel() slog.Level {
	switch strings.ToLower(o[LevelOpt]) {
	case "debug", "trace":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal", "panic":
		return slog.LevelError
	default:
		return DefaultLogLevel
	}
}

// GetLogFormat returns the log format specified in the provided LogOptions. If
// it is not set in the options or is invalid, it will return the default format.
func (o LogOptions) GetLogFormat() LogFormat {
	switch f := LogFormat(strings.ToLower(o[FormatOpt])); f {
	case LogFormatText, LogFormatTextTimestamp, LogFormatJSON, LogFormatJSONTimestamp:
		return f
	default:
		return DefaultLogFormat
	}
}

var slogHandlerOpts = &slog.HandlerOptions{
	AddSource:   false,
	Level:       DefaultLogLevel,
	ReplaceAttr: ReplaceAttrFnWithoutTimestamp,
}

// DefaultSlogLogger is used until NewLogger is called by the command.
var DefaultSlogLogger *slog.Logger = slog.New(slog.NewTextHandler(
	os.Stderr,
	slogHandlerOpts,
))

// NewLogger builds a logger writing to w according to logOpts.
func NewLogger(w io.Writer, logOpts LogOptions) *slog.Logger {
	opts := *slogHandlerOpts
	opts.Level = logOpts.GetLogLevel()
	if opts.Level == slog.LevelDebug {
		opts.AddSource = true
	}

	logFormat := logOpts.GetLogFormat()
	switch logFormat {
	case LogFormatJSON, LogFormatText:
		opts.ReplaceAttr = ReplaceAttrFnWithoutTimestamp
	case LogFormatJSONTimestamp, LogFormatTextTimestamp:
		opts.ReplaceAttr = replaceAttrFn
	}

	switch logFormat {
	case LogFormatJSON, LogFormatJSONTimestamp:
		return slog.New(slog.NewJSONHandler(w, &opts))
	default:
		return slog.New(slog.NewTextHandler(w, &opts))
	}
}

func ReplaceAttrFn(groups []string, a slog.Attr) slog.Attr {
	return replaceAttrFn(groups, a)
}

func replaceAttrFn(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
	case slog.LevelKey:
		// Lower-case the log level
		return slog.Attr{
			Key:   a.Key,
			Value: slog.StringValue(strings.ToLower(a.Value.String())),
		}
	case logrErrorKey:
		// Uniform the attribute identifying the error
		return slog.Attr{
			Key:   logfields.Error,
			Value: a.Value,
		}
	}
	return a
}

func ReplaceAttrFnWithoutTimestamp(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		// Drop timestamps
		return slog.Attr{}
	default:
		return replaceAttrFn(groups, a)
	}
}
