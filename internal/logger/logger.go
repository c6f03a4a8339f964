/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package logger provides the process-wide structured logger.
// It can be silenced for the MCP stdio server, where stdout carries the protocol.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Log formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures the logger.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string

	// Format is FormatConsole or FormatJSON. Empty means console.
	Format string

	// Writer defaults to stderr.
	Writer io.Writer
}

var (
	mu     sync.RWMutex
	opts   = Options{Writer: os.Stderr}
	logger = build(opts, zerolog.InfoLevel)
)

func build(o Options, level zerolog.Level) zerolog.Logger {
	w := o.Writer
	if w == nil {
		w = os.Stderr
	}
	if o.Format == FormatJSON {
		return zerolog.New(w).Level(level).With().Timestamp().Logger()
	}
	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}
	return zerolog.New(console).Level(level)
}

// Configure replaces the logger settings.
func Configure(o Options) error {
	level := zerolog.InfoLevel
	if o.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(o.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
		level = parsed
	}
	switch o.Format {
	case "", FormatConsole, FormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: expected %s or %s", o.Format, FormatConsole, FormatJSON)
	}

	mu.Lock()
	defer mu.Unlock()
	opts = o
	logger = build(o, level)
	return nil
}

// SetOutput redirects log output, keeping level and format.
// Use io.Discard to silence all logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	opts.Writer = w
	logger = build(opts, logger.GetLevel())
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	l := current()
	l.Warn().Msgf(format, args...)
}

// WarnFields logs a warning carrying structured fields.
func WarnFields(msg string, fields map[string]any) {
	l := current()
	l.Warn().Fields(fields).Msg(msg)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	l := current()
	l.Info().Msgf(format, args...)
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	l := current()
	l.Debug().Msgf(format, args...)
}

// Error logs an error with a message.
func Error(err error, format string, args ...any) {
	l := current()
	event := l.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msgf(format, args...)
}
