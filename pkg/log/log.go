// Package log builds the zerolog loggers used by the engine and the CLI.
package log

import (
	"io"

	"github.com/etwodev/srvconf/pkg/config"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// TimeFormat is the timestamp layout of the console writer.
const TimeFormat = "2006-01-02T15:04:05"

// New returns a logger tagged with group. Development mode writes colored
// console output at debug level; production writes JSON lines at info level.
//
// Example usage:
//
//	logger := log.New(settings.Mode, os.Stdout, "srvconf-engine")
//	logger.Info().Msg("starting")
func New(mode config.Mode, w io.Writer, group string) zerolog.Logger {
	if mode == config.Production {
		return zerolog.New(w).
			Level(zerolog.InfoLevel).
			With().Timestamp().Str("Group", group).Logger()
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: TimeFormat,
	}).Level(zerolog.DebugLevel).
		With().Timestamp().Str("Group", group).Logger()
}

// FileWriter returns a size-rotated log file. maxSizeMB and maxBackups
// follow lumberjack: a zero size means its built-in default, and zero or
// negative backups keep every rotated file.
func FileWriter(path string, maxSizeMB, maxBackups int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		Compress:   true,
		LocalTime:  true,
	}
}
