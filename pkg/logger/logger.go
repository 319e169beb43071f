// Package logger envuelve slog con una instancia global y rotación de
// ficheros opcional.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configura el logger de la aplicación.
type Options struct {
	Level    string // debug, info, warn, error
	Format   string // json, text
	Output   string // stdout, file
	FilePath string
	// Rotación (solo con Output = file).
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger envuelve slog.Logger.
type Logger struct {
	*slog.Logger
}

var logger *Logger

// Init inicializa la instancia global.
func Init(opts Options) error {
	var level slog.Level
	switch opts.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var writer io.Writer
	switch opts.Output {
	case "file":
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0755); err != nil {
			return err
		}
		writer = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
	default:
		writer = os.Stdout
	}

	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: opts.Level == "debug",
	}

	var handler slog.Handler
	if opts.Format == "text" {
		handler = slog.NewTextHandler(writer, hopts)
	} else {
		handler = slog.NewJSONHandler(writer, hopts)
	}

	logger = &Logger{Logger: slog.New(handler)}
	return nil
}

// Get devuelve la instancia global; si no se ha inicializado, usa el
// logger por defecto de slog.
func Get() *Logger {
	if logger == nil {
		return &Logger{Logger: slog.Default()}
	}
	return logger
}

func Debug(msg string, args ...any) { Get().Debug(msg, args...) }
func Info(msg string, args ...any)  { Get().Info(msg, args...) }
func Warn(msg string, args ...any)  { Get().Warn(msg, args...) }
func Error(msg string, args ...any) { Get().Error(msg, args...) }
