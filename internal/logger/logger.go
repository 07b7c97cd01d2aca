// Package logger wraps a process-wide charmbracelet logger that writes to a
// rotating file under the config directory.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/envsync/internal/constants"
)

// Logger is the global logger instance. Nil until Init or InitWriter runs.
var Logger *log.Logger

type Config struct {
	Debug bool
	// Level overrides the level implied by Debug ("debug", "info", "warn", "error").
	Level     string
	ConfigDir string
	// Stderr forces log output to stderr even outside debug mode (daemon foreground runs).
	Stderr bool
}

func (cfg Config) level() (log.Level, error) {
	if cfg.Level != "" {
		lvl, err := log.ParseLevel(cfg.Level)
		if err != nil {
			return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		return lvl, nil
	}
	if cfg.Debug {
		return log.DebugLevel, nil
	}
	return log.InfoLevel, nil
}

// Path returns the log file location for a config directory.
func Path(configDir string) string {
	return filepath.Join(configDir, constants.LogDirName, constants.LogFileName)
}

// Init initializes the global logger with the given configuration
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	path := Path(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var writer io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	if cfg.Debug || cfg.Stderr {
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// InitWriter points the global logger at an arbitrary writer. Used by tests and the TUI.
func InitWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: constants.AppName,
	})
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
