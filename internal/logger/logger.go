// Package logger provides the shared logging capability for yevis.
//
// By default logs are written as human-readable console lines. Setting
// UNSTRUCTURED_LOGS=false switches to structured JSON output, and setting
// YEVIS_DEBUG enables debug-level logging in either mode.
package logger

import (
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func unstructuredLogs() bool {
	unstructured, err := strconv.ParseBool(os.Getenv("UNSTRUCTURED_LOGS"))
	if err != nil {
		return true
	}
	return unstructured
}

func debugEnabled() bool {
	_, ok := os.LookupEnv("YEVIS_DEBUG")
	return ok
}

// Initialize configures the package-level logger. It is safe to call more
// than once; the last call wins.
func Initialize() {
	level := zapcore.InfoLevel
	if debugEnabled() {
		level = zapcore.DebugLevel
	}

	if unstructuredLogs() {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
		l, err := config.Build()
		if err != nil {
			l = zap.NewNop()
		}
		log = l.Sugar()
		return
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	l, err := config.Build()
	if err != nil {
		l = zap.NewNop()
	}
	log = l.Sugar()
}

func logger() *zap.SugaredLogger {
	if log == nil {
		Initialize()
	}
	return log
}

// NewLogr returns a logr.Logger backed by the package logger, for libraries
// that expect the logr interface.
func NewLogr() logr.Logger {
	return zapr.NewLogger(logger().Desugar())
}

// Debug logs at debug level.
func Debug(args ...any) { logger().Debug(args...) }

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) { logger().Debugf(format, args...) }

// Info logs at info level.
func Info(args ...any) { logger().Info(args...) }

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) { logger().Infof(format, args...) }

// Warn logs at warn level.
func Warn(args ...any) { logger().Warn(args...) }

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) { logger().Warnf(format, args...) }

// Error logs at error level.
func Error(args ...any) { logger().Error(args...) }

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) { logger().Errorf(format, args...) }

// Fatalf logs a formatted message and exits with a non-zero status.
func Fatalf(format string, args ...any) { logger().Fatalf(format, args...) }
