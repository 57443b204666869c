package logger

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Init builds the process logger for the given environment and installs it
// as zap's global. The returned func flushes buffered entries.
func Init(environment string) (*zap.Logger, func()) {
	var (
		l   *zap.Logger
		err error
	)
	if environment == "development" {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(l)

	return l, func() {
		// Sync on stdout/stderr fails on some terminals; nothing to do about it.
		_ = l.Sync()
	}
}

// L returns the process logger.
func L() *zap.Logger {
	return zap.L()
}

func Info(format string, v ...interface{}) {
	zap.S().Infof(format, v...)
}

func Error(format string, v ...interface{}) {
	zap.S().Errorf(format, v...)
}

func Debug(format string, v ...interface{}) {
	zap.S().Debugf(format, v...)
}

func Warn(format string, v ...interface{}) {
	zap.S().Warnf(format, v...)
}
