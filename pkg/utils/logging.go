package utils

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger *zap.Logger
	once   sync.Once
)

// Logger returns the process-wide logger. LOG_FILE tees output to a file and
// LOG_LEVEL (debug, info, warn, error) sets the minimum level.
func Logger() *zap.Logger {
	once.Do(func() { logger = build(os.Getenv("LOG_FILE"), os.Getenv("LOG_LEVEL")) })
	return logger
}

func build(logFile, level string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)
	consoleCore := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), lvl)
	if logFile == "" {
		return zap.New(consoleCore)
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l := zap.New(consoleCore)
		l.Warn("log file unavailable, logging to stdout only", zap.String("path", logFile), zap.Error(err))
		return l
	}
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
	return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
