package util

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// InitLogger builds the process-wide logger. Production emits sampled
// JSON; everything else gets colored console output. The service name
// is stamped on every entry so logs aggregated across store terminals
// stay attributable to this process.
func InitLogger(service, env string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.InitialFields = map[string]interface{}{"service": service}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, err
	}

	logger = l
	zap.ReplaceGlobals(l)
	return l, nil
}

// GetLogger returns the process logger. Before InitLogger runs (unit
// tests, mostly) this is a no-op logger, never nil.
func GetLogger() *zap.Logger {
	return logger
}

// SyncLogger flushes any buffered log entries
func SyncLogger() {
	_ = logger.Sync()
}
