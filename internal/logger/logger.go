// Package logger holds the process-wide zap logger for the recipebook
// service. Handlers, services, and repositories all log through the
// global Log instead of threading a logger through every constructor.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global SugaredLogger. It starts as a no-op so packages can
// log during tests without any setup; main replaces it via Initialize.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Initialize builds a production logger at the given level, with
// ISO8601 timestamps, and installs it as Log.
func Initialize(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = l.Sugar()
	return nil
}
