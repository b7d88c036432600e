// Package logger provides the structured logging constructor shared by every
// subsystem in this module. It wraps zap behind a single New function so that
// callers never reach for the global logger and every component receives its
// own named, injectable *zap.SugaredLogger, matching the dependency-injection
// pattern used throughout the rest of the module.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-style structured logger scoped to service, suitable
// for passing to filter.New (pkg/predicatefilter.New does exactly that).
// Output goes to stderr so it never interleaves with a
// caller's stdout protocol.
func New(service string) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stderr),
		zap.NewAtomicLevelAt(zapcore.InfoLevel),
	)

	return zap.New(core).Named(service).Sugar()
}

// NewDevelopment builds a human-readable, debug-level logger intended for
// local development and test fixtures where console output matters more than
// log aggregation.
func NewDevelopment(service string) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		// zap.NewDevelopmentConfig().Build() only fails on a malformed
		// config; our literal config is always valid, so fall back to a
		// no-op logger rather than panicking a caller.
		return zap.NewNop().Sugar()
	}

	return l.Named(service).Sugar()
}
