// Package logger holds the process-wide structured logger.
package logger

import "go.uber.org/zap"

var global *zap.SugaredLogger

// Init installs z as the logger returned by Logger.
func Init(z *zap.SugaredLogger) { global = z }

// Logger returns the installed logger, or a no-op logger when Init was
// never called (library use and tests).
func Logger() *zap.SugaredLogger {
	if global == nil {
		return zap.NewNop().Sugar()
	}
	return global
}
