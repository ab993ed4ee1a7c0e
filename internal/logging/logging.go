// Package logging builds the zap logger and scoped run announcements.
package logging

import (
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Name is the root logger name.
const Name = "wakagist"

// ParseLevel maps a level name to a zap level. Empty means debug;
// unknown names fall back to info.
func ParseLevel(s string) zapcore.Level {
	s = strings.TrimSpace(s)
	if s == "" {
		return zapcore.DebugLevel
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// New returns a console logger writing to w.
func New(w io.Writer, level zapcore.Level) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "time"
	encCfg.FunctionKey = "func"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder
	encCfg.ConsoleSeparator = " - "
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core, zap.AddCaller()).Named(Name)
}

// Scope logs the start of op and returns a func that logs its end.
// Defer the returned func so the end record fires on every exit path.
func Scope(logger *zap.Logger, op string, fields ...zap.Field) func() {
	start := time.Now()
	logger.Info(op+" start", fields...)
	return func() {
		logger.Info(op+" end", append(fields[:len(fields):len(fields)], zap.Duration("elapsed", time.Since(start)))...)
	}
}
