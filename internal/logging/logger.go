// Package logging provides the runtime.Logger used outside of Nakama, backed by zap.
package logging

import (
	"fmt"
	"sort"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ runtime.Logger = (*Logger)(nil)

// Logger adapts a zap logger to the printf-style runtime.Logger interface.
type Logger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	fields map[string]interface{}
}

// New builds a production logger at the given level ("debug", "info", "warn", "error").
// json selects the JSON encoder over the console one.
func New(level string, json bool) (*Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if !json {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return Wrap(base), nil
}

// Wrap adapts an existing zap logger.
func Wrap(base *zap.Logger) *Logger {
	return &Logger{base: base, sugar: base.Sugar(), fields: map[string]interface{}{}}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return Wrap(zap.NewNop())
}

func (l *Logger) Debug(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }

func (l *Logger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *Logger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		merged[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	zf := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		zf = append(zf, zap.Any(k, fields[k]))
	}
	base := l.base.With(zf...)
	return &Logger{base: base, sugar: base.Sugar(), fields: merged}
}

func (l *Logger) Fields() map[string]interface{} {
	return l.fields
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.base.Sync()
}
