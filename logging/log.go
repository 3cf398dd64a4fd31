// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is a wrapper over the zap logger which keeps track of its
// configuration so child loggers can change level independently.
type Logger struct {
	*zap.Logger
	config *zap.Config
	sink   zapcore.WriteSyncer
	name   string
	fields []zap.Field
}

// New builds a logger from a zap core and the configuration used to create it.
func New(core zapcore.Core, cfg *zap.Config, sink zapcore.WriteSyncer) *Logger {
	return &Logger{
		Logger: zap.New(core),
		config: cfg,
		sink:   sink,
	}
}

// Clone duplicates the logger with an independent atomic level.
func (log *Logger) Clone() *Logger {
	cfg := cloneConfig(log.config)
	return &Logger{
		Logger: log.rebuild(cfg),
		config: cfg,
		sink:   log.sink,
		name:   log.name,
		fields: log.fields,
	}
}

func (log *Logger) rebuild(cfg *zap.Config) *zap.Logger {
	var enc zapcore.Encoder
	if cfg.Encoding == "console" {
		enc = zapcore.NewConsoleEncoder(cfg.EncoderConfig)
	} else {
		enc = zapcore.NewJSONEncoder(cfg.EncoderConfig)
	}
	l := zap.New(zapcore.NewCore(enc, log.sink, cfg.Level))
	if log.name != "" {
		l = l.Named(log.name)
	}
	return l.With(log.fields...)
}

// GetLevel returns the current level of the logger.
func (log *Logger) GetLevel() Level {
	return Level(log.config.Level.Level())
}

// GetLevelString returns the current level as a string.
func (log *Logger) GetLevelString() string {
	return log.config.Level.String()
}

// GetName returns the hierarchical name of the logger.
func (log *Logger) GetName() string {
	return log.name
}

// IsDebug is a shortcut to avoid building expensive debug fields.
func (log *Logger) IsDebug() bool {
	return log.config.Level.Enabled(zapcore.DebugLevel)
}

// Named returns a child logger, its name being appended to the parent's one.
func (log *Logger) Named(name string) *Logger {
	c := log.Clone()
	newName := name
	if log.name != "" {
		newName = fmt.Sprintf("%s.%s", log.name, name)
	}
	return &Logger{
		Logger: c.Logger.Named(name),
		config: c.config,
		sink:   c.sink,
		name:   newName,
		fields: c.fields,
	}
}

// SetLevel changes the level of this logger only.
func (log *Logger) SetLevel(level Level) {
	lvl := level.ZapLevel()
	if log.config.Level.Level() == lvl {
		return
	}
	log.config.Level.SetLevel(lvl)
}

// With returns a child logger carrying the given fields.
func (log *Logger) With(fields ...zap.Field) *Logger {
	c := log.Clone()
	all := make([]zap.Field, 0, len(c.fields)+len(fields))
	all = append(all, c.fields...)
	all = append(all, fields...)
	return &Logger{
		Logger: c.Logger.With(fields...),
		config: c.config,
		sink:   c.sink,
		name:   c.name,
		fields: all,
	}
}

// AtExit flushes the logs before exiting the process. Useful when an
// app shuts down so we store all logging possible. This is meant to be used
// with defer when initializing your logger.
func (log *Logger) AtExit() {
	if log.Logger != nil {
		_ = log.Logger.Sync()
	}
}

// Errorf implement a printf style interface for third party libraries.
func (log *Logger) Errorf(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Errorf(strings.TrimSpace(s), args...)
}

// Infof implement a printf style interface for third party libraries.
func (log *Logger) Infof(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Infof(strings.TrimSpace(s), args...)
}

// Debugf implement a printf style interface for third party libraries.
func (log *Logger) Debugf(s string, args ...interface{}) {
	log.Logger.WithOptions(zap.AddCallerSkip(1)).Sugar().Debugf(strings.TrimSpace(s), args...)
}

func cloneConfig(cfg *zap.Config) *zap.Config {
	c := zap.Config{
		Level:             zap.NewAtomicLevelAt(cfg.Level.Level()),
		Development:       cfg.Development,
		DisableCaller:     cfg.DisableCaller,
		DisableStacktrace: cfg.DisableStacktrace,
		Encoding:          cfg.Encoding,
		EncoderConfig:     cfg.EncoderConfig,
		OutputPaths:       cfg.OutputPaths,
		ErrorOutputPaths:  cfg.ErrorOutputPaths,
		InitialFields:     make(map[string]interface{}, len(cfg.InitialFields)),
	}
	for k, v := range cfg.InitialFields {
		c.InitialFields[k] = v
	}
	return &c
}

func devEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		CallerKey:      "C",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		LevelKey:       "L",
		LineEnding:     "\n",
		MessageKey:     "M",
		NameKey:        "N",
		TimeKey:        "T",
	}
}

func prodEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		CallerKey:      "caller",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeName:     zapcore.FullNameEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		LevelKey:       "level",
		LineEnding:     "\n",
		MessageKey:     "message",
		NameKey:        "logger",
		StacktraceKey:  "stacktrace",
		TimeKey:        "@timestamp",
	}
}

func newLogger(encoding string, encCfg zapcore.EncoderConfig, level Level, sink zapcore.WriteSyncer) *Logger {
	cfg := &zap.Config{
		Level:            zap.NewAtomicLevelAt(level.ZapLevel()),
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	var enc zapcore.Encoder
	if encoding == "console" {
		enc = zapcore.NewConsoleEncoder(encCfg)
	} else {
		enc = zapcore.NewJSONEncoder(encCfg)
	}
	return New(zapcore.NewCore(enc, sink, cfg.Level), cfg, sink)
}

// NewDevLogger creates a console logger at debug level.
func NewDevLogger() *Logger {
	return newLogger("console", devEncoderConfig(), DebugLevel, zapcore.Lock(os.Stdout))
}

// NewProdLogger creates a JSON logger at info level.
func NewProdLogger() *Logger {
	return newLogger("json", prodEncoderConfig(), InfoLevel, zapcore.Lock(os.Stdout))
}

// NewTestLogger creates a logger suitable for unit tests.
func NewTestLogger() *Logger {
	return newLogger("console", devEncoderConfig(), WarnLevel, zapcore.Lock(os.Stderr))
}

// NewLoggerFromConfig builds the logger described by the logging configuration.
// When a file is configured the output goes to a rotating log file.
func NewLoggerFromConfig(cfg Config) *Logger {
	sink := zapcore.Lock(os.Stdout)
	if len(cfg.File.Path) > 0 {
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	}

	var log *Logger
	switch cfg.Environment {
	case "dev":
		log = newLogger("console", devEncoderConfig(), DebugLevel, sink)
	default:
		log = newLogger("json", prodEncoderConfig(), InfoLevel, sink)
	}
	log.SetLevel(cfg.Level)
	return log
}
