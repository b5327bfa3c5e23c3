// Package logging builds the process logger: zap, console output to stdout
// and an optional JSON file rotated by lumberjack.
package logging

import (
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the level and sinks.
type Options struct {
	Level       string // debug, info, warn or error; default info
	File        string // optional JSON log file
	Development bool   // colored levels on the console
}

// New returns a sugared logger and installs it with zap.ReplaceGlobals.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, err
		}
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:      "ts",
		LevelKey:     "level",
		MessageKey:   "msg",
		CallerKey:    "caller",
		EncodeTime:   zapcore.ISO8601TimeEncoder,
		EncodeLevel:  zapcore.LowercaseLevelEncoder,
		EncodeCaller: zapcore.ShortCallerEncoder,
	}
	consoleCfg := encCfg
	if opts.Development {
		consoleCfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(os.Stdout), level),
	}
	zapOpts := []zap.Option{zap.AddCaller()}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, err
		}
		fileSink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 7,
			MaxAge:     14, // days
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), fileSink, level))
		zapOpts = append(zapOpts, zap.ErrorOutput(fileSink))
	}

	z := zap.New(zapcore.NewTee(cores...), zapOpts...).Sugar()
	zap.ReplaceGlobals(z.Desugar())
	return z, nil
}
