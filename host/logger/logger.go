// Package logger configures the host-side zap logger. Firmware-core
// code never logs; this is for the host console and link tooling.
package logger

import (
	"os"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Logger *zap.Logger

type LogLevel int8

const (
	DebugLevel LogLevel = iota - 1
	InfoLevel
	WarnLevel
	ErrorLevel
)

func newConsoleEncoder() zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "time",
		CallerKey:        "caller",
		EncodeLevel:      zapcore.CapitalColorLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func newFileEncoder() zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:       "message",
		LevelKey:         "level",
		TimeKey:          "time",
		CallerKey:        "caller",
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeCaller:     zapcore.ShortCallerEncoder,
		ConsoleSeparator: " ",
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func newConsoleCore(level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(newConsoleEncoder(), zapcore.Lock(os.Stdout), level)
}

func newFileCore(path string, level zapcore.Level) zapcore.Core {
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
	})
	return zapcore.NewCore(newFileEncoder(), sink, level)
}

// Init builds the global logger. An empty logFile logs to the console
// only.
func Init(level LogLevel, logFile string) {
	zapLevel := zapcore.Level(level)

	cores := []zapcore.Core{newConsoleCore(zapLevel)}
	if logFile != "" {
		cores = append(cores, newFileCore(logFile, zapLevel))
	}

	Logger = zap.New(zapcore.NewTee(cores...), zap.AddCaller())
}

// Sync flushes buffered log entries.
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
