package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type options struct {
	file  string
	level zapcore.Level
	quiet bool
}

type Option func(*options)

// WithFile also writes JSON logs to path, rotated by lumberjack.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithLevel sets the minimum level for every output.
func WithLevel(l zapcore.Level) Option {
	return func(o *options) { o.level = l }
}

// WithoutConsole drops the stderr output. Used by the terminal client so logs
// do not interleave with the interview.
func WithoutConsole() Option {
	return func(o *options) { o.quiet = true }
}

func NewLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := options{level: zapcore.InfoLevel}
	if env == "development" || env == "dev" {
		o.level = zapcore.DebugLevel
	}
	for _, fn := range opts {
		fn(&o)
	}

	if o.file == "" && !o.quiet {
		cfg := zap.NewProductionConfig()
		if env == "development" || env == "dev" {
			cfg = zap.NewDevelopmentConfig()
			cfg.EncoderConfig.TimeKey = "ts"
			cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}
		cfg.Level = zap.NewAtomicLevelAt(o.level)
		return cfg.Build()
	}

	var cores []zapcore.Core
	if o.file != "" {
		rotator := &lumberjack.Logger{
			Filename:   o.file,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.TimeKey = "ts"
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), o.level))
	}
	if !o.quiet {
		encCfg := zap.NewDevelopmentEncoderConfig()
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), o.level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
