package xzap

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config drives logger construction. Mode "console" writes to stdout,
// "file" writes rotated files via lumberjack.
type Config struct {
	Level      string `toml:"level" mapstructure:"level" json:"level"`
	Mode       string `toml:"mode" mapstructure:"mode" json:"mode"`
	Path       string `toml:"path" mapstructure:"path" json:"path"`
	MaxSizeMB  int    `toml:"max_size_mb" mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days" mapstructure:"max_age_days" json:"max_age_days"`
	Compress   bool   `toml:"compress" mapstructure:"compress" json:"compress"`
}

// Logger is a thin wrapper so call sites stay decoupled from *zap.Logger.
type Logger struct {
	l *zap.Logger
}

var (
	mu     sync.RWMutex
	global = &Logger{l: zap.NewNop()}
)

// SetUp builds the global logger from cfg. It is called once at process start;
// before that WithContext returns a nop logger.
func SetUp(cfg Config) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if cfg.Mode == "file" && cfg.Path != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.Path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	} else {
		ws = zapcore.AddSync(os.Stdout)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	logger := &Logger{l: zap.New(core, zap.AddCaller())}

	mu.Lock()
	global = logger
	mu.Unlock()
	return logger, nil
}

// WithContext returns the process logger. The context is accepted so call
// sites keep their request context threaded; trace fields can be attached
// here later without touching callers.
func WithContext(_ context.Context) *Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func (lg *Logger) Info(msg string, fields ...zap.Field)  { lg.l.Info(msg, fields...) }
func (lg *Logger) Warn(msg string, fields ...zap.Field)  { lg.l.Warn(msg, fields...) }
func (lg *Logger) Error(msg string, fields ...zap.Field) { lg.l.Error(msg, fields...) }
func (lg *Logger) Debug(msg string, fields ...zap.Field) { lg.l.Debug(msg, fields...) }

// Sync flushes buffered entries, used on shutdown.
func (lg *Logger) Sync() error { return lg.l.Sync() }
