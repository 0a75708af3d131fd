package logger

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options 日志配置（由config.LogConfig转换而来）
type Options struct {
	Level        string // debug / info / warn / error
	Format       string // json / console
	Output       string // stdout / stderr / 文件路径
	EnableCaller bool
}

var (
	mu  sync.RWMutex
	log *zap.Logger
)

// Init 根据配置初始化全局logger
// json格式使用production编码配置，console格式使用development编码配置
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	ReplaceGlobal(l)
	return nil
}

// New 构建一个新的zap.Logger（不替换全局logger）
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(opts.Level, "info")))
	if err != nil {
		return nil, fmt.Errorf("无效的日志级别 %q: %w", opts.Level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(defaultString(opts.Format, "json")) {
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.MessageKey = "message"
		cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("不支持的日志格式: %s", opts.Format)
	}

	cfg.Level = zap.NewAtomicLevelAt(level)
	output := defaultString(opts.Output, "stdout")
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableCaller = !opts.EnableCaller

	return cfg.Build()
}

// ReplaceGlobal 替换全局logger（测试中注入observer也走这里）
func ReplaceGlobal(l *zap.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// L 返回全局logger，未初始化时返回Nop logger
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log == nil {
		return zap.NewNop()
	}
	return log
}

// Sync 刷新缓冲区，程序退出前调用
func Sync() {
	_ = L().Sync()
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
