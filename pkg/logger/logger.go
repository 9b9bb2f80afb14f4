package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"hls-vod-service/pkg/config"
)

// Logger 封装logrus，提供结构化字段和格式化两种入口。
type Logger struct {
	entry *logrus.Logger
}

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// NewLogger 根据配置构建日志器
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level := logrus.InfoLevel
	if cfg != nil {
		if parsed, err := logrus.ParseLevel(strings.ToLower(cfg.Log.Level)); err == nil {
			level = parsed
		}
	}
	l.SetLevel(level)

	if cfg != nil && strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.SetOutput(resolveOutput(cfg))
	return &Logger{entry: l}
}

func resolveOutput(cfg *config.Config) io.Writer {
	if cfg == nil {
		return os.Stdout
	}
	switch strings.ToLower(cfg.Log.Output) {
	case "file":
		if cfg.Log.Filename != "" {
			f, err := os.OpenFile(cfg.Log.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				return f
			}
		}
		return os.Stdout
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}

// SetGlobalLogger 设置全局日志器（启动时调用一次）
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func global() *logrus.Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l == nil {
		return logrus.StandardLogger()
	}
	return l.entry
}

func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func Debugf(format string, args ...interface{}) { global().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { global().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { global().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { global().Errorf(format, args...) }

func Debug(msg string, fields map[string]interface{}) { global().WithFields(fields).Debug(msg) }
func Info(msg string, fields map[string]interface{})  { global().WithFields(fields).Info(msg) }
func Warn(msg string, fields map[string]interface{})  { global().WithFields(fields).Warn(msg) }
func Error(msg string, fields map[string]interface{}) { global().WithFields(fields).Error(msg) }

// Fatal 打印后退出进程
func Fatal(msg string) { global().Fatal(msg) }
