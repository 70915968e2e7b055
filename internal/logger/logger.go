package logger

import (
	"io"
	"log/slog"
	"os"
)

// New 创建进程级的结构化 Logger
// debug 为 true 时输出 Debug 级别日志
func New(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// Discard 返回一个丢弃所有输出的 Logger，用于测试
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
