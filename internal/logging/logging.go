// Package logging 构造全局统一的 slog.Logger。
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New 按 level/format 构造 logger。
// level: "debug" / "info" / "warn" / "error"（其它值回退 info）
// format: "json" / "text"（其它值回退 text）
//
// 日志一律走 w（CLI 传 stderr），不污染 stdout 的输出契约。
func New(w io.Writer, level, format string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Discard 返回丢弃一切输出的 logger（测试与未注入 logger 时使用）。
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
