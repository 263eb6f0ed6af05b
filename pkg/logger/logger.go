// Package logger provides component-tagged structured logging for ticketclaw.
//
// Every entry carries a "component" attribute so operators can filter by
// subsystem (gateway, pipeline, drafter, zendesk, ...). Callers pass extra
// fields as a map; values must never contain unredacted customer text.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var (
	level   slog.LevelVar
	current atomic.Pointer[slog.Logger]
)

func init() {
	level.Set(slog.LevelInfo)
	current.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level})))
}

// Init replaces the global handler. format is "json" or "text"; anything
// else falls back to text.
func Init(w io.Writer, l LogLevel, format string) {
	if w == nil {
		w = os.Stderr
	}
	SetLevel(l)
	opts := &slog.HandlerOptions{Level: &level}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	current.Store(slog.New(handler))
}

func SetLevel(l LogLevel) {
	level.Set(l.slogLevel())
}

func GetLevel() LogLevel {
	switch lv := level.Level(); {
	case lv <= slog.LevelDebug:
		return DEBUG
	case lv <= slog.LevelInfo:
		return INFO
	case lv <= slog.LevelWarn:
		return WARN
	default:
		return ERROR
	}
}

// ParseLevel maps a config string to a LogLevel, defaulting to INFO.
func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	default:
		return "info"
	}
}

func logC(l LogLevel, component, msg string, fields map[string]any) {
	log := current.Load()
	lv := l.slogLevel()
	if !log.Enabled(context.Background(), lv) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	attrs = append(attrs, slog.String("component", component))
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	log.LogAttrs(context.Background(), lv, msg, attrs...)
}

func DebugC(component, msg string) { logC(DEBUG, component, msg, nil) }

func DebugCF(component, msg string, fields map[string]any) { logC(DEBUG, component, msg, fields) }

func InfoC(component, msg string) { logC(INFO, component, msg, nil) }

func InfoCF(component, msg string, fields map[string]any) { logC(INFO, component, msg, fields) }

func WarnC(component, msg string) { logC(WARN, component, msg, nil) }

func WarnCF(component, msg string, fields map[string]any) { logC(WARN, component, msg, fields) }

func ErrorC(component, msg string) { logC(ERROR, component, msg, nil) }

func ErrorCF(component, msg string, fields map[string]any) { logC(ERROR, component, msg, fields) }
