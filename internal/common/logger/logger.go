package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
)

type Fields map[string]any

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARNING
	ERROR
	CRITICAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case CRITICAL:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// Logger writes leveled lines in text or JSON format. It is safe for
// concurrent use; output and format can be swapped at runtime.
type Logger struct {
	mu      sync.RWMutex
	level   LogLevel
	service string
	format  Format
	w       io.Writer
	now     func() time.Time
}

// New builds a logger for serviceName. With an empty logDir output stays on
// stderr; otherwise lines also go to a rotated <logDir>/<service>.log.
func New(logDir, serviceName, level string) (*Logger, error) {
	l := &Logger{
		level:   parseLevel(level),
		service: serviceName,
		format:  FormatText,
		w:       os.Stderr,
		now:     time.Now,
	}
	if logDir == "" {
		return l, nil
	}

	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	l.w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   filepath.Join(logDir, serviceName+".log"),
		MaxSize:    constants.LoggerMaxSize,
		MaxBackups: constants.LoggerMaxBackups,
		MaxAge:     constants.LoggerMaxAge,
		Compress:   true,
	})
	return l, nil
}

func (l *Logger) ShouldLog(level LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return level >= l.level
}

func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = w
}

// SetFormat switches between "text" and "json". Unknown values keep text.
func (l *Logger) SetFormat(format string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.format = parseFormat(format)
}

func (l *Logger) Debug(msg string)    { l.emit(DEBUG, nil, msg, nil) }
func (l *Logger) Info(msg string)     { l.emit(INFO, nil, msg, nil) }
func (l *Logger) Warn(msg string)     { l.emit(WARNING, nil, msg, nil) }
func (l *Logger) Error(msg string)    { l.emit(ERROR, nil, msg, nil) }
func (l *Logger) Critical(msg string) { l.emit(CRITICAL, nil, msg, nil) }

func (l *Logger) Debugf(format string, args ...any) {
	l.emit(DEBUG, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(format string, args ...any) {
	l.emit(INFO, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.emit(WARNING, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.emit(ERROR, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Criticalf(format string, args ...any) {
	l.emit(CRITICAL, nil, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Fatalf(format string, args ...any) {
	l.emit(CRITICAL, nil, fmt.Sprintf(format, args...), nil)
	os.Exit(1)
}

func parseLevel(value string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DEBUG":
		return DEBUG
	case "WARNING", "WARN":
		return WARNING
	case "ERROR":
		return ERROR
	case "CRITICAL":
		return CRITICAL
	default:
		return INFO
	}
}
