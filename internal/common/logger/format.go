package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
)

func parseFormat(value string) Format {
	if strings.EqualFold(strings.TrimSpace(value), "json") {
		return FormatJSON
	}
	return FormatText
}

// callerSkip points runtime.Caller past emit and the Logger/Entry method.
const callerSkip = 2

func (l *Logger) emit(level LogLevel, ctx context.Context, msg string, fields Fields) {
	l.mu.RLock()
	minLevel, service, format, w, now := l.level, l.service, l.format, l.w, l.now
	l.mu.RUnlock()

	if level < minLevel {
		return
	}

	fields = withTraceID(ctx, fields)
	caller := "unknown:0"
	if _, file, line, ok := runtime.Caller(callerSkip); ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	var line string
	if format == FormatJSON {
		line = jsonLine(now(), level, service, caller, msg, fields)
	} else {
		line = textLine(now(), level, service, caller, msg, fields)
	}

	l.mu.Lock()
	_, _ = w.Write([]byte(line))
	l.mu.Unlock()
}

func withTraceID(ctx context.Context, fields Fields) Fields {
	if ctx == nil {
		return fields
	}
	if _, set := fields["trace_id"]; set {
		return fields
	}
	traceID, ok := ctx.Value(constants.TraceIDKey).(string)
	if !ok || traceID == "" {
		return fields
	}
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["trace_id"] = traceID
	return out
}

func sortedKeys(fields Fields) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func textLine(ts time.Time, level LogLevel, service, caller, msg string, fields Fields) string {
	var b strings.Builder
	b.WriteString(ts.Format("2006/01/02 15:04:05"))
	fmt.Fprintf(&b, " [%s]", level)
	if service != "" {
		fmt.Fprintf(&b, " [%s]", service)
	}
	if len(fields) > 0 {
		parts := make([]string, 0, len(fields))
		for _, k := range sortedKeys(fields) {
			parts = append(parts, fmt.Sprintf("%s=%v", k, fields[k]))
		}
		fmt.Fprintf(&b, " [%s]", strings.Join(parts, " "))
	}
	fmt.Fprintf(&b, " %s %s\n", caller, msg)
	return b.String()
}

func jsonLine(ts time.Time, level LogLevel, service, caller, msg string, fields Fields) string {
	rec := make(map[string]any, len(fields)+5)
	for k, v := range fields {
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		rec[k] = v
	}
	rec["time"] = ts.UTC().Format(time.RFC3339Nano)
	rec["level"] = level.String()
	rec["caller"] = caller
	rec["msg"] = msg
	if service != "" {
		rec["service"] = service
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return textLine(ts, level, service, caller, msg, fields)
	}
	return string(data) + "\n"
}
