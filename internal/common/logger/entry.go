package logger

import (
	"context"
	"fmt"
)

// Entry carries request-scoped fields. The trace id stored in ctx is added
// unless fields already set one.
type Entry struct {
	logger *Logger
	ctx    context.Context
	fields Fields
}

func (l *Logger) WithFields(ctx context.Context, fields Fields) *Entry {
	return &Entry{logger: l, ctx: ctx, fields: fields}
}

// With returns a copy of e with extra fields merged over the existing ones.
func (e *Entry) With(fields Fields) *Entry {
	merged := make(Fields, len(e.fields)+len(fields))
	for k, v := range e.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Entry{logger: e.logger, ctx: e.ctx, fields: merged}
}

func (e *Entry) Debug(msg string)    { e.logger.emit(DEBUG, e.ctx, msg, e.fields) }
func (e *Entry) Info(msg string)     { e.logger.emit(INFO, e.ctx, msg, e.fields) }
func (e *Entry) Warn(msg string)     { e.logger.emit(WARNING, e.ctx, msg, e.fields) }
func (e *Entry) Error(msg string)    { e.logger.emit(ERROR, e.ctx, msg, e.fields) }
func (e *Entry) Critical(msg string) { e.logger.emit(CRITICAL, e.ctx, msg, e.fields) }

func (e *Entry) Debugf(format string, args ...any) {
	e.logger.emit(DEBUG, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Infof(format string, args ...any) {
	e.logger.emit(INFO, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Warnf(format string, args ...any) {
	e.logger.emit(WARNING, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Errorf(format string, args ...any) {
	e.logger.emit(ERROR, e.ctx, fmt.Sprintf(format, args...), e.fields)
}

func (e *Entry) Criticalf(format string, args ...any) {
	e.logger.emit(CRITICAL, e.ctx, fmt.Sprintf(format, args...), e.fields)
}
