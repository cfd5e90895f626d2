// Package mlog provides the structured logging helper shared across the
// engine's packages, generalizing the teacher's per-package LoggerHelper
// (crypto/logging.go) into one reusable type keyed by package and
// function name instead of being copy-pasted per package.
package mlog

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus with standardized package/function fields.
type Logger struct {
	fields logrus.Fields
}

// New returns a Logger tagged with pkg and function for every entry it
// emits.
func New(pkg, function string) *Logger {
	return &Logger{fields: logrus.Fields{
		"package":  pkg,
		"function": function,
	}}
}

// WithField returns a copy of l with key/value added.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	fields := make(logrus.Fields, len(l.fields)+1)
	for k, v := range l.fields {
		fields[k] = v
	}
	fields[key] = value
	return &Logger{fields: fields}
}

// WithFields returns a copy of l with every entry in extra added.
func (l *Logger) WithFields(extra logrus.Fields) *Logger {
	fields := make(logrus.Fields, len(l.fields)+len(extra))
	for k, v := range l.fields {
		fields[k] = v
	}
	for k, v := range extra {
		fields[k] = v
	}
	return &Logger{fields: fields}
}

// WithError returns a copy of l with err's message and op recorded.
func (l *Logger) WithError(err error, op string) *Logger {
	return l.WithFields(logrus.Fields{"error": err.Error(), "op": op})
}

func (l *Logger) Debug(args ...interface{}) { logrus.WithFields(l.fields).Debug(args...) }
func (l *Logger) Info(args ...interface{})  { logrus.WithFields(l.fields).Info(args...) }
func (l *Logger) Warn(args ...interface{})  { logrus.WithFields(l.fields).Warn(args...) }
func (l *Logger) Error(args ...interface{}) { logrus.WithFields(l.fields).Error(args...) }

// Debugf, Infof, Warnf, Errorf format message before emitting.
func (l *Logger) Debugf(format string, args ...interface{}) { l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.Error(fmt.Sprintf(format, args...)) }
