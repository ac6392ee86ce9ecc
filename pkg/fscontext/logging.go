// logging.go: the structured-logging surface (spec §4.9 ambient concern).
// Reuses the Logger/Field contract from the published orpheus module and
// wires a genuine default implementation against logrus, the structured
// logger rclone/rclone depends on in the pack.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"context"

	"github.com/agilira/orpheus/pkg/orpheus"
	"github.com/sirupsen/logrus"
)

// Logger and Field alias orpheus's observability contract so callers
// building an fscontext.Sandbox don't need to import it directly.
type Logger = orpheus.Logger
type Field = orpheus.Field

// logrusLogger adapts logrus to the Logger interface.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger returns a Logger backed by a logrus.Logger configured
// with the given level and a JSON formatter, matching a production
// default rather than the teacher's toy SimpleLogger.
func NewLogrusLogger(level logrus.Level) Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.JSONFormatter{})
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func fieldsToLogrus(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

func (l *logrusLogger) Trace(_ context.Context, msg string, fields ...Field) {
	l.entry.WithFields(fieldsToLogrus(fields)).Trace(msg)
}

func (l *logrusLogger) Debug(_ context.Context, msg string, fields ...Field) {
	l.entry.WithFields(fieldsToLogrus(fields)).Debug(msg)
}

func (l *logrusLogger) Info(_ context.Context, msg string, fields ...Field) {
	l.entry.WithFields(fieldsToLogrus(fields)).Info(msg)
}

func (l *logrusLogger) Warn(_ context.Context, msg string, fields ...Field) {
	l.entry.WithFields(fieldsToLogrus(fields)).Warn(msg)
}

func (l *logrusLogger) Error(_ context.Context, msg string, fields ...Field) {
	l.entry.WithFields(fieldsToLogrus(fields)).Error(msg)
}

func (l *logrusLogger) WithFields(fields ...Field) Logger {
	return &logrusLogger{entry: l.entry.WithFields(fieldsToLogrus(fields))}
}
