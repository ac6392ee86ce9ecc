// diagnostics.go: the diagnostics channel of spec §4.9 and §6
// ("tracing:filesystem-context:ops:start/end"). Modeled on the teacher's
// observability.go Tracer/Span contracts, simplified to a pub/sub
// dispatcher since this repo has no bundled tracing backend to satisfy.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	timecache "github.com/agilira/go-timecache"
	"github.com/google/uuid"
)

// PathDetailLevel controls how much of an operation's path is disclosed
// on a diagnostic event (spec §4.9): 0 omits it, 1 emits a 16-char
// SHA-256 prefix, 2 emits the path verbatim.
type PathDetailLevel int

const (
	PathDetailNone   PathDetailLevel = 0
	PathDetailHashed PathDetailLevel = 1
	PathDetailFull   PathDetailLevel = 2
)

// DiagnosticEvent is published before ("start") and after ("end") every
// tool call, when at least one subscriber is registered (spec §4.9).
type DiagnosticEvent struct {
	Phase         string // "start" or "end"
	Tool          string
	Path          string // subject to PathDetailLevel redaction
	OK            bool
	DurationMs    int64
	Error         string
	CorrelationID string // ties a tool's start event to its end event
}

// Diagnostics is a small pub/sub dispatcher for DiagnosticEvent, safe for
// concurrent use.
type Diagnostics struct {
	mu          sync.RWMutex
	subscribers []func(DiagnosticEvent)
	detailLevel PathDetailLevel
	logger      Logger
}

// NewDiagnostics returns a dispatcher that redacts paths at detailLevel
// and, when logger is non-nil, also logs every event at Debug level.
func NewDiagnostics(detailLevel PathDetailLevel, logger Logger) *Diagnostics {
	return &Diagnostics{detailLevel: detailLevel, logger: logger}
}

// Subscribe registers cb to receive every future DiagnosticEvent.
func (d *Diagnostics) Subscribe(cb func(DiagnosticEvent)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscribers = append(d.subscribers, cb)
}

func (d *Diagnostics) hasSubscribers() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.subscribers) > 0
}

func (d *Diagnostics) publish(ev DiagnosticEvent) {
	d.mu.RLock()
	subs := make([]func(DiagnosticEvent), len(d.subscribers))
	copy(subs, d.subscribers)
	d.mu.RUnlock()

	for _, cb := range subs {
		cb(ev)
	}
	if d.logger != nil {
		d.logger.Debug(context.Background(), "fs-context op", Field{Key: "phase", Value: ev.Phase},
			Field{Key: "tool", Value: ev.Tool}, Field{Key: "ok", Value: ev.OK})
	}
}

func (d *Diagnostics) redactPath(path string) string {
	switch d.detailLevel {
	case PathDetailFull:
		return path
	case PathDetailHashed:
		sum := sha256.Sum256([]byte(path))
		return hex.EncodeToString(sum[:])[:16]
	default:
		return ""
	}
}

// opScope tracks one in-flight tool call's start time for duration
// measurement, using go-timecache's monotonic clock in place of raw
// time.Now() pairs (spec §4.9's "monotonic clock" requirement).
type opScope struct {
	d             *Diagnostics
	tool          string
	path          string
	startedAt     time.Time
	correlationID string
}

// startScope is a nil-safe entry point for api.go's facade functions,
// which hold a *Diagnostics that is nil unless a caller opted in via
// Sandbox.Diagnostics.
func (d *Diagnostics) startScope(tool, path string) *opScope {
	if d == nil {
		return nil
	}
	return d.Start(tool, path)
}

// Start emits the "start" phase (if subscribers exist) and returns a
// scope; call End on it when the operation finishes.
func (d *Diagnostics) Start(tool, path string) *opScope {
	scope := &opScope{d: d, tool: tool, path: path, startedAt: timecache.Now(), correlationID: uuid.NewString()}
	if d.hasSubscribers() {
		d.publish(DiagnosticEvent{Phase: "start", Tool: tool, Path: d.redactPath(path), CorrelationID: scope.correlationID})
	}
	return scope
}

// End emits the "end" phase with elapsed duration and outcome.
func (s *opScope) End(err error) {
	if s == nil || s.d == nil {
		return
	}
	if !s.d.hasSubscribers() {
		return
	}
	durationMs := timecache.Now().Sub(s.startedAt).Milliseconds()
	ev := DiagnosticEvent{
		Phase:         "end",
		Tool:          s.tool,
		Path:          s.d.redactPath(s.path),
		OK:            err == nil,
		DurationMs:    durationMs,
		CorrelationID: s.correlationID,
	}
	if err != nil {
		ev.Error = err.Error()
	}
	s.d.publish(ev)
}
