// cancel.go: cancel & timeout plumbing (spec §4.2, §5) — composes a
// caller-supplied cancel token with an optional deadline and threads the
// result into every blocking filesystem call.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"context"
	"errors"
	"time"
)

// ErrAborted is the reason reported when a CancelToken fires without a more
// specific cause attached by the caller.
var ErrAborted = errors.New("operation aborted")

// ErrOperationTimedOut is the synthetic reason attached when a composed
// deadline (not the base token) is what fired, per spec §4.2/§5.
var ErrOperationTimedOut = errors.New("operation timed out")

// CancelToken is the capability set described in spec §4.2:
// isCancelled() / onAbort(cb) / reason(). It is a thin wrapper over
// context.Context so every fscontext call can also accept a plain
// context.Context from the caller.
type CancelToken struct {
	ctx context.Context
}

// NewCancelToken wraps ctx as a CancelToken. A nil ctx is treated as
// context.Background().
func NewCancelToken(ctx context.Context) *CancelToken {
	if ctx == nil {
		ctx = context.Background()
	}
	return &CancelToken{ctx: ctx}
}

// Context returns the underlying context.Context, for passing to stdlib and
// third-party APIs that expect one.
func (t *CancelToken) Context() context.Context {
	if t == nil {
		return context.Background()
	}
	return t.ctx
}

// IsCancelled reports whether the token has fired.
func (t *CancelToken) IsCancelled() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Reason returns the error describing why the token fired, or nil if it has
// not fired. It prefers context.Cause so a base token's original reason
// survives composition with a deadline (spec §4.2: "preserves the base
// reason when base trips").
func (t *CancelToken) Reason() error {
	if t == nil {
		return nil
	}
	if cause := context.Cause(t.ctx); cause != nil && cause != context.Canceled && cause != context.DeadlineExceeded {
		return cause
	}
	select {
	case <-t.ctx.Done():
		if errors.Is(t.ctx.Err(), context.DeadlineExceeded) {
			return ErrOperationTimedOut
		}
		return ErrAborted
	default:
		return nil
	}
}

// OnAbort registers cb to run once, asynchronously, when the token fires.
// It is safe to call on an already-fired token (cb runs immediately on a new
// goroutine).
func (t *CancelToken) OnAbort(cb func(reason error)) {
	if t == nil || cb == nil {
		return
	}
	go func() {
		<-t.ctx.Done()
		cb(t.Reason())
	}()
}

// WithTimeout composes base with a deadline timeoutMs milliseconds from now,
// firing on whichever triggers first (spec §4.2's "fires first" combinator,
// §9's "token-of-tokens"). A timeoutMs of 0 returns base unchanged. The
// returned cancel func must be called to release resources once the
// operation completes.
func (base *CancelToken) WithTimeout(timeoutMs int) (*CancelToken, context.CancelFunc) {
	parent := base.Context()
	if timeoutMs <= 0 {
		return NewCancelToken(parent), func() {}
	}
	ctx, cancel := context.WithTimeoutCause(parent, time.Duration(timeoutMs)*time.Millisecond, ErrOperationTimedOut)
	return NewCancelToken(ctx), cancel
}

// AbortError is raised when an awaiting operation observes a fired
// CancelToken mid-flight, per spec §4.2/§5. It is never swallowed —
// callers propagate it to the operation's top-level caller.
type AbortError struct {
	Reason error
}

func (e *AbortError) Error() string {
	if e.Reason != nil {
		return "aborted: " + e.Reason.Error()
	}
	return "aborted"
}

func (e *AbortError) Unwrap() error {
	return e.Reason
}

// checkCancelled returns an *AbortError if token has fired, else nil. Every
// suspension point in the walker, reader, and scanner calls this both
// before starting and at every loop iteration that consumes input, per
// spec §5.
func checkCancelled(token *CancelToken) error {
	if token != nil && token.IsCancelled() {
		return &AbortError{Reason: token.Reason()}
	}
	return nil
}
