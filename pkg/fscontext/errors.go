// errors.go: error taxonomy for the filesystem-context sandbox core
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"errors"
	"fmt"
	"strings"

	agerrors "github.com/agilira/go-errors"
)

// Error codes for the filesystem-context sandbox core, following the
// teacher's ORFxxxx numbering convention in a separate namespace.
const (
	ErrNotFound          agerrors.ErrorCode = "FSC1000"
	ErrPermissionDenied  agerrors.ErrorCode = "FSC1001"
	ErrNotFile           agerrors.ErrorCode = "FSC1002"
	ErrNotDirectory      agerrors.ErrorCode = "FSC1003"
	ErrSymlinkNotAllowed agerrors.ErrorCode = "FSC1004"
	ErrTimeout           agerrors.ErrorCode = "FSC1005"
	ErrAccessDenied      agerrors.ErrorCode = "FSC1006"
	ErrInvalidInput      agerrors.ErrorCode = "FSC1007"
	ErrInvalidPattern    agerrors.ErrorCode = "FSC1008"
	ErrUnknown           agerrors.ErrorCode = "FSC1009"
)

var suggestions = map[agerrors.ErrorCode]string{
	ErrNotFound:          "verify the path exists and is spelled correctly",
	ErrPermissionDenied:  "check that the process has read permission for this path",
	ErrNotFile:           "the path refers to a directory; use a directory operation instead",
	ErrNotDirectory:      "the path refers to a file; use a file operation instead",
	ErrSymlinkNotAllowed: "symbolic links are not followed outside the sandbox",
	ErrTimeout:           "the operation exceeded its deadline; retry with a larger timeout or a narrower scope",
	ErrAccessDenied:      "request a path inside an allowed root, or pass --allow-cwd / a broader root at startup",
	ErrInvalidInput:      "check the operation's option combination and bounds",
	ErrInvalidPattern:    "simplify the pattern or switch to literal matching",
	ErrUnknown:           "an unexpected error occurred; see details for the original error",
}

// Error wraps github.com/agilira/go-errors with the path/details shape
// described in spec §3 and §7: {code, message, path?, details?, suggestion}.
type Error struct {
	inner *agerrors.Error
	Path  string
}

// New creates a filesystem-context error with the canned suggestion for code.
func New(code agerrors.ErrorCode, path, message string) *Error {
	e := agerrors.New(code, message).
		WithSeverity("error").
		WithUserMessage(suggestions[code])
	if path != "" {
		e = e.WithContext("path", path)
	}
	return &Error{inner: e, Path: path}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.inner.Error())
	}
	return e.inner.Error()
}

// Code returns the structured error code.
func (e *Error) Code() agerrors.ErrorCode {
	return e.inner.ErrorCode()
}

// Suggestion returns the canned, code-specific remediation hint.
func (e *Error) Suggestion() string {
	return e.inner.UserMessage()
}

// WithDetails attaches a free-form detail and returns the error for chaining.
func (e *Error) WithDetails(key string, value interface{}) *Error {
	e.inner.WithContext(key, value)
	return e
}

// Unwrap exposes the underlying go-errors value for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.inner
}

// IsCode reports whether err is a *Error carrying the given code.
func IsCode(err error, code agerrors.ErrorCode) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code() == code
	}
	return false
}

// ToAccessDeniedWithHint builds an E_ACCESS_DENIED error per spec §4.1 step 5 /
// §4.9: the message contains the literal substring "Allowed:" followed by the
// allowed-roots list, and details carry both resolved paths.
func ToAccessDeniedWithHint(requested, resolved, normalizedResolved string, allowed []string) *Error {
	msg := fmt.Sprintf("access denied - path outside allowed directories: %q. Allowed: %s",
		requested, strings.Join(allowed, ", "))
	return New(ErrAccessDenied, requested, msg).
		WithDetails("resolvedPath", resolved).
		WithDetails("normalizedResolvedPath", normalizedResolved).
		WithDetails("allowedDirectories", allowed)
}

// ToMcpError maps a raw OS error into the taxonomy of §7, defaulting to
// E_NOT_FOUND when the code is unrecognized, per §4.9's toMcpError contract.
func ToMcpError(path string, raw error) *Error {
	if raw == nil {
		return nil
	}
	if fe, ok := asFSError(raw); ok {
		return fe
	}

	code, originalCode := classifyOSError(raw)
	return New(code, path, fmt.Sprintf("%s: %v", string(code), raw)).
		WithDetails("originalCode", originalCode).
		WithDetails("originalMessage", raw.Error())
}

func asFSError(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
