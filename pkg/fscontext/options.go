// options.go: operation option types and their validation rules (spec §6),
// grounded on the teacher's pkg/orpheus/validation.go InputValidator style —
// same "validate up front, fail fast with a descriptive error" shape,
// generalized from CLI flags to operation option structs.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

const (
	// DefaultMaxReadSize is the default per-file read budget (spec §4.4).
	DefaultMaxReadSize = 10 * 1024 * 1024
	// HardMaxReadSize is the hard cap on MaxSize (spec §4.4).
	HardMaxReadSize = 100 * 1024 * 1024
	// DefaultMaxTotalSize is the default combined multi-read budget (spec §6).
	DefaultMaxTotalSize = 100 * 1024 * 1024
	// MaxLineContentLength truncates emitted match/line content (spec §3/§4.8.2).
	MaxLineContentLength = 2000
	// DefaultRegexMatchTimeoutMs bounds a single regex match call (spec §4.8.1).
	DefaultRegexMatchTimeoutMs = 250
	// MaxExcludePatterns caps the number of exclude globs (spec §6).
	MaxExcludePatterns = 100
	// MaxExcludePatternLength caps a single exclude glob's length (spec §6).
	MaxExcludePatternLength = 500
	// MaxGlobPatternLength caps a glob-search pattern's length (spec §4.7).
	MaxGlobPatternLength = 1000
)

// ReadMode selects a ReadFile operating mode; the zero value is Full.
type ReadMode int

const (
	ReadFull ReadMode = iota
	ReadHead
	ReadTail
	ReadLineRange
)

// ReadOptions controls a single-file read (spec §6 "Read").
type ReadOptions struct {
	Encoding   string // default "utf-8"; any other value is passed through undecoded
	MaxSize    int64  // bytes, default DefaultMaxReadSize, hard cap HardMaxReadSize
	Mode       ReadMode
	HeadLines  int
	TailLines  int
	RangeStart int // 1-indexed
	RangeEnd   int // 1-indexed, inclusive
	SkipBinary bool
	Cancel     *CancelToken
}

// Validate enforces spec §4.4's mode-exclusivity and bound rules. It never
// mutates o.
//
// Mode exclusivity is enforced by construction: Mode is a single enum
// field rather than independent head/tail/lineRange options, so "two
// modes set at once" cannot arise here the way it can in a caller-facing
// options object (ReadFileRequest.toOptions in api.go rejects combining
// Head/Tail/LineRange before ever constructing a ReadOptions).
func (o ReadOptions) Validate() error {
	switch o.Mode {
	case ReadHead:
		if o.HeadLines <= 0 {
			return New(ErrInvalidInput, "", "head line count must be a positive integer")
		}
	case ReadTail:
		if o.TailLines <= 0 {
			return New(ErrInvalidInput, "", "tail line count must be a positive integer")
		}
	case ReadLineRange:
		if o.RangeStart < 1 {
			return New(ErrInvalidInput, "", "lineRange.start must be >= 1")
		}
		if o.RangeEnd < o.RangeStart {
			return New(ErrInvalidInput, "", "lineRange.end must be >= lineRange.start")
		}
	}

	if o.MaxSize < 0 {
		return New(ErrInvalidInput, "", "maxSize must not be negative")
	}
	if o.MaxSize > HardMaxReadSize {
		return New(ErrInvalidInput, "", fmt.Sprintf("maxSize exceeds the hard cap of %s", humanize.IBytes(uint64(HardMaxReadSize))))
	}
	return nil
}

// effectiveMaxSize returns o.MaxSize, defaulting and clamping per spec §4.4.
func (o ReadOptions) effectiveMaxSize() int64 {
	if o.MaxSize == 0 {
		return DefaultMaxReadSize
	}
	if o.MaxSize > HardMaxReadSize {
		return HardMaxReadSize
	}
	return o.MaxSize
}

// WalkOptions parameters the bounded BFS walker (spec §4.5, §6 "List/tree/analyze").
type WalkOptions struct {
	MaxDepth             int // 0-indexed cap; walker never descends past this depth
	MaxFiles             int // 0 means unlimited
	MaxEntries           int // 0 means unlimited; caps files+directories combined
	IncludeHidden        bool
	ExcludePatterns      []string
	OnlyFiles            bool
	IncludeSize          bool
	IncludeSymlinkTargets bool
	Cancel               *CancelToken
}

// Validate enforces spec §6's exclude-pattern bounds.
func (o WalkOptions) Validate() error {
	return validateExcludePatterns(o.ExcludePatterns)
}

func validateExcludePatterns(patterns []string) error {
	if len(patterns) > MaxExcludePatterns {
		return New(ErrInvalidInput, "", fmt.Sprintf("too many exclude patterns: %d (max %d)", len(patterns), MaxExcludePatterns))
	}
	for _, p := range patterns {
		if len(p) > MaxExcludePatternLength {
			return New(ErrInvalidInput, "", fmt.Sprintf("exclude pattern too long: %d bytes (max %d)", len(p), MaxExcludePatternLength))
		}
		if tripleStarNesting(p) {
			return New(ErrInvalidInput, "", fmt.Sprintf("exclude pattern too deeply nested: %q", p))
		}
	}
	return nil
}

// tripleStarNesting rejects "**/**/**"-style patterns deeper than two
// levels of recursive wildcard, per spec §4.7/§6.
func tripleStarNesting(pattern string) bool {
	count := 0
	for i := 0; i+1 < len(pattern); i++ {
		if pattern[i] == '*' && pattern[i+1] == '*' {
			count++
			i++
		}
	}
	return count > 2
}

// GlobOptions parameters a glob-based file-name search (spec §4.7, §6).
type GlobOptions struct {
	MaxResults      int
	MaxDepth        int
	BaseNameMatch   bool
	CaseSensitive   bool
	SkipSymlinks    bool // default true; see NewGlobOptions
	IncludeHidden   bool
	SortBy          SortBy
	ExcludePatterns []string
	Cancel          *CancelToken
}

// NewGlobOptions returns GlobOptions with SkipSymlinks defaulted to true,
// per spec §4.7.
func NewGlobOptions() GlobOptions {
	return GlobOptions{SkipSymlinks: true}
}

// SortBy selects the ordering applied to glob-search and analysis results.
type SortBy string

const (
	SortByName     SortBy = "name"
	SortBySize     SortBy = "size"
	SortByModified SortBy = "modified"
)

// Validate enforces spec §4.7's pattern shape rules for pattern itself
// (exclude patterns are validated by validateExcludePatterns).
func (o GlobOptions) Validate(pattern string) error {
	if pattern == "" {
		return New(ErrInvalidInput, "", "glob pattern must not be empty")
	}
	if len(pattern) > MaxGlobPatternLength {
		return New(ErrInvalidInput, "", fmt.Sprintf("glob pattern too long: %d bytes (max %d)", len(pattern), MaxGlobPatternLength))
	}
	if tripleStarNesting(pattern) {
		return New(ErrInvalidInput, "", fmt.Sprintf("glob pattern too deeply nested: %q", pattern))
	}
	if err := rejectAbsoluteOrTraversal(pattern); err != nil {
		return err
	}
	return validateExcludePatterns(o.ExcludePatterns)
}

func rejectAbsoluteOrTraversal(pattern string) error {
	if len(pattern) > 0 && (pattern[0] == '/' || pattern[0] == '\\') {
		return New(ErrInvalidInput, "", "glob pattern must not be an absolute path")
	}
	if len(pattern) >= 2 && pattern[1] == ':' {
		return New(ErrInvalidInput, "", "glob pattern must not include a drive letter")
	}
	if len(pattern) >= 2 && pattern[0] == '\\' && pattern[1] == '\\' {
		return New(ErrInvalidInput, "", "glob pattern must not be a UNC path")
	}
	for _, seg := range splitPathSegments(pattern) {
		if seg == ".." {
			return New(ErrInvalidInput, "", "glob pattern must not contain \"..\" segments")
		}
	}
	return nil
}

func splitPathSegments(p string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' || p[i] == '\\' {
			if i > start {
				segs = append(segs, p[start:i])
			}
			start = i + 1
		}
	}
	if start < len(p) {
		segs = append(segs, p[start:])
	}
	return segs
}
