// globmatch.go: the shared glob-style matcher behind the walker's exclude
// predicate (spec §4.5) and the glob-search engine (spec §4.7). Built on
// github.com/bmatcuk/doublestar/v4, the embedded glob engine the spec calls
// for — the same library mutagen-io/mutagen uses for its own ignore-pattern
// matching.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// matchGlob reports whether name (a POSIX-style relative path or bare file
// name) matches pattern, honoring case sensitivity. An invalid pattern
// never matches (the caller is responsible for validating patterns ahead of
// use via ValidateGlobPattern).
func matchGlob(pattern, name string, caseSensitive bool) bool {
	p, n := pattern, name
	if !caseSensitive {
		p = strings.ToLower(p)
		n = strings.ToLower(n)
	}
	ok, err := doublestar.Match(p, n)
	return err == nil && ok
}

// defaultGlobCaseSensitivity returns the platform default: case-sensitive
// everywhere except Windows, per spec §4.5/§4.7.
func defaultGlobCaseSensitivity() bool {
	return runtime.GOOS != "windows"
}

// shouldExcludeName reports whether name or relPath (POSIX-normalized)
// matches any of patterns, per spec §4.5's "matches either the bare entry
// name or the POSIX-normalized relative path" rule.
func shouldExcludeName(patterns []string, name, relPath string, caseSensitive bool) bool {
	for _, pattern := range patterns {
		if matchGlob(pattern, name, caseSensitive) || matchGlob(pattern, relPath, caseSensitive) {
			return true
		}
	}
	return false
}

// isHidden reports whether name is a dot-file/dot-directory by POSIX
// convention (spec §4.5: "dot files match dot-patterns only when explicitly
// listed or includeHidden").
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// toPosixRel returns the POSIX-normalized path of full relative to base.
func toPosixRel(base, full string) string {
	rel, err := filepath.Rel(base, full)
	if err != nil {
		rel = full
	}
	return filepath.ToSlash(rel)
}

// ValidateGlobPattern applies spec §4.7's pre-validation: reject absolute
// prefixes, ".." segments, length > 1000, and ">2 levels" of recursive
// wildcard nesting. It is exported for callers; Glob itself validates
// through GlobOptions.Validate.
func ValidateGlobPattern(pattern string) error {
	if pattern == "" {
		return New(ErrInvalidInput, "", "pattern must not be empty")
	}
	if len(pattern) > MaxGlobPatternLength {
		return New(ErrInvalidInput, "", "pattern exceeds the maximum length")
	}
	if tripleStarNesting(pattern) {
		return New(ErrInvalidInput, "", "pattern too deeply nested")
	}
	return rejectAbsoluteOrTraversal(pattern)
}
