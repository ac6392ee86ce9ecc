// match.go: content-search match strategies (spec §4.8.1) — literal and
// regex, with the ReDoS pre-check the spec requires before compiling an
// untrusted pattern. Grounded on the teacher's validation.go caching
// pattern (compile once, reuse across calls).
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"regexp"
	"strings"
	"time"
)

// MatchOptions parameters a content-search matcher (spec §4.8.1, §6).
type MatchOptions struct {
	Pattern         string
	IsRegex         bool
	CaseSensitive   bool
	WholeWord       bool
	IsLiteral       bool // when IsRegex: escape metacharacters before compiling
	MatchTimeoutMs  int
}

// Matcher is the countMatches(line) capability of spec §4.8.1: ≥0 is an
// occurrence count, −1 signals "regex budget exceeded, skip line".
type Matcher interface {
	Count(line string) int
}

// NewMatcher builds a Matcher for opts, applying the ReDoS pre-check to
// regex patterns before compiling (spec §4.8.1 "ReDoS pre-check").
func NewMatcher(opts MatchOptions) (Matcher, error) {
	if opts.Pattern == "" {
		return nil, New(ErrInvalidInput, "", "search pattern must not be empty")
	}

	if !opts.IsRegex {
		return &literalMatcher{needle: normalizeCase(opts.Pattern, opts.CaseSensitive), caseSensitive: opts.CaseSensitive}, nil
	}

	pattern := opts.Pattern
	if opts.IsLiteral {
		pattern = regexp.QuoteMeta(pattern)
	}
	if !opts.IsLiteral {
		if err := checkReDoS(pattern); err != nil {
			return nil, err
		}
	}
	if opts.WholeWord {
		pattern = `\b` + pattern + `\b`
	}
	if !opts.CaseSensitive {
		pattern = "(?i)" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, New(ErrInvalidPattern, "", "invalid regular expression: "+err.Error())
	}

	timeout := opts.MatchTimeoutMs
	if timeout <= 0 {
		timeout = DefaultRegexMatchTimeoutMs
	}
	return &regexMatcher{re: re, timeout: time.Duration(timeout) * time.Millisecond}, nil
}

func normalizeCase(s string, caseSensitive bool) string {
	if caseSensitive {
		return s
	}
	return strings.ToLower(s)
}

type literalMatcher struct {
	needle        string
	caseSensitive bool
}

// Count performs a non-overlapping substring scan stepping by needle
// length, per spec §4.8.1 "Literal".
func (m *literalMatcher) Count(line string) int {
	haystack := normalizeCase(line, m.caseSensitive)
	if m.needle == "" {
		return 0
	}
	count := 0
	step := len(m.needle)
	for i := 0; i+step <= len(haystack); {
		idx := strings.Index(haystack[i:], m.needle)
		if idx < 0 {
			break
		}
		count++
		i += idx + step
	}
	return count
}

type regexMatcher struct {
	re      *regexp.Regexp
	timeout time.Duration
}

// Count runs the compiled pattern to exhaustion over line, bounded by a
// wall-clock deadline, a max-iteration cap of min(len(line)*2, 10000), and
// an infinite-loop sentinel on non-advancing lastIndex (spec §4.8.1
// "Regex"). Returns −1 if the deadline or sentinel trips.
func (m *regexMatcher) Count(line string) int {
	deadline := time.Now().Add(m.timeout)
	maxIterations := len(line) * 2
	if maxIterations > 10000 {
		maxIterations = 10000
	}
	if maxIterations == 0 {
		maxIterations = 1
	}

	count := 0
	lastIndex := 0
	for iter := 0; iter < maxIterations; iter++ {
		if time.Now().After(deadline) {
			return -1
		}
		if lastIndex > len(line) {
			break
		}
		loc := m.re.FindStringIndex(line[lastIndex:])
		if loc == nil {
			break
		}
		count++
		start, end := loc[0]+lastIndex, loc[1]+lastIndex
		next := end
		if end == start {
			next = end + 1 // empty match forces lastIndex++
		}
		if next <= lastIndex {
			return -1 // lastIndex failed to advance: infinite-loop sentinel
		}
		lastIndex = next
	}
	return count
}

// checkReDoS implements spec §4.8.1's "ReDoS pre-check": reject nested
// quantifier constructs and any {n} / {n,m} quantifier with n >= 25.
func checkReDoS(pattern string) error {
	if nestedQuantifierRe.MatchString(pattern) {
		return New(ErrInvalidPattern, "", "pattern rejected: possible ReDoS - nested quantifier construct may cause catastrophic backtracking")
	}
	for _, m := range boundedQuantifierRe.FindAllStringSubmatch(pattern, -1) {
		n := parseQuantifierBound(m[1])
		if n >= 25 {
			return New(ErrInvalidPattern, "", "pattern rejected: possible ReDoS - quantifier bound too large")
		}
	}
	return nil
}

var (
	nestedQuantifierRe = regexp.MustCompile(`[+*?}]\s*\)\s*[+*?{]`)
	boundedQuantifierRe = regexp.MustCompile(`\{(\d+)(?:,\d*)?\}`)
)

func parseQuantifierBound(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
		if n > 1<<20 {
			return n
		}
	}
	return n
}
