// scanner.go: the per-file content scanner (spec §2 component 7 part 1,
// §4.8.2). Grounded on reader.go's bufio.Scanner line-streaming style,
// extended with a sliding context-before ring and context-after
// collectors.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"bufio"
	"os"
	"strings"
)

// ScanOptions parameters a single-file content scan (spec §4.8.2).
type ScanOptions struct {
	MaxFileSize  int64 // default DefaultMaxReadSize
	SkipBinary   bool
	ContextLines int
	MaxMatches   int
	Cancel       *CancelToken
}

// ScanResult is the outcome of scanning one file (spec §4.8.2).
type ScanResult struct {
	Matches                      []ContentMatch
	Matched                      bool
	SkippedTooLarge              bool
	SkippedBinary                bool
	LinesSkippedDueToRegexTimeout int
}

type pendingContextAfter struct {
	matchIndex int // index into result.Matches
	remaining  int
}

// ScanFile streams resolvedPath line by line (spec §4.8.2), calling matcher
// per line and collecting up to maxMatches ContentMatch values with
// sliding context. displayPath is the path recorded on each ContentMatch
// (the caller's requested, pre-resolution form).
func ScanFile(resolvedPath, displayPath string, matcher Matcher, opts ScanOptions) (ScanResult, error) {
	if err := checkCancelled(opts.Cancel); err != nil {
		return ScanResult{}, err
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxReadSize
	}

	info, err := os.Stat(resolvedPath)
	if err != nil {
		return ScanResult{}, ToMcpError(resolvedPath, err)
	}
	if info.Size() > maxSize {
		return ScanResult{SkippedTooLarge: true}, nil
	}
	if opts.SkipBinary {
		binary, err := IsProbablyBinary(resolvedPath)
		if err != nil {
			return ScanResult{}, err
		}
		if binary {
			return ScanResult{SkippedBinary: true}, nil
		}
	}

	f, err := os.Open(resolvedPath)
	if err != nil {
		return ScanResult{}, ToMcpError(resolvedPath, err)
	}
	defer f.Close()

	maxMatches := opts.MaxMatches
	if maxMatches <= 0 {
		maxMatches = 1000
	}
	contextLines := opts.ContextLines

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var result ScanResult
	contextBefore := newRing(contextLines)
	var pendingAfter []pendingContextAfter
	lineNo := 0

	for scanner.Scan() {
		if err := checkCancelled(opts.Cancel); err != nil {
			return result, err
		}
		if len(result.Matches) >= maxMatches {
			break
		}

		lineNo++
		raw := strings.TrimRight(scanner.Text(), " \t\r")
		emitted := raw
		if len(emitted) > MaxLineContentLength {
			emitted = emitted[:MaxLineContentLength]
		}

		for i := range pendingAfter {
			if pendingAfter[i].remaining > 0 {
				result.Matches[pendingAfter[i].matchIndex].ContextAfter = append(
					result.Matches[pendingAfter[i].matchIndex].ContextAfter, emitted)
				pendingAfter[i].remaining--
			}
		}
		pendingAfter = compactPending(pendingAfter)

		count := matcher.Count(raw)
		switch {
		case count < 0:
			result.LinesSkippedDueToRegexTimeout++
		case count > 0:
			match := ContentMatch{
				File:          displayPath,
				Line:          lineNo,
				Content:       emitted,
				ContextBefore: contextBefore.snapshot(),
				MatchCount:    count,
				insertionIndex: len(result.Matches),
			}
			result.Matches = append(result.Matches, match)
			result.Matched = true
			if contextLines > 0 {
				pendingAfter = append(pendingAfter, pendingContextAfter{
					matchIndex: len(result.Matches) - 1,
					remaining:  contextLines,
				})
			}
		}

		contextBefore.push(emitted)
	}
	if err := scanner.Err(); err != nil {
		return result, ToMcpError(resolvedPath, err)
	}
	return result, nil
}

func compactPending(p []pendingContextAfter) []pendingContextAfter {
	out := p[:0]
	for _, e := range p {
		if e.remaining > 0 {
			out = append(out, e)
		}
	}
	return out
}

// ring is a fixed-capacity sliding window used for contextBefore (spec
// §4.8.2).
type ring struct {
	buf []string
	cap int
}

func newRing(capacity int) *ring {
	if capacity < 0 {
		capacity = 0
	}
	return &ring{cap: capacity}
}

func (r *ring) push(line string) {
	if r.cap == 0 {
		return
	}
	r.buf = append(r.buf, line)
	if len(r.buf) > r.cap {
		r.buf = r.buf[len(r.buf)-r.cap:]
	}
}

func (r *ring) snapshot() []string {
	if len(r.buf) == 0 {
		return nil
	}
	out := make([]string, len(r.buf))
	copy(out, r.buf)
	return out
}
