// reader.go: the line-oriented reader (spec §2 component 4, §4.4). Modes are
// mutually exclusive: full, head(N), tail(N), lineRange(start, end), all
// 1-indexed.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// ReadResult is the outcome of a ReadFile call (spec §4.4).
type ReadResult struct {
	Content      string
	Truncated    bool
	HasMoreLines bool
}

// ReadFile reads resolvedPath (already sandbox-validated) according to
// opts, dispatching to full/head/tail/lineRange per spec §4.4.
func ReadFile(resolvedPath string, opts ReadOptions) (ReadResult, error) {
	if err := opts.Validate(); err != nil {
		return ReadResult{}, err
	}
	if err := checkCancelled(opts.Cancel); err != nil {
		return ReadResult{}, err
	}

	if opts.SkipBinary {
		binary, err := IsProbablyBinary(resolvedPath)
		if err != nil {
			return ReadResult{}, err
		}
		if binary {
			return ReadResult{}, New(ErrInvalidInput, resolvedPath, "refusing to read binary content; pass skipBinary=false to override")
		}
	}

	switch opts.Mode {
	case ReadHead:
		return readHead(resolvedPath, opts)
	case ReadTail:
		return readTail(resolvedPath, opts)
	case ReadLineRange:
		return readLineRange(resolvedPath, opts)
	default:
		return readFull(resolvedPath, opts)
	}
}

func readFull(path string, opts ReadOptions) (ReadResult, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}
	maxSize := opts.effectiveMaxSize()
	if info.Size() > maxSize {
		return ReadResult{}, New(ErrInvalidInput, path, fmt.Sprintf(
			"file is %d bytes, exceeding maxSize %d; use head, tail, or lineRange for a partial read", info.Size(), maxSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}
	if err := checkCancelled(opts.Cancel); err != nil {
		return ReadResult{}, err
	}
	return ReadResult{Content: string(data)}, nil
}

func readHead(path string, opts ReadOptions) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}
	defer f.Close()

	maxBytes := opts.effectiveMaxSize()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	var bytesRead int64
	truncated := false

	for scanner.Scan() {
		if err := checkCancelled(opts.Cancel); err != nil {
			return ReadResult{}, err
		}
		line := scanner.Text()
		bytesRead += int64(len(line)) + 1
		if len(lines) >= opts.HeadLines || bytesRead > maxBytes {
			truncated = true
			break
		}
		lines = append(lines, line)
		if len(lines) >= opts.HeadLines {
			// Peek whether more lines follow to decide truncation below.
			truncated = scanner.Scan()
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}

	return ReadResult{Content: joinLines(lines), Truncated: truncated}, nil
}

func readTail(path string, opts ReadOptions) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}

	maxSize := opts.effectiveMaxSize()
	scanStart := int64(0)
	budgetExceeded := false
	if info.Size() > maxSize {
		scanStart = info.Size() - maxSize
		budgetExceeded = true
	}

	lines, totalLinesInWindow, err := tailLinesFrom(f, scanStart, opts.TailLines, opts.Cancel)
	if err != nil {
		return ReadResult{}, err
	}

	hasMoreLines := totalLinesInWindow > len(lines) || budgetExceeded
	truncated := budgetExceeded && hasMoreLines

	if len(lines) <= opts.TailLines && !hasMoreLines {
		return ReadResult{Content: joinLines(lines), Truncated: false, HasMoreLines: false}, nil
	}
	return ReadResult{Content: joinLines(lines), Truncated: truncated, HasMoreLines: hasMoreLines}, nil
}

// tailLinesFrom reads every line from scanStart to EOF and returns the last
// n of them, plus the total line count seen in that window. Used by
// readTail; the window is the whole file unless the maxSize budget forced
// scanStart forward, in which case tail-of-window may undercount relative
// to the true file (acceptable: the byte budget was exceeded).
func tailLinesFrom(f *os.File, scanStart int64, n int, cancel *CancelToken) ([]string, int, error) {
	if _, err := f.Seek(scanStart, io.SeekStart); err != nil {
		return nil, 0, err
	}
	if scanStart > 0 {
		boundary, err := FindUTF8Boundary(f, scanStart)
		if err == nil {
			if _, err := f.Seek(boundary, io.SeekStart); err != nil {
				return nil, 0, err
			}
		}
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	ring := make([]string, 0, n)
	total := 0
	for scanner.Scan() {
		if err := checkCancelled(cancel); err != nil {
			return nil, 0, err
		}
		total++
		ring = append(ring, scanner.Text())
		if len(ring) > n {
			ring = ring[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return ring, total, nil
}

func readLineRange(path string, opts ReadOptions) (ReadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}
	defer f.Close()

	maxBytes := opts.effectiveMaxSize()
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	var bytesRead int64
	lineNo := 0
	truncated := false
	hasMoreLines := false

	for scanner.Scan() {
		if err := checkCancelled(opts.Cancel); err != nil {
			return ReadResult{}, err
		}
		lineNo++
		text := scanner.Text()

		if lineNo > opts.RangeEnd {
			hasMoreLines = true
			break
		}
		if lineNo < opts.RangeStart {
			continue
		}

		bytesRead += int64(len(text)) + 1
		if bytesRead > maxBytes {
			truncated = true
			break
		}
		lines = append(lines, text)
	}
	if err := scanner.Err(); err != nil {
		return ReadResult{}, ToMcpError(path, err)
	}

	// Scanning terminated (EOF or budget) before observing line RangeEnd+1.
	if !hasMoreLines && lineNo < opts.RangeEnd {
		truncated = true
	}

	return ReadResult{Content: joinLines(lines), Truncated: truncated, HasMoreLines: hasMoreLines}, nil
}

func joinLines(lines []string) string {
	var buf bytes.Buffer
	for i, l := range lines {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(l)
	}
	return buf.String()
}
