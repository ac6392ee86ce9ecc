// reader_test.go: line-oriented reader tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/agilira/filesystem-context/pkg/fscontext"
)

func writeLines(t *testing.T, dir string, n int) string {
	t.Helper()
	var sb strings.Builder
	for i := 1; i <= n; i++ {
		sb.WriteString("line " + strconv.Itoa(i) + "\n")
	}
	path := filepath.Join(dir, "lines.txt")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestReadFileHeadOvershootNotTruncated(t *testing.T) {
	dir := mustTempDir(t)
	path := writeLines(t, dir, 10)

	res, err := fscontext.ReadFile(path, fscontext.ReadOptions{Mode: fscontext.ReadHead, HeadLines: 100})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res.Truncated {
		t.Error("expected truncated=false when head N >= total lines")
	}
	if got := strings.Count(res.Content, "\n"); got != 9 {
		t.Errorf("expected 9 newlines joining 10 lines, got %d", got)
	}
}

func TestReadFileTailOvershootNotTruncated(t *testing.T) {
	dir := mustTempDir(t)
	path := writeLines(t, dir, 10)

	res, err := fscontext.ReadFile(path, fscontext.ReadOptions{Mode: fscontext.ReadTail, TailLines: 100})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res.Truncated {
		t.Error("expected truncated=false when tail N >= total lines")
	}
}

func TestReadFileLineRangeBeyondEndTruncates(t *testing.T) {
	dir := mustTempDir(t)
	path := writeLines(t, dir, 100)

	res, err := fscontext.ReadFile(path, fscontext.ReadOptions{
		Mode: fscontext.ReadLineRange, RangeStart: 1, RangeEnd: 200,
	})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !res.Truncated {
		t.Error("expected truncated=true when lineRange.end exceeds the file's line count")
	}
}

func TestReadFileLineRangeWithinBoundsNotTruncated(t *testing.T) {
	dir := mustTempDir(t)
	path := writeLines(t, dir, 100)

	res, err := fscontext.ReadFile(path, fscontext.ReadOptions{
		Mode: fscontext.ReadLineRange, RangeStart: 10, RangeEnd: 20,
	})
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res.Truncated {
		t.Error("expected truncated=false for an in-bounds lineRange")
	}
	if got := strings.Count(res.Content, "\n"); got != 10 {
		t.Errorf("expected 11 lines (10 newlines), got %d newlines", got)
	}
}

func TestReadOptionsRejectsMaxSizeOverHardCap(t *testing.T) {
	opts := fscontext.ReadOptions{MaxSize: fscontext.HardMaxReadSize + 1}
	if err := opts.Validate(); !fscontext.IsCode(err, fscontext.ErrInvalidInput) {
		t.Errorf("expected E_INVALID_INPUT for maxSize over the hard cap, got %v", err)
	}
}

func TestReadFileFullOverMaxSizeRejected(t *testing.T) {
	dir := mustTempDir(t)
	path := writeLines(t, dir, 10)

	_, err := fscontext.ReadFile(path, fscontext.ReadOptions{MaxSize: 1})
	if !fscontext.IsCode(err, fscontext.ErrInvalidInput) {
		t.Errorf("expected E_INVALID_INPUT when the file exceeds maxSize, got %v", err)
	}
}
