// pool_test.go: parallel content-search scanner tests, exercised through
// the public ContentSearch facade since scanCandidate is unexported.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/agilira/filesystem-context/pkg/fscontext"
)

func TestContentSearchFindsMatchesAcrossManyFiles(t *testing.T) {
	dir := mustTempDir(t)
	for i := 0; i < 20; i++ {
		name := filepath.Join(dir, fmt.Sprintf("f%02d.txt", i))
		content := "normal line\n"
		if i%5 == 0 {
			content += "TARGET hit\n"
		}
		if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	sandbox, err := fscontext.NewSandbox([]string{dir})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}

	res := fscontext.ContentSearch(sandbox, dir, fscontext.ContentSearchRequest{
		MatchOptions: fscontext.MatchOptions{Pattern: "TARGET", CaseSensitive: true},
	})
	if !res.OK {
		t.Fatalf("expected ok=true, got error %+v", res.Error)
	}
	if res.Payload.Summary.FilesMatched != 4 {
		t.Errorf("expected 4 files matched, got %d", res.Payload.Summary.FilesMatched)
	}
	if res.Payload.Summary.FilesScanned != 20 {
		t.Errorf("expected 20 files scanned, got %d", res.Payload.Summary.FilesScanned)
	}
}

func TestContentSearchResultsSortedByFileThenLine(t *testing.T) {
	dir := mustTempDir(t)
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("needle\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x\nneedle\nneedle\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sandbox, err := fscontext.NewSandbox([]string{dir})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}

	res := fscontext.ContentSearch(sandbox, dir, fscontext.ContentSearchRequest{
		MatchOptions: fscontext.MatchOptions{Pattern: "needle", CaseSensitive: true},
	})
	if !res.OK {
		t.Fatalf("expected ok=true, got error %+v", res.Error)
	}
	matches := res.Payload.Matches
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		prev, cur := matches[i-1], matches[i]
		if prev.File > cur.File || (prev.File == cur.File && prev.Line > cur.Line) {
			t.Errorf("expected matches sorted by (File, Line), got %+v", matches)
		}
	}
}

func TestContentSearchMaxResultsTruncatesSummary(t *testing.T) {
	dir := mustTempDir(t)
	for i := 0; i < 10; i++ {
		name := filepath.Join(dir, fmt.Sprintf("f%02d.txt", i))
		if err := os.WriteFile(name, []byte("needle\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	sandbox, err := fscontext.NewSandbox([]string{dir})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}

	res := fscontext.ContentSearch(sandbox, dir, fscontext.ContentSearchRequest{
		MatchOptions: fscontext.MatchOptions{Pattern: "needle", CaseSensitive: true},
		MaxResults:   3,
	})
	if !res.OK {
		t.Fatalf("expected ok=true, got error %+v", res.Error)
	}
	if len(res.Payload.Matches) != 3 {
		t.Errorf("expected exactly 3 matches under maxResults, got %d", len(res.Payload.Matches))
	}
	if !res.Payload.Summary.Truncated {
		t.Error("expected summary.truncated=true")
	}
}
