// glob_test.go: glob-based file name search tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/agilira/filesystem-context/pkg/fscontext"
)

func buildGlobFixture(t *testing.T) string {
	t.Helper()
	root := mustTempDir(t)
	if err := os.MkdirAll(filepath.Join(root, "src"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	files := map[string]string{
		"a.go":         "package main",
		"b.txt":        "hello",
		"src/c.go":     "package src",
		"src/d.md":     "docs",
	}
	for path, content := range files {
		if err := os.WriteFile(filepath.Join(root, path), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}
	return root
}

func newWalkerForGlob(t *testing.T, root string) *fscontext.Walker {
	t.Helper()
	sandbox, err := fscontext.NewSandbox([]string{root})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	return fscontext.NewWalker(sandbox)
}

func TestGlobMatchesByExtensionAcrossDepth(t *testing.T) {
	root := buildGlobFixture(t)
	walker := newWalkerForGlob(t, root)

	result, err := fscontext.Glob(walker, root, "**/*.go", fscontext.NewGlobOptions())
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("expected 2 .go matches, got %d: %+v", len(result.Matches), result.Matches)
	}
}

func TestGlobBaseNameMatchIgnoresDirectory(t *testing.T) {
	root := buildGlobFixture(t)
	walker := newWalkerForGlob(t, root)

	opts := fscontext.NewGlobOptions()
	opts.BaseNameMatch = true
	result, err := fscontext.Glob(walker, root, "*.go", opts)
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Fatalf("expected baseNameMatch to find both a.go and src/c.go, got %d", len(result.Matches))
	}
}

func TestGlobEmptyPatternRejected(t *testing.T) {
	root := buildGlobFixture(t)
	walker := newWalkerForGlob(t, root)

	_, err := fscontext.Glob(walker, root, "", fscontext.NewGlobOptions())
	if !fscontext.IsCode(err, fscontext.ErrInvalidInput) {
		t.Errorf("expected E_INVALID_INPUT for an empty pattern, got %v", err)
	}
}

func TestGlobMaxResultsTruncates(t *testing.T) {
	root := buildGlobFixture(t)
	walker := newWalkerForGlob(t, root)

	opts := fscontext.NewGlobOptions()
	opts.MaxResults = 1
	result, err := fscontext.Glob(walker, root, "**/*", opts)
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if !result.Truncated {
		t.Error("expected truncated=true when matches exceed maxResults")
	}
	if len(result.Matches) != 1 {
		t.Errorf("expected exactly 1 match, got %d", len(result.Matches))
	}
}

func TestGlobSortBySizeDescending(t *testing.T) {
	root := mustTempDir(t)
	if err := os.WriteFile(filepath.Join(root, "small.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "big.txt"), []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	walker := newWalkerForGlob(t, root)

	opts := fscontext.NewGlobOptions()
	opts.SortBy = fscontext.SortBySize
	result, err := fscontext.Glob(walker, root, "*.txt", opts)
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(result.Matches) != 2 || result.Matches[0].Size < result.Matches[1].Size {
		t.Errorf("expected matches sorted by size descending, got %+v", result.Matches)
	}
}
