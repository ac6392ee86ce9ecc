// sandbox_test.go: path sandbox validation tests
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agilira/filesystem-context/pkg/fscontext"
)

func mustTempDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "fscontext-sandbox-*")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

func TestValidateExistingPathInsideRoot(t *testing.T) {
	root := mustTempDir(t)
	file := filepath.Join(root, "a.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sandbox, err := fscontext.NewSandbox([]string{root})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}

	resolved, err := sandbox.ValidateExistingPath(file)
	if err != nil {
		t.Fatalf("ValidateExistingPath: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected a resolved path")
	}
}

func TestValidateExistingPathOutsideRootRejected(t *testing.T) {
	root := mustTempDir(t)
	outside := mustTempDir(t)
	outsideFile := filepath.Join(outside, "secret.txt")
	if err := os.WriteFile(outsideFile, []byte("nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	sandbox, err := fscontext.NewSandbox([]string{root})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}

	_, err = sandbox.ValidateExistingPath(outsideFile)
	if err == nil {
		t.Fatal("expected access denied for a path outside the allowed root")
	}
	if !fscontext.IsCode(err, fscontext.ErrAccessDenied) {
		t.Errorf("expected E_ACCESS_DENIED, got %v", err)
	}
	if !strings.Contains(err.Error(), "Allowed:") {
		t.Errorf("expected error message to contain the allowed-roots hint, got %q", err.Error())
	}
}

func TestValidateExistingPathSymlinkEscape(t *testing.T) {
	root := mustTempDir(t)
	outside := mustTempDir(t)
	outsideFile := filepath.Join(outside, "outside.txt")
	if err := os.WriteFile(outsideFile, []byte("nope"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	link := filepath.Join(root, "escape")
	if err := os.Symlink(outside, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	sandbox, err := fscontext.NewSandbox([]string{root})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}

	_, err = sandbox.ValidateExistingPath(filepath.Join(link, "outside.txt"))
	if err == nil {
		t.Fatal("expected the symlink escape to be rejected")
	}
	if !fscontext.IsCode(err, fscontext.ErrAccessDenied) {
		t.Errorf("expected E_ACCESS_DENIED, got %v", err)
	}
}

func TestValidateSyntaxRejectsEmbeddedNUL(t *testing.T) {
	sandbox, err := fscontext.NewSandbox([]string{mustTempDir(t)})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	_, err = sandbox.ValidateExistingPath("a\x00b")
	if !fscontext.IsCode(err, fscontext.ErrInvalidInput) {
		t.Errorf("expected E_INVALID_INPUT for an embedded NUL, got %v", err)
	}
}

func TestValidateSyntaxRejectsReservedWindowsName(t *testing.T) {
	sandbox, err := fscontext.NewSandbox([]string{mustTempDir(t)})
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	_, err = sandbox.ValidateExistingPath(filepath.Join(mustTempDir(t), "CON"))
	if !fscontext.IsCode(err, fscontext.ErrInvalidInput) {
		t.Errorf("expected E_INVALID_INPUT for a reserved device name, got %v", err)
	}
}

func TestNoAllowedDirectoriesIsAccessDenied(t *testing.T) {
	sandbox, err := fscontext.NewSandbox(nil)
	if err != nil {
		t.Fatalf("NewSandbox: %v", err)
	}
	_, err = sandbox.ValidateExistingPath(mustTempDir(t))
	if !fscontext.IsCode(err, fscontext.ErrAccessDenied) {
		t.Errorf("expected E_ACCESS_DENIED with no allowed directories, got %v", err)
	}
}
