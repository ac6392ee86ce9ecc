// sandbox_fuzz_test.go: path validation fuzzing, grounded on the teacher's
// FuzzPluginPathSecurity in security_fuzz_test.go but scoped to sandbox
// path containment instead of plugin loading.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext_test

import (
	"strings"
	"testing"

	"github.com/agilira/filesystem-context/pkg/fscontext"
)

// FuzzValidateExistingPath asserts ValidateExistingPath never panics and
// never returns a resolved path outside the sandbox's single allowed root.
func FuzzValidateExistingPath(f *testing.F) {
	f.Add("../../../etc/passwd")
	f.Add("..\\..\\..\\windows\\system32\\config\\sam")
	f.Add("/../../etc/passwd")
	f.Add("safe.txt\x00../../etc/passwd")
	f.Add("..%2F..%2F..%2Fetc%2Fpasswd")
	f.Add("CON")
	f.Add("con.txt")
	f.Add("NUL")
	f.Add(strings.Repeat("../", 200) + "etc/passwd")
	f.Add(strings.Repeat("A", 5000))
	f.Add("~/secret.txt")
	f.Add("")
	f.Add("\x00")
	f.Add("a\nb")

	f.Fuzz(func(t *testing.T, candidate string) {
		root := t.TempDir()
		sandbox, err := fscontext.NewSandbox([]string{root})
		if err != nil {
			t.Fatalf("NewSandbox: %v", err)
		}

		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("ValidateExistingPath panicked on %q: %v", candidate, r)
			}
		}()

		resolved, err := sandbox.ValidateExistingPath(candidate)
		if err == nil && !strings.HasPrefix(resolved, root) {
			t.Fatalf("ValidateExistingPath accepted %q resolving outside root: %s", candidate, resolved)
		}
	})
}
