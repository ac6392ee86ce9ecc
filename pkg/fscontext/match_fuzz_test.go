// match_fuzz_test.go: ReDoS pre-check and matcher construction fuzzing.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext_test

import (
	"testing"
	"time"

	"github.com/agilira/filesystem-context/pkg/fscontext"
)

// FuzzNewMatcherRegex asserts that NewMatcher never panics on arbitrary
// regex input and, whenever it accepts a pattern, that Count on a bounded
// line returns promptly instead of hanging.
func FuzzNewMatcherRegex(f *testing.F) {
	f.Add("(a+)+")
	f.Add("a{30}")
	f.Add("a{5,10}")
	f.Add("(a|aa)+b")
	f.Add("(.*)*")
	f.Add("^(a+)+$")
	f.Add("[")
	f.Add("")
	f.Add("\\")
	f.Add("a{1000000}")
	f.Add("(?:a+)+")

	f.Fuzz(func(t *testing.T, pattern string) {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("NewMatcher panicked on pattern %q: %v", pattern, r)
			}
		}()

		m, err := fscontext.NewMatcher(fscontext.MatchOptions{
			Pattern: pattern, IsRegex: true, CaseSensitive: true, MatchTimeoutMs: 50,
		})
		if err != nil {
			return
		}

		done := make(chan int, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					done <- -1
					return
				}
			}()
			done <- m.Count("the quick brown fox jumps over the lazy dog")
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("Count did not return within the bound for pattern %q", pattern)
		}
	})
}
