// match_test.go: content-search match strategy tests
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

func TestLiteralMatcherCaseSensitive(t *testing.T) {
	m, err := fscontext.NewMatcher(fscontext.MatchOptions{Pattern: "foo", CaseSensitive: true})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if got := m.Count("foo bar foo"); got != 2 {
		t.Errorf("expected 2 matches, got %d", got)
	}
	if got := m.Count("FOO bar"); got != 0 {
		t.Errorf("expected 0 matches for differing case, got %d", got)
	}
}

func TestLiteralMatcherCaseInsensitive(t *testing.T) {
	m, err := fscontext.NewMatcher(fscontext.MatchOptions{Pattern: "foo", CaseSensitive: false})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if got := m.Count("FOO Foo foo"); got != 3 {
		t.Errorf("expected 3 matches, got %d", got)
	}
}

func TestRegexMatcherWholeWord(t *testing.T) {
	m, err := fscontext.NewMatcher(fscontext.MatchOptions{
		Pattern: "cat", IsRegex: true, WholeWord: true, CaseSensitive: true,
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if got := m.Count("cat concatenate cat"); got != 2 {
		t.Errorf("expected 2 whole-word matches, got %d", got)
	}
}

func TestRegexMatcherIsLiteralEscapesMetacharacters(t *testing.T) {
	m, err := fscontext.NewMatcher(fscontext.MatchOptions{
		Pattern: "a.b", IsRegex: true, IsLiteral: true, CaseSensitive: true,
	})
	if err != nil {
		t.Fatalf("NewMatcher: %v", err)
	}
	if got := m.Count("a.b axb"); got != 1 {
		t.Errorf("expected the literal dot to not match 'axb', got %d matches", got)
	}
}

func TestReDoSPreCheckRejectsNestedQuantifier(t *testing.T) {
	_, err := fscontext.NewMatcher(fscontext.MatchOptions{
		Pattern: "(a+)+", IsRegex: true,
	})
	if !fscontext.IsCode(err, fscontext.ErrInvalidPattern) {
		t.Errorf("expected E_INVALID_PATTERN for a nested quantifier, got %v", err)
	}
	if !strings.Contains(err.Error(), "ReDoS") {
		t.Errorf("expected rejection message to contain \"ReDoS\", got %q", err.Error())
	}
}

func TestReDoSPreCheckRejectsLargeBoundedQuantifier(t *testing.T) {
	_, err := fscontext.NewMatcher(fscontext.MatchOptions{
		Pattern: `a{30}`, IsRegex: true,
	})
	if !fscontext.IsCode(err, fscontext.ErrInvalidPattern) {
		t.Errorf("expected E_INVALID_PATTERN for a quantifier bound >= 25, got %v", err)
	}
	if !strings.Contains(err.Error(), "ReDoS") {
		t.Errorf("expected rejection message to contain \"ReDoS\", got %q", err.Error())
	}
}

func TestReDoSPreCheckAllowsSmallBoundedQuantifier(t *testing.T) {
	_, err := fscontext.NewMatcher(fscontext.MatchOptions{
		Pattern: `a{5,10}`, IsRegex: true,
	})
	if err != nil {
		t.Errorf("expected a{5,10} to be accepted, got %v", err)
	}
}

func TestReDoSPreCheckSkippedForLiteralRegex(t *testing.T) {
	_, err := fscontext.NewMatcher(fscontext.MatchOptions{
		Pattern: "(a+)+", IsRegex: true, IsLiteral: true,
	})
	if err != nil {
		t.Errorf("expected the ReDoS pre-check to be skipped for isLiteral patterns, got %v", err)
	}
}

func TestNewMatcherRejectsEmptyPattern(t *testing.T) {
	_, err := fscontext.NewMatcher(fscontext.MatchOptions{Pattern: ""})
	if !fscontext.IsCode(err, fscontext.ErrInvalidInput) {
		t.Errorf("expected E_INVALID_INPUT for an empty pattern, got %v", err)
	}
}
