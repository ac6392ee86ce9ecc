// glob.go: the public Glob Search API (spec §2 component 3, §4.7), built
// on the shared doublestar matcher in globmatch.go and the bounded BFS
// walker for candidate enumeration.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import "sort"

// GlobMatch is a single glob-search hit (spec §4.7).
type GlobMatch struct {
	Path       string
	Type       EntryType
	Size       int64
	HasSize    bool
	ModTime    string
}

// GlobResult is the outcome of Glob (spec §4.7).
type GlobResult struct {
	Matches       []GlobMatch
	Truncated     bool
	StoppedReason StoppedReason
}

// Glob enumerates candidate paths under basePath matching pattern,
// excluding any matching excludePatterns, per spec §4.7. basePath must
// already be sandbox-validated by the caller.
func Glob(w *Walker, basePath, pattern string, opts GlobOptions) (GlobResult, error) {
	if err := opts.Validate(pattern); err != nil {
		return GlobResult{}, err
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 64
	}
	walkOpts := WalkOptions{
		MaxDepth:        maxDepth,
		IncludeHidden:   opts.IncludeHidden,
		ExcludePatterns: opts.ExcludePatterns,
		IncludeSize:     true,
		Cancel:          opts.Cancel,
	}

	entries, summary, err := w.Walk(basePath, walkOpts)
	if err != nil {
		return GlobResult{}, err
	}

	caseSensitive := opts.CaseSensitive
	var result GlobResult
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = 1000
	}

	for _, e := range entries {
		if opts.SkipSymlinks && e.Type == EntrySymlink {
			continue
		}

		candidate := e.Name
		if !opts.BaseNameMatch {
			candidate = toPosixRel(basePath, e.Path())
		}
		if !matchGlob(pattern, candidate, caseSensitive) {
			continue
		}

		m := GlobMatch{Path: e.Path(), Type: e.Type}
		if e.HasSize {
			m.Size = e.Size
			m.HasSize = true
		}
		if e.HasModTime {
			m.ModTime = e.ModTime.UTC().Format("2006-01-02T15:04:05Z")
		}
		result.Matches = append(result.Matches, m)

		if len(result.Matches) >= maxResults {
			result.Truncated = true
			result.StoppedReason = StoppedMaxResult
			break
		}
	}

	if !result.Truncated && summary.Truncated {
		result.Truncated = true
		result.StoppedReason = summary.StoppedReason
	}

	sortGlobMatches(result.Matches, opts.SortBy)
	return result, nil
}

func sortGlobMatches(matches []GlobMatch, by SortBy) {
	switch by {
	case SortBySize:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Size > matches[j].Size })
	case SortByModified:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].ModTime > matches[j].ModTime })
	default:
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].Path < matches[j].Path })
	}
}
