// api.go: the external interface of spec §6 — request objects with the
// caller-facing option shapes, and the {ok, payload, summary} / {ok,
// error} result envelope. This is the layer a protocol-dispatch wrapper
// (out of scope, §1) would call into; everything below builds on the
// lower-level sandbox/walker/reader/scanner types.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
)

func statSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, ToMcpError(path, err)
	}
	return info.Size(), nil
}

// ReadFileRequest is the caller-facing shape of a single-file read (spec
// §6 "Read"): Head, Tail, and LineRange are independent optional
// selectors so multi-mode misuse can be rejected with the exact message
// the testable property in spec §8 names, instead of being structurally
// impossible to express (as ReadOptions.Mode, a single enum, makes it
// once validated input has been collapsed into it).
type ReadFileRequest struct {
	Encoding   string
	MaxSize    int64
	Head       *int
	Tail       *int
	LineRange  *[2]int // [start, end], 1-indexed inclusive
	SkipBinary bool
	Cancel     *CancelToken
}

// toOptions validates mode exclusivity and collapses r into a ReadOptions.
func (r ReadFileRequest) toOptions() (ReadOptions, error) {
	set := 0
	if r.Head != nil {
		set++
	}
	if r.Tail != nil {
		set++
	}
	if r.LineRange != nil {
		set++
	}
	if set > 1 {
		return ReadOptions{}, New(ErrInvalidInput, "", "Cannot specify multiple read modes simultaneously (head, tail, lineRange)")
	}

	opts := ReadOptions{
		Encoding:   r.Encoding,
		MaxSize:    r.MaxSize,
		SkipBinary: r.SkipBinary,
		Cancel:     r.Cancel,
	}
	switch {
	case r.Head != nil:
		opts.Mode = ReadHead
		opts.HeadLines = *r.Head
	case r.Tail != nil:
		opts.Mode = ReadTail
		opts.TailLines = *r.Tail
	case r.LineRange != nil:
		opts.Mode = ReadLineRange
		opts.RangeStart = r.LineRange[0]
		opts.RangeEnd = r.LineRange[1]
	default:
		opts.Mode = ReadFull
	}
	return opts, nil
}

// ReadFileResult is the payload half of the Result envelope for a read.
type ReadFileResult struct {
	Content      string `json:"content"`
	Truncated    bool   `json:"truncated"`
	HasMoreLines bool   `json:"hasMoreLines,omitempty"`
}

// ResultError is the error half of the Result envelope (spec §6 "Exposed to
// collaborators").
type ResultError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Path       string `json:"path,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the uniform success/failure envelope of spec §6: `{ok: true,
// …payload, summary?}` or `{ok: false, error}`.
type Result[T any] struct {
	OK      bool         `json:"ok"`
	Payload T            `json:"payload,omitempty"`
	Error   *ResultError `json:"error,omitempty"`
}

// errResult builds the failure half of the Result envelope. A *Error
// carries its own code/suggestion. Any other error reaching this boundary
// (a cancellation *AbortError from cancel.go, or a raw I/O error a lower
// layer returned unwrapped) is reported as E_TIMEOUT, with the error's own
// text as the message. A caller-initiated abort is not distinguished from
// a fired deadline: both carry the E_TIMEOUT code.
func errResult[T any](err error) Result[T] {
	if fe, ok := err.(*Error); ok {
		return Result[T]{Error: &ResultError{
			Code:       string(fe.Code()),
			Message:    fe.Error(),
			Path:       fe.Path,
			Suggestion: fe.Suggestion(),
		}}
	}
	return Result[T]{Error: &ResultError{
		Code:       string(ErrTimeout),
		Message:    err.Error(),
		Suggestion: suggestions[ErrTimeout],
	}}
}

func okResult[T any](payload T) Result[T] {
	return Result[T]{OK: true, Payload: payload}
}

// resultScope starts a diagnostics scope for tool/path (a no-op when
// sandbox.Diagnostics is nil) and returns a closer to call via defer,
// reporting the final Result's outcome.
func resultScope[T any](sandbox *Sandbox, tool, path string, result *Result[T]) func() {
	scope := sandbox.Diagnostics.startScope(tool, path)
	return func() {
		if scope == nil {
			return
		}
		if result.OK {
			scope.End(nil)
			return
		}
		scope.End(fmt.Errorf("%s: %s", result.Error.Code, result.Error.Message))
	}
}

// Read validates requestedPath against sandbox and performs the read
// described by req, returning a uniform Result envelope.
func Read(sandbox *Sandbox, requestedPath string, req ReadFileRequest) (result Result[ReadFileResult]) {
	defer resultScope(sandbox, "read", requestedPath, &result)()

	opts, err := req.toOptions()
	if err != nil {
		return errResult[ReadFileResult](err)
	}

	resolved, err := sandbox.ValidateExistingPath(requestedPath)
	if err != nil {
		return errResult[ReadFileResult](err)
	}

	res, err := ReadFile(resolved, opts)
	if err != nil {
		return errResult[ReadFileResult](err)
	}
	return okResult(ReadFileResult{Content: res.Content, Truncated: res.Truncated, HasMoreLines: res.HasMoreLines})
}

// MultiReadItem is one entry of a MultiRead call's result.
type MultiReadItem struct {
	Path    string          `json:"path"`
	Result  *ReadFileResult `json:"result,omitempty"`
	Skipped string          `json:"skipped,omitempty"`
	Error   *ResultError    `json:"error,omitempty"`
}

// MultiReadRequest is the caller-facing shape of a combined multi-file
// read (spec §6 "Multi-read"): per-file ReadFileRequest options plus a
// combined-budget cap.
type MultiReadRequest struct {
	Paths        []string
	Per          ReadFileRequest
	MaxTotalSize int64 // default DefaultMaxTotalSize
}

// MultiRead reads every path in req.Paths, applying a combined-size
// budget: an item whose size would push the running total of read file
// sizes past MaxTotalSize is recorded as skipped rather than read. Each
// item is checked on its own, so a later, smaller item may still be read
// (spec §6 "Multi-read").
func MultiRead(sandbox *Sandbox, req MultiReadRequest) []MultiReadItem {
	maxTotal := req.MaxTotalSize
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotalSize
	}

	items := make([]MultiReadItem, 0, len(req.Paths))
	var runningTotal int64

	for _, p := range req.Paths {
		resolved, err := sandbox.ValidateExistingPath(p)
		if err != nil {
			items = append(items, itemFromError(p, err))
			continue
		}

		info, err := statSize(resolved)
		if err != nil {
			items = append(items, itemFromError(p, err))
			continue
		}

		if runningTotal+info > maxTotal {
			items = append(items, MultiReadItem{
				Path:    p,
				Skipped: fmt.Sprintf("Skipped: combined estimated read would exceed maxTotalSize (%s)", humanize.IBytes(uint64(maxTotal))),
			})
			continue
		}

		res := Read(sandbox, p, req.Per)
		if !res.OK {
			items = append(items, MultiReadItem{Path: p, Error: res.Error})
			continue
		}
		runningTotal += info
		items = append(items, MultiReadItem{Path: p, Result: &res.Payload})
	}
	return items
}

func itemFromError(path string, err error) MultiReadItem {
	r := errResult[ReadFileResult](err)
	return MultiReadItem{Path: path, Error: r.Error}
}

// ListResult is the payload of List (spec §6 "List/tree/analyze").
type ListResult struct {
	Entries []Entry     `json:"entries"`
	Summary WalkSummary `json:"summary"`
}

// List walks requestedPath (sandbox-validated first) and returns its
// entries flat, per spec §4.5.
func List(sandbox *Sandbox, requestedPath string, opts WalkOptions) (result Result[ListResult]) {
	defer resultScope(sandbox, "list", requestedPath, &result)()

	resolved, err := sandbox.ValidateExistingDirectory(requestedPath)
	if err != nil {
		return errResult[ListResult](err)
	}
	entries, summary, err := NewWalker(sandbox).Walk(resolved, opts)
	if err != nil {
		return errResult[ListResult](err)
	}
	return okResult(ListResult{Entries: entries, Summary: summary})
}

// TreeResult is the payload of Tree (spec §6 "List/tree/analyze").
type TreeResult struct {
	Root    *TreeNode   `json:"root"`
	Summary WalkSummary `json:"summary"`
}

// Tree walks requestedPath and materializes a TreeNode rooted at its
// final path component, per spec §4.6.
func Tree(sandbox *Sandbox, requestedPath string, opts WalkOptions) (result Result[TreeResult]) {
	defer resultScope(sandbox, "tree", requestedPath, &result)()

	resolved, err := sandbox.ValidateExistingDirectory(requestedPath)
	if err != nil {
		return errResult[TreeResult](err)
	}
	entries, summary, err := NewWalker(sandbox).Walk(resolved, opts)
	if err != nil {
		return errResult[TreeResult](err)
	}
	root := BuildTree(rootName(resolved), entries)
	return okResult(TreeResult{Root: root, Summary: summary})
}

func rootName(resolved string) string {
	name := resolved
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' || name[i] == '\\' {
			return name[i+1:]
		}
	}
	return name
}

// AnalyzeResult is the payload of AnalyzeDirectory.
type AnalyzeResult struct {
	Analysis Analysis `json:"analysis"`
}

// AnalyzeDirectory walks requestedPath and aggregates counts, size, an
// extension histogram, and topN largest/recent files, per spec §4.6.
func AnalyzeDirectory(sandbox *Sandbox, requestedPath string, opts WalkOptions, topN int) (result Result[AnalyzeResult]) {
	defer resultScope(sandbox, "analyze", requestedPath, &result)()

	resolved, err := sandbox.ValidateExistingPath(requestedPath)
	if err != nil {
		return errResult[AnalyzeResult](err)
	}
	a, err := Analyze(NewWalker(sandbox), resolved, opts, topN)
	if err != nil {
		return errResult[AnalyzeResult](err)
	}
	return okResult(AnalyzeResult{Analysis: a})
}

// GlobSearch validates requestedPath as the search base and runs Glob,
// per spec §4.7.
func GlobSearch(sandbox *Sandbox, requestedPath, pattern string, opts GlobOptions) (result Result[GlobResult]) {
	defer resultScope(sandbox, "glob", requestedPath, &result)()

	resolved, err := sandbox.ValidateExistingDirectory(requestedPath)
	if err != nil {
		return errResult[GlobResult](err)
	}
	res, err := Glob(NewWalker(sandbox), resolved, pattern, opts)
	if err != nil {
		return errResult[GlobResult](err)
	}
	return okResult(res)
}

// ContentSearchRequest is the caller-facing shape of a content search
// (spec §6 "Content search").
type ContentSearchRequest struct {
	Pattern         string
	FilePattern     string
	ExcludePatterns []string
	MatchOptions    MatchOptions
	ContextLines    int
	MaxResults      int
	MaxFileSize     int64
	MaxFilesScanned int
	SkipBinary      bool
	IncludeHidden   bool
	Cancel          *CancelToken
}

// ContentSearch enumerates files under requestedPath matching
// req.FilePattern (or all files, if empty), then runs the parallel
// content scanner over them (spec §4.7/§4.8).
func ContentSearch(sandbox *Sandbox, requestedPath string, req ContentSearchRequest) (result Result[SearchResult]) {
	defer resultScope(sandbox, "search", requestedPath, &result)()

	resolved, err := sandbox.ValidateExistingDirectory(requestedPath)
	if err != nil {
		return errResult[SearchResult](err)
	}

	walkOpts := WalkOptions{
		MaxDepth:        1 << 20,
		IncludeHidden:   req.IncludeHidden,
		ExcludePatterns: req.ExcludePatterns,
		OnlyFiles:       true,
		Cancel:          req.Cancel,
	}
	entries, _, err := NewWalker(sandbox).Walk(resolved, walkOpts)
	if err != nil {
		return errResult[SearchResult](err)
	}

	caseSensitive := defaultGlobCaseSensitivity()
	maxFilesScanned := req.MaxFilesScanned
	if maxFilesScanned <= 0 {
		maxFilesScanned = len(entries)
	}

	candidates := make([]scanCandidate, 0, len(entries))
	for _, e := range entries {
		if req.FilePattern != "" {
			rel := toPosixRel(resolved, e.Path())
			if !matchGlob(req.FilePattern, e.Name, caseSensitive) && !matchGlob(req.FilePattern, rel, caseSensitive) {
				continue
			}
		}
		candidates = append(candidates, scanCandidate{resolvedPath: e.Path(), displayPath: e.Path()})
		if len(candidates) >= maxFilesScanned {
			break
		}
	}

	matcher, err := NewMatcher(req.MatchOptions)
	if err != nil {
		return errResult[SearchResult](err)
	}

	scanOpts := ScanOptions{
		MaxFileSize:  req.MaxFileSize,
		SkipBinary:   req.SkipBinary,
		ContextLines: req.ContextLines,
		MaxMatches:   req.MaxResults,
		Cancel:       req.Cancel,
	}
	scanned := ParallelScan(candidates, matcher, scanOpts, req.MaxResults)
	return okResult(scanned)
}

// ChecksumFile validates requestedPath and computes its digest, per
// spec §6 "Checksums".
func ChecksumFile(sandbox *Sandbox, requestedPath string, opts ChecksumOptions) (result Result[string]) {
	defer resultScope(sandbox, "checksum", requestedPath, &result)()

	resolved, err := sandbox.ValidateExistingPath(requestedPath)
	if err != nil {
		return errResult[string](err)
	}
	sum, err := Checksum(resolved, opts)
	if err != nil {
		return errResult[string](err)
	}
	return okResult(sum)
}
