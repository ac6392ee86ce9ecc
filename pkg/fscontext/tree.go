// tree.go: the Tree & Analysis Builders (spec §2 component 6, §4.6).
// Grounded on the teacher's pkg/orpheus/context.go pattern of building an
// index map before materializing a result, generalized from command
// metadata into a directory tree + aggregate analysis over walker output.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"container/heap"
	"os"
	"sort"
	"strings"
	"time"
)

// BuildTree consumes entries emitted by Walker.Walk and links them into a
// tree under a root TreeNode named rootName, per spec §4.6.
// Children are sorted directories-first, then case-sensitive name
// ascending.
func BuildTree(rootName string, entries []Entry) *TreeNode {
	root := &TreeNode{Name: rootName, Type: EntryDirectory}
	children := make(map[string][]*TreeNode) // parentPath -> children

	nodeByPath := make(map[string]*TreeNode)
	nodeByPath[""] = root

	for _, e := range entries {
		node := &TreeNode{Name: e.Name, Type: e.Type}
		if e.HasSize {
			node.Size = e.Size
			node.HasSize = true
		}
		children[e.ParentPath] = append(children[e.ParentPath], node)
		nodeByPath[e.Path()] = node
	}

	for parentPath, kids := range children {
		parent, ok := nodeByPath[parentPath]
		if !ok {
			// Parent wasn't itself emitted (e.g. the walk's basePath); attach
			// directly to root.
			parent = root
		}
		parent.Children = append(parent.Children, kids...)
	}

	sortTree(root)
	return root
}

func sortTree(n *TreeNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if (a.Type == EntryDirectory) != (b.Type == EntryDirectory) {
			return a.Type == EntryDirectory
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		sortTree(c)
	}
}

// FileStat pairs a path with the size/mtime the analyzer tracked it by.
type FileStat struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Analysis is the aggregate result of Analyze (spec §4.6).
type Analysis struct {
	TotalFiles       int
	TotalDirectories int
	TotalSize        int64
	ExtensionCounts  map[string]int
	LargestFiles     []FileStat // size descending, capacity topN
	RecentlyModified []FileStat // mtime descending, capacity topN
	Truncated        bool
}

// Analyze walks basePath via w and aggregates counts, total size, an
// extension histogram, and the topN largest/most-recently-modified files
// (spec §4.6). Returns E_NOT_DIRECTORY if basePath resolves to a file.
func Analyze(w *Walker, basePath string, opts WalkOptions, topN int) (Analysis, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return Analysis{}, ToMcpError(basePath, err)
	}
	if !info.IsDir() {
		return Analysis{}, New(ErrNotDirectory, basePath, "analyze target is not a directory")
	}

	opts.IncludeSize = true
	entries, summary, err := w.Walk(basePath, opts)
	if err != nil {
		return Analysis{}, err
	}

	a := Analysis{
		ExtensionCounts: make(map[string]int),
		Truncated:       summary.Truncated,
	}

	if topN <= 0 {
		topN = 10
	}
	largest := newStatHeap(topN, func(x, y FileStat) bool { return x.Size < y.Size })
	recent := newStatHeap(topN, func(x, y FileStat) bool { return x.ModTime.Before(y.ModTime) })

	for _, e := range entries {
		switch e.Type {
		case EntryDirectory:
			a.TotalDirectories++
		case EntryFile:
			a.TotalFiles++
			a.TotalSize += e.Size
			a.ExtensionCounts[extensionKey(e.Name)]++
			stat := FileStat{Path: e.Path(), Size: e.Size, ModTime: e.ModTime}
			largest.push(stat)
			recent.push(stat)
		}
	}

	a.LargestFiles = largest.sortedDesc()
	a.RecentlyModified = recent.sortedDescByTime()
	return a, nil
}

func extensionKey(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return "(no extension)"
	}
	return strings.ToLower(name[idx+1:])
}

// statHeap keeps the bottom-`cap` elements evicted and the top-`cap`
// retained, using container/heap as a min-heap keyed by less.
type statHeap struct {
	items []FileStat
	less  func(a, b FileStat) bool
	cap   int
}

func newStatHeap(capacity int, less func(a, b FileStat) bool) *statHeap {
	h := &statHeap{less: less, cap: capacity}
	heap.Init(h)
	return h
}

func (h *statHeap) Len() int            { return len(h.items) }
func (h *statHeap) Less(i, j int) bool  { return h.less(h.items[i], h.items[j]) }
func (h *statHeap) Swap(i, j int)       { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *statHeap) Push(x interface{})  { h.items = append(h.items, x.(FileStat)) }
func (h *statHeap) Pop() interface{} {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

func (h *statHeap) push(s FileStat) {
	if h.Len() < h.cap {
		heap.Push(h, s)
		return
	}
	if h.Len() > 0 && h.less(h.items[0], s) {
		heap.Pop(h)
		heap.Push(h, s)
	}
}

func (h *statHeap) sortedDesc() []FileStat {
	out := make([]FileStat, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool { return out[i].Size > out[j].Size })
	return out
}

func (h *statHeap) sortedDescByTime() []FileStat {
	out := make([]FileStat, len(h.items))
	copy(out, h.items)
	sort.Slice(out, func(i, j int) bool { return out[i].ModTime.After(out[j].ModTime) })
	return out
}
