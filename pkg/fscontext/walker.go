// walker.go: the bounded BFS directory walker (spec §2 component 5, §4.5).
// Grounded on the teacher's recursive-descent style in
// examples/filemanager/main.go (tree walking over os.ReadDir), generalized
// into a queue-based BFS with the sandbox's real-path escape guard.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"os"
	"path/filepath"
)

// Walker performs bounded breadth-first traversal over sandbox-validated
// paths (spec §4.5).
type Walker struct {
	sandbox *Sandbox
}

// NewWalker returns a Walker bound to sandbox; every directory it descends
// into is re-validated against the sandbox's allowed-root set.
func NewWalker(sandbox *Sandbox) *Walker {
	return &Walker{sandbox: sandbox}
}

type walkQueueItem struct {
	path  string
	depth int
}

// Walk traverses basePath (already sandbox-validated by the caller) and
// returns every visited Entry in breadth-first order, each directory's
// entries in file-name order (as os.ReadDir returns them), plus the
// accumulated WalkSummary, per spec §4.5. No directories-first tree sort is
// applied here; BuildTree does that.
func (w *Walker) Walk(basePath string, opts WalkOptions) ([]Entry, WalkSummary, error) {
	if err := opts.Validate(); err != nil {
		return nil, WalkSummary{}, err
	}
	if err := checkCancelled(opts.Cancel); err != nil {
		return nil, WalkSummary{}, err
	}

	caseSensitive := defaultGlobCaseSensitivity()
	var entries []Entry
	var summary WalkSummary

	queue := []walkQueueItem{{path: basePath, depth: 0}}
	stopped := false

	for len(queue) > 0 && !stopped {
		item := queue[0]
		queue = queue[1:]

		if item.depth > summary.MaxDepthReached {
			summary.MaxDepthReached = item.depth
		}

		if err := checkCancelled(opts.Cancel); err != nil {
			return entries, summary, err
		}

		dirEntries, err := os.ReadDir(item.path)
		if err != nil {
			summary.SkippedInaccessible++
			continue
		}

		for _, de := range dirEntries {
			if err := checkCancelled(opts.Cancel); err != nil {
				return entries, summary, err
			}

			name := de.Name()
			fullPath := filepath.Join(item.path, name)
			relPath := toPosixRel(basePath, fullPath)

			if isHidden(name) && !opts.IncludeHidden {
				continue
			}
			if shouldExcludeName(opts.ExcludePatterns, name, relPath, caseSensitive) {
				continue
			}

			info, infoErr := de.Info()
			if infoErr != nil {
				summary.SkippedInaccessible++
				continue
			}

			if de.Type()&os.ModeSymlink != 0 {
				summary.SymlinksNotFollowed++
				continue
			}

			if de.IsDir() {
				real, err := filepath.EvalSymlinks(fullPath)
				if err != nil {
					summary.SkippedInaccessible++
					continue
				}
				if !matchesAnyRoot(real, w.sandbox.GetAllowedDirectories()) {
					// A directory whose real path escapes the sandbox is
					// treated as a symlink-escape, per spec §9 note (a),
					// even though the entry itself isn't a symlink.
					summary.SymlinksNotFollowed++
					continue
				}

				if opts.OnlyFiles {
					// Still need to traverse into it, just don't emit it.
				} else {
					entries = append(entries, Entry{
						ParentPath: item.path,
						Name:       name,
						Type:       EntryDirectory,
						Depth:      item.depth,
					})
				}
				summary.TotalDirectories++

				if opts.MaxEntries > 0 && summary.TotalFiles+summary.TotalDirectories >= opts.MaxEntries {
					summary.Truncated = true
					summary.StoppedReason = StoppedMaxFiles
					stopped = true
					break
				}

				if item.depth+1 <= opts.MaxDepth {
					queue = append(queue, walkQueueItem{path: fullPath, depth: item.depth + 1})
				} else {
					summary.Truncated = true
				}
				continue
			}

			// Regular file (or "other": device, pipe, etc. — emitted as EntryOther).
			entryType := EntryFile
			if info.Mode()&os.ModeType != 0 {
				entryType = EntryOther
			}

			e := Entry{
				ParentPath: item.path,
				Name:       name,
				Type:       entryType,
				Depth:      item.depth,
			}
			if opts.IncludeSize {
				e.Size = info.Size()
				e.HasSize = true
			}
			e.ModTime = info.ModTime()
			e.HasModTime = true
			entries = append(entries, e)
			summary.TotalFiles++

			if opts.MaxFiles > 0 && summary.TotalFiles >= opts.MaxFiles {
				summary.Truncated = true
				summary.StoppedReason = StoppedMaxFiles
				stopped = true
				break
			}
			if opts.MaxEntries > 0 && summary.TotalFiles+summary.TotalDirectories >= opts.MaxEntries {
				summary.Truncated = true
				summary.StoppedReason = StoppedMaxFiles
				stopped = true
				break
			}
		}
	}

	return entries, summary, nil
}
