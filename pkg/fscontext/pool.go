// pool.go: the parallel content-search scanner (spec §2 component 7 part
// 2, §4.8.3/§4.8.4). A fixed-size worker pool of goroutines stands in for
// the spec's OS-thread workers; each slot recovers from a panicking scan
// the same way the spec's slot recovers from a crashed worker, respawning
// up to MaxRespawns times before being permanently disabled.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package fscontext

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// SearchWorkers is the fixed pool size (spec §4.8.3 SEARCH_WORKERS).
const SearchWorkers = 4

// MaxRespawns caps how many times a slot may be respawned after a crash
// before it is permanently disabled (spec §4.8.3).
const MaxRespawns = 3

// scanCandidate is one file queued for content search.
type scanCandidate struct {
	resolvedPath string
	displayPath  string
}

// scanTaskState is the state machine of spec §4.8.4.
type scanTaskState int

const (
	taskQueued scanTaskState = iota
	taskInFlight
	taskSucceeded
	taskFailed
	taskCancelled
)

type scanTask struct {
	id        string // correlates a task's panic/crash log line to its slot
	candidate scanCandidate
	state     scanTaskState
	result    ScanResult
	err       error
}

// poolSlot mirrors spec §4.8.3's { worker?, pending, respawnCount, index }.
type poolSlot struct {
	index        int
	respawnCount int
	disabled     bool
}

// SearchResult is the final, re-sorted outcome of a parallel content
// search (spec §6, §5 "Ordering guarantees" (c)).
type SearchResult struct {
	Matches []ContentMatch
	Summary SearchSummary
}

// ParallelScan drives SearchWorkers goroutines over candidates, calling
// matcher via ScanFile on each, stopping once matches reach maxResults or
// the cancel token fires (spec §4.8.3).
func ParallelScan(candidates []scanCandidate, matcher Matcher, scanOpts ScanOptions, maxResults int) SearchResult {
	if maxResults <= 0 {
		maxResults = 1000
	}
	inFlight := SearchWorkers
	if maxResults < inFlight {
		inFlight = maxResults
	}
	if inFlight < 1 {
		inFlight = 1
	}

	slots := make([]*poolSlot, inFlight)
	for i := range slots {
		slots[i] = &poolSlot{index: i}
	}

	var mu sync.Mutex
	var matches []ContentMatch
	var summary SearchSummary
	stopped := false
	stopReason := StoppedNone

	next := 0
	resultsCh := make(chan *scanTask, len(candidates))

	submit := func(slot *poolSlot, idx int) {
		task := &scanTask{id: uuid.NewString(), candidate: candidates[idx], state: taskInFlight}
		func() {
			defer func() {
				if r := recover(); r != nil {
					task.state = taskFailed
					task.err = fmt.Errorf("scan panic: task %s: %v", task.id, r)
					slot.respawnCount++
					if slot.respawnCount > MaxRespawns {
						slot.disabled = true
					}
				}
			}()
			res, err := ScanFile(task.candidate.resolvedPath, task.candidate.displayPath, matcher, scanOpts)
			task.result = res
			if err != nil {
				task.state = taskFailed
				task.err = err
			} else {
				task.state = taskSucceeded
			}
		}()
		resultsCh <- task
	}

	dispatched := 0
	for slotIdx := 0; slotIdx < inFlight && next < len(candidates); slotIdx++ {
		if checkCancelled(scanOpts.Cancel) != nil {
			stopped = true
			stopReason = StoppedTimeout
			break
		}
		slot := slots[slotIdx]
		go submit(slot, next)
		next++
		dispatched++
	}

	// dispatched counts submitted tasks whose result has not been received
	// yet; the loop ends once every submitted task has reported back.
	slotCursor := 0
	for dispatched > 0 {
		task := <-resultsCh
		dispatched--
		mu.Lock()
		if stopped {
			task.state = taskCancelled
			mu.Unlock()
			continue
		}

		summary.FilesScanned++
		switch {
		case task.err != nil:
			// Worker-level failure: counted as scanned, contributes no matches.
		case task.result.SkippedTooLarge:
			summary.SkippedTooLarge++
		case task.result.SkippedBinary:
			summary.SkippedBinary++
		default:
			summary.LinesSkippedDueToRegexTimeout += task.result.LinesSkippedDueToRegexTimeout
			if task.result.Matched {
				summary.FilesMatched++
			}
			for _, m := range task.result.Matches {
				if len(matches) >= maxResults {
					break
				}
				m.insertionIndex = len(matches)
				matches = append(matches, m)
				summary.TotalMatches++
			}
		}

		if len(matches) >= maxResults {
			stopped = true
			stopReason = StoppedMaxResult
		}
		if err := checkCancelled(scanOpts.Cancel); err != nil {
			stopped = true
			stopReason = StoppedTimeout
		}
		mu.Unlock()

		if !stopped && next < len(candidates) {
			slot := slots[slotCursor%len(slots)]
			slotCursor++
			if !slot.disabled {
				idx := next
				next++
				dispatched++
				go submit(slot, idx)
			}
		}
	}

	summary.Truncated = stopped && next < len(candidates)
	summary.StoppedReason = stopReason

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		if matches[i].Line != matches[j].Line {
			return matches[i].Line < matches[j].Line
		}
		return matches[i].insertionIndex < matches[j].insertionIndex
	})

	return SearchResult{Matches: matches, Summary: summary}
}
