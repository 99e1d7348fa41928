// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package tracker keeps in-memory state for ingestion jobs so that
// callers can poll progress while documents are processed in the
// background. State is process-local and is lost on restart.
package tracker

import (
	"sync"
	"time"

	"github.com/poiesic/flowdex/core"
)

// DefaultMaxAge is the age past which entries are considered stale.
// A stale entry usually means the worker goroutine died without
// cleaning up, or a failed entry was never inspected.
const DefaultMaxAge = 24 * time.Hour

// Entry is the tracked state of a single ingestion job.
type Entry struct {
	FileID         string
	FileName       string
	FilePath       string
	FileType       core.FileType
	FlowID         string
	IncludesImages bool

	Status       Status
	CurrentChunk int
	TotalChunks  int
	Error        string

	StartedAt   time.Time
	LastUpdated time.Time
}

// Tracker is a mutex-guarded map of ingestion jobs keyed by file ID.
// All methods are safe for concurrent use. Entries are returned by
// value so callers can never mutate shared state.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*Entry
	clock   func() time.Time
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{
		entries: make(map[string]*Entry),
		clock:   time.Now,
	}
}

// Add registers a new job in the processing state. The StartedAt and
// LastUpdated timestamps are stamped by the tracker. Adding a file ID
// that is already tracked overwrites the previous entry.
func (t *Tracker) Add(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.clock()
	e.Status = StatusProcessing
	e.StartedAt = now
	e.LastUpdated = now
	t.entries[e.FileID] = &e
}

// Update applies fn to the tracked entry for fileID and stamps
// LastUpdated. It reports whether the entry existed.
func (t *Tracker) Update(fileID string, fn func(*Entry)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[fileID]
	if !ok {
		return false
	}
	fn(e)
	e.LastUpdated = t.clock()
	return true
}

// SetStatus moves the entry for fileID to status if the transition is
// allowed. It reports whether the entry existed and the transition was
// applied.
func (t *Tracker) SetStatus(fileID string, status Status) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[fileID]
	if !ok || !CanTransition(e.Status, status) {
		return false
	}
	e.Status = status
	e.LastUpdated = t.clock()
	return true
}

// Fail marks the entry for fileID as failed with the given message.
func (t *Tracker) Fail(fileID, msg string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[fileID]
	if !ok {
		return false
	}
	e.Status = StatusFailed
	e.Error = msg
	e.LastUpdated = t.clock()
	return true
}

// Remove deletes the entry for fileID. Removing an unknown ID is a no-op.
func (t *Tracker) Remove(fileID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, fileID)
}

// Get returns a copy of the entry for fileID.
func (t *Tracker) Get(fileID string) (Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[fileID]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// ByFlow returns copies of all entries belonging to flowID.
func (t *Tracker) ByFlow(flowID string) []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []Entry
	for _, e := range t.entries {
		if e.FlowID == flowID {
			out = append(out, *e)
		}
	}
	return out
}

// All returns copies of every tracked entry.
func (t *Tracker) All() []Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Entry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	return out
}

// IsProcessing reports whether fileID is tracked in a non-failed state.
func (t *Tracker) IsProcessing(fileID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[fileID]
	return ok && e.Status != StatusFailed
}

// CleanupStale removes entries whose StartedAt is older than maxAge
// and returns the number removed. Aging on start time means a job that
// somehow keeps updating forever is still reaped. Pass DefaultMaxAge
// unless a test needs a shorter horizon.
func (t *Tracker) CleanupStale(maxAge time.Duration) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.clock().Add(-maxAge)
	removed := 0
	for id, e := range t.entries {
		if e.StartedAt.Before(cutoff) {
			delete(t.entries, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked entries.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
