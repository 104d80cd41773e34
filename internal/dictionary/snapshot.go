// Copyright 2024-2025 CardinalHQ, Inc
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

package dictionary

import (
	"sync/atomic"
	"time"

	"go.opentelemetry.io/collector/pdata/pcommon"
)

// Snapshot is one fully parsed version of a dictionary. It is never
// modified after NewSnapshot returns; values handed out by Lookup must be
// copied, not mutated.
type Snapshot struct {
	entries     map[string]pcommon.Value
	fingerprint Fingerprint
	loadedAt    time.Time
	source      string
}

func NewSnapshot(entries map[string]pcommon.Value, fingerprint Fingerprint, source string, loadedAt time.Time) *Snapshot {
	if entries == nil {
		entries = map[string]pcommon.Value{}
	}
	return &Snapshot{
		entries:     entries,
		fingerprint: fingerprint,
		loadedAt:    loadedAt,
		source:      source,
	}
}

func (s *Snapshot) Lookup(key string) (pcommon.Value, bool) {
	v, ok := s.entries[key]
	return v, ok
}

func (s *Snapshot) Len() int {
	return len(s.entries)
}

func (s *Snapshot) Fingerprint() Fingerprint {
	return s.fingerprint
}

func (s *Snapshot) LoadedAt() time.Time {
	return s.loadedAt
}

func (s *Snapshot) Source() string {
	return s.source
}

// Store holds the active Snapshot. Readers never block; writers replace the
// whole snapshot in one atomic step.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the active snapshot, or nil before the first load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
}
