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

// Package enrich merges dictionary entries into attribute maps.
package enrich

import (
	"go.opentelemetry.io/collector/pdata/pcommon"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
)

type SnapshotSource interface {
	Current() *dictionary.Snapshot
}

type Config struct {
	// Field holds the lookup key. A slice value is tried element by element.
	Field string
	// Override allows replacing values already on the record.
	Override bool
	// Destination, when set, receives the whole matched value instead of
	// merging its fields into the record.
	Destination string
	// DestinationMustExist only writes Destination when it is already
	// present on the record, and then only with Override set.
	DestinationMustExist bool
}

type Result int

const (
	ResultMissingField Result = iota
	ResultNoMatch
	ResultMerged
	ResultKept
	ResultNotAnObject
)

func (r Result) String() string {
	switch r {
	case ResultMissingField:
		return "missing_field"
	case ResultNoMatch:
		return "no_match"
	case ResultMerged:
		return "merged"
	case ResultKept:
		return "kept"
	case ResultNotAnObject:
		return "not_an_object"
	default:
		return "unknown"
	}
}

type Engine struct {
	source SnapshotSource
	cfg    Config
}

func New(source SnapshotSource, cfg Config) *Engine {
	return &Engine{source: source, cfg: cfg}
}

// Enrich looks up the record's key field and merges the first matching
// entry into record. Records without the field, or without a match, are
// left untouched.
func (e *Engine) Enrich(record pcommon.Map) Result {
	snap := e.source.Current()

	field, found := record.Get(e.cfg.Field)
	if !found {
		return ResultMissingField
	}
	if snap == nil {
		return ResultNoMatch
	}
	for _, key := range CandidateKeys(field) {
		if value, ok := snap.Lookup(key); ok {
			return e.merge(record, value)
		}
	}
	return ResultNoMatch
}

// CandidateKeys lists the lookup keys for a field value in the order they
// are tried.
func CandidateKeys(v pcommon.Value) []string {
	if v.Type() != pcommon.ValueTypeSlice {
		return []string{v.AsString()}
	}
	s := v.Slice()
	keys := make([]string, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		keys = append(keys, s.At(i).AsString())
	}
	return keys
}

func (e *Engine) merge(record pcommon.Map, value pcommon.Value) Result {
	if e.cfg.Destination != "" {
		return e.mergeInto(record, value)
	}
	if value.Type() != pcommon.ValueTypeMap {
		return ResultNotAnObject
	}

	result := ResultKept
	value.Map().Range(func(k string, v pcommon.Value) bool {
		if _, exists := record.Get(k); exists && !e.cfg.Override {
			return true
		}
		v.CopyTo(record.PutEmpty(k))
		result = ResultMerged
		return true
	})
	return result
}

func (e *Engine) mergeInto(record pcommon.Map, value pcommon.Value) Result {
	_, exists := record.Get(e.cfg.Destination)
	if e.cfg.DestinationMustExist && !exists {
		return ResultKept
	}
	if exists && !e.cfg.Override {
		return ResultKept
	}
	value.CopyTo(record.PutEmpty(e.cfg.Destination))
	return ResultMerged
}
