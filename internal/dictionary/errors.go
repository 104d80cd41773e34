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
	"errors"
	"fmt"

	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
)

// ErrDictionaryMissing matches read errors for a dictionary source that
// does not exist.
var ErrDictionaryMissing = filereader.ErrNotFound

// MalformedLineError reports a line without a separator or with an empty key.
type MalformedLineError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("error parsing line number %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ValueParseError reports a line whose value is not valid JSON.
type ValueParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ValueParseError) Error() string {
	return fmt.Sprintf("error parsing JSON on line number %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ValueParseError) Unwrap() error {
	return e.Err
}

// InitialLoadError is the fatal error returned when the first load of a
// dictionary fails. Hosts must refuse to start when they see it.
type InitialLoadError struct {
	Source string
	Err    error
}

func (e *InitialLoadError) Error() string {
	return fmt.Sprintf("terminating due to error loading dictionary file %s: %v", e.Source, e.Err)
}

func (e *InitialLoadError) Unwrap() error {
	return e.Err
}

// LineNumber extracts the offending line from a parse error, or 0.
func LineNumber(err error) int {
	var mle *MalformedLineError
	if errors.As(err, &mle) {
		return mle.Line
	}
	var vpe *ValueParseError
	if errors.As(err, &vpe) {
		return vpe.Line
	}
	return 0
}
