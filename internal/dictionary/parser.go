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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/collector/pdata/pcommon"
)

const DefaultSeparator = ":"

var (
	errEmptyValue   = errors.New("empty value")
	errTrailingData = errors.New("unexpected data after JSON value")
	errNumberRange  = errors.New("out of range")
)

// ParseFunc turns the raw bytes of a dictionary file into entries.
type ParseFunc func(raw []byte, separator string) (map[string]pcommon.Value, error)

var _ ParseFunc = Parse

// Parse reads one KEY<separator>JSON entry per line. The first bad line
// aborts the parse and no entries are returned. Blank lines are ignored and
// later duplicate keys replace earlier ones.
func Parse(raw []byte, separator string) (map[string]pcommon.Value, error) {
	entries := map[string]pcommon.Value{}
	for lineno, line := range lines(raw) {
		key, value, skip, err := parseLine(lineno, line, separator)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		entries[key] = value
	}
	return entries, nil
}

// Lint checks every line and returns all problems found, or nil.
// Unlike Parse it does not stop at the first bad line.
func Lint(raw []byte, separator string) error {
	var errs *multierror.Error
	for lineno, line := range lines(raw) {
		if _, _, _, err := parseLine(lineno, line, separator); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// lines yields 1-based line numbers with their text.
func lines(raw []byte) func(yield func(int, string) bool) {
	return func(yield func(int, string) bool) {
		lineno := 0
		for len(raw) > 0 {
			lineno++
			var line []byte
			if i := bytes.IndexByte(raw, '\n'); i >= 0 {
				line, raw = raw[:i], raw[i+1:]
			} else {
				line, raw = raw, nil
			}
			if !yield(lineno, string(line)) {
				return
			}
		}
	}
}

func parseLine(lineno int, line string, separator string) (string, pcommon.Value, bool, error) {
	if strings.TrimSpace(line) == "" {
		return "", pcommon.Value{}, true, nil
	}
	text := strings.TrimRight(line, "\r")

	k, v, found := strings.Cut(text, separator)
	if !found || separator == "" {
		return "", pcommon.Value{}, false, &MalformedLineError{Line: lineno, Text: text, Reason: "missing separator"}
	}
	key := strings.TrimSpace(k)
	if key == "" {
		return "", pcommon.Value{}, false, &MalformedLineError{Line: lineno, Text: text, Reason: "empty key"}
	}

	value, err := DecodeValue(strings.TrimSpace(v))
	if err != nil {
		return "", pcommon.Value{}, false, &ValueParseError{Line: lineno, Text: text, Err: err}
	}
	return key, value, false, nil
}

// DecodeValue decodes exactly one JSON value. Integral numbers become Int
// values and anything after the value is an error.
func DecodeValue(text string) (pcommon.Value, error) {
	if text == "" {
		return pcommon.Value{}, errEmptyValue
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return pcommon.Value{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return pcommon.Value{}, errTrailingData
	}

	normalized, err := normalizeNumbers(raw)
	if err != nil {
		return pcommon.Value{}, err
	}
	value := pcommon.NewValueEmpty()
	if err := value.FromRaw(normalized); err != nil {
		return pcommon.Value{}, err
	}
	return value, nil
}

// normalizeNumbers keeps integral JSON numbers as int64 so they land in
// pdata as Int rather than Double. Numbers outside the float64 range are
// rejected.
func normalizeNumbers(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			v[k] = n
		}
		return v, nil
	case []any:
		for i, item := range v {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			v[i] = n
		}
		return v, nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("number %s: %w", v, errNumberRange)
		}
		return f, nil
	default:
		return v, nil
	}
}
