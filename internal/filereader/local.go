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

package filereader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

type LocalFileReader struct {
	filename string
}

var _ FileReader = (*LocalFileReader)(nil)

func NewLocalFileReader(filename string) *LocalFileReader {
	return &LocalFileReader{filename: filename}
}

func (r *LocalFileReader) ReadFile(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(r.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", r.filename, ErrNotFound)
	}
	return b, err
}

func (r *LocalFileReader) Filename() string {
	return r.filename
}
