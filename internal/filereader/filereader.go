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

// Package filereader fetches the raw bytes of a dictionary from a local
// path, an HTTP(S) endpoint or an S3 object.
package filereader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/cardinalhq/chqfileenrichment/internal/s3tools"
)

//go:generate mockgen -source=filereader.go -destination=../mocks/filereader/mock_filereader.go -package=mock_filereader FileReader

type FileReader interface {
	ReadFile(ctx context.Context) ([]byte, error)
	Filename() string
}

// ErrNotFound is wrapped by every reader when the source does not exist.
var ErrNotFound = errors.New("file not found")

// Options carries the clients a reader may need. Zero values are valid;
// readers fall back to defaults.
type Options struct {
	HTTPClient *http.Client
	S3         s3tools.Config
}

// New picks a reader from the form of location: a bare path or file://
// URL reads from disk, http:// and https:// use HTTPFileReader and
// s3://bucket/key uses S3FileReader.
func New(ctx context.Context, location string, opts Options) (FileReader, error) {
	if !strings.Contains(location, "://") {
		return NewLocalFileReader(location), nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid dictionary location %q: %w", location, err)
	}
	switch u.Scheme {
	case "file":
		return NewLocalFileReader(u.Path), nil
	case "http", "https":
		return NewHTTPFileReader(location, opts.HTTPClient), nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("invalid s3 location %q: want s3://bucket/key", location)
		}
		client, err := s3tools.NewS3Client(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		return NewS3FileReader(client, u.Host, key), nil
	default:
		return nil, fmt.Errorf("unsupported dictionary location scheme %q", u.Scheme)
	}
}
