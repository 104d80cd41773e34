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

package s3tools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil},
		{name: "plain error", err: errors.New("boom")},
		{name: "no such key type", err: &types.NoSuchKey{}, expected: true},
		{name: "wrapped no such key", err: fmt.Errorf("download: %w", &types.NoSuchKey{}), expected: true},
		{name: "head not found", err: &smithy.GenericAPIError{Code: "NotFound"}, expected: true},
		{name: "no such bucket", err: &smithy.GenericAPIError{Code: "NoSuchBucket"}, expected: true},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFound(tt.err))
		})
	}
}

func TestNewS3Client_Endpoint(t *testing.T) {
	client, err := NewS3Client(context.Background(), Config{
		Region:    "us-east-2",
		Endpoint:  "http://localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
	})
	require.NoError(t, err)
	require.NotNil(t, client.S3Client)

	ep, err := client.ResolveEndpoint(context.Background(), s3.EndpointParameters{})
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", ep.URI.Host)
	assert.Equal(t, "http", ep.URI.Scheme)

	creds, err := client.S3Client.Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "minio", creds.AccessKeyID)
	assert.True(t, client.S3Client.Options().UsePathStyle)
}

func TestNewS3Client_BadEndpoint(t *testing.T) {
	_, err := NewS3Client(context.Background(), Config{Region: "us-east-2", Endpoint: "http://[::1"})
	assert.Error(t, err)
}
