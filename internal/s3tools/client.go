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
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyendpoints "github.com/aws/smithy-go/endpoints"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

const partSize = 5 * 1024 * 1024

type S3Client struct {
	S3Client *s3.Client
	endpoint *url.URL
}

// Config selects the bucket host. Empty credentials fall back to the
// default AWS credential chain.
type Config struct {
	AccessKey string
	SecretKey string
	Region    string
	Endpoint  string
}

// ResolveEndpoint pins every request to the configured endpoint, for
// S3-compatible stores such as MinIO.
func (c *S3Client) ResolveEndpoint(_ context.Context, _ s3.EndpointParameters) (smithyendpoints.Endpoint, error) {
	return smithyendpoints.Endpoint{URI: *c.endpoint}, nil
}

func NewS3Client(ctx context.Context, conf Config) (*S3Client, error) {
	cfg, err := makeAWSConfig(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("unable to make aws config: %w", err)
	}

	client := &S3Client{}
	if conf.Endpoint != "" {
		uri, err := url.Parse(conf.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("unable to make s3 client: %w", err)
		}
		client.endpoint = uri
	}
	client.S3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if client.endpoint != nil {
			o.EndpointResolverV2 = client
			o.EndpointOptions.DisableHTTPS = client.endpoint.Scheme == "http"
			o.UsePathStyle = true
		}
	})
	return client, nil
}

func makeAWSConfig(ctx context.Context, conf Config) (aws.Config, error) {
	httpClient := awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
		if tr.TLSClientConfig == nil {
			tr.TLSClientConfig = &tls.Config{}
		}
		tr.TLSClientConfig.MinVersion = tls.VersionTLS12
	})

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithHTTPClient(httpClient),
		awsconfig.WithClientLogMode(aws.LogDeprecatedUsage),
	}
	if conf.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conf.Region))
	}
	if conf.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.AccessKey, conf.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load aws config: %w", err)
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions)
	return cfg, nil
}

func (c *S3Client) Download(ctx context.Context, bucketName string, key string, dst *manager.WriteAtBuffer) error {
	downloader := manager.NewDownloader(c.S3Client, func(d *manager.Downloader) {
		d.PartSize = partSize
	})
	_, err := downloader.Download(ctx, dst, &s3.GetObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	return err
}

// IsNotFound reports whether err means the object or bucket is absent.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return true
		}
	}
	return false
}
