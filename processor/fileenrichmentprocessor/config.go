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

package fileenrichmentprocessor

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/config/confighttp"
	"go.opentelemetry.io/collector/config/configopaque"
	"go.uber.org/multierr"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
	"github.com/cardinalhq/chqfileenrichment/internal/enrich"
	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
	"github.com/cardinalhq/chqfileenrichment/internal/s3tools"
)

type Config struct {
	// Field is the attribute holding the lookup key.
	Field string `mapstructure:"field"`
	// Override replaces attributes that already exist.
	Override bool `mapstructure:"override"`
	// DictionaryPath is a local path, file://, http(s):// or s3://bucket/key.
	DictionaryPath string `mapstructure:"dictionary_path"`
	// Separator splits a dictionary line into key and JSON value.
	Separator string `mapstructure:"separator"`
	// RefreshInterval is how often the dictionary source is checked.
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	// Destination receives the whole matched value. Empty merges the
	// value's fields into the attributes.
	Destination string `mapstructure:"destination"`
	// DestinationMustExist only writes Destination when it is already set.
	DestinationMustExist bool `mapstructure:"destination_must_exist"`
	// Context selects the attributes to enrich: record, scope or resource.
	Context ContextID `mapstructure:"context"`
	// Fingerprint is the change detection hash: sha256 or xxhash.
	Fingerprint string `mapstructure:"fingerprint"`

	HTTP confighttp.ClientConfig `mapstructure:"http"`
	S3   S3Config                `mapstructure:"s3"`
}

type S3Config struct {
	Region    string              `mapstructure:"region"`
	Endpoint  string              `mapstructure:"endpoint"`
	AccessKey string              `mapstructure:"access_key"`
	SecretKey configopaque.String `mapstructure:"secret_key"`
}

type ContextID string

const (
	ContextRecord   ContextID = "record"
	ContextScope    ContextID = "scope"
	ContextResource ContextID = "resource"
)

var validContexts = map[ContextID]bool{
	ContextRecord:   true,
	ContextScope:    true,
	ContextResource: true,
}

var (
	errMissingField           = errors.New("field must be set")
	errMissingDictionaryPath  = errors.New("dictionary_path must be set")
	errEmptySeparator         = errors.New("separator must not be empty")
	errNonPositiveInterval    = errors.New("refresh_interval must be greater than zero")
	errUnsupportedSchemeError = errors.New("dictionary_path: supported schemes: file, http, https, s3")
)

var _ component.Config = (*Config)(nil)

func (c *Config) Validate() error {
	var errs error

	if c.Field == "" {
		errs = multierr.Append(errs, errMissingField)
	}
	if c.DictionaryPath == "" {
		errs = multierr.Append(errs, errMissingDictionaryPath)
	} else if err := validateLocation(c.DictionaryPath); err != nil {
		errs = multierr.Append(errs, err)
	}
	if c.Separator == "" {
		errs = multierr.Append(errs, errEmptySeparator)
	}
	if c.RefreshInterval <= 0 {
		errs = multierr.Append(errs, errNonPositiveInterval)
	}
	if !validContexts[c.Context] {
		errs = multierr.Append(errs, fmt.Errorf("invalid context: %s. Must be one of: record, scope, resource", c.Context))
	}
	if _, err := dictionary.FingerprinterFor(c.Fingerprint); err != nil {
		errs = multierr.Append(errs, err)
	}

	return errs
}

func validateLocation(location string) error {
	if !strings.Contains(location, "://") {
		return nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("dictionary_path must be a valid URL: %w", err)
	}
	switch u.Scheme {
	case "file", "http", "https", "s3":
		return nil
	default:
		return errUnsupportedSchemeError
	}
}

func (c *Config) isHTTP() bool {
	return strings.HasPrefix(c.DictionaryPath, "http://") || strings.HasPrefix(c.DictionaryPath, "https://")
}

func (c *Config) engineConfig() enrich.Config {
	return enrich.Config{
		Field:                c.Field,
		Override:             c.Override,
		Destination:          c.Destination,
		DestinationMustExist: c.DestinationMustExist,
	}
}

func (c *Config) s3Config() s3tools.Config {
	return s3tools.Config{
		Region:    c.S3.Region,
		Endpoint:  c.S3.Endpoint,
		AccessKey: c.S3.AccessKey,
		SecretKey: string(c.S3.SecretKey),
	}
}

func (c *Config) readerOptions() filereader.Options {
	return filereader.Options{S3: c.s3Config()}
}
