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

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
	"github.com/cardinalhq/chqfileenrichment/internal/enrich"
	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
	"github.com/cardinalhq/chqfileenrichment/internal/s3tools"
)

const envPrefix = "FILEENRICH"

type cliConfig struct {
	DictionaryPath       string        `mapstructure:"dictionary_path"`
	Separator            string        `mapstructure:"separator"`
	Fingerprint          string        `mapstructure:"fingerprint"`
	RefreshInterval      time.Duration `mapstructure:"refresh_interval"`
	Field                string        `mapstructure:"field"`
	Override             bool          `mapstructure:"override"`
	Destination          string        `mapstructure:"destination"`
	DestinationMustExist bool          `mapstructure:"destination_must_exist"`
	S3                   s3Config      `mapstructure:"s3"`
}

type s3Config struct {
	Region    string `mapstructure:"region"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// loadConfig merges defaults, the config file, FILEENRICH_* environment
// variables and bound flags, in increasing order of precedence.
func loadConfig(v *viper.Viper, configFile string) (*cliConfig, error) {
	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("fileenrich")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/fileenrich")
	}

	v.SetDefault("dictionary_path", "")
	v.SetDefault("separator", dictionary.DefaultSeparator)
	v.SetDefault("fingerprint", dictionary.FingerprintSHA256)
	v.SetDefault("refresh_interval", dictionary.DefaultRefreshInterval)
	v.SetDefault("field", "")
	v.SetDefault("override", false)
	v.SetDefault("destination", "")
	v.SetDefault("destination_must_exist", false)
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("configuration file found but could not be read: %w", err)
		}
	}

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}
	return &cfg, nil
}

var (
	errMissingDictionary = errors.New("dictionary_path must be set")
	errMissingField      = errors.New("field must be set")
	errEmptySeparator    = errors.New("separator must not be empty")
	errBadInterval       = errors.New("refresh_interval must be greater than zero")
)

func (c *cliConfig) validate(needField bool) error {
	var errs error
	if c.DictionaryPath == "" {
		errs = multierr.Append(errs, errMissingDictionary)
	}
	if c.Separator == "" {
		errs = multierr.Append(errs, errEmptySeparator)
	}
	if c.RefreshInterval <= 0 {
		errs = multierr.Append(errs, errBadInterval)
	}
	if _, err := dictionary.FingerprinterFor(c.Fingerprint); err != nil {
		errs = multierr.Append(errs, err)
	}
	if needField && c.Field == "" {
		errs = multierr.Append(errs, errMissingField)
	}
	return errs
}

func (c *cliConfig) readerOptions() filereader.Options {
	return filereader.Options{
		S3: s3tools.Config{
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
		},
	}
}

func (c *cliConfig) engineConfig() enrich.Config {
	return enrich.Config{
		Field:                c.Field,
		Override:             c.Override,
		Destination:          c.Destination,
		DestinationMustExist: c.DestinationMustExist,
	}
}
