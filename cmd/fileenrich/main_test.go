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
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
)

const testDictionary = `A:{"field1":"valueA1","field2":"valueA2"}
B:{"field1":"valueB1","field2":"valueB2"}
`

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewRootCommand(t *testing.T) {
	cmd := newRootCommand()
	assert.Equal(t, "fileenrich", cmd.Use)
	assert.True(t, cmd.HasSubCommands())
	for _, name := range []string{"validate", "enrich", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("dictionary"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "fileenrich dev\n", out.String())
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{name: "debug enabled", debug: true, wantDebug: true},
		{name: "debug disabled", debug: false, wantDebug: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := newLogger(tt.debug)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDebug, logger.Core().Enabled(zap.DebugLevel))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, dictionary.DefaultSeparator, cfg.Separator)
	assert.Equal(t, dictionary.DefaultRefreshInterval, cfg.RefreshInterval)
	assert.Equal(t, dictionary.FingerprintSHA256, cfg.Fingerprint)
	assert.Empty(t, cfg.DictionaryPath)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	configFile := writeFile(t, "fileenrich.yaml", `
dictionary_path: /etc/dict.txt
separator: "="
field: customer
refresh_interval: 30s
destination: customer_info
s3:
  region: us-east-2
`)
	t.Setenv("FILEENRICH_FIELD", "tenant")
	t.Setenv("FILEENRICH_S3_ENDPOINT", "http://minio:9000")

	cfg, err := loadConfig(viper.New(), configFile)
	require.NoError(t, err)
	assert.Equal(t, "/etc/dict.txt", cfg.DictionaryPath)
	assert.Equal(t, "=", cfg.Separator)
	assert.Equal(t, "tenant", cfg.Field)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
	assert.Equal(t, "customer_info", cfg.Destination)
	assert.Equal(t, "us-east-2", cfg.S3.Region)
	assert.Equal(t, "http://minio:9000", cfg.S3.Endpoint)
	assert.Equal(t, "us-east-2", cfg.readerOptions().S3.Region)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := loadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCLIConfig_Validate(t *testing.T) {
	valid := func() *cliConfig {
		return &cliConfig{
			DictionaryPath:  "/etc/dict.txt",
			Separator:       ":",
			Fingerprint:     "sha256",
			RefreshInterval: time.Minute,
			Field:           "data",
		}
	}
	tests := []struct {
		name      string
		mutate    func(*cliConfig)
		needField bool
		wantError bool
	}{
		{name: "valid", mutate: func(*cliConfig) {}, needField: true},
		{name: "field not needed", mutate: func(c *cliConfig) { c.Field = "" }},
		{name: "field needed", mutate: func(c *cliConfig) { c.Field = "" }, needField: true, wantError: true},
		{name: "no dictionary", mutate: func(c *cliConfig) { c.DictionaryPath = "" }, wantError: true},
		{name: "no separator", mutate: func(c *cliConfig) { c.Separator = "" }, wantError: true},
		{name: "zero interval", mutate: func(c *cliConfig) { c.RefreshInterval = 0 }, wantError: true},
		{name: "unknown fingerprint", mutate: func(c *cliConfig) { c.Fingerprint = "crc32" }, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.validate(tt.needField)
			assert.Equal(t, tt.wantError, err != nil, "error: %v", err)
		})
	}
}
