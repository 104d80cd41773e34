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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/collector/component/componenttest"
	"go.opentelemetry.io/collector/consumer/consumertest"
	"go.opentelemetry.io/collector/pdata/plog"
	"go.opentelemetry.io/collector/processor/processortest"

	"github.com/cardinalhq/chqfileenrichment/processor/fileenrichmentprocessor/internal/metadata"
)

func testLogs() plog.Logs {
	ld := plog.NewLogs()
	rl := ld.ResourceLogs().AppendEmpty()
	rl.Resource().Attributes().PutStr("tenant", "tenant-1")
	sl := rl.ScopeLogs().AppendEmpty()
	sl.Scope().Attributes().PutStr("tenant", "tenant-1")

	lr := sl.LogRecords().AppendEmpty()
	lr.Attributes().PutStr("data", "A")
	lr.Attributes().PutStr("field1", "original")

	lr = sl.LogRecords().AppendEmpty()
	lr.Attributes().PutStr("data", "unknown")

	lr = sl.LogRecords().AppendEmpty()
	lr.Attributes().PutEmptySlice("data").FromRaw([]any{"Z", "B"})
	return ld
}

func TestConsumeLogs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		check  func(t *testing.T, ld plog.Logs)
	}{
		{
			name:   "record context",
			mutate: func(*Config) {},
			check: func(t *testing.T, ld plog.Logs) {
				records := ld.ResourceLogs().At(0).ScopeLogs().At(0).LogRecords()
				assert.Equal(t, map[string]any{"data": "A", "field1": "original", "field2": "valueA2"}, records.At(0).Attributes().AsRaw())
				assert.Equal(t, map[string]any{"data": "unknown"}, records.At(1).Attributes().AsRaw())
				assert.Equal(t, map[string]any{"data": []any{"Z", "B"}, "field1": "valueB1", "field2": "valueB2"}, records.At(2).Attributes().AsRaw())
			},
		},
		{
			name:   "record context with override and destination",
			mutate: func(c *Config) { c.Override = true; c.Destination = "enriched" },
			check: func(t *testing.T, ld plog.Logs) {
				records := ld.ResourceLogs().At(0).ScopeLogs().At(0).LogRecords()
				assert.Equal(t, map[string]any{
					"data":     "A",
					"field1":   "original",
					"enriched": map[string]any{"field1": "valueA1", "field2": "valueA2"},
				}, records.At(0).Attributes().AsRaw())
			},
		},
		{
			name:   "resource context",
			mutate: func(c *Config) { c.Field = "tenant"; c.Context = ContextResource },
			check: func(t *testing.T, ld plog.Logs) {
				rl := ld.ResourceLogs().At(0)
				assert.Equal(t, map[string]any{"tenant": "tenant-1", "tier": "gold", "region": "us-east-2"}, rl.Resource().Attributes().AsRaw())
				assert.Equal(t, map[string]any{"tenant": "tenant-1"}, rl.ScopeLogs().At(0).Scope().Attributes().AsRaw())
			},
		},
		{
			name:   "scope context",
			mutate: func(c *Config) { c.Field = "tenant"; c.Context = ContextScope },
			check: func(t *testing.T, ld plog.Logs) {
				rl := ld.ResourceLogs().At(0)
				assert.Equal(t, map[string]any{"tenant": "tenant-1"}, rl.Resource().Attributes().AsRaw())
				assert.Equal(t, map[string]any{"tenant": "tenant-1", "tier": "gold", "region": "us-east-2"}, rl.ScopeLogs().At(0).Scope().Attributes().AsRaw())
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			require.NoError(t, cfg.Validate())

			sink := new(consumertest.LogsSink)
			p, err := NewFactory().CreateLogs(context.Background(), processortest.NewNopSettings(metadata.Type), cfg, sink)
			require.NoError(t, err)
			require.NoError(t, p.Start(context.Background(), componenttest.NewNopHost()))
			defer func() { require.NoError(t, p.Shutdown(context.Background())) }()

			require.NoError(t, p.ConsumeLogs(context.Background(), testLogs()))
			require.Len(t, sink.AllLogs(), 1)
			tt.check(t, sink.AllLogs()[0])
		})
	}
}
