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
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Telemetry records refresher activity. A nil *Telemetry records nothing.
type Telemetry struct {
	refreshes metric.Int64Counter
	entries   metric.Int64Gauge
	attrs     []attribute.KeyValue
}

func NewTelemetry(meter metric.Meter, attrs ...attribute.KeyValue) (*Telemetry, error) {
	refreshes, err := meter.Int64Counter("dictionary_refreshes",
		metric.WithDescription("The number of dictionary refresh checks, by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	entries, err := meter.Int64Gauge("dictionary_entries",
		metric.WithDescription("The number of entries in the active dictionary"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	return &Telemetry{
		refreshes: refreshes,
		entries:   entries,
		attrs:     attrs,
	}, nil
}

func (t *Telemetry) recordRefresh(ctx context.Context, outcome RefreshOutcome) {
	if t == nil {
		return
	}
	kv := append([]attribute.KeyValue{attribute.String("outcome", outcome.String())}, t.attrs...)
	t.refreshes.Add(context.WithoutCancel(ctx), 1, metric.WithAttributeSet(attribute.NewSet(kv...)))
}

func (t *Telemetry) recordEntries(ctx context.Context, n int) {
	if t == nil {
		return
	}
	t.entries.Record(context.WithoutCancel(ctx), int64(n), metric.WithAttributeSet(attribute.NewSet(t.attrs...)))
}
