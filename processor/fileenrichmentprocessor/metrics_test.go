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
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/pdata/pmetric"
	"go.opentelemetry.io/collector/processor/processortest"

	"github.com/cardinalhq/chqfileenrichment/processor/fileenrichmentprocessor/internal/metadata"
)

func TestConsumeMetrics(t *testing.T) {
	md := pmetric.NewMetrics()
	sm := md.ResourceMetrics().AppendEmpty().ScopeMetrics().AppendEmpty()

	gauge := sm.Metrics().AppendEmpty()
	gauge.SetName("cpu")
	gauge.SetEmptyGauge().DataPoints().AppendEmpty().Attributes().PutStr("data", "A")

	sum := sm.Metrics().AppendEmpty()
	sum.SetName("requests")
	sum.SetEmptySum().DataPoints().AppendEmpty().Attributes().PutStr("data", "B")

	hist := sm.Metrics().AppendEmpty()
	hist.SetName("latency")
	hist.SetEmptyHistogram().DataPoints().AppendEmpty().Attributes().PutStr("data", "A")

	exp := sm.Metrics().AppendEmpty()
	exp.SetName("latency_exp")
	exp.SetEmptyExponentialHistogram().DataPoints().AppendEmpty().Attributes().PutStr("data", "B")

	summary := sm.Metrics().AppendEmpty()
	summary.SetName("latency_summary")
	summary.SetEmptySummary().DataPoints().AppendEmpty().Attributes().PutStr("data", "nope")

	sink := new(consumertest.MetricsSink)
	p, err := NewFactory().CreateMetrics(context.Background(), processortest.NewNopSettings(metadata.Type), validConfig(), sink)
	require.NoError(t, err)
	require.NoError(t, p.Start(context.Background(), componenttest.NewNopHost()))
	defer func() { require.NoError(t, p.Shutdown(context.Background())) }()

	require.NoError(t, p.ConsumeMetrics(context.Background(), md))
	require.Len(t, sink.AllMetrics(), 1)

	metrics := sink.AllMetrics()[0].ResourceMetrics().At(0).ScopeMetrics().At(0).Metrics()
	wantA := map[string]any{"data": "A", "field1": "valueA1", "field2": "valueA2"}
	wantB := map[string]any{"data": "B", "field1": "valueB1", "field2": "valueB2"}

	attrs := func(i int) pcommon.Map {
		m := metrics.At(i)
		switch m.Type() {
		case pmetric.MetricTypeGauge:
			return m.Gauge().DataPoints().At(0).Attributes()
		case pmetric.MetricTypeSum:
			return m.Sum().DataPoints().At(0).Attributes()
		case pmetric.MetricTypeHistogram:
			return m.Histogram().DataPoints().At(0).Attributes()
		case pmetric.MetricTypeExponentialHistogram:
			return m.ExponentialHistogram().DataPoints().At(0).Attributes()
		default:
			return m.Summary().DataPoints().At(0).Attributes()
		}
	}
	assert.Equal(t, wantA, attrs(0).AsRaw())
	assert.Equal(t, wantB, attrs(1).AsRaw())
	assert.Equal(t, wantA, attrs(2).AsRaw())
	assert.Equal(t, wantB, attrs(3).AsRaw())
	assert.Equal(t, map[string]any{"data": "nope"}, attrs(4).AsRaw())
}
