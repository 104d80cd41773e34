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

	"go.opentelemetry.io/collector/pdata/pmetric"
)

func (e *enricher) ConsumeMetrics(ctx context.Context, md pmetric.Metrics) (pmetric.Metrics, error) {
	counts := tally{}
	for i := 0; i < md.ResourceMetrics().Len(); i++ {
		rm := md.ResourceMetrics().At(i)
		if e.config.Context == ContextResource {
			e.enrich(counts, rm.Resource().Attributes())
			continue
		}
		for j := 0; j < rm.ScopeMetrics().Len(); j++ {
			sm := rm.ScopeMetrics().At(j)
			if e.config.Context == ContextScope {
				e.enrich(counts, sm.Scope().Attributes())
				continue
			}
			for k := 0; k < sm.Metrics().Len(); k++ {
				e.enrichDatapoints(counts, sm.Metrics().At(k))
			}
		}
	}
	e.record(ctx, counts)
	return md, nil
}

// Datapoints carry the record-level attributes for metrics.
func (e *enricher) enrichDatapoints(counts tally, m pmetric.Metric) {
	switch m.Type() {
	case pmetric.MetricTypeGauge:
		dps := m.Gauge().DataPoints()
		for i := 0; i < dps.Len(); i++ {
			e.enrich(counts, dps.At(i).Attributes())
		}
	case pmetric.MetricTypeSum:
		dps := m.Sum().DataPoints()
		for i := 0; i < dps.Len(); i++ {
			e.enrich(counts, dps.At(i).Attributes())
		}
	case pmetric.MetricTypeHistogram:
		dps := m.Histogram().DataPoints()
		for i := 0; i < dps.Len(); i++ {
			e.enrich(counts, dps.At(i).Attributes())
		}
	case pmetric.MetricTypeExponentialHistogram:
		dps := m.ExponentialHistogram().DataPoints()
		for i := 0; i < dps.Len(); i++ {
			e.enrich(counts, dps.At(i).Attributes())
		}
	case pmetric.MetricTypeSummary:
		dps := m.Summary().DataPoints()
		for i := 0; i < dps.Len(); i++ {
			e.enrich(counts, dps.At(i).Attributes())
		}
	}
}
