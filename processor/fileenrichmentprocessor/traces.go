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

	"go.opentelemetry.io/collector/pdata/ptrace"
)

func (e *enricher) ConsumeTraces(ctx context.Context, td ptrace.Traces) (ptrace.Traces, error) {
	counts := tally{}
	for i := 0; i < td.ResourceSpans().Len(); i++ {
		rs := td.ResourceSpans().At(i)
		if e.config.Context == ContextResource {
			e.enrich(counts, rs.Resource().Attributes())
			continue
		}
		for j := 0; j < rs.ScopeSpans().Len(); j++ {
			ss := rs.ScopeSpans().At(j)
			if e.config.Context == ContextScope {
				e.enrich(counts, ss.Scope().Attributes())
				continue
			}
			for k := 0; k < ss.Spans().Len(); k++ {
				e.enrich(counts, ss.Spans().At(k).Attributes())
			}
		}
	}
	e.record(ctx, counts)
	return td, nil
}
