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

	"go.opentelemetry.io/collector/pdata/plog"
)

func (e *enricher) ConsumeLogs(ctx context.Context, ld plog.Logs) (plog.Logs, error) {
	counts := tally{}
	for i := 0; i < ld.ResourceLogs().Len(); i++ {
		rl := ld.ResourceLogs().At(i)
		if e.config.Context == ContextResource {
			e.enrich(counts, rl.Resource().Attributes())
			continue
		}
		for j := 0; j < rl.ScopeLogs().Len(); j++ {
			sl := rl.ScopeLogs().At(j)
			if e.config.Context == ContextScope {
				e.enrich(counts, sl.Scope().Attributes())
				continue
			}
			for k := 0; k < sl.LogRecords().Len(); k++ {
				e.enrich(counts, sl.LogRecords().At(k).Attributes())
			}
		}
	}
	e.record(ctx, counts)
	return ld, nil
}
