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
	"fmt"

	"go.opentelemetry.io/collector/component"
	"go.opentelemetry.io/collector/component/componentstatus"
	"go.opentelemetry.io/collector/consumer"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.opentelemetry.io/collector/processor"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
	"github.com/cardinalhq/chqfileenrichment/internal/enrich"
	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
	"github.com/cardinalhq/chqfileenrichment/processor/fileenrichmentprocessor/internal/metadata"
)

type enricher struct {
	config            *Config
	logger            *zap.Logger
	id                component.ID
	ttype             string
	telemetrySettings component.TelemetrySettings

	store     *dictionary.Store
	engine    *enrich.Engine
	refresher *dictionary.Refresher

	attrset attribute.Set
	records metric.Int64Counter

	// degraded is only touched from the refresher goroutine.
	degraded bool

	// newReader is replaced in tests.
	newReader func(ctx context.Context, host component.Host) (filereader.FileReader, error)
}

func newEnricher(config *Config, ttype string, set processor.Settings) (*enricher, error) {
	store := dictionary.NewStore()
	e := &enricher{
		config:            config,
		logger:            set.Logger.With(zap.String("signal", ttype)),
		id:                set.ID,
		ttype:             ttype,
		telemetrySettings: set.TelemetrySettings,
		store:             store,
		engine:            enrich.New(store, config.engineConfig()),
		attrset: attribute.NewSet(
			attribute.String("processor", set.ID.String()),
			attribute.String("signal", ttype),
		),
	}
	e.newReader = e.defaultReader

	records, err := metadata.Meter(set.TelemetrySettings).Int64Counter(
		"enrichment_records",
		metric.WithDescription("Records seen by the file enrichment processor, by result"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, err
	}
	e.records = records

	return e, nil
}

func (e *enricher) Capabilities() consumer.Capabilities {
	return consumer.Capabilities{MutatesData: true}
}

func (e *enricher) defaultReader(ctx context.Context, host component.Host) (filereader.FileReader, error) {
	opts := e.config.readerOptions()
	if e.config.isHTTP() {
		httpClient, err := e.config.HTTP.ToClient(ctx, host, e.telemetrySettings)
		if err != nil {
			return nil, err
		}
		opts.HTTPClient = httpClient
	}
	return filereader.New(ctx, e.config.DictionaryPath, opts)
}

func (e *enricher) Start(ctx context.Context, host component.Host) error {
	ctx, span := metadata.Tracer(e.telemetrySettings).Start(ctx, "dictionary.load")
	defer span.End()
	fail := func(err error) error {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	reader, err := e.newReader(ctx, host)
	if err != nil {
		return fail(err)
	}

	fingerprinter, err := dictionary.FingerprinterFor(e.config.Fingerprint)
	if err != nil {
		return fail(err)
	}

	telemetry, err := dictionary.NewTelemetry(metadata.Meter(e.telemetrySettings), e.attrset.ToSlice()...)
	if err != nil {
		return fail(err)
	}

	refresher, err := dictionary.NewRefresher(e.logger, e.store, reader,
		dictionary.WithSeparator(e.config.Separator),
		dictionary.WithInterval(e.config.RefreshInterval),
		dictionary.WithFingerprinter(fingerprinter),
		dictionary.WithTelemetry(telemetry),
		dictionary.WithRefreshHook(func(o dictionary.RefreshOutcome) {
			e.reportRefresh(host, reader.Filename(), o)
		}),
	)
	if err != nil {
		return fail(err)
	}

	if err := refresher.Load(ctx); err != nil {
		return fail(err)
	}
	span.SetAttributes(
		attribute.String("dictionary.source", reader.Filename()),
		attribute.Int("dictionary.entries", e.store.Current().Len()),
	)

	e.refresher = refresher
	refresher.Start()
	return nil
}

// reportRefresh surfaces failed refreshes as a recoverable component
// status and reports OK again once the dictionary is healthy.
func (e *enricher) reportRefresh(host component.Host, source string, outcome dictionary.RefreshOutcome) {
	switch outcome {
	case dictionary.OutcomeFailed, dictionary.OutcomeMissing:
		e.degraded = true
		componentstatus.ReportStatus(host, componentstatus.NewRecoverableErrorEvent(
			fmt.Errorf("dictionary refresh of %s: %s", source, outcome)))
	case dictionary.OutcomeReloaded, dictionary.OutcomeUnchanged:
		if e.degraded {
			e.degraded = false
			componentstatus.ReportStatus(host, componentstatus.NewEvent(componentstatus.StatusOK))
		}
	}
}

func (e *enricher) Shutdown(_ context.Context) error {
	if e.refresher != nil {
		e.refresher.Stop()
	}
	return nil
}

// tally counts enrichment results for one batch.
type tally map[enrich.Result]int64

func (e *enricher) enrich(counts tally, attrs pcommon.Map) {
	counts[e.engine.Enrich(attrs)]++
}

func (e *enricher) record(ctx context.Context, counts tally) {
	for result, n := range counts {
		e.records.Add(ctx, n, metric.WithAttributeSet(e.attrset), metric.WithAttributes(attribute.String("result", result.String())))
	}
}
