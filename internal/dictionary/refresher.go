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
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.uber.org/zap"

	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
)

const DefaultRefreshInterval = 300 * time.Second

var (
	errNonPositiveInterval = errors.New("refresh interval must be greater than zero")
	errEmptySeparator      = errors.New("separator must not be empty")
)

type RefreshOutcome int

const (
	OutcomeUnchanged RefreshOutcome = iota
	OutcomeReloaded
	OutcomeMissing
	OutcomeFailed
)

func (o RefreshOutcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeReloaded:
		return "reloaded"
	case OutcomeMissing:
		return "missing"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Refresher loads a dictionary into a Store and keeps it current by
// re-reading the source on a fixed interval.
type Refresher struct {
	logger      *zap.Logger
	store       *Store
	reader      filereader.FileReader
	separator   string
	interval    time.Duration
	fingerprint Fingerprinter
	parse       ParseFunc
	clock       clockwork.Clock
	telemetry   *Telemetry
	onRefresh   func(RefreshOutcome)

	// fingerprint of the last content that failed to parse; owned by the
	// goroutine running Load/Run.
	lastFailed Fingerprint

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	started  atomic.Bool
	stopOnce sync.Once
}

type Option func(*Refresher)

func WithSeparator(separator string) Option {
	return func(r *Refresher) { r.separator = separator }
}

func WithInterval(interval time.Duration) Option {
	return func(r *Refresher) { r.interval = interval }
}

func WithFingerprinter(f Fingerprinter) Option {
	return func(r *Refresher) { r.fingerprint = f }
}

func WithTelemetry(t *Telemetry) Option {
	return func(r *Refresher) { r.telemetry = t }
}

func WithClock(clock clockwork.Clock) Option {
	return func(r *Refresher) { r.clock = clock }
}

// WithRefreshHook registers a function called with the outcome of every
// periodic refresh, after the store has been updated.
func WithRefreshHook(hook func(RefreshOutcome)) Option {
	return func(r *Refresher) { r.onRefresh = hook }
}

func WithParseFunc(parse ParseFunc) Option {
	return func(r *Refresher) { r.parse = parse }
}

func NewRefresher(logger *zap.Logger, store *Store, reader filereader.FileReader, opts ...Option) (*Refresher, error) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Refresher{
		logger:      logger.Named("dictionary_refresher"),
		store:       store,
		reader:      reader,
		separator:   DefaultSeparator,
		interval:    DefaultRefreshInterval,
		fingerprint: SHA256Fingerprint,
		parse:       Parse,
		clock:       clockwork.NewRealClock(),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.interval <= 0 {
		cancel()
		return nil, errNonPositiveInterval
	}
	if r.separator == "" {
		cancel()
		return nil, errEmptySeparator
	}
	return r, nil
}

// Load performs the initial synchronous load. Any failure is fatal to the
// caller and is returned as *InitialLoadError.
func (r *Refresher) Load(ctx context.Context) error {
	ll := r.logger.With(zap.String("source", r.reader.Filename()))

	b, err := r.reader.ReadFile(ctx)
	if err != nil {
		ll.Error("Cannot read dictionary file", zap.Error(err))
		return &InitialLoadError{Source: r.reader.Filename(), Err: err}
	}
	fp := r.fingerprint(b)
	entries, err := r.parse(b, r.separator)
	if err != nil {
		ll.Error("Error parsing dictionary file", zap.Int("line", LineNumber(err)), zap.Error(err))
		return &InitialLoadError{Source: r.reader.Filename(), Err: err}
	}

	snap := r.install(ctx, entries, fp)
	ll.Info("Loaded dictionary file", zap.Int("entries", snap.Len()), zap.String("fingerprint", string(fp)))
	return nil
}

// Run checks the source every interval until Stop is called. Only the
// first call to Run or Start runs the loop; later calls return at once.
func (r *Refresher) Run() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	r.loop()
}

// Start runs the refresh loop in a new goroutine.
func (r *Refresher) Start() {
	if !r.started.CompareAndSwap(false, true) {
		return
	}
	go r.loop()
}

func (r *Refresher) loop() {
	defer close(r.done)

	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()
	r.logger.Info("Starting dictionary refresher", zap.Duration("interval", r.interval))
	for {
		select {
		case <-r.ctx.Done():
			r.logger.Info("Stopping dictionary refresher")
			return
		case <-ticker.Chan():
			r.refresh(r.ctx)
		}
	}
}

// Stop cancels any in-flight read and waits for Run to return.
// It is safe to call more than once.
func (r *Refresher) Stop() {
	r.stopOnce.Do(r.cancel)
	if r.started.Load() {
		<-r.done
	}
}

func (r *Refresher) refresh(ctx context.Context) (outcome RefreshOutcome) {
	ll := r.logger.With(zap.String("source", r.reader.Filename()))
	defer func() {
		if p := recover(); p != nil {
			ll.Error("Exception in dictionary refresher", zap.Any("panic", p), zap.Stack("stack"))
			outcome = OutcomeFailed
		}
		r.telemetry.recordRefresh(ctx, outcome)
		if r.onRefresh != nil {
			r.onRefresh(outcome)
		}
	}()

	b, err := r.reader.ReadFile(ctx)
	if errors.Is(err, ErrDictionaryMissing) {
		ll.Error("Dictionary file not found, continuing with existing dictionary")
		return OutcomeMissing
	}
	if err != nil {
		ll.Error("Cannot read dictionary file, continuing with existing dictionary", zap.Error(err))
		return OutcomeFailed
	}

	fp := r.fingerprint(b)
	if current := r.store.Current(); current != nil && current.Fingerprint() == fp {
		ll.Info("Dictionary file checksum has not changed", zap.Duration("next_check", r.interval))
		return OutcomeUnchanged
	}
	if fp == r.lastFailed {
		ll.Warn("Dictionary file still invalid, continuing with existing dictionary", zap.String("fingerprint", string(fp)))
		return OutcomeFailed
	}

	entries, err := r.parse(b, r.separator)
	if err != nil {
		r.lastFailed = fp
		ll.Error("Error parsing dictionary file, continuing with existing dictionary", zap.Int("line", LineNumber(err)), zap.Error(err))
		return OutcomeFailed
	}

	r.lastFailed = ""
	snap := r.install(ctx, entries, fp)
	ll.Info("Reloaded dictionary file", zap.Int("entries", snap.Len()), zap.String("fingerprint", string(fp)))
	return OutcomeReloaded
}

func (r *Refresher) install(ctx context.Context, entries map[string]pcommon.Value, fp Fingerprint) *Snapshot {
	snap := NewSnapshot(entries, fp, r.reader.Filename(), r.clock.Now())
	r.store.Replace(snap)
	r.telemetry.recordEntries(ctx, snap.Len())
	return snap
}
