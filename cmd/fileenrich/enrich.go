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
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/collector/pdata/pcommon"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
	"github.com/cardinalhq/chqfileenrichment/internal/enrich"
	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
)

const maxRecordSize = 4 * 1024 * 1024

func newEnrichCommand(opts *rootOptions) *cobra.Command {
	command := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich newline-delimited JSON records read from stdin",
		Long: `Reads one JSON object per line from stdin and writes it to stdout,
merged with the dictionary entry matching the configured field.
The dictionary is reloaded in the background when it changes.
Lines that are not JSON objects are written unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if err := cfg.validate(true); err != nil {
				return err
			}
			logger, err := opts.logger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runEnrich(ctx, logger, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := command.Flags()
	flags.String("field", "", "record field holding the lookup key")
	flags.Bool("override", false, "replace fields that already exist")
	flags.String("destination", "", "write the whole matched value under this field")
	flags.Bool("destination-must-exist", false, "only write destination when the record already has it")
	flags.Duration("refresh-interval", dictionary.DefaultRefreshInterval, "how often to check the dictionary for changes")
	if err := bindFlags(opts.v, flags); err != nil {
		panic(err)
	}
	return command
}

func runEnrich(ctx context.Context, logger *zap.Logger, cfg *cliConfig, in io.Reader, out io.Writer) error {
	reader, err := filereader.New(ctx, cfg.DictionaryPath, cfg.readerOptions())
	if err != nil {
		return err
	}
	fingerprinter, err := dictionary.FingerprinterFor(cfg.Fingerprint)
	if err != nil {
		return err
	}

	store := dictionary.NewStore()
	refresher, err := dictionary.NewRefresher(logger, store, reader,
		dictionary.WithSeparator(cfg.Separator),
		dictionary.WithInterval(cfg.RefreshInterval),
		dictionary.WithFingerprinter(fingerprinter),
	)
	if err != nil {
		return err
	}
	if err := refresher.Load(ctx); err != nil {
		return err
	}

	engine := enrich.New(store, cfg.engineConfig())

	// runCtx ends when the input is exhausted so the refresher stops with
	// the stream, and when a signal cancels ctx so a blocked read does not
	// keep the command alive.
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		refresher.Run()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		refresher.Stop()
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return enrichStream(gctx, logger, engine, in, out)
	})
	return g.Wait()
}

// readLines scans in on its own goroutine so the caller can stop waiting
// on a read that never returns. The error channel receives exactly one
// value once the lines channel is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

func enrichStream(ctx context.Context, logger *zap.Logger, engine *enrich.Engine, in io.Reader, out io.Writer) error {
	start := time.Now()
	counts := map[enrich.Result]int{}
	w := bufio.NewWriter(out)
	defer func() { _ = w.Flush() }()

	lines, errc := readLines(ctx, in)
	passthrough := 0
	interrupted := false
	for done := false; !done; {
		select {
		case <-ctx.Done():
			if c, ok := in.(io.Closer); ok {
				_ = c.Close()
			}
			interrupted = true
			done = true
		case line, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil && ctx.Err() == nil {
					return err
				}
				done = true
				break
			}
			enriched, result, matched := enrichLine(engine, line)
			if !matched {
				passthrough++
				enriched = line
			} else {
				counts[result]++
			}
			if _, err := w.Write(enriched); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
		}
	}

	fields := []zap.Field{
		zap.Int("passthrough", passthrough),
		zap.Bool("interrupted", interrupted),
		zap.Duration("elapsed", time.Since(start)),
	}
	for result, n := range counts {
		fields = append(fields, zap.Int(result.String(), n))
	}
	logger.Info("Finished enriching records", fields...)
	return nil
}

// enrichLine returns the line to write for one input record. ok is false
// when the line is not a JSON object. Only fields written by the merge are
// re-encoded; every other field keeps its original bytes.
func enrichLine(engine *enrich.Engine, line []byte) ([]byte, enrich.Result, bool) {
	value, err := dictionary.DecodeValue(string(line))
	if err != nil || value.Type() != pcommon.ValueTypeMap {
		return nil, 0, false
	}
	before := pcommon.NewMap()
	value.Map().CopyTo(before)

	result := engine.Enrich(value.Map())
	if result != enrich.ResultMerged {
		return line, result, true
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(line, &fields); err != nil {
		return line, result, true
	}
	var encodeErr error
	value.Map().Range(func(k string, v pcommon.Value) bool {
		if old, found := before.Get(k); found && old.Equal(v) {
			return true
		}
		b, err := json.Marshal(v.AsRaw())
		if err != nil {
			encodeErr = err
			return false
		}
		fields[k] = b
		return true
	})
	if encodeErr != nil {
		return line, result, true
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return line, result, true
	}
	return b, result, true
}
