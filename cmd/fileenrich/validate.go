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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cardinalhq/chqfileenrichment/internal/dictionary"
	"github.com/cardinalhq/chqfileenrichment/internal/filereader"
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dictionary]",
		Short: "Check a dictionary file and report every malformed line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				cfg.DictionaryPath = args[0]
			}
			if err := cfg.validate(false); err != nil {
				return err
			}

			reader, err := filereader.New(cmd.Context(), cfg.DictionaryPath, cfg.readerOptions())
			if err != nil {
				return err
			}
			raw, err := reader.ReadFile(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", reader.Filename(), err)
			}

			out := cmd.OutOrStdout()
			if err := dictionary.Lint(raw, cfg.Separator); err != nil {
				fmt.Fprintln(out, err)
				return fmt.Errorf("dictionary %s is invalid", reader.Filename())
			}

			entries, err := dictionary.Parse(raw, cfg.Separator)
			if err != nil {
				return err
			}
			fingerprinter, _ := dictionary.FingerprinterFor(cfg.Fingerprint)
			fmt.Fprintf(out, "%s: %d entries, %s\n", reader.Filename(), len(entries), fingerprinter(raw))
			return nil
		},
	}
}
