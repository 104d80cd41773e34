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
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type rootOptions struct {
	v          *viper.Viper
	configFile string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	rootCommand := &cobra.Command{
		Use:          "fileenrich",
		Short:        "Enrich JSON records from a key/value dictionary file",
		SilenceUsage: true,
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (default is ./fileenrich.yaml or $HOME/.config/fileenrich/fileenrich.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.String("dictionary", "", "dictionary location: path, file://, http(s):// or s3://bucket/key")
	flags.String("separator", "", "separator between key and value in the dictionary")
	flags.String("fingerprint", "", "change detection hash: sha256 or xxhash")
	if err := bindFlags(opts.v, flags); err != nil {
		panic(err)
	}

	rootCommand.AddCommand(
		newValidateCommand(opts),
		newEnrichCommand(opts),
		newVersionCommand(),
	)
	return rootCommand
}

var flagKeys = map[string]string{
	"dictionary":             "dictionary_path",
	"separator":              "separator",
	"fingerprint":            "fingerprint",
	"field":                  "field",
	"override":               "override",
	"destination":            "destination",
	"destination-must-exist": "destination_must_exist",
	"refresh-interval":       "refresh_interval",
}

// bindFlags binds every known flag in flags to its config key.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

func (o *rootOptions) load() (*cliConfig, error) {
	return loadConfig(o.v, o.configFile)
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	return newLogger(o.debug)
}

func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fileenrich %s\n", version)
		},
	}
}
