// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.e43.eu/bencode"
	"go.e43.eu/bencode/internal/config"
	"go.e43.eu/bencode/internal/log"
)

const (
	flagConfig          = "config"
	flagLogLevel        = "log-level"
	flagLogJSON         = "log-json"
	flagStrict          = "strict"
	flagMaxDepth        = "max-depth"
	flagMaxStringLength = "max-string-length"
	flagCompact         = "compact"
	flagHex             = "hex"
	flagForce           = "force"
)

// Settings in effect for the running command: the config file overridden
// by any flags given
var cfg = config.DefaultConfig

var lgr = log.WithModule("cli")

var rootCmd = &cobra.Command{
	Use:          "bencode",
	Short:        "Inspects, validates and converts bencoded data.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString(flagConfig)
		if err != nil {
			return err
		}
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = *loaded

		if err := applyFlags(cmd.Flags(), &cfg); err != nil {
			return err
		}

		logLevel, err := log.NewLevel(cfg.LogLevel)
		if err != nil {
			return errors.Wrap(err, "error parsing log level")
		}
		log.SetLevel(logLevel)
		if logJSON, _ := cmd.Flags().GetBool(flagLogJSON); logJSON {
			log.SetJSON(true)
		}
		return nil
	},
}

// applyFlags overrides c with the flags set on the command line
func applyFlags(fs *pflag.FlagSet, c *config.Config) error {
	var err error
	if fs.Changed(flagLogLevel) {
		if c.LogLevel, err = fs.GetString(flagLogLevel); err != nil {
			return err
		}
	}
	if fs.Changed(flagStrict) {
		if c.Strict, err = fs.GetBool(flagStrict); err != nil {
			return err
		}
	}
	if fs.Changed(flagMaxDepth) {
		if c.MaxDepth, err = fs.GetInt(flagMaxDepth); err != nil {
			return err
		}
	}
	if fs.Changed(flagMaxStringLength) {
		if c.MaxStringLength, err = fs.GetInt(flagMaxStringLength); err != nil {
			return err
		}
	}
	if fs.Changed(flagCompact) {
		if c.Compact, err = fs.GetBool(flagCompact); err != nil {
			return err
		}
	}
	return nil
}

// newCoder returns a coder configured with the decoding limits in effect
func newCoder(extra ...bencode.Option) bencode.Coder {
	return bencode.NewCoder(append(cfg.CoderOptions(), extra...)...)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(flagConfig, config.DefaultPath, "Configuration file.")
	pf.String(flagLogLevel, config.DefaultConfig.LogLevel, "Log level (trace, debug, info, warn, error, fatal).")
	pf.Bool(flagLogJSON, false, "Write log messages as JSON.")
	pf.Bool(flagStrict, false, "Reject input which is not in canonical form.")
	pf.Int(flagMaxDepth, bencode.DefaultMaxDepth, "Maximum nesting of lists and dictionaries.")
	pf.Int(flagMaxStringLength, 0, "Maximum byte string length (0 for no limit).")
	pf.Bool(flagCompact, false, "Write JSON output on a single line.")
	pf.Bool(flagHex, false, "Input is hex encoded.")
}
