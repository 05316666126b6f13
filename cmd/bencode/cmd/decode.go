// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.e43.eu/bencode/internal/bridge"
	"go.e43.eu/bencode/value"
)

const (
	flagYAML  = "yaml"
	flagLoose = "loose"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [file]",
	Short: "Converts bencode to JSON or YAML.",
	Long: `Converts bencode to JSON (the default) or YAML.

Byte strings which are valid UTF-8 are written as strings. Others are
written as {"$hex": "..."} objects in JSON or !!binary scalars in YAML,
unless --loose is given, in which case they are decoded as Windows-1252
where possible. Dictionary keys which are not UTF-8 are written as
"$hex:..." strings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool(flagYAML)
		loose, _ := cmd.Flags().GetBool(flagLoose)
		opts := bridge.Options{Loose: loose || cfg.LooseText}

		data, err := readCommandInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := newCoder().Decode(data)
		if err != nil {
			return errors.Wrap(err, "error decoding input")
		}
		return writeDecoded(os.Stdout, v, opts, asYAML, cfg.Compact)
	},
}

func writeDecoded(w io.Writer, v value.Value, opts bridge.Options, asYAML, compact bool) error {
	var out []byte
	var err error
	if asYAML {
		out, err = opts.ToYAML(v)
	} else {
		out, err = opts.ToJSON(v, compact)
		out = append(out, '\n')
	}
	if err != nil {
		return errors.Wrap(err, "error rendering output")
	}
	_, err = w.Write(out)
	return err
}

func init() {
	decodeCmd.Flags().Bool(flagYAML, false, "Write YAML instead of JSON.")
	decodeCmd.Flags().Bool(flagLoose, false, "Decode non-UTF-8 byte strings as Windows-1252 instead of hex.")
	rootCmd.AddCommand(decodeCmd)
}
