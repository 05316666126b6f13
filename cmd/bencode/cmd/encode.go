// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.e43.eu/bencode"
	"go.e43.eu/bencode/internal/bridge"
	"go.e43.eu/bencode/value"
)

const flagFrom = "from"

var encodeCmd = &cobra.Command{
	Use:   "encode [file]",
	Short: "Converts JSON, YAML or CBOR to canonical bencode.",
	Long: `Converts JSON (the default), YAML or CBOR to canonical bencode.

JSON may contain comments and trailing commas. The {"$hex": "..."} and
"$hex:..." forms written by decode are read back as binary byte strings,
as are YAML !!binary scalars. Booleans become 0 or 1. Floating point
numbers and nulls cannot be encoded.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString(flagFrom)
		if err := checkBinaryOutput(cmd); err != nil {
			return err
		}

		data, err := readCommandInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := parseDocument(data, from)
		if err != nil {
			return errors.Wrapf(err, "error parsing %s input", from)
		}

		out, err := bencode.Encode(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func parseDocument(data []byte, from string) (value.Value, error) {
	switch from {
	case "json":
		return bridge.FromJSON(data)
	case "yaml":
		return bridge.FromYAML(data)
	case "cbor":
		return bridge.FromCBOR(data)
	}
	return nil, fmt.Errorf("unknown input format '%s'", from)
}

func init() {
	encodeCmd.Flags().String(flagFrom, "json", "Input format (json, yaml, cbor).")
	encodeCmd.Flags().Bool(flagForce, false, "Write binary output to a terminal.")
	rootCmd.AddCommand(encodeCmd)
}
