// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.e43.eu/bencode/internal/bridge"
)

var cborCmd = &cobra.Command{
	Use:   "cbor [file]",
	Short: "Converts bencode to CBOR.",
	Long: `Converts bencode to CBOR without loss: byte strings become CBOR byte
strings and integers outside the 64-bit range become bignums. Use
"bencode encode --from cbor" to convert back.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkBinaryOutput(cmd); err != nil {
			return err
		}

		data, err := readCommandInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := newCoder().Decode(data)
		if err != nil {
			return errors.Wrap(err, "error decoding input")
		}

		out, err := bridge.ToCBOR(v)
		if err != nil {
			return errors.Wrap(err, "error encoding CBOR")
		}
		_, err = os.Stdout.Write(out)
		return err
	},
}

func init() {
	cborCmd.Flags().Bool(flagForce, false, "Write binary output to a terminal.")
	rootCmd.AddCommand(cborCmd)
}
