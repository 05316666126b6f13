// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.e43.eu/bencode/value"
)

var diagCmd = &cobra.Command{
	Use:   "diag [file]",
	Short: "Prints the diagnostic form of bencoded data.",
	Long: `Prints bencoded data in diagnostic notation. Byte strings are quoted
with octal escapes for bytes outside printable ASCII, and truncated after
256 bytes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readCommandInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := newCoder().Decode(data)
		if err != nil {
			return errors.Wrap(err, "error decoding input")
		}
		fmt.Println(value.Format(v))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diagCmd)
}
