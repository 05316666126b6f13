// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"bytes"
	"encoding/hex"
	"io"
	"io/ioutil"
	"os"
	"unicode"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// readInput reads the file named by the last argument, or stdin when there
// are no arguments
func readInput(args []string, hexMode bool, stdin io.Reader) ([]byte, error) {
	var data []byte
	var err error
	if len(args) > 0 {
		name := args[len(args)-1]
		if data, err = ioutil.ReadFile(name); err != nil {
			return nil, errors.Wrapf(err, "error reading %s", name)
		}
	} else if data, err = ioutil.ReadAll(stdin); err != nil {
		return nil, errors.Wrap(err, "error reading stdin")
	}

	if hexMode {
		return decodeHexInput(data)
	}
	return data, nil
}

// decodeHexInput decodes hex, ignoring any whitespace
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, errors.New("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, errors.Wrap(err, "error decoding hex")
	}
	return decoded[:count], nil
}

func readCommandInput(cmd *cobra.Command, args []string) ([]byte, error) {
	hexMode, err := cmd.Flags().GetBool(flagHex)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 && isatty.IsTerminal(os.Stdin.Fd()) {
		lgr.Info("reading input from the terminal, end with ^D")
	}
	return readInput(args, hexMode, os.Stdin)
}

// checkBinaryOutput refuses to write binary data to a terminal unless forced
func checkBinaryOutput(cmd *cobra.Command) error {
	force, err := cmd.Flags().GetBool(flagForce)
	if err != nil {
		return err
	}
	if !force && isatty.IsTerminal(os.Stdout.Fd()) {
		return errors.New("refusing to write binary output to a terminal, use --force to override")
	}
	return nil
}
