// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.e43.eu/bencode"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Checks that files are valid canonical bencode.",
	Long: `Checks that each file holds exactly one value in canonical form, which
re-encodes to identical bytes. Reads stdin when no files are given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cr := newCoder(bencode.Strict())
		if len(args) == 0 {
			data, err := readCommandInput(cmd, args)
			if err != nil {
				return err
			}
			return validateDocument(cr, data)
		}

		hexMode, _ := cmd.Flags().GetBool(flagHex)
		return validateFiles(context.Background(), cr, args, hexMode, os.Stdout)
	},
}

// validateDocument checks that data is exactly one canonical value
func validateDocument(cr bencode.Coder, data []byte) error {
	v, err := cr.Decode(data)
	if err != nil {
		return err
	}

	out, err := cr.Encode(v)
	if err != nil {
		return err
	}
	if !bytes.Equal(out, data) {
		n := 0
		for n < len(out) && n < len(data) && out[n] == data[n] {
			n++
		}
		return fmt.Errorf("re-encoding differs at offset %d", n)
	}
	return nil
}

// validateFiles validates each file concurrently and reports the outcome
// for each, in order, to w. It fails if any file is invalid
func validateFiles(ctx context.Context, cr bencode.Coder, names []string, hexMode bool, w io.Writer) error {
	results := make([]error, len(names))
	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	g, ctx := errgroup.WithContext(ctx)

	for i, name := range names {
		i, name := i, name
		if err := sem.Acquire(ctx, 1); err != nil {
			return err
		}
		g.Go(func() error {
			defer sem.Release(1)

			data, err := ioutil.ReadFile(name)
			if err == nil && hexMode {
				data, err = decodeHexInput(data)
			}
			if err == nil {
				err = validateDocument(cr, data)
			}
			results[i] = err
			lgr.Debug("validated", "file", name, "ok", err == nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for i, name := range names {
		if results[i] != nil {
			failed++
			fmt.Fprintf(w, "%s: %v\n", name, results[i])
		} else {
			fmt.Fprintf(w, "%s: ok\n", name)
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d files invalid", failed, len(names))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
