// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.e43.eu/bencode/value"
)

var statCmd = &cobra.Command{
	Use:   "stat [file]",
	Short: "Summarises the structure of bencoded data.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readCommandInput(cmd, args)
		if err != nil {
			return err
		}
		v, err := newCoder().Decode(data)
		if err != nil {
			return errors.Wrap(err, "error decoding input")
		}

		s := collectStats(v)
		s.EncodedBytes = len(data)
		s.render(os.Stdout)
		return nil
	},
}

type stats struct {
	Integers      int
	ByteStrings   int
	Lists         int
	Dictionaries  int
	MaxDepth      int
	LargestString int
	StringBytes   int
	EncodedBytes  int
}

func collectStats(v value.Value) stats {
	var s stats
	s.walk(v, 0)
	return s
}

// walk counts v, which is nested depth containers deep
func (s *stats) walk(v value.Value, depth int) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}

	switch v := v.(type) {
	case value.Integer:
		s.Integers++
	case value.ByteString:
		s.ByteStrings++
		s.StringBytes += v.Len()
		if v.Len() > s.LargestString {
			s.LargestString = v.Len()
		}
	case value.List:
		s.Lists++
		for i := 0; i < v.Len(); i++ {
			s.walk(v.At(i), depth+1)
		}
	case value.Dictionary:
		s.Dictionaries++
		v.Range(func(k value.ByteString, e value.Value) bool {
			s.walk(k, depth+1)
			s.walk(e, depth+1)
			return true
		})
	}
}

func (s *stats) render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Statistic", "Value"})
	table.Append([]string{"Integers", strconv.Itoa(s.Integers)})
	table.Append([]string{"Byte strings", strconv.Itoa(s.ByteStrings)})
	table.Append([]string{"Lists", strconv.Itoa(s.Lists)})
	table.Append([]string{"Dictionaries", strconv.Itoa(s.Dictionaries)})
	table.Append([]string{"Maximum depth", strconv.Itoa(s.MaxDepth)})
	table.Append([]string{"Largest byte string", strconv.Itoa(s.LargestString)})
	table.Append([]string{"Byte string bytes", strconv.Itoa(s.StringBytes)})
	table.Append([]string{"Encoded bytes", strconv.Itoa(s.EncodedBytes)})
	table.Render()
}

func init() {
	rootCmd.AddCommand(statCmd)
}
