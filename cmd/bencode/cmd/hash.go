// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"
	"go.e43.eu/bencode"
	"go.e43.eu/bencode/value"
)

const (
	flagKey       = "key"
	flagAlgorithm = "algorithm"
)

var hashCmd = &cobra.Command{
	Use:   "hash [file]",
	Short: "Hashes a dictionary entry, such as a torrent's info dictionary.",
	Long: `Prints the hash of the bytes of an entry of the top level dictionary,
exactly as they appear in the input. With the defaults this is the
BitTorrent v1 info-hash. An empty --key hashes the whole document.

A warning is logged when the hashed entry is not in canonical form, as
other tools may then disagree on its hash.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString(flagKey)
		algorithm, _ := cmd.Flags().GetString(flagAlgorithm)

		data, err := readCommandInput(cmd, args)
		if err != nil {
			return err
		}

		sum, canonical, err := hashEntry(newCoder(), data, key, algorithm)
		if err != nil {
			return err
		}
		if !canonical {
			lgr.Warn("hashed entry is not canonical", "input", inputName(args), "key", key)
		}
		fmt.Println(hex.EncodeToString(sum))
		return nil
	},
}

func inputName(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[len(args)-1]
}

// entrySpan returns the raw bytes of the value under key in the top level
// dictionary encoded in data. The last of any duplicates is returned,
// matching decoding
func entrySpan(cr bencode.Coder, data []byte, key string) ([]byte, error) {
	src := bencode.NewBufferSource(data)
	if c, err := src.ReadByte(); err != nil || c != 'd' {
		return nil, errors.New("input is not a dictionary")
	}
	offset := func() int { return len(data) - len(src.Remaining()) }

	dec := cr.NewSourceDecoder(src)
	var span []byte
	for {
		rest := src.Remaining()
		if len(rest) == 0 {
			return nil, bencode.ErrTruncated
		}
		if rest[0] == 'e' {
			break
		}

		k, err := dec.ReadValue()
		if err != nil {
			return nil, err
		}
		if _, ok := k.(value.ByteString); !ok {
			return nil, fmt.Errorf("dictionary key is a %s", k.Kind())
		}

		start := offset()
		if _, err := dec.ReadValue(); err != nil {
			return nil, err
		}
		if string(k.(value.ByteString)) == key {
			span = data[start:offset()]
		}
	}

	if span == nil {
		return nil, fmt.Errorf("input has no key '%s'", key)
	}
	return span, nil
}

// hashEntry returns the digest of the raw bytes of the entry key of the
// dictionary in data, or of all of data if key is empty. canonical reports
// whether those bytes are in canonical form
func hashEntry(cr bencode.Coder, data []byte, key, algorithm string) (sum []byte, canonical bool, err error) {
	if _, err := cr.Decode(data); err != nil {
		return nil, false, errors.Wrap(err, "error decoding input")
	}

	span := data
	if key != "" {
		if span, err = entrySpan(cr, data, key); err != nil {
			return nil, false, err
		}
	}

	v, err := cr.Decode(span)
	if err != nil {
		return nil, false, err
	}
	enc, err := cr.Encode(v)
	if err != nil {
		return nil, false, err
	}
	canonical = bytes.Equal(enc, span)

	switch algorithm {
	case "sha1":
		s := sha1.Sum(span)
		return s[:], canonical, nil
	case "sha256":
		s := sha256.Sum256(span)
		return s[:], canonical, nil
	case "blake3":
		s := blake3.Sum256(span)
		return s[:], canonical, nil
	}
	return nil, false, fmt.Errorf("unknown hash algorithm '%s'", algorithm)
}

func init() {
	hashCmd.Flags().String(flagKey, "info", "Dictionary entry to hash.")
	hashCmd.Flags().String(flagAlgorithm, "sha1", "Hash algorithm (sha1, sha256, blake3).")
	rootCmd.AddCommand(hashCmd)
}
