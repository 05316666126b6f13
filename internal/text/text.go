// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package text converts byte strings to and from human readable text.
//
// Decoding is lenient: strict UTF-8 is tried first and, for DecodeLoose,
// Windows-1252 (a superset of the printable range of Latin-1) is tried
// when that fails. Encoding is always UTF-8.
package text

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

type terror string

func (e terror) Error() string {
	return string(e)
}

const (
	// Bytes are not a valid UTF-8 sequence
	ErrInvalidUTF8 = terror("bencode: Invalid UTF-8 text")

	// Bytes are valid neither as UTF-8 nor as Windows-1252
	ErrInvalidText = terror("bencode: Invalid text in any supported encoding")
)

// Positions left undefined by Windows-1252. The x/text decoder maps them
// to C1 controls; we treat them as undecodable.
var cp1252Undefined = []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

// DecodeUTF8 decodes b as UTF-8, failing on any invalid sequence instead
// of substituting U+FFFD
func DecodeUTF8(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// DecodeLoose decodes b as UTF-8, falling back to Windows-1252
func DecodeLoose(b []byte) (string, error) {
	if s, err := DecodeUTF8(b); err == nil {
		return s, nil
	}
	return decodeWindows1252(b)
}

func decodeWindows1252(b []byte) (string, error) {
	for _, c := range b {
		if bytes.IndexByte(cp1252Undefined, c) >= 0 {
			return "", ErrInvalidText
		}
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return "", ErrInvalidText
	}
	return string(out), nil
}

// EncodeUTF8 returns the UTF-8 encoding of s. Invalid sequences in s are
// replaced with U+FFFD so that the result always decodes strictly.
func EncodeUTF8(s string) []byte {
	return []byte(strings.ToValidUTF8(s, string(utf8.RuneError)))
}
