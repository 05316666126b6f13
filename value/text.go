// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package value

import "go.e43.eu/bencode/internal/text"

// Text constructs a ByteString holding the UTF-8 encoding of s
func Text(s string) ByteString {
	return ByteString(text.EncodeUTF8(s))
}

// Text returns s decoded as UTF-8. It fails if s is not valid UTF-8.
func (s ByteString) Text() (string, bool) {
	t, err := text.DecodeUTF8([]byte(s))
	return t, err == nil
}

// LooseText returns s decoded as UTF-8 or, failing that, as Windows-1252.
//
// Many byte strings found in the wild (file names in old torrents, for
// example) were written in a legacy code page.
func (s ByteString) LooseText() (string, bool) {
	t, err := text.DecodeLoose([]byte(s))
	return t, err == nil
}
