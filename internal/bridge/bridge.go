// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package bridge converts bencode trees to and from JSON, YAML and CBOR.
//
// JSON and YAML have no byte string type, so byte strings which are not
// valid UTF-8 are written as {"$hex": "..."} objects (JSON) or !!binary
// scalars (YAML). Dictionary keys which are not valid UTF-8 are written
// as "$hex:..." strings. Integers are always written exactly, however
// large.
package bridge

import (
	"encoding/hex"
	"fmt"
	"strings"

	"go.e43.eu/bencode/value"
)

const (
	// hexField is the sole member of objects standing in for binary strings
	hexField = "$hex"
	// hexKeyPrefix marks dictionary keys written in hex
	hexKeyPrefix = "$hex:"
)

type berror string

func (e berror) Error() string {
	return string(e)
}

const (
	ErrUnrepresentable = berror("bridge: Value has no bencode representation")
	ErrTrailingData    = berror("bridge: Trailing data after document")
	ErrEmpty           = berror("bridge: Empty document")
	ErrDuplicateKey    = berror("bridge: Duplicate dictionary key")
)

// UnrepresentableError reports an input value with no bencode equivalent
type UnrepresentableError struct {
	What string
}

func (e UnrepresentableError) Error() string {
	return fmt.Sprintf("%s (%s)", ErrUnrepresentable, e.What)
}

func (e UnrepresentableError) Is(err error) bool {
	return err == ErrUnrepresentable
}

// Options controls the rendering of byte strings as text
type Options struct {
	// Loose decodes byte strings which are not UTF-8 as Windows-1252
	// where possible, instead of writing them in hex. This is lossy
	Loose bool
}

func (o Options) text(s value.ByteString) (string, bool) {
	if t, ok := s.Text(); ok {
		return t, true
	}
	if o.Loose {
		return s.LooseText()
	}
	return "", false
}

// key renders a dictionary key. Keys which would be mistaken for hex
// escapes are escaped themselves
func (o Options) key(k value.ByteString) string {
	if t, ok := o.text(k); ok && !strings.HasPrefix(t, hexKeyPrefix) {
		return t
	}
	return hexKeyPrefix + hex.EncodeToString([]byte(k))
}

func parseKey(k string) (value.ByteString, error) {
	if !strings.HasPrefix(k, hexKeyPrefix) {
		return value.Text(k), nil
	}
	b, err := hex.DecodeString(k[len(hexKeyPrefix):])
	if err != nil {
		return "", fmt.Errorf("bridge: Invalid hex key %q: %v", k, err)
	}
	return value.Bytes(b), nil
}

// isHexObject reports whether d would be read back as a binary string
func isHexObject(d value.Dictionary) bool {
	if d.Len() != 1 {
		return false
	}
	_, ok := d.Lookup(hexField)
	return ok
}

// keySet detects distinct input keys naming the same dictionary key, such
// as "a" and "$hex:61"
type keySet map[value.ByteString]struct{}

func (ks keySet) add(k value.ByteString) error {
	if _, ok := ks[k]; ok {
		return fmt.Errorf("%w (%q)", ErrDuplicateKey, string(k))
	}
	ks[k] = struct{}{}
	return nil
}
