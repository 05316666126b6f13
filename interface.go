// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package bencode implements encoding and decoding of bencode, the
// serialization format used by BitTorrent (BEP 3).
//
// Bencode has four kinds of value:
//
//	Kind       | Encoding             | Example
//	-----------+----------------------+------------------
//	integer    | i<decimal>e          | i42e, i-3e, i0e
//	byte string| <length>:<bytes>     | 4:spam, 0:
//	list       | l<values>e           | l4:spami42ee
//	dictionary | d<key><value>...e    | d3:cow3:mooe
//
// Integers have arbitrary precision. Dictionary keys are byte strings and
// are always written in ascending order of their raw (unsigned) bytes, so
// that the encoding of any given tree is unique. Decoding is lenient by
// default (unsorted and duplicated keys are accepted, the last duplicate
// winning); the Strict option rejects anything which would not re-encode
// identically.
//
// Decoded data is represented as a tree of the types in package value:
//
//	switch v := v.(type) {
//	case value.Integer:
//	case value.ByteString:
//	case value.List:
//	case value.Dictionary:
//	}
//
// The Encoder/Decoder types in this package read and write such trees.
// In most cases, however, you will wish to use the higher level functions
// based upon reflection, which map Go values to and from trees:
//
//	                        Go | bencode
//	---------------------------+-----------------------------
//	                      bool | integer (0 or 1)
//	int8 ... int64, int        | integer
//	uint8 ... uint64, uint     | integer
//	        big.Int, *big.Int  | integer
//	                    string | byte string
//	                    []byte | byte string
//	                   [N]byte | byte string of exactly N bytes
//	                  []T, [N]T| list
//	          map[string]T     | dictionary
//	              struct{ ...} | dictionary
//	                        *T | T (nil pointers are omitted from
//	                           |   dictionaries, an error elsewhere)
//	               interface{} | int64 or *big.Int, string,
//	                           | []interface{}, map[string]interface{}
//	               value.Value | itself
//
// Floating point, complex, channel and function types have no
// representation.
//
// Go strings may hold arbitrary bytes, so string fields are filled with
// the raw contents of byte strings. Use value.ByteString's Text and
// LooseText methods where text is required.
//
// Struct fields are controlled using the `bencode:"..."` struct tag:
//
//	type File struct {
//	    Length int64    `bencode:"length"`
//	    Path   []string `bencode:"path"`
//	    MD5Sum string   `bencode:"md5sum,omitempty"`
//	    Cache  []byte   `bencode:"-"`
//	}
//
//	`-`
//	    Must comprise the entirety of the tag; indicates that the field is
//	    to be skipped
//
//	`name`
//	    The dictionary key of the field. If empty, the Go field name is
//	    used
//
//	`omitempty`
//	    The field is left out of the dictionary when it holds its zero
//	    value
//
//	`required`
//	    Unmarshalling fails with ErrMissingKey if the dictionary has no
//	    entry for the field
//
// Fields of embedded structs without a tag are flattened into the
// enclosing dictionary. Dictionary entries with no corresponding field are
// ignored.
//
// You can specify custom behaviour for your type using the Marshaler and
// Unmarshaler interfaces. If implemented, they replace the default
// behaviour. You can override behaviour for third party types by
// implementing and registering a Codec; see the documentation for that
// type and the Coder with which they are registered.
//
// To avoid confusion and conflicts between different packages, it is not
// possible to register new codecs with the default (global) Coder.
package bencode

import (
	bencodeinterfaces "go.e43.eu/bencode/interfaces"
	"go.e43.eu/bencode/internal/coder"
	"go.e43.eu/bencode/value"
)

// interface Coder is the top-level interface to the bencode library
//
// A coder (which may be safely used from multiple threads) provides the ability
// to marshal objects to and from bencode. It also contains a repository of Codecs
// which know how to marshal various types
type Coder = bencodeinterfaces.Coder

// interface Encoder is the interface to the bencode encoder
type Encoder = bencodeinterfaces.Encoder

// interface Decoder is the interface to the bencode decoder
type Decoder = bencodeinterfaces.Decoder

// interface ByteSource is the input consumed by decoders
type ByteSource = bencodeinterfaces.ByteSource

// interface ByteSink is the output written by encoders
type ByteSink = bencodeinterfaces.ByteSink

// interface Marshaler is implemented by types which produce their own tree
type Marshaler = bencodeinterfaces.Marshaler

// interface Unmarshaler is implemented by types which fill themselves from
// a tree
type Unmarshaler = bencodeinterfaces.Unmarshaler

// interface Codec defines the marshalling of a type not natively supported
type Codec = bencodeinterfaces.Codec

// Option configures a Coder
type Option = coder.Option

// BufferSource is a ByteSource reading from a byte slice
type BufferSource = coder.BufferSource

// ReaderSource is an unbuffered ByteSource reading from an io.Reader
type ReaderSource = coder.ReaderSource

// Value is a decoded bencode tree
type Value = value.Value
