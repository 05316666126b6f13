// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package bencodeinterfaces defines the primary interfaces of the bencode
// codec
//
// (This package is primarily separated out in order to permit the implementation to
// be broken down into multiple packages)
package bencodeinterfaces

import (
	"io"
	"reflect"

	"go.e43.eu/bencode/value"
)

// interface ByteSource is the input consumed by the decoder.
//
// Only ReadByte is required. If the source also implements io.Reader, the
// decoder uses it to read byte string payloads in one go; otherwise it
// falls back to calling ReadByte once per byte. Sources should return
// io.EOF once exhausted.
type ByteSource interface {
	io.ByteReader
}

// interface ByteSink is the output written by the encoder.
//
// Only WriteByte is required. If the sink also implements io.Writer (and
// optionally io.StringWriter), runs of bytes are written through it;
// otherwise WriteByte is called once per byte.
type ByteSink interface {
	io.ByteWriter
}

// interface Marshaler is implemented by types which know how to represent
// themselves as a bencode tree
type Marshaler interface {
	MarshalBencode() (value.Value, error)
}

// interface Unmarshaler is implemented by types which know how to fill
// themselves from a bencode tree
type Unmarshaler interface {
	UnmarshalBencode(v value.Value) error
}

// interface Codec is the interface by which the marshalling of types which are
// not natively supported may be defined.
//
// Codecs may be registered with a Coder in order to specify how to handle a
// specific type.
//
// It is recommended to implement Marshaler/Unmarshaler when defining your own
// types instead of defining a Codec. However, this may be useful when dealing
// with third party types.
type Codec interface {
	// ToValue converts v into a bencode tree
	ToValue(v reflect.Value) (value.Value, error)

	// FromValue stores the tree b into v, which is settable
	FromValue(b value.Value, v reflect.Value) error
}

// interface Coder is the top-level interface to the bencode library
//
// A coder (which may be safely used from multiple threads) provides the ability
// to marshal objects to and from bencode. It also contains a repository of Codecs
// which know how to marshal various types
type Coder interface {
	// Marshals o into the returned buffer
	Marshal(o interface{}) ([]byte, error)

	// Unmarshals buf into the object pointed to by op. buf must contain
	// exactly one value.
	Unmarshal(buf []byte, op interface{}) error

	// Encode returns the canonical encoding of the tree v
	Encode(v value.Value) ([]byte, error)

	// Decode parses buf, which must contain exactly one value
	Decode(buf []byte) (value.Value, error)

	// Write marshals o into the passed writer
	Write(w io.Writer, o interface{}) error

	// Read unmarshals *op out of the passed reader
	Read(r io.Reader, op interface{}) error

	// ToValue converts o into a bencode tree without encoding it
	ToValue(o interface{}) (value.Value, error)

	// FromValue stores the tree v into the object pointed to by op
	FromValue(v value.Value, op interface{}) error

	// Constructs a new encoder which writes to w
	NewEncoder(w io.Writer) Encoder

	// Constructs a new decoder which reads from r.
	//
	// If r does not implement io.ByteReader it is wrapped in a buffered
	// reader, which may read beyond the end of the decoded values.
	NewDecoder(r io.Reader) Decoder

	// Constructs a new encoder which writes to the sink s
	NewSinkEncoder(s ByteSink) Encoder

	// Constructs a new decoder which reads from the source s. The decoder
	// never reads past the end of a value.
	NewSourceDecoder(s ByteSource) Decoder

	// Registers the codec. Panics if a codec is already registered for
	// the type, or an attempt is made to register a codec for a type
	// for which it is not permitted to register codecs.
	RegisterCodec(template interface{}, c Codec)
	RegisterCodecReflect(type_ reflect.Type, c Codec)
}

// interface Encoder is the interface to the bencode encoder
type Encoder interface {
	// EncodeInteger writes an integer to the encoder
	EncodeInteger(i value.Integer) error

	// EncodeByteString writes a byte string to the encoder
	EncodeByteString(s value.ByteString) error

	// EncodeList writes a list (and its contents) to the encoder
	EncodeList(l value.List) error

	// EncodeDictionary writes a dictionary to the encoder, with entries
	// in canonical order
	EncodeDictionary(d value.Dictionary) error

	// WriteValue writes the tree v to the encoder
	WriteValue(v value.Value) error

	// Encode converts o into a tree and writes it to the encoder
	Encode(o interface{}) error

	// Flush writes any buffered output to the underlying writer
	Flush() error
}

// interface Decoder is the interface to the bencode decoder
type Decoder interface {
	// ReadValue reads exactly one value from the decoder. Bytes following
	// the value are left unread.
	ReadValue() (value.Value, error)

	// Decode reads one value from the decoder and stores it into *op
	Decode(op interface{}) error

	// Offset returns the number of bytes consumed so far
	Offset() int64
}
