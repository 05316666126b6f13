// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bencode

import (
	"io"
	"reflect"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
	"go.e43.eu/bencode/internal/coder"
	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

type defaultCoder struct {
	coder.Coder
}

func (d *defaultCoder) RegisterCodec(template interface{}, c bencodeinterfaces.Codec) {
	panic("Cannot register type on default codec")
}

func (d *defaultCoder) RegisterCodecReflect(type_ reflect.Type, c bencodeinterfaces.Codec) {
	panic("Cannot register type on default codec")
}

// The default coder (used by the package global functions)
//
// This behaves identically to a coder created using NewCoder with no
// options, except that it is not permitted to register any codecs upon it.
var DefaultCoder defaultCoder

var _ Coder = &DefaultCoder

// Errors returned by this package. Typed errors carrying more detail
// match these using errors.Is
const (
	ErrSyntax           = errors.ErrSyntax
	ErrTruncated        = errors.ErrTruncated
	ErrTrailingData     = errors.ErrTrailingData
	ErrTooDeep          = errors.ErrTooDeep
	ErrNonCanonical     = errors.ErrNonCanonical
	ErrLengthExceedsMax = errors.ErrLengthExceedsMax
	ErrLengthIncorrect  = errors.ErrLengthIncorrect
	ErrInvalidValue     = errors.ErrInvalidValue
	ErrOverflow         = errors.ErrOverflow
	ErrNotPointer       = errors.ErrNotPointer
	ErrNilPointer       = errors.ErrNilPointer
	ErrMissingKey       = errors.ErrMissingKey
	ErrNilValue         = errors.ErrNilValue
	ErrUnsupportedType  = errors.ErrUnsupportedType
)

type (
	SyntaxError       = errors.SyntaxError
	TruncatedError    = errors.TruncatedError
	TrailingDataError = errors.TrailingDataError
	NonCanonicalError = errors.NonCanonicalError
	DepthError        = errors.DepthError
	LengthError       = errors.LengthError
	FieldError        = errors.FieldError
	InvalidTypeError  = errors.InvalidTypeError
)

// DefaultMaxDepth is the nesting limit of decoders without a MaxDepth option
const DefaultMaxDepth = coder.DefaultMaxDepth

// Marshals o into the returned buffer
func Marshal(o interface{}) ([]byte, error) {
	return DefaultCoder.Marshal(o)
}

// Unmarshals buf into the object pointed to by op. buf must contain exactly
// one value
func Unmarshal(buf []byte, op interface{}) error {
	return DefaultCoder.Unmarshal(buf, op)
}

// Encode returns the canonical encoding of v
func Encode(v value.Value) ([]byte, error) {
	return DefaultCoder.Encode(v)
}

// Decode parses buf, which must contain exactly one value
func Decode(buf []byte) (value.Value, error) {
	return DefaultCoder.Decode(buf)
}

// ToValue converts o into a tree
func ToValue(o interface{}) (value.Value, error) {
	return DefaultCoder.ToValue(o)
}

// FromValue stores the tree v into the object pointed to by op
func FromValue(v value.Value, op interface{}) error {
	return DefaultCoder.FromValue(v, op)
}

// Write marshals o into the passed writer
func Write(w io.Writer, o interface{}) error {
	return DefaultCoder.Write(w, o)
}

// Read unmarshals *op out of the passed reader
func Read(r io.Reader, op interface{}) error {
	return DefaultCoder.Read(r, op)
}

// Constructs a new encoder which writes to w
func NewEncoder(w io.Writer) Encoder {
	return DefaultCoder.NewEncoder(w)
}

// Constructs a new decoder which reads from r
func NewDecoder(r io.Reader) Decoder {
	return DefaultCoder.NewDecoder(r)
}

// Constructs a new encoder which writes to s
func NewSinkEncoder(s ByteSink) Encoder {
	return DefaultCoder.NewSinkEncoder(s)
}

// Constructs a new decoder which reads from s
func NewSourceDecoder(s ByteSource) Decoder {
	return DefaultCoder.NewSourceDecoder(s)
}

// NewBufferSource returns a ByteSource reading from buf
func NewBufferSource(buf []byte) *BufferSource {
	return coder.NewBufferSource(buf)
}

// NewReaderSource returns a ByteSource reading from r, one byte at a time
func NewReaderSource(r io.Reader) *ReaderSource {
	return coder.NewReaderSource(r)
}

// Construct a new Coder
func NewCoder(opts ...Option) Coder {
	return coder.NewCoder(opts...)
}

// Strict makes decoders reject input not in canonical form
func Strict() Option {
	return coder.Strict()
}

// MaxDepth limits the nesting accepted by decoders
func MaxDepth(n int) Option {
	return coder.MaxDepth(n)
}

// MaxStringLength limits the length of byte strings accepted by decoders
func MaxStringLength(n int) Option {
	return coder.MaxStringLength(n)
}
