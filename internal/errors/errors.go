// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package errors

import (
	"fmt"
	"reflect"
	"strings"
)

type berror string

func (e berror) Error() string {
	return string(e)
}

const (
	// Malformed input: bad type tag, bad integer, bad string length
	ErrSyntax = berror("bencode: Syntax error")

	// The source ran out of bytes before the value was complete
	ErrTruncated = berror("bencode: Unexpected end of input")

	// Bytes remain after the single top level value in a buffer
	ErrTrailingData = berror("bencode: Trailing data after value")

	// Input nesting exceeds the configured maximum depth
	ErrTooDeep = berror("bencode: Nesting too deep")

	// Strict decoding found input which would not re-encode identically
	ErrNonCanonical = berror("bencode: Non-canonical encoding")

	// Byte string longer than permitted by the decoder configuration
	ErrLengthExceedsMax = berror("bencode: Byte string too long")

	// Length of fixed length object incorrect
	//
	// This is returned when a byte string does not match the length of
	// the [N]byte array it is being decoded into
	ErrLengthIncorrect = berror("bencode: Length incorrect")

	// Value of the wrong kind for the target type
	ErrInvalidValue = berror("bencode: Invalid value for type")

	// Integer out of range of the target type
	ErrOverflow = berror("bencode: Integer out of range")

	// Decode expected pointer parameter
	ErrNotPointer = berror("bencode: Expected pointer parameter")

	// Pointer was unexpectedly nil
	ErrNilPointer = berror("bencode: Unexpected nil pointer")

	// Dictionary lacks an entry for a required struct field
	ErrMissingKey = berror("bencode: Required key missing")

	// Go type with no bencode representation
	ErrUnsupportedType = berror("bencode: Unsupported type")

	// Attempt to encode a nil value, which bencode cannot represent
	ErrNilValue = berror("bencode: Cannot encode nil")
)

// SyntaxError reports corrupt input at a byte offset
type SyntaxError struct {
	Offset int64
	Msg    string
}

func (e SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s (at offset %d)", e.Msg, e.Offset)
}

// TruncatedError reports that the source was exhausted. Err is the error
// returned by the source (normally io.EOF or io.ErrUnexpectedEOF)
type TruncatedError struct {
	Offset int64
	Err    error
}

func (e TruncatedError) Is(target error) bool {
	return target == ErrTruncated
}

func (e TruncatedError) Unwrap() error {
	return e.Err
}

func (e TruncatedError) Error() string {
	return fmt.Sprintf("%s (at offset %d: %v)", ErrTruncated, e.Offset, e.Err)
}

// TrailingDataError reports bytes following a complete value
type TrailingDataError struct {
	Offset    int64
	Remaining int
}

func (e TrailingDataError) Is(target error) bool {
	return target == ErrTrailingData
}

func (e TrailingDataError) Error() string {
	return fmt.Sprintf("%s (%d bytes at offset %d)", ErrTrailingData, e.Remaining, e.Offset)
}

// NonCanonicalError is returned by strict decoders
type NonCanonicalError struct {
	Offset int64
	Msg    string
}

func (e NonCanonicalError) Is(target error) bool {
	return target == ErrNonCanonical
}

func (e NonCanonicalError) Error() string {
	return fmt.Sprintf("%s: %s (at offset %d)", ErrNonCanonical, e.Msg, e.Offset)
}

type DepthError struct {
	Max int
}

func (e DepthError) Is(target error) bool {
	return target == ErrTooDeep
}

func (e DepthError) Error() string {
	return fmt.Sprintf("%s (> %d)", ErrTooDeep, e.Max)
}

type InvalidTypeError struct {
	T reflect.Type
}

func (e InvalidTypeError) Is(target error) bool {
	return target == ErrUnsupportedType
}

func (e InvalidTypeError) Error() string {
	return fmt.Sprintf("bencode: Type '%s' unsupported", e.T)
}

type KindError struct {
	Kind string
	T    reflect.Type
}

func (e KindError) Is(target error) bool {
	return target == ErrInvalidValue
}

func (e KindError) Error() string {
	return fmt.Sprintf("%s (cannot decode %s into '%s')", ErrInvalidValue, e.Kind, e.T)
}

type OverflowError struct {
	Value string
	T     reflect.Type
}

func (e OverflowError) Is(target error) bool {
	return target == ErrOverflow
}

func (e OverflowError) Error() string {
	return fmt.Sprintf("%s (%s does not fit '%s')", ErrOverflow, e.Value, e.T)
}

type LengthError struct {
	Actual, Max uint64
}

func (err LengthError) Is(target error) bool {
	return target == ErrLengthExceedsMax && err.Actual > err.Max
}

func (err LengthError) Error() string {
	return fmt.Sprintf("%s (%d > %d)", ErrLengthExceedsMax, err.Actual, err.Max)
}

// FixedLengthError reports a byte string or list whose length does not
// match the fixed length of the array it is being decoded into
type FixedLengthError struct {
	Actual, Want int
}

func (err FixedLengthError) Is(target error) bool {
	return target == ErrLengthIncorrect
}

func (err FixedLengthError) Error() string {
	return fmt.Sprintf("%s (got %d, want %d)", ErrLengthIncorrect, err.Actual, err.Want)
}

type FieldError struct {
	Underlying error
	Path       string
}

func (err FieldError) Unwrap() error {
	return err.Underlying
}

func (err FieldError) Error() string {
	uerr := strings.TrimPrefix(err.Underlying.Error(), "bencode: ")
	return fmt.Sprintf("bencode: %s (at %s)", uerr, err.Path)
}

// WithFieldError prefixes the path of err with the joined parts. Nested
// calls build up the path from the innermost element outwards
func WithFieldError(err error, parts ...string) error {
	if err == nil {
		return nil
	}

	if parts[0] == "" {
		parts[0] = "<anonymous>"
	}
	combined := strings.Join(parts, ".")

	switch err := err.(type) {
	case FieldError:
		if strings.HasPrefix(err.Path, "[") {
			err.Path = combined + err.Path
		} else {
			err.Path = combined + "." + err.Path
		}
		return err
	default:
		return FieldError{err, combined}
	}
}
