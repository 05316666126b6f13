// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"
	"sync"

	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

// byteStringOf asserts that b is a ByteString destined for a value of type t
func byteStringOf(b value.Value, t reflect.Type) (value.ByteString, error) {
	s, ok := b.(value.ByteString)
	if !ok {
		return "", errors.KindError{Kind: b.Kind().String(), T: t}
	}
	return s, nil
}

// stringCodec handles strings. Go strings may hold arbitrary bytes, so no
// text validation is performed in either direction
type stringCodec struct{}

var stringCodecI xCodec = stringCodec{}

func (_ stringCodec) ToValue(v reflect.Value) (value.Value, error) {
	return value.ByteString(v.String()), nil
}

func (_ stringCodec) FromValue(b value.Value, v reflect.Value) error {
	s, err := byteStringOf(b, v.Type())
	if err != nil {
		return err
	}
	v.SetString(string(s))
	return nil
}

// bytesCodec handles byte slices
type bytesCodec struct{}

var bytesCodecI xCodec = bytesCodec{}

func (_ bytesCodec) ToValue(v reflect.Value) (value.Value, error) {
	return value.Bytes(v.Bytes()), nil
}

func (_ bytesCodec) FromValue(b value.Value, v reflect.Value) error {
	s, err := byteStringOf(b, v.Type())
	if err != nil {
		return err
	}

	buf := reflect.MakeSlice(v.Type(), len(s), len(s))
	copy(buf.Bytes(), s)
	v.Set(buf)
	return nil
}

// byteArrayCodec handles fixed size byte arrays (such as SHA-1 hashes),
// which must match the length of the byte string exactly
type byteArrayCodec struct {
	bufs sync.Pool
	len  int
}

var _ xCodec = &byteArrayCodec{}

func makeByteArrayCodec(t reflect.Type) xCodec {
	c := &byteArrayCodec{len: t.Len()}
	c.bufs.New = func() interface{} {
		return reflect.New(t)
	}
	return c
}

func (c *byteArrayCodec) ToValue(v reflect.Value) (value.Value, error) {
	// If the user passed in an on-the-stack array then v.CanAddr() may be
	// false, which means we cannot slice it. Copy it into a temporary
	// (pooled) buffer on the heap in that case
	if !v.CanAddr() {
		p := c.bufs.Get().(reflect.Value)
		defer c.bufs.Put(p)

		e := p.Elem()
		e.Set(v)
		v = e
	}

	return value.Bytes(v.Slice(0, c.len).Bytes()), nil
}

func (c *byteArrayCodec) FromValue(b value.Value, v reflect.Value) error {
	s, err := byteStringOf(b, v.Type())
	if err != nil {
		return err
	}

	if len(s) != c.len {
		return errors.FixedLengthError{Actual: len(s), Want: c.len}
	}

	copy(v.Slice(0, c.len).Bytes(), s)
	return nil
}
