// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bytes"
	"io"
	"reflect"
	"strconv"
	"sync"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

var encoderPool = sync.Pool{
	New: func() interface{} {
		return new(encoder)
	},
}

type encoder struct {
	// Underlying sink
	s bencodeinterfaces.ByteSink
	// If the sink is also an io.Writer, use that when writing runs of bytes
	w io.Writer
	// If the sink is also an io.StringWriter, use that when writing byte
	// strings (to avoid allocs)
	ws io.StringWriter

	// Our coder
	cr *Coder

	// Small scratch buffer (avoids needing to allocate when writing lengths
	// and most integers)
	scratch [32]byte
}

var _ bencodeinterfaces.Encoder = &encoder{}

func (e *encoder) reset(cr *Coder, s bencodeinterfaces.ByteSink) {
	e.s = s
	e.w, _ = s.(io.Writer)
	e.ws, _ = s.(io.StringWriter)
	e.cr = cr
}

func (e *encoder) putBytes(b []byte) error {
	if e.w != nil {
		_, err := e.w.Write(b)
		return err
	}

	for _, c := range b {
		if err := e.s.WriteByte(c); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) putString(s string) error {
	switch {
	case e.ws != nil:
		_, err := e.ws.WriteString(s)
		return err
	case e.w != nil:
		_, err := e.w.Write([]byte(s))
		return err
	}

	for i := 0; i < len(s); i++ {
		if err := e.s.WriteByte(s[i]); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) EncodeInteger(i value.Integer) error {
	buf := append(e.scratch[:0], 'i')
	buf = i.AppendDecimal(buf)
	buf = append(buf, 'e')
	return e.putBytes(buf)
}

func (e *encoder) EncodeByteString(s value.ByteString) error {
	buf := strconv.AppendInt(e.scratch[:0], int64(len(s)), 10)
	buf = append(buf, ':')
	if err := e.putBytes(buf); err != nil {
		return err
	}
	return e.putString(string(s))
}

func (e *encoder) EncodeList(l value.List) error {
	if err := e.s.WriteByte('l'); err != nil {
		return err
	}
	for i, n := 0, l.Len(); i < n; i++ {
		if err := e.WriteValue(l.At(i)); err != nil {
			return err
		}
	}
	return e.s.WriteByte('e')
}

func (e *encoder) EncodeDictionary(d value.Dictionary) (err error) {
	if err := e.s.WriteByte('d'); err != nil {
		return err
	}

	// Dictionaries hold their entries in canonical order
	d.Range(func(k value.ByteString, v value.Value) bool {
		if err = e.EncodeByteString(k); err != nil {
			return false
		}
		err = e.WriteValue(v)
		return err == nil
	})
	if err != nil {
		return err
	}

	return e.s.WriteByte('e')
}

func (e *encoder) WriteValue(v value.Value) error {
	switch v := v.(type) {
	case value.Integer:
		return e.EncodeInteger(v)
	case value.ByteString:
		return e.EncodeByteString(v)
	case value.List:
		return e.EncodeList(v)
	case value.Dictionary:
		return e.EncodeDictionary(v)
	case nil:
		return errors.ErrNilValue
	default:
		// Pointers to the tree types satisfy Value too
		return errors.InvalidTypeError{T: reflect.TypeOf(v)}
	}
}

func (e *encoder) Encode(o interface{}) error {
	v, err := e.cr.ToValue(o)
	if err != nil {
		return err
	}
	return e.WriteValue(v)
}

func (e *encoder) Flush() error {
	if f, ok := e.s.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

func (e *encoder) release() {
	e.s = nil
	e.w = nil
	e.ws = nil
	encoderPool.Put(e)
}

var marshalEncoderPool = sync.Pool{
	New: func() interface{} {
		me := new(marshalEncoder)
		me.s = &me.b
		me.w = &me.b
		me.ws = &me.b
		return me
	},
}

// marshalEncoder is an encoder writing into its own buffer
type marshalEncoder struct {
	b bytes.Buffer
	encoder
}

func (e *marshalEncoder) reset(cr *Coder) {
	e.cr = cr
}

func (e *marshalEncoder) release() {
	e.b.Reset()
	marshalEncoderPool.Put(e)
}
