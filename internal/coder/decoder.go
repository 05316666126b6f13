// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"
	"io"
	"math/big"
	"sync"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

const (
	// maxUint is the maximum value a uint can hold
	maxUint = ^uint(0)
	// maxInt is the maximum value an int can hold
	maxInt = int(maxUint >> 1)

	// Byte string payloads are read (and their buffers grown) in chunks of
	// at most this size, so that a corrupt length prefix cannot trigger a
	// huge allocation before the input runs out
	runChunk = 64 << 10
)

var decoderPool = sync.Pool{
	New: func() interface{} {
		return new(decoder)
	},
}

type decoder struct {
	src bencodeinterfaces.ByteSource
	// Non-nil if src can also read runs of bytes
	rd io.Reader
	// Non-nil if src knows how many bytes remain
	lr interface{ Len() int }

	cr *Coder

	// Bytes consumed
	off int64
	// Current nesting depth
	depth int

	// Scratch buffer for integer digits
	digits []byte

	// Used by Coder.Decode/Unmarshal to avoid an allocation
	bufSrc BufferSource
}

var _ bencodeinterfaces.Decoder = &decoder{}

func (d *decoder) reset(cr *Coder, src bencodeinterfaces.ByteSource) {
	d.src = src
	d.rd, _ = src.(io.Reader)
	d.lr, _ = src.(interface{ Len() int })
	d.cr = cr
	d.off = 0
	d.depth = 0
}

func (d *decoder) Offset() int64 {
	return d.off
}

func (d *decoder) syntaxError(off int64, format string, args ...interface{}) error {
	return errors.SyntaxError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// sourceError converts an error from the source. Exhaustion becomes a
// TruncatedError; anything else (a timeout, say) is returned unchanged
func (d *decoder) sourceError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return errors.TruncatedError{Offset: d.off, Err: err}
	}
	return err
}

func (d *decoder) readByte() (byte, error) {
	c, err := d.src.ReadByte()
	if err != nil {
		return 0, d.sourceError(err)
	}
	d.off++
	return c, nil
}

// fill reads exactly len(p) bytes
func (d *decoder) fill(p []byte) (int, error) {
	if d.rd != nil {
		return io.ReadFull(d.rd, p)
	}

	for i := range p {
		c, err := d.src.ReadByte()
		if err != nil {
			if err == io.EOF && i > 0 {
				err = io.ErrUnexpectedEOF
			}
			return i, err
		}
		p[i] = c
	}
	return len(p), nil
}

// readRun reads exactly n bytes
func (d *decoder) readRun(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}

	if d.lr != nil && d.lr.Len() < n {
		return nil, errors.TruncatedError{Offset: d.off + int64(d.lr.Len()), Err: io.ErrUnexpectedEOF}
	}

	capacity := n
	if capacity > runChunk {
		capacity = runChunk
	}
	buf := make([]byte, 0, capacity)

	for len(buf) < n {
		if len(buf) == cap(buf) {
			// Let append pick the growth
			buf = append(buf, 0)[:len(buf)]
		}

		end := cap(buf)
		if end > n {
			end = n
		}

		got, err := d.fill(buf[len(buf):end])
		buf = buf[:len(buf)+got]
		d.off += int64(got)
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, d.sourceError(err)
		}
	}
	return buf, nil
}

// ReadValue reads one complete value
func (d *decoder) ReadValue() (value.Value, error) {
	c, err := d.readByte()
	if err != nil {
		return nil, err
	}
	return d.value(c)
}

func (d *decoder) Decode(op interface{}) error {
	v, err := d.ReadValue()
	if err != nil {
		return err
	}
	return d.cr.FromValue(v, op)
}

// value dispatches on the type byte c, which has already been consumed
func (d *decoder) value(c byte) (value.Value, error) {
	switch {
	case c == 'i':
		return d.integer()
	case c == 'l':
		return d.list()
	case c == 'd':
		return d.dictionary()
	case c >= '0' && c <= '9':
		return d.byteString(c)
	default:
		return nil, d.syntaxError(d.off-1, "invalid type %q", c)
	}
}

// digitRun accumulates bytes up to (and consuming) sentinel. first, if
// non-zero, is an already consumed leading digit. A leading '-' is
// accepted only if signed is set.
//
// Anything other than digits is rejected as soon as it is seen, rather
// than after the sentinel, so a missing sentinel on a stream fails fast.
func (d *decoder) digitRun(first byte, sentinel byte, signed bool) ([]byte, error) {
	start := d.off
	buf := d.digits[:0]
	if first != 0 {
		start--
		buf = append(buf, first)
	}

	for {
		c, err := d.readByte()
		if err != nil {
			return nil, err
		}

		switch {
		case c == sentinel:
			d.digits = buf
			return buf, d.checkDigits(buf, start, signed)
		case c >= '0' && c <= '9':
			buf = append(buf, c)
		case c == '-' && signed && len(buf) == 0:
			buf = append(buf, c)
		default:
			d.digits = buf
			return nil, d.syntaxError(d.off-1, "invalid integer: unexpected %q", c)
		}
	}
}

func (d *decoder) checkDigits(buf []byte, start int64, signed bool) error {
	digits := buf
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}

	if len(digits) == 0 {
		return d.syntaxError(start, "invalid integer: no digits")
	}

	if d.cr.strict() {
		switch {
		case len(buf) == 2 && buf[0] == '-' && buf[1] == '0':
			return errors.NonCanonicalError{Offset: start, Msg: "negative zero"}
		case len(digits) > 1 && digits[0] == '0':
			return errors.NonCanonicalError{Offset: start, Msg: "leading zero"}
		}
	}
	return nil
}

func (d *decoder) integer() (value.Value, error) {
	buf, err := d.digitRun(0, 'e', true)
	if err != nil {
		return nil, err
	}

	i, ok := new(big.Int).SetString(string(buf), 10)
	if !ok {
		// digitRun has already validated buf
		return nil, d.syntaxError(d.off, "invalid integer %q", buf)
	}
	return value.BigInt(i), nil
}

// length parses a byte string length prefix, of which first is the first
// (already consumed) digit
func (d *decoder) length(first byte) (int, error) {
	start := d.off - 1
	buf, err := d.digitRun(first, ':', false)
	if err != nil {
		return 0, err
	}

	var n uint64
	for _, c := range buf {
		digit := uint64(c - '0')
		if n > (uint64(maxInt)-digit)/10 {
			return 0, d.syntaxError(start, "string length is not a valid size")
		}
		n = n*10 + digit
	}

	if max := d.cr.maxStringLength; max > 0 && n > uint64(max) {
		return 0, errors.LengthError{Actual: n, Max: uint64(max)}
	}
	return int(n), nil
}

func (d *decoder) byteString(first byte) (value.ByteString, error) {
	n, err := d.length(first)
	if err != nil {
		return "", err
	}

	buf, err := d.readRun(n)
	if err != nil {
		return "", err
	}
	return value.Bytes(buf), nil
}

func (d *decoder) enter() error {
	d.depth++
	if max := d.cr.maxDepth(); d.depth > max {
		return errors.DepthError{Max: max}
	}
	return nil
}

func (d *decoder) leave() {
	d.depth--
}

func (d *decoder) list() (value.Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	var items []value.Value
	for {
		c, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			return value.NewList(items...), nil
		}

		v, err := d.value(c)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (d *decoder) dictionary() (value.Value, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer d.leave()

	var pairs []value.Pair
	for {
		keyOff := d.off
		c, err := d.readByte()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			return value.NewDictionary(pairs...), nil
		}
		if c < '0' || c > '9' {
			return nil, d.syntaxError(keyOff, "dictionary key must be a byte string, found %q", c)
		}

		key, err := d.byteString(c)
		if err != nil {
			return nil, err
		}

		if n := len(pairs); n > 0 && d.cr.strict() {
			switch cmp := value.Compare(pairs[n-1].Key, key); {
			case cmp == 0:
				return nil, errors.NonCanonicalError{Offset: keyOff, Msg: fmt.Sprintf("duplicate key %s", key)}
			case cmp > 0:
				return nil, errors.NonCanonicalError{Offset: keyOff, Msg: fmt.Sprintf("key %s out of order", key)}
			}
		}

		c, err = d.readByte()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			return nil, d.syntaxError(d.off-1, "dictionary key %s has no value", key)
		}

		v, err := d.value(c)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, value.Pair{Key: key, Value: v})
	}
}

func (d *decoder) release() {
	d.src = nil
	d.rd = nil
	d.lr = nil
	d.cr = nil
	d.bufSrc.reset(nil)
	decoderPool.Put(d)
}
