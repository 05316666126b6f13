// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"io"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
)

// writerSink adapts an io.Writer lacking WriteByte into a ByteSink. It is
// unbuffered; every WriteByte is a Write of one byte.
type writerSink struct {
	io.Writer
	b [1]byte
}

var _ bencodeinterfaces.ByteSink = &writerSink{}

func (w *writerSink) WriteByte(c byte) error {
	w.b[0] = c
	_, err := w.Write(w.b[:])
	return err
}

// asSink returns w as a ByteSink, wrapping it if required
func asSink(w io.Writer) bencodeinterfaces.ByteSink {
	if s, ok := w.(bencodeinterfaces.ByteSink); ok {
		return s
	}
	return &writerSink{Writer: w}
}
