// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"io"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
)

// BufferSource is a ByteSource reading from an in-memory buffer
type BufferSource struct {
	buf []byte
	off int
}

var _ bencodeinterfaces.ByteSource = &BufferSource{}
var _ io.Reader = &BufferSource{}

// NewBufferSource returns a source reading from buf. buf must not be
// modified while the source is in use.
func NewBufferSource(buf []byte) *BufferSource {
	return &BufferSource{buf: buf}
}

func (s *BufferSource) reset(buf []byte) {
	s.buf = buf
	s.off = 0
}

func (s *BufferSource) ReadByte() (byte, error) {
	if s.off >= len(s.buf) {
		return 0, io.EOF
	}
	c := s.buf[s.off]
	s.off++
	return c, nil
}

func (s *BufferSource) Read(p []byte) (int, error) {
	if s.off >= len(s.buf) {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.off:])
	s.off += n
	return n, nil
}

// Len returns the number of unread bytes
func (s *BufferSource) Len() int {
	return len(s.buf) - s.off
}

// Remaining returns the unread bytes. The result aliases the buffer
func (s *BufferSource) Remaining() []byte {
	return s.buf[s.off:]
}

// ReaderSource adapts an io.Reader into a ByteSource. It does no
// buffering of its own, so it never consumes bytes beyond those which the
// decoder asks for.
type ReaderSource struct {
	r io.Reader
	b [1]byte
}

var _ bencodeinterfaces.ByteSource = &ReaderSource{}
var _ io.Reader = &ReaderSource{}

func NewReaderSource(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) ReadByte() (byte, error) {
	_, err := io.ReadFull(s.r, s.b[:])
	if err != nil {
		return 0, err
	}
	return s.b[0], nil
}

func (s *ReaderSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}
