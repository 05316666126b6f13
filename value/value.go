// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

// Package value defines the in-memory representation of a bencode
// document.
//
// A document is a tree of Values. The set of Value implementations is
// closed: Integer, ByteString, List and Dictionary. Code consuming a tree
// should use a type switch over these four:
//
//	switch v := v.(type) {
//	case value.Integer:
//	case value.ByteString:
//	case value.List:
//	case value.Dictionary:
//	}
//
// Values are immutable once constructed. Every constructor copies its
// mutable inputs and every accessor returning a slice or *big.Int returns
// a copy, so trees may be shared freely between goroutines.
package value

import (
	"math/big"
	"strings"
)

// Kind identifies which of the four bencode types a Value holds
type Kind uint8

const (
	KindInteger Kind = iota + 1
	KindByteString
	KindList
	KindDictionary
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindByteString:
		return "byte string"
	case KindList:
		return "list"
	case KindDictionary:
		return "dictionary"
	default:
		return "invalid"
	}
}

// Value is a node in a bencode tree
type Value interface {
	// Kind returns the bencode type of the value
	Kind() Kind

	// String returns the diagnostic rendering of the value. It is not
	// bencode and is not intended to be parsed.
	String() string

	sealed()
}

// ByteString is an immutable sequence of raw bytes. It is not assumed to
// be text.
//
// Comparison of ByteStrings with the Go operators (==, <, ...) is
// unsigned byte-lexicographic, which is the bencode canonical order.
type ByteString string

func (ByteString) Kind() Kind { return KindByteString }
func (ByteString) sealed()    {}

// Bytes constructs a ByteString holding a copy of b
func Bytes(b []byte) ByteString {
	return ByteString(b)
}

// Len returns the number of bytes in s
func (s ByteString) Len() int {
	return len(s)
}

// Bytes returns a copy of the raw bytes of s
func (s ByteString) Bytes() []byte {
	return []byte(s)
}

func (s ByteString) String() string {
	var b strings.Builder
	formatByteString(&b, s)
	return b.String()
}

// List is an ordered sequence of Values
type List struct {
	items []Value
}

func (List) Kind() Kind { return KindList }
func (List) sealed()    {}

// NewList constructs a List of the given items, in order
func NewList(items ...Value) List {
	if len(items) == 0 {
		return List{}
	}
	for _, v := range items {
		if v == nil {
			panic("value: nil Value in list")
		}
	}
	return List{append([]Value(nil), items...)}
}

// Len returns the number of items in l
func (l List) Len() int {
	return len(l.items)
}

// At returns the i'th item of l
func (l List) At(i int) Value {
	return l.items[i]
}

// Items returns a copy of the items of l
func (l List) Items() []Value {
	return append([]Value(nil), l.items...)
}

func (l List) String() string {
	var b strings.Builder
	format(&b, l)
	return b.String()
}

// Integer is an arbitrary precision signed integer
type Integer struct {
	// nil represents zero, so that the zero Integer is usable
	i *big.Int
}

func (Integer) Kind() Kind { return KindInteger }
func (Integer) sealed()    {}

func (i Integer) String() string {
	return i.big().String()
}
