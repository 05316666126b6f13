// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package value

import (
	"sort"
	"strings"
)

// Pair is a dictionary entry
type Pair struct {
	Key   ByteString
	Value Value
}

// KV constructs a Pair with a textual key
func KV(key string, v Value) Pair {
	return Pair{Text(key), v}
}

// Entry constructs a Pair with a raw key
func Entry(key ByteString, v Value) Pair {
	return Pair{key, v}
}

// Dictionary maps ByteString keys to Values. Entries are held in canonical
// (unsigned byte-lexicographic) key order regardless of construction order.
type Dictionary struct {
	pairs []Pair
}

func (Dictionary) Kind() Kind { return KindDictionary }
func (Dictionary) sealed()    {}

// NewDictionary constructs a Dictionary from pairs. If a key occurs more
// than once, the last occurrence wins.
func NewDictionary(pairs ...Pair) Dictionary {
	if len(pairs) == 0 {
		return Dictionary{}
	}

	sorted := make([]Pair, len(pairs))
	copy(sorted, pairs)
	for _, p := range sorted {
		if p.Value == nil {
			panic("value: nil Value in dictionary")
		}
	}

	// Stable so that equal keys keep their relative order; the last of
	// each run is the one kept
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})

	out := sorted[:0]
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Key == p.Key {
			out[n-1] = p
		} else {
			out = append(out, p)
		}
	}
	return Dictionary{out}
}

// Len returns the number of entries in d
func (d Dictionary) Len() int {
	return len(d.pairs)
}

// Get returns the value for key
func (d Dictionary) Get(key ByteString) (Value, bool) {
	i := sort.Search(len(d.pairs), func(i int) bool {
		return d.pairs[i].Key >= key
	})
	if i < len(d.pairs) && d.pairs[i].Key == key {
		return d.pairs[i].Value, true
	}
	return nil, false
}

// Lookup is Get with a textual key
func (d Dictionary) Lookup(key string) (Value, bool) {
	return d.Get(Text(key))
}

// Keys returns the keys of d in canonical order
func (d Dictionary) Keys() []ByteString {
	keys := make([]ByteString, len(d.pairs))
	for i, p := range d.pairs {
		keys[i] = p.Key
	}
	return keys
}

// Sorted returns the entries of d in canonical order. This is the order
// in which they are encoded.
func (d Dictionary) Sorted() []Pair {
	return append([]Pair(nil), d.pairs...)
}

// Range calls fn for each entry in canonical order until fn returns false
func (d Dictionary) Range(fn func(key ByteString, v Value) bool) {
	for _, p := range d.pairs {
		if !fn(p.Key, p.Value) {
			return
		}
	}
}

func (d Dictionary) String() string {
	var b strings.Builder
	format(&b, d)
	return b.String()
}
