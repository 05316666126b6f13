// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package value

import (
	"math"
	"math/big"
)

var zero big.Int

// Int constructs an Integer from an int64
func Int(i int64) Integer {
	return Integer{big.NewInt(i)}
}

// Int32 constructs an Integer from an int32
func Int32(i int32) Integer {
	return Int(int64(i))
}

// Uint constructs an Integer from a uint64
func Uint(u uint64) Integer {
	return Integer{new(big.Int).SetUint64(u)}
}

// BigInt constructs an Integer holding a copy of i. A nil i is zero.
func BigInt(i *big.Int) Integer {
	if i == nil {
		return Integer{}
	}
	return Integer{new(big.Int).Set(i)}
}

// ParseInteger parses a base 10 integer with an optional leading '-'.
// Unlike bencode decoding it accepts a leading '+'.
func ParseInteger(s string) (Integer, bool) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Integer{}, false
	}
	return Integer{i}, true
}

func (i Integer) big() *big.Int {
	if i.i == nil {
		return &zero
	}
	return i.i
}

// Big returns a copy of the value of i
func (i Integer) Big() *big.Int {
	return new(big.Int).Set(i.big())
}

// Sign returns -1, 0 or +1 depending on the sign of i
func (i Integer) Sign() int {
	return i.big().Sign()
}

// Cmp compares i and j, returning -1, 0 or +1
func (i Integer) Cmp(j Integer) int {
	return i.big().Cmp(j.big())
}

// Int64 returns the value of i if it fits in an int64
func (i Integer) Int64() (int64, bool) {
	b := i.big()
	if !b.IsInt64() {
		return 0, false
	}
	return b.Int64(), true
}

// Int32 returns the value of i if it fits in an int32
func (i Integer) Int32() (int32, bool) {
	v, ok := i.Int64()
	if !ok || v < math.MinInt32 || v > math.MaxInt32 {
		return 0, false
	}
	return int32(v), true
}

// Uint64 returns the value of i if it fits in a uint64
func (i Integer) Uint64() (uint64, bool) {
	b := i.big()
	if !b.IsUint64() {
		return 0, false
	}
	return b.Uint64(), true
}

// AppendDecimal appends the canonical decimal representation of i to buf
func (i Integer) AppendDecimal(buf []byte) []byte {
	return i.big().Append(buf, 10)
}
