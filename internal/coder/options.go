// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

// DefaultMaxDepth is the nesting limit applied by decoders when none is
// configured
const DefaultMaxDepth = 512

// Option configures a Coder
type Option func(cr *Coder)

// Strict makes decoders reject any input which is not in canonical form:
// dictionary keys out of order or duplicated, integers with leading zeros
// or "-0", and byte string lengths with leading zeros
func Strict() Option {
	return func(cr *Coder) {
		cr.strictMode = true
	}
}

// MaxDepth limits the nesting of lists and dictionaries accepted by
// decoders. Values less than one select DefaultMaxDepth
func MaxDepth(n int) Option {
	return func(cr *Coder) {
		cr.depthLimit = n
	}
}

// MaxStringLength limits the length of byte strings accepted by decoders.
// Zero means no limit
func MaxStringLength(n int) Option {
	return func(cr *Coder) {
		cr.maxStringLength = n
	}
}

func (cr *Coder) strict() bool {
	return cr.strictMode
}

func (cr *Coder) maxDepth() int {
	if cr.depthLimit < 1 {
		return DefaultMaxDepth
	}
	return cr.depthLimit
}
