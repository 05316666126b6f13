// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package value

// Compare returns -1, 0 or +1 as a sorts before, equal to or after b in
// canonical order. Bytes are compared as unsigned values; where one string
// is a prefix of the other, the shorter sorts first.
func Compare(a, b ByteString) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}

	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Less reports whether a sorts strictly before b in canonical order
func Less(a, b ByteString) bool {
	return Compare(a, b) < 0
}

// Equal reports whether a and b are the same tree. Dictionaries are equal
// when they hold the same entries, however they were constructed.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a.Cmp(b) == 0

	case ByteString:
		b, ok := b.(ByteString)
		return ok && a == b

	case List:
		b, ok := b.(List)
		if !ok || len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true

	case Dictionary:
		b, ok := b.(Dictionary)
		if !ok || len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if a.pairs[i].Key != b.pairs[i].Key || !Equal(a.pairs[i].Value, b.pairs[i].Value) {
				return false
			}
		}
		return true

	default:
		return a == nil && b == nil
	}
}
