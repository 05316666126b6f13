// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package value

import (
	"strconv"
	"strings"
)

// Byte strings longer than this are cut short when formatted
const FormatTruncateLen = 256

// Format returns the diagnostic rendering of v:
//
//	integers      42, -7
//	byte strings  "spam", "\377\000", with a "...(+N bytes)" marker
//	              after FormatTruncateLen bytes
//	lists         [1, "a"]
//	dictionaries  {"a": 1, "b": [ ]} in canonical key order
func Format(v Value) string {
	var b strings.Builder
	format(&b, v)
	return b.String()
}

func format(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case Integer:
		b.WriteString(v.String())

	case ByteString:
		formatByteString(b, v)

	case List:
		b.WriteByte('[')
		for i, item := range v.items {
			if i != 0 {
				b.WriteString(", ")
			}
			format(b, item)
		}
		b.WriteByte(']')

	case Dictionary:
		b.WriteByte('{')
		for i, p := range v.pairs {
			if i != 0 {
				b.WriteString(", ")
			}
			formatByteString(b, p.Key)
			b.WriteString(": ")
			format(b, p.Value)
		}
		b.WriteByte('}')

	default:
		b.WriteString("<nil>")
	}
}

func formatByteString(b *strings.Builder, s ByteString) {
	body := s
	if len(body) > FormatTruncateLen {
		body = body[:FormatTruncateLen]
	}

	b.WriteByte('"')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '"':
			b.WriteString(`\"`)
		case c == '\\':
			b.WriteString(`\\`)
		case c < 0x20 || c >= 0x7f:
			b.WriteByte('\\')
			b.WriteByte('0' + c>>6)
			b.WriteByte('0' + (c>>3)&7)
			b.WriteByte('0' + c&7)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')

	if len(s) > len(body) {
		b.WriteString("...(+")
		b.WriteString(strconv.Itoa(len(s) - len(body)))
		b.WriteString(" bytes)")
	}
}
