// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package tags

import (
	"fmt"
	"reflect"
	"strings"
)

// BencodeTag represents a decoded `bencode:"..."` struct tag.
//
// The tag consists of an optional dictionary key followed by comma
// separated options:
//
//	Name   string `bencode:"name"`
//	Length int64  `bencode:"length,omitempty"`
//	Pieces []byte `bencode:",required"`
//	Cache  []byte `bencode:"-"`
//
// When the key is omitted, the Go field name is used.
type BencodeTag struct {
	// Dictionary key of the field
	Key string

	// Field is not marshalled at all
	Skip bool

	// Field is left out of the dictionary when it holds its zero value
	OmitEmpty bool

	// Unmarshalling fails if the dictionary has no entry for the field
	Required bool
}

func (t BencodeTag) String() string {
	if t.Skip {
		return "-"
	}

	s := t.Key
	if t.OmitEmpty {
		s += ",omitempty"
	}
	if t.Required {
		s += ",required"
	}
	return s
}

// ParseStructTag parses the `bencode` tag of f
func ParseStructTag(f reflect.StructField) (BencodeTag, error) {
	return ParseTag(f.Name, f.Tag.Get("bencode"))
}

// ParseTag parses the body of a bencode tag for a field named fieldName
func ParseTag(fieldName string, stag string) (BencodeTag, error) {
	var bt BencodeTag

	stag = strings.TrimSpace(stag)
	if stag == "-" {
		bt.Skip = true
		return bt, nil
	}

	parts := strings.Split(stag, ",")
	bt.Key = parts[0]
	if bt.Key == "" {
		bt.Key = fieldName
	}

	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "":
			// Tolerate "name," and "name,,omitempty"
		case "omitempty":
			bt.OmitEmpty = true
		case "required":
			bt.Required = true
		default:
			return bt, fmt.Errorf("Unknown bencode tag option '%s'", p)
		}
	}

	if bt.OmitEmpty && bt.Required {
		return bt, fmt.Errorf("Field '%s' cannot be both 'omitempty' and 'required'", fieldName)
	}

	return bt, nil
}
