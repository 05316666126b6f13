// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"
	"reflect"
	"sort"

	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/internal/tags"
	"go.e43.eu/bencode/value"
)

// structCodec handles structs, which are represented as dictionaries
type structCodec struct {
	name string
	// Sorted by key
	fields []field
}

var _ xCodec = &structCodec{}

type field struct {
	// Go name of the field
	name string
	key  value.ByteString
	// Index sequence for reflect.Value.FieldByIndex
	index []int
	codec xCodec

	omitEmpty bool
	required  bool
}

func makeStructCodec(cr *Coder, t reflect.Type) xCodec {
	var fields []field
	if err := collectFields(cr, t, nil, &fields); err != nil {
		return &errorCodec{err}
	}

	// Fields of embedded structs are hidden by shallower fields with the
	// same key, in the same manner as Go's own field promotion
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].key != fields[j].key {
			return fields[i].key < fields[j].key
		}
		return len(fields[i].index) < len(fields[j].index)
	})

	c := &structCodec{
		name:   t.Name(),
		fields: make([]field, 0, len(fields)),
	}

	for i := 0; i < len(fields); {
		j := i + 1
		for j < len(fields) && fields[j].key == fields[i].key {
			j++
		}

		if j-i > 1 && len(fields[i].index) == len(fields[i+1].index) {
			return &errorCodec{fmt.Errorf("bencode: Fields '%s' and '%s' of '%s' both use key %q",
				fields[i].name, fields[i+1].name, t, string(fields[i].key))}
		}

		c.fields = append(c.fields, fields[i])
		i = j
	}

	return c
}

// collectFields appends the marshalled fields of t to fields. Untagged
// embedded structs have their fields flattened into the parent
func collectFields(cr *Coder, t reflect.Type, index []int, fields *[]field) error {
	for i, n := 0, t.NumField(); i < n; i++ {
		f := t.Field(i)
		tag, err := tags.ParseStructTag(f)
		if err != nil {
			return fmt.Errorf("Parsing tag of field '%s' of '%s': %v", f.Name, t, err)
		}

		if tag.Skip {
			continue
		}

		fi := make([]int, len(index)+1)
		copy(fi, index)
		fi[len(index)] = i

		_, tagged := f.Tag.Lookup("bencode")
		if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct {
			if err := collectFields(cr, f.Type, fi, fields); err != nil {
				return err
			}
			continue
		}

		if f.PkgPath != "" {
			// Unexported
			continue
		}

		*fields = append(*fields, field{
			name:      f.Name,
			key:       value.ByteString(tag.Key),
			index:     fi,
			codec:     cr.getCodec(f.Type),
			omitEmpty: tag.OmitEmpty,
			required:  tag.Required,
		})
	}
	return nil
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Interface, reflect.Ptr:
		return v.IsNil()
	}
	return false
}

func (c *structCodec) ToValue(v reflect.Value) (value.Value, error) {
	pairs := make([]value.Pair, 0, len(c.fields))
	for _, f := range c.fields {
		fv := v.FieldByIndex(f.index)
		if isNilRef(fv) || (f.omitEmpty && isEmptyValue(fv)) {
			continue
		}

		b, err := f.codec.ToValue(fv)
		if err != nil {
			return nil, errors.WithFieldError(err, c.name, f.name)
		}
		pairs = append(pairs, value.Entry(f.key, b))
	}
	return value.NewDictionary(pairs...), nil
}

func (c *structCodec) FromValue(b value.Value, v reflect.Value) error {
	d, ok := b.(value.Dictionary)
	if !ok {
		return errors.KindError{Kind: b.Kind().String(), T: v.Type()}
	}

	// Keys without a matching field are ignored
	for _, f := range c.fields {
		e, ok := d.Get(f.key)
		if !ok {
			if f.required {
				return errors.WithFieldError(errors.ErrMissingKey, c.name, f.name)
			}
			continue
		}

		if err := f.codec.FromValue(e, v.FieldByIndex(f.index)); err != nil {
			return errors.WithFieldError(err, c.name, f.name)
		}
	}
	return nil
}
