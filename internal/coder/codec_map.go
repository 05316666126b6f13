// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"fmt"
	"reflect"

	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

// mapCodec handles maps with string keys, which are represented as
// dictionaries
type mapCodec struct {
	valueCodec xCodec
	t, kt, vt  reflect.Type
}

func makeMapCodec(cr *Coder, t reflect.Type) xCodec {
	if t.Key().Kind() != reflect.String {
		return &errorCodec{fmt.Errorf("bencode: Map key type '%s' of '%s' is not a string", t.Key(), t)}
	}

	return &mapCodec{
		valueCodec: cr.getCodec(t.Elem()),
		t:          t,
		kt:         t.Key(),
		vt:         t.Elem(),
	}
}

// isNilRef reports whether v is a nil pointer or interface. Such values
// have no representation and are left out of dictionaries
func isNilRef(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

func (c *mapCodec) ToValue(v reflect.Value) (value.Value, error) {
	pairs := make([]value.Pair, 0, v.Len())

	iter := v.MapRange()
	for iter.Next() {
		mv := iter.Value()
		if isNilRef(mv) {
			continue
		}

		k := iter.Key().String()
		b, err := c.valueCodec.ToValue(mv)
		if err != nil {
			return nil, errors.WithFieldError(err, k)
		}
		// Keys are raw bytes, like string values
		pairs = append(pairs, value.Entry(value.ByteString(k), b))
	}

	return value.NewDictionary(pairs...), nil
}

func (c *mapCodec) FromValue(b value.Value, v reflect.Value) error {
	d, ok := b.(value.Dictionary)
	if !ok {
		return errors.KindError{Kind: b.Kind().String(), T: c.t}
	}

	if v.IsNil() {
		v.Set(reflect.MakeMapWithSize(c.t, d.Len()))
	}

	var err error
	d.Range(func(k value.ByteString, e value.Value) bool {
		ev := reflect.New(c.vt).Elem()
		if err = c.valueCodec.FromValue(e, ev); err != nil {
			err = errors.WithFieldError(err, string(k))
			return false
		}

		v.SetMapIndex(reflect.ValueOf(string(k)).Convert(c.kt), ev)
		return true
	})
	return err
}
