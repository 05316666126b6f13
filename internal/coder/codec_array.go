// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"
	"strconv"

	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

// indexPath names element i in a FieldError path
func indexPath(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// listOf asserts that b is a List destined for a value of type t
func listOf(b value.Value, t reflect.Type) (value.List, error) {
	l, ok := b.(value.List)
	if !ok {
		return l, errors.KindError{Kind: b.Kind().String(), T: t}
	}
	return l, nil
}

// elementsToValue converts the first n elements of v into a list
func elementsToValue(elem xCodec, v reflect.Value, n int) (value.Value, error) {
	items := make([]value.Value, n)
	for i := range items {
		b, err := elem.ToValue(v.Index(i))
		if err != nil {
			return nil, errors.WithFieldError(err, indexPath(i))
		}
		items[i] = b
	}
	return value.NewList(items...), nil
}

// elementsFromValue fills the elements of v from the list l, which must be
// no longer than v
func elementsFromValue(elem xCodec, l value.List, v reflect.Value) error {
	for i, n := 0, l.Len(); i < n; i++ {
		if err := elem.FromValue(l.At(i), v.Index(i)); err != nil {
			return errors.WithFieldError(err, indexPath(i))
		}
	}
	return nil
}

// arrayCodec handles fixed length arrays, which must match the length of
// the list exactly
type arrayCodec struct {
	elem xCodec
	len  int
}

var _ xCodec = &arrayCodec{}

func makeArrayCodec(cr *Coder, t reflect.Type) xCodec {
	return &arrayCodec{
		elem: cr.getCodec(t.Elem()),
		len:  t.Len(),
	}
}

func (c *arrayCodec) ToValue(v reflect.Value) (value.Value, error) {
	return elementsToValue(c.elem, v, c.len)
}

func (c *arrayCodec) FromValue(b value.Value, v reflect.Value) error {
	l, err := listOf(b, v.Type())
	if err != nil {
		return err
	}

	if l.Len() != c.len {
		return errors.FixedLengthError{Actual: l.Len(), Want: c.len}
	}
	return elementsFromValue(c.elem, l, v)
}

// sliceCodec handles slices (other than byte slices)
type sliceCodec struct {
	elem xCodec
	t    reflect.Type
}

var _ xCodec = &sliceCodec{}

func makeSliceCodec(cr *Coder, t reflect.Type) xCodec {
	return &sliceCodec{
		elem: cr.getCodec(t.Elem()),
		t:    t,
	}
}

func (c *sliceCodec) ToValue(v reflect.Value) (value.Value, error) {
	return elementsToValue(c.elem, v, v.Len())
}

func (c *sliceCodec) FromValue(b value.Value, v reflect.Value) error {
	l, err := listOf(b, c.t)
	if err != nil {
		return err
	}

	s := reflect.MakeSlice(c.t, l.Len(), l.Len())
	if err := elementsFromValue(c.elem, l, s); err != nil {
		return err
	}
	v.Set(s)
	return nil
}
