// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"

	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

// ptrCodec handles pointers
type ptrCodec struct {
	elem  xCodec
	elemt reflect.Type
}

func makePtrCodec(cr *Coder, t reflect.Type) xCodec {
	elemt := t.Elem()
	return &ptrCodec{
		elem:  cr.getCodec(elemt),
		elemt: elemt,
	}
}

func (c *ptrCodec) ToValue(v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return nil, errors.ErrNilPointer
	}
	return c.elem.ToValue(v.Elem())
}

func (c *ptrCodec) FromValue(b value.Value, v reflect.Value) error {
	if v.IsNil() {
		v.Set(reflect.New(c.elemt))
	}
	return c.elem.FromValue(b, v.Elem())
}
