// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"reflect"

	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

var (
	zeroInteger = value.Int(0)
	oneInteger  = value.Int(1)
)

// integerOf asserts that b is an Integer destined for a value of type t
func integerOf(b value.Value, t reflect.Type) (value.Integer, error) {
	i, ok := b.(value.Integer)
	if !ok {
		return i, errors.KindError{Kind: b.Kind().String(), T: t}
	}
	return i, nil
}

// boolCodec handles booleans, which are represented as i0e and i1e
type boolCodec struct{}

var boolCodecI xCodec = boolCodec{}

func (_ boolCodec) ToValue(v reflect.Value) (value.Value, error) {
	if v.Bool() {
		return oneInteger, nil
	}
	return zeroInteger, nil
}

func (_ boolCodec) FromValue(b value.Value, v reflect.Value) error {
	i, err := integerOf(b, v.Type())
	if err != nil {
		return err
	}

	switch {
	case i.Sign() == 0:
		v.SetBool(false)
	case i.Cmp(oneInteger) == 0:
		v.SetBool(true)
	default:
		return errors.OverflowError{Value: i.String(), T: v.Type()}
	}
	return nil
}

// [u]intCodec handle integers of every width
type intCodec struct{}
type uintCodec struct{}

var (
	intCodecI  xCodec = intCodec{}
	uintCodecI xCodec = uintCodec{}
)

func (_ intCodec) ToValue(v reflect.Value) (value.Value, error) {
	return value.Int(v.Int()), nil
}

func (_ intCodec) FromValue(b value.Value, v reflect.Value) error {
	i, err := integerOf(b, v.Type())
	if err != nil {
		return err
	}

	n, ok := i.Int64()
	if !ok || v.OverflowInt(n) {
		return errors.OverflowError{Value: i.String(), T: v.Type()}
	}
	v.SetInt(n)
	return nil
}

func (_ uintCodec) ToValue(v reflect.Value) (value.Value, error) {
	return value.Uint(v.Uint()), nil
}

func (_ uintCodec) FromValue(b value.Value, v reflect.Value) error {
	i, err := integerOf(b, v.Type())
	if err != nil {
		return err
	}

	n, ok := i.Uint64()
	if !ok || v.OverflowUint(n) {
		return errors.OverflowError{Value: i.String(), T: v.Type()}
	}
	v.SetUint(n)
	return nil
}
