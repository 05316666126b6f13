// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"math/big"
	"reflect"
	"sync"
	"sync/atomic"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

// codec embedding a fixed, memoised error (generally
// indicating that a type can't be marshalled)
type errorCodec struct {
	err error
}

func (c *errorCodec) ToValue(v reflect.Value) (value.Value, error) {
	return nil, c.err
}

func (c *errorCodec) FromValue(b value.Value, v reflect.Value) error {
	return c.err
}

// placeholder codec for types under construction, to handle cycles
type deferredCodec struct {
	real atomic.Value // xCodec
	wg   sync.WaitGroup
}

var _ xCodec = &deferredCodec{}

func newDeferredCodec() *deferredCodec {
	dc := new(deferredCodec)
	dc.wg.Add(1)
	return dc
}

func (dc *deferredCodec) get() xCodec {
	real := dc.real.Load()
	if real == nil {
		dc.wg.Wait()
		real = dc.real.Load()
	}
	return real.(xCodec)
}

func (dc *deferredCodec) ToValue(v reflect.Value) (value.Value, error) {
	return dc.get().ToValue(v)
}

func (dc *deferredCodec) FromValue(b value.Value, v reflect.Value) error {
	return dc.get().FromValue(b, v)
}

func (dc *deferredCodec) resolve(real xCodec) {
	dc.real.Store(real)
	dc.wg.Done()
}

// marshalerCodec handles types which know how to convert themselves to
// and from bencode trees, falling back to the default codec for whichever
// direction they do not implement
type marshalerCodec struct {
	// t implements Marshaler
	marshal bool
	// *t implements Marshaler
	marshalPtr bool
	// t implements Unmarshaler (so t is a pointer or interface)
	unmarshal bool
	// *t implements Unmarshaler
	unmarshalPtr bool

	t        reflect.Type
	fallback xCodec
}

func makeMarshalerCodec(cr *Coder, t reflect.Type) xCodec {
	pt := reflect.PtrTo(t)
	return &marshalerCodec{
		marshal:      t.Implements(marshalerType),
		marshalPtr:   pt.Implements(marshalerType),
		unmarshal:    t.Implements(unmarshalerType),
		unmarshalPtr: pt.Implements(unmarshalerType),
		t:            t,
		fallback:     cr.buildBaseCodec(t),
	}
}

func (mc *marshalerCodec) ToValue(v reflect.Value) (value.Value, error) {
	var m bencodeinterfaces.Marshaler
	switch {
	case mc.marshal:
		if k := v.Kind(); (k == reflect.Ptr || k == reflect.Interface) && v.IsNil() {
			return nil, errors.ErrNilPointer
		}
		m = v.Interface().(bencodeinterfaces.Marshaler)
	case mc.marshalPtr && v.CanAddr():
		m = v.Addr().Interface().(bencodeinterfaces.Marshaler)
	default:
		return mc.fallback.ToValue(v)
	}

	b, err := m.MarshalBencode()
	if err == nil && b == nil {
		err = errors.ErrNilValue
	}
	return b, err
}

func (mc *marshalerCodec) FromValue(b value.Value, v reflect.Value) error {
	switch {
	case mc.unmarshalPtr:
		return v.Addr().Interface().(bencodeinterfaces.Unmarshaler).UnmarshalBencode(b)
	case mc.unmarshal && mc.t.Kind() == reflect.Ptr:
		if v.IsNil() {
			v.Set(reflect.New(mc.t.Elem()))
		}
		return v.Interface().(bencodeinterfaces.Unmarshaler).UnmarshalBencode(b)
	case mc.unmarshal && mc.t.Kind() == reflect.Interface && !v.IsNil():
		return v.Interface().(bencodeinterfaces.Unmarshaler).UnmarshalBencode(b)
	default:
		return mc.fallback.FromValue(b, v)
	}
}

// valueCodec passes the concrete tree types through untouched
type valueCodec struct{}

var valueCodecI xCodec = valueCodec{}

func (valueCodec) ToValue(v reflect.Value) (value.Value, error) {
	return v.Interface().(value.Value), nil
}

func (valueCodec) FromValue(b value.Value, v reflect.Value) error {
	bv := reflect.ValueOf(b)
	if bv.Type() != v.Type() {
		return errors.KindError{Kind: b.Kind().String(), T: v.Type()}
	}
	v.Set(bv)
	return nil
}

// valueInterfaceCodec handles fields of type value.Value
type valueInterfaceCodec struct{}

var valueInterfaceCodecI xCodec = valueInterfaceCodec{}

func (valueInterfaceCodec) ToValue(v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return nil, errors.ErrNilValue
	}
	return v.Interface().(value.Value), nil
}

func (valueInterfaceCodec) FromValue(b value.Value, v reflect.Value) error {
	v.Set(reflect.ValueOf(&b).Elem())
	return nil
}

// bigIntCodec handles big.Int. *big.Int is handled by way of ptrCodec
type bigIntCodec struct{}

var bigIntCodecI xCodec = bigIntCodec{}

func (bigIntCodec) ToValue(v reflect.Value) (value.Value, error) {
	if v.CanAddr() {
		return value.BigInt(v.Addr().Interface().(*big.Int)), nil
	}

	i := v.Interface().(big.Int)
	return value.BigInt(&i), nil
}

func (bigIntCodec) FromValue(b value.Value, v reflect.Value) error {
	i, ok := b.(value.Integer)
	if !ok {
		return errors.KindError{Kind: b.Kind().String(), T: v.Type()}
	}
	v.Set(reflect.ValueOf(i.Big()).Elem())
	return nil
}

// interfaceCodec handles interface types. Encoding uses the codec of the
// dynamic type. Decoding is only possible into an empty interface, which
// receives the generic representation of the tree
type interfaceCodec struct {
	cr    *Coder
	empty bool
}

func (c *interfaceCodec) ToValue(v reflect.Value) (value.Value, error) {
	if v.IsNil() {
		return nil, errors.ErrNilValue
	}

	ev := v.Elem()
	return c.cr.getCodec(ev.Type()).ToValue(ev)
}

func (c *interfaceCodec) FromValue(b value.Value, v reflect.Value) error {
	if !c.empty {
		return errors.InvalidTypeError{T: v.Type()}
	}

	v.Set(reflect.ValueOf(Generic(b)))
	return nil
}

// Generic converts a tree to plain Go values:
//
//	Integer    -> int64, or *big.Int if out of range
//	ByteString -> string
//	List       -> []interface{}
//	Dictionary -> map[string]interface{}
func Generic(b value.Value) interface{} {
	switch b := b.(type) {
	case value.Integer:
		if i, ok := b.Int64(); ok {
			return i
		}
		return b.Big()

	case value.ByteString:
		return string(b)

	case value.List:
		l := make([]interface{}, b.Len())
		for i := range l {
			l[i] = Generic(b.At(i))
		}
		return l

	case value.Dictionary:
		m := make(map[string]interface{}, b.Len())
		b.Range(func(k value.ByteString, v value.Value) bool {
			m[string(k)] = Generic(v)
			return true
		})
		return m

	default:
		return nil
	}
}
