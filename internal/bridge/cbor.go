// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bridge

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"go.e43.eu/bencode/value"
)

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	var err error

	// Core deterministic encoding, so that equal trees give equal bytes.
	// Integers outside the 64-bit range become bignums
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bridge: CBOR encoder initialization failed: " + err.Error())
	}

	cborDecMode, err = cbor.DecOptions{
		// Byte string map keys decode as cbor.ByteString, which is
		// hashable
		MapKeyByteString: cbor.MapKeyByteStringAllowed,
		BigIntDec:        cbor.BigIntDecodePointer,
	}.DecMode()
	if err != nil {
		panic("bridge: CBOR decoder initialization failed: " + err.Error())
	}
}

// cborTree returns the Go values from which the CBOR encoder produces the
// form of v. Byte strings stay byte strings and integers stay exact
func cborTree(v value.Value) interface{} {
	switch v := v.(type) {
	case value.Integer:
		if i, ok := v.Int64(); ok {
			return i
		}
		return v.Big()

	case value.ByteString:
		return cbor.ByteString(v)

	case value.List:
		items := make([]interface{}, v.Len())
		for i := range items {
			items[i] = cborTree(v.At(i))
		}
		return items

	case value.Dictionary:
		m := make(map[cbor.ByteString]interface{}, v.Len())
		v.Range(func(k value.ByteString, e value.Value) bool {
			m[cbor.ByteString(k)] = cborTree(e)
			return true
		})
		return m
	}
	panic(fmt.Sprintf("bridge: Unexpected value %T", v))
}

// ToCBOR converts v to CBOR without loss
func ToCBOR(v value.Value) ([]byte, error) {
	return cborEncMode.Marshal(cborTree(v))
}

// FromCBOR converts a single CBOR item to a tree. Both text and byte
// strings become byte strings; booleans become 0 or 1. Floating point
// numbers, null, undefined and unknown tags have no representation
func FromCBOR(data []byte) (value.Value, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	var doc interface{}
	if err := cborDecMode.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return fromCBORTree(doc)
}

func fromCBORTree(doc interface{}) (value.Value, error) {
	switch d := doc.(type) {
	case uint64:
		return value.Uint(d), nil
	case int64:
		return value.Int(d), nil
	case *big.Int:
		return value.BigInt(d), nil
	case big.Int:
		return value.BigInt(&d), nil

	case bool:
		if d {
			return value.Int(1), nil
		}
		return value.Int(0), nil

	case []byte:
		return value.Bytes(d), nil
	case cbor.ByteString:
		return value.ByteString(d), nil
	case string:
		return value.Text(d), nil

	case []interface{}:
		items := make([]value.Value, len(d))
		for i, e := range d {
			v, err := fromCBORTree(e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewList(items...), nil

	case map[interface{}]interface{}:
		pairs := make([]value.Pair, 0, len(d))
		seen := make(keySet, len(d))
		for k, e := range d {
			var key value.ByteString
			switch k := k.(type) {
			case string:
				key = value.Text(k)
			case cbor.ByteString:
				key = value.ByteString(k)
			default:
				return nil, UnrepresentableError{fmt.Sprintf("map key of type %T", k)}
			}
			if err := seen.add(key); err != nil {
				return nil, err
			}

			v, err := fromCBORTree(e)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, value.Entry(key, v))
		}
		return value.NewDictionary(pairs...), nil
	}
	return nil, UnrepresentableError{fmt.Sprintf("CBOR %T", doc)}
}
