// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bridge

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
	"go.e43.eu/bencode/value"
)

// object is a JSON object which keeps its members in order
type object []member

type member struct {
	key   string
	value interface{}
}

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(m.key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSONTree returns a tree of values which encoding/json renders as the JSON
// form of v. Dictionaries keep their canonical key order
func (o Options) JSONTree(v value.Value) interface{} {
	switch v := v.(type) {
	case value.Integer:
		return json.Number(v.String())

	case value.ByteString:
		if t, ok := o.text(v); ok {
			return t
		}
		return object{{hexField, hex.EncodeToString([]byte(v))}}

	case value.List:
		items := make([]interface{}, v.Len())
		for i := range items {
			items[i] = o.JSONTree(v.At(i))
		}
		return items

	case value.Dictionary:
		obj := make(object, 0, v.Len())
		hexKeys := isHexObject(v)
		v.Range(func(k value.ByteString, e value.Value) bool {
			key := o.key(k)
			if hexKeys {
				key = hexKeyPrefix + hex.EncodeToString([]byte(k))
			}
			obj = append(obj, member{key, o.JSONTree(e)})
			return true
		})
		return obj
	}
	panic(fmt.Sprintf("bridge: Unexpected value %T", v))
}

// ToJSON renders v as JSON, indented unless compact is set
func (o Options) ToJSON(v value.Value, compact bool) ([]byte, error) {
	if compact {
		return json.Marshal(o.JSONTree(v))
	}
	return json.MarshalIndent(o.JSONTree(v), "", "  ")
}

// FromJSON parses a JSON document into a tree. Comments and trailing
// commas are permitted. Numbers must be integers
func FromJSON(data []byte) (value.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err == io.EOF {
		return nil, ErrEmpty
	} else if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return fromJSONTree(doc)
}

func fromJSONTree(doc interface{}) (value.Value, error) {
	switch d := doc.(type) {
	case nil:
		return nil, UnrepresentableError{"null"}

	case bool:
		if d {
			return value.Int(1), nil
		}
		return value.Int(0), nil

	case json.Number:
		i, ok := value.ParseInteger(string(d))
		if !ok {
			return nil, UnrepresentableError{"number " + string(d)}
		}
		return i, nil

	case string:
		return value.Text(d), nil

	case []interface{}:
		items := make([]value.Value, len(d))
		for i, e := range d {
			v, err := fromJSONTree(e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return value.NewList(items...), nil

	case map[string]interface{}:
		if h, ok := d[hexField].(string); ok && len(d) == 1 {
			b, err := hex.DecodeString(h)
			if err != nil {
				return nil, fmt.Errorf("bridge: Invalid hex string: %v", err)
			}
			return value.Bytes(b), nil
		}

		pairs := make([]value.Pair, 0, len(d))
		seen := make(keySet, len(d))
		for k, e := range d {
			key, err := parseKey(k)
			if err != nil {
				return nil, err
			}
			if err := seen.add(key); err != nil {
				return nil, err
			}
			v, err := fromJSONTree(e)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, value.Entry(key, v))
		}
		return value.NewDictionary(pairs...), nil
	}
	return nil, UnrepresentableError{fmt.Sprintf("%T", doc)}
}
