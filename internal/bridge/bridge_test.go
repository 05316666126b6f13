// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bridge

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.e43.eu/bencode/value"
)

var (
	twoTo100    = new(big.Int).Lsh(big.NewInt(1), 100)
	minusTwo100 = new(big.Int).Neg(twoTo100)
)

func sampleTree() value.Value {
	return value.NewDictionary(
		value.KV("announce", value.Text("http://tracker/")),
		value.KV("info", value.NewDictionary(
			value.KV("length", value.Int(5)),
			value.KV("name", value.Text("a.txt")),
			value.KV("pieces", value.Bytes([]byte{0xde, 0xad, 0xbe, 0xef})),
		)),
		value.Entry("\xff", value.Int(-1)),
		value.KV("big", value.BigInt(twoTo100)),
		value.KV("list", value.NewList(value.Int(1), value.Text("two"), value.NewList(), value.BigInt(minusTwo100))),
	)
}

func TestToJSON(t *testing.T) {
	out, err := Options{}.ToJSON(sampleTree(), true)
	require.NoError(t, err)
	assert.Equal(t,
		`{"announce":"http://tracker/","big":1267650600228229401496703205376,`+
			`"info":{"length":5,"name":"a.txt","pieces":{"$hex":"deadbeef"}},`+
			`"list":[1,"two",[],-1267650600228229401496703205376],"$hex:ff":-1}`,
		string(out))

	out, err = Options{}.ToJSON(value.NewList(value.Int(1)), false)
	require.NoError(t, err)
	assert.Equal(t, "[\n  1\n]", string(out))
}

func TestJSONLoose(t *testing.T) {
	v := value.NewDictionary(value.Entry("caf\xe9", value.ByteString("\xe9t\xe9")))

	out, err := Options{Loose: true}.ToJSON(v, true)
	require.NoError(t, err)
	assert.Equal(t, `{"café":"été"}`, string(out))

	// Undefined in Windows-1252
	out, err = Options{Loose: true}.ToJSON(value.ByteString("\x81"), true)
	require.NoError(t, err)
	assert.Equal(t, `{"$hex":"81"}`, string(out))
}

func TestJSONRoundTrip(t *testing.T) {
	trees := []value.Value{
		sampleTree(),
		value.NewList(),
		value.NewDictionary(),
		value.ByteString(""),
		// Dictionaries which look like escapes
		value.NewDictionary(value.KV("$hex", value.Text("ab"))),
		value.NewDictionary(value.KV("$hex:00", value.Int(0))),
	}

	for _, v := range trees {
		for _, compact := range []bool{true, false} {
			out, err := Options{}.ToJSON(v, compact)
			require.NoError(t, err)
			back, err := FromJSON(out)
			require.NoError(t, err, "%s", out)
			assert.True(t, value.Equal(v, back), "%s: got %s", out, back)
		}
	}
}

func TestFromJSON(t *testing.T) {
	v, err := FromJSON([]byte(`{
		// comments are fine
		"b": [true, false, -12,],
		"a": "x", /* so are trailing commas */
	}`))
	require.NoError(t, err)
	want := value.NewDictionary(
		value.KV("a", value.Text("x")),
		value.KV("b", value.NewList(value.Int(1), value.Int(0), value.Int(-12))),
	)
	assert.True(t, value.Equal(want, v), "got %s", v)

	for in, want := range map[string]error{
		``:                  ErrEmpty,
		`1 2`:               ErrTrailingData,
		`1.5`:               ErrUnrepresentable,
		`1e3`:               ErrUnrepresentable,
		`[null]`:            ErrUnrepresentable,
		`{"a": {"b": 0.1}}`: ErrUnrepresentable,
	} {
		_, err := FromJSON([]byte(in))
		assert.True(t, errors.Is(err, want), "%q: got %v", in, err)
	}

	_, err = FromJSON([]byte(`{"$hex": "zz"}`))
	assert.Error(t, err)
	_, err = FromJSON([]byte(`{"$hex:zz": 1}`))
	assert.Error(t, err)
}

func TestYAMLRoundTrip(t *testing.T) {
	for _, v := range []value.Value{sampleTree(), value.NewList(), value.Text("123"), value.Text("true")} {
		out, err := Options{}.ToYAML(v)
		require.NoError(t, err)
		back, err := FromYAML(out)
		require.NoError(t, err, "%s", out)
		assert.True(t, value.Equal(v, back), "%s: got %s", out, back)
	}

	out, err := Options{}.ToYAML(value.Bytes([]byte{0, 1, 2}))
	require.NoError(t, err)
	assert.Contains(t, string(out), "!!binary")
}

func TestFromYAML(t *testing.T) {
	v, err := FromYAML([]byte("name: x\nflags: [true, 0x10, 0o17]\nanchor: &a 3\nalias: *a\n"))
	require.NoError(t, err)
	want := value.NewDictionary(
		value.KV("name", value.Text("x")),
		value.KV("flags", value.NewList(value.Int(1), value.Int(16), value.Int(15))),
		value.KV("anchor", value.Int(3)),
		value.KV("alias", value.Int(3)),
	)
	assert.True(t, value.Equal(want, v), "got %s", v)

	for _, in := range []string{"a: 1.5\n", "a: ~\n", "? [1]\n: 2\n"} {
		_, err := FromYAML([]byte(in))
		assert.True(t, errors.Is(err, ErrUnrepresentable), "%q: got %v", in, err)
	}

	_, err = FromYAML(nil)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestToCBOR(t *testing.T) {
	for _, tc := range []struct {
		In  value.Value
		Out []byte
	}{
		{value.Int(1), []byte{0x01}},
		{value.Int(-1), []byte{0x20}},
		{value.ByteString("ab"), []byte{0x42, 'a', 'b'}},
		{value.NewList(value.Int(0)), []byte{0x81, 0x00}},
		{value.NewDictionary(value.KV("a", value.Int(0))), []byte{0xa1, 0x41, 'a', 0x00}},
		{value.BigInt(twoTo100), append([]byte{0xc2, 0x4d, 0x10}, make([]byte, 12)...)},
	} {
		out, err := ToCBOR(tc.In)
		require.NoError(t, err)
		assert.Equal(t, tc.Out, out, "%s", tc.In)
	}
}

func TestCBORRoundTrip(t *testing.T) {
	for _, v := range []value.Value{sampleTree(), value.NewList(), value.NewDictionary(), value.Uint(1 << 63)} {
		out, err := ToCBOR(v)
		require.NoError(t, err)
		back, err := FromCBOR(out)
		require.NoError(t, err)
		assert.True(t, value.Equal(v, back), "got %s", back)
	}
}

func TestFromCBOR(t *testing.T) {
	// {"a": [true, "b"]} with a text key and text string
	v, err := FromCBOR([]byte{0xa1, 0x61, 'a', 0x82, 0xf5, 0x61, 'b'})
	require.NoError(t, err)
	want := value.NewDictionary(value.KV("a", value.NewList(value.Int(1), value.Text("b"))))
	assert.True(t, value.Equal(want, v), "got %s", v)

	for name, in := range map[string][]byte{
		"float":   {0xf9, 0x3c, 0x00},
		"null":    {0xf6},
		"int key": {0xa1, 0x01, 0x00},
	} {
		_, err := FromCBOR(in)
		assert.True(t, errors.Is(err, ErrUnrepresentable), "%s: got %v", name, err)
	}

	_, err = FromCBOR(nil)
	assert.True(t, errors.Is(err, ErrEmpty))
	_, err = FromCBOR([]byte{0x82, 0x01})
	assert.Error(t, err)
}

func TestUnrepresentableError(t *testing.T) {
	err := UnrepresentableError{"null"}
	assert.True(t, strings.HasSuffix(err.Error(), "(null)"))
	assert.True(t, errors.Is(err, ErrUnrepresentable))
}

func TestDuplicateKeys(t *testing.T) {
	// Both keys name the dictionary key "a"
	_, err := FromJSON([]byte(`{"a": 1, "$hex:61": 2}`))
	assert.True(t, errors.Is(err, ErrDuplicateKey), "got %v", err)

	_, err = FromYAML([]byte("a: 1\n$hex:61: 2\n"))
	assert.True(t, errors.Is(err, ErrDuplicateKey), "got %v", err)

	// Text key "a" and byte string key "a"
	_, err = FromCBOR([]byte{0xa2, 0x61, 'a', 0x00, 0x41, 'a', 0x01})
	assert.True(t, errors.Is(err, ErrDuplicateKey), "got %v", err)
}

func TestYAMLMultilineBinary(t *testing.T) {
	v, err := FromYAML([]byte("b: !!binary |\n  AAEC\n  AwQ=\n"))
	require.NoError(t, err)
	want := value.NewDictionary(value.KV("b", value.Bytes([]byte{0, 1, 2, 3, 4})))
	assert.True(t, value.Equal(want, v), "got %s", v)
}
