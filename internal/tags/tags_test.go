// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package tags

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStructTag(t *testing.T) {
	type example struct {
		Plain    int
		Renamed  int `bencode:"piece length"`
		Omit     int `bencode:"omit,omitempty"`
		Unnamed  int `bencode:",omitempty"`
		Required int `bencode:",required"`
		Skipped  int `bencode:"-"`
	}

	expected := []BencodeTag{
		{Key: "Plain"},
		{Key: "piece length"},
		{Key: "omit", OmitEmpty: true},
		{Key: "Unnamed", OmitEmpty: true},
		{Key: "Required", Required: true},
		{Skip: true},
	}

	rt := reflect.TypeOf(example{})
	require.Equal(t, len(expected), rt.NumField())
	for i := range expected {
		tag, err := ParseStructTag(rt.Field(i))
		require.NoError(t, err)
		assert.Equal(t, expected[i], tag, rt.Field(i).Name)
	}
}

func TestParseTagErrors(t *testing.T) {
	_, err := ParseTag("F", "f,bogus")
	assert.Error(t, err)

	_, err = ParseTag("F", "f,omitempty,required")
	assert.Error(t, err)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "-", BencodeTag{Skip: true}.String())
	assert.Equal(t, "name,omitempty", BencodeTag{Key: "name", OmitEmpty: true}.String())
}
