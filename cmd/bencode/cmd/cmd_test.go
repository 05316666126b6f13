// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package cmd

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
	"go.e43.eu/bencode"
	"go.e43.eu/bencode/internal/bridge"
	"go.e43.eu/bencode/internal/config"
	"go.e43.eu/bencode/value"
)

const torrent = "d8:announce15:http://tracker/4:infod6:lengthi5e4:name5:a.txtee"

func TestDecodeHexInput(t *testing.T) {
	out, err := decodeHexInput([]byte("69 34\n32\t65\n"))
	require.NoError(t, err)
	assert.Equal(t, "i42e", string(out))

	_, err = decodeHexInput([]byte(" \n"))
	assert.Error(t, err)
	_, err = decodeHexInput([]byte("6g"))
	assert.Error(t, err)
}

func TestReadInput(t *testing.T) {
	out, err := readInput(nil, false, strings.NewReader("4:spam"))
	require.NoError(t, err)
	assert.Equal(t, "4:spam", string(out))

	out, err = readInput(nil, true, strings.NewReader("343a7370616d"))
	require.NoError(t, err)
	assert.Equal(t, "4:spam", string(out))

	dir, err := ioutil.TempDir("", "bencode-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "a.torrent")
	require.NoError(t, ioutil.WriteFile(name, []byte(torrent), 0644))
	out, err = readInput([]string{name}, false, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, torrent, string(out))

	_, err = readInput([]string{filepath.Join(dir, "missing")}, false, nil)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(flagLogLevel, "info", "")
	fs.Bool(flagStrict, false, "")
	fs.Int(flagMaxDepth, bencode.DefaultMaxDepth, "")
	fs.Int(flagMaxStringLength, 0, "")
	fs.Bool(flagCompact, false, "")
	require.NoError(t, fs.Parse([]string{"--strict", "--max-depth=8"}))

	c := config.DefaultConfig
	c.Compact = true
	require.NoError(t, applyFlags(fs, &c))
	assert.True(t, c.Strict)
	assert.Equal(t, 8, c.MaxDepth)
	// Unset flags leave the configured values alone
	assert.True(t, c.Compact)
	assert.Equal(t, config.DefaultConfig.LogLevel, c.LogLevel)
}

func TestWriteDecoded(t *testing.T) {
	v, err := bencode.Decode([]byte(torrent))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeDecoded(&buf, v, bridge.Options{}, false, true))
	assert.Equal(t, `{"announce":"http://tracker/","info":{"length":5,"name":"a.txt"}}`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, writeDecoded(&buf, v, bridge.Options{}, true, false))
	assert.Equal(t, "announce: http://tracker/\ninfo:\n  length: 5\n  name: a.txt\n", buf.String())
}

func TestParseDocument(t *testing.T) {
	want, err := bencode.Decode([]byte(torrent))
	require.NoError(t, err)

	for from, in := range map[string][]byte{
		"json": []byte(`{"info": {"name": "a.txt", "length": 5}, "announce": "http://tracker/"}`),
		"yaml": []byte("announce: http://tracker/\ninfo: {length: 5, name: a.txt}\n"),
	} {
		v, err := parseDocument(in, from)
		require.NoError(t, err, from)
		out, err := bencode.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, torrent, string(out), from)
	}

	cb, err := bridge.ToCBOR(want)
	require.NoError(t, err)
	v, err := parseDocument(cb, "cbor")
	require.NoError(t, err)
	assert.True(t, value.Equal(want, v))

	_, err = parseDocument([]byte("{}"), "xml")
	assert.Error(t, err)
}

func TestValidateDocument(t *testing.T) {
	cr := bencode.NewCoder(bencode.Strict())
	assert.NoError(t, validateDocument(cr, []byte(torrent)))
	assert.Error(t, validateDocument(cr, []byte("d1:bi0e1:ai0ee")))
	assert.Error(t, validateDocument(cr, []byte("i01e")))
	assert.Error(t, validateDocument(cr, []byte("i1ei2e")))
	assert.Error(t, validateDocument(cr, nil))

	// A lenient coder accepts the input, but it does not re-encode the same
	err := validateDocument(bencode.NewCoder(), []byte("d1:bi0e1:ai0ee"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 3")
}

func TestValidateFiles(t *testing.T) {
	dir, err := ioutil.TempDir("", "bencode-cmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	good := filepath.Join(dir, "good")
	bad := filepath.Join(dir, "bad")
	require.NoError(t, ioutil.WriteFile(good, []byte(torrent), 0644))
	require.NoError(t, ioutil.WriteFile(bad, []byte("li1e"), 0644))

	cr := bencode.NewCoder(bencode.Strict())
	var buf bytes.Buffer
	require.NoError(t, validateFiles(context.Background(), cr, []string{good, good}, false, &buf))
	assert.Equal(t, good+": ok\n"+good+": ok\n", buf.String())

	buf.Reset()
	err = validateFiles(context.Background(), cr, []string{bad, good, filepath.Join(dir, "missing")}, false, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 of 3")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], bad+": bencode:"), lines[0])
	assert.Equal(t, good+": ok", lines[1])
}

func TestHashEntry(t *testing.T) {
	cr := bencode.NewCoder()
	data := []byte(torrent)

	sum, canonical, err := hashEntry(cr, data, "info", "sha1")
	require.NoError(t, err)
	assert.True(t, canonical)
	assert.Equal(t, "fa3671e2915fe9e91a61556fb0e70ee4a44a87bb", hex.EncodeToString(sum))

	sum, _, err = hashEntry(cr, data, "info", "sha256")
	require.NoError(t, err)
	assert.Equal(t, "e0dd400be51acc782b45e902300a40382db9b50c8498c2315be52a209fc37546", hex.EncodeToString(sum))

	sum, _, err = hashEntry(cr, data, "", "blake3")
	require.NoError(t, err)
	want := blake3.Sum256(data)
	assert.Equal(t, want[:], sum)

	for name, in := range map[string]string{
		"missing key":   "d4:spami1ee",
		"not dict":      "i1e",
		"corrupt":       "d4:infoi1e",
		"trailing data": torrent + "i1e",
	} {
		_, _, err := hashEntry(cr, []byte(in), "info", "sha1")
		assert.Error(t, err, name)
	}
	_, _, err = hashEntry(cr, data, "info", "md5")
	assert.Error(t, err)
}

func TestHashEntryRawBytes(t *testing.T) {
	cr := bencode.NewCoder()

	// Keys out of order inside info: the hash covers the input bytes
	info := "d4:name5:a.txt6:lengthi5ee"
	sum, canonical, err := hashEntry(cr, []byte("d8:announce1:x4:info"+info+"e"), "info", "sha1")
	require.NoError(t, err)
	assert.False(t, canonical)
	want := sha1.Sum([]byte(info))
	assert.Equal(t, want[:], sum)

	// Only the hashed entry matters for canonical form
	sum, canonical, err = hashEntry(cr, []byte("d4:infoi7e1:ai0ee"), "info", "sha1")
	require.NoError(t, err)
	assert.True(t, canonical)
	want = sha1.Sum([]byte("i7e"))
	assert.Equal(t, want[:], sum)

	// The last duplicate wins, as in decoding
	sum, _, err = hashEntry(cr, []byte("d4:infoi1e4:infoi2ee"), "info", "sha1")
	require.NoError(t, err)
	want = sha1.Sum([]byte("i2e"))
	assert.Equal(t, want[:], sum)
}

func TestStats(t *testing.T) {
	v, err := bencode.Decode([]byte("d1:ai1e1:bl3:xyzl0:eee"))
	require.NoError(t, err)

	s := collectStats(v)
	assert.Equal(t, stats{
		Integers:      1,
		ByteStrings:   4,
		Lists:         2,
		Dictionaries:  1,
		MaxDepth:      3,
		LargestString: 3,
		StringBytes:   5,
	}, s)

	var buf bytes.Buffer
	s.render(&buf)
	assert.Contains(t, buf.String(), "STATISTIC")
	assert.Contains(t, buf.String(), "Dictionaries")
	assert.Contains(t, buf.String(), "Maximum depth")
}
