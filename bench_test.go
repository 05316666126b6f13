// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bencode

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"io"
	"io/ioutil"
	"testing"
)

type streamEncoder interface {
	Encode(interface{}) error
}

// benchEncoders are compared against each other on every benchmark object
var benchEncoders = []struct {
	Name string
	New  func(io.Writer) streamEncoder
}{
	{"Bencode", func(w io.Writer) streamEncoder { return NewEncoder(w) }},
	{"Gob", func(w io.Writer) streamEncoder { return gob.NewEncoder(w) }},
	{"JSON", func(w io.Writer) streamEncoder { return json.NewEncoder(w) }},
}

func EncodeBenchmarkCommon(b *testing.B, ob interface{}) {
	b.Run("BencodeMarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := Marshal(ob); err != nil {
				b.Fatalf("Marshal: %s", err)
			}
		}
	})

	b.Run("JSONMarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := json.Marshal(ob); err != nil {
				b.Fatalf("json.Marshal: %s", err)
			}
		}
	})

	b.Run("BencodeWriteDiscard", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if err := Write(ioutil.Discard, ob); err != nil {
				b.Fatalf("Write: %s", err)
			}
		}
	})

	for _, be := range benchEncoders {
		be := be
		b.Run(be.Name+"EncoderDiscard", func(b *testing.B) {
			w := be.New(ioutil.Discard)
			for i := 0; i < b.N; i++ {
				if err := w.Encode(ob); err != nil {
					b.Fatalf("Encode: %s", err)
				}
			}
		})

		b.Run(be.Name+"EncoderBuffer", func(b *testing.B) {
			var buf bytes.Buffer
			w := be.New(&buf)
			for i := 0; i < b.N; i++ {
				if err := w.Encode(ob); err != nil {
					b.Fatalf("Encode: %s", err)
				}
				if (i % 2048) == 0 {
					buf.Reset()
				}
			}
		})
	}
}

func BenchmarkInt32Encode(b *testing.B) {
	EncodeBenchmarkCommon(b, int32(123))
}

func BenchmarkInt64Encode(b *testing.B) {
	EncodeBenchmarkCommon(b, int64(768))
}

func BenchmarkStringEncode(b *testing.B) {
	EncodeBenchmarkCommon(b, "Hello World")
}

func BenchmarkSimpleStructEncode(b *testing.B) {
	type S struct {
		X int32  `bencode:"x"`
		Y int64  `bencode:"y"`
		S string `bencode:"s"`
		O []byte `bencode:"o"`
	}

	s := &S{
		X: 123456,
		Y: 12345678,
		S: "Hello Encoders",
		O: []byte("Byte Slice"),
	}

	EncodeBenchmarkCommon(b, s)
}

func BenchmarkTorrentEncode(b *testing.B) {
	type File struct {
		Length int64    `bencode:"length" json:"length"`
		Path   []string `bencode:"path" json:"path"`
	}

	type Info struct {
		Name        string `bencode:"name" json:"name"`
		PieceLength int64  `bencode:"piece length" json:"piece length"`
		Pieces      []byte `bencode:"pieces" json:"pieces"`
		Files       []File `bencode:"files,omitempty" json:"files,omitempty"`
	}

	type Torrent struct {
		Announce     string     `bencode:"announce" json:"announce"`
		AnnounceList [][]string `bencode:"announce-list,omitempty" json:"announce-list,omitempty"`
		Comment      string     `bencode:"comment,omitempty" json:"comment,omitempty"`
		Info         Info       `bencode:"info" json:"info"`
	}

	t := &Torrent{
		Announce:     "http://tracker.example.com/announce",
		AnnounceList: [][]string{{"http://tracker.example.com/announce"}, {"udp://backup.example.com:6969"}},
		Comment:      "benchmark",
		Info: Info{
			Name:        "example",
			PieceLength: 262144,
			Pieces:      bytes.Repeat([]byte{0xAB}, 20*16),
			Files: []File{
				{Length: 1024, Path: []string{"a", "b.txt"}},
				{Length: 4096, Path: []string{"c.bin"}},
			},
		},
	}

	EncodeBenchmarkCommon(b, t)
}

func BenchmarkDecode(b *testing.B) {
	buf, err := Marshal(map[string]interface{}{
		"announce": "http://tracker.example.com/announce",
		"info": map[string]interface{}{
			"name":         "example",
			"piece length": 262144,
			"pieces":       bytes.Repeat([]byte{0xAB}, 20*16),
			"files": []interface{}{
				map[string]interface{}{"length": 1024, "path": []string{"a", "b.txt"}},
			},
		},
	})
	if err != nil {
		b.Fatalf("Marshal: %s", err)
	}

	b.Run("Decode", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := Decode(buf); err != nil {
				b.Fatalf("Decode: %s", err)
			}
		}
	})

	b.Run("StrictDecode", func(b *testing.B) {
		cr := NewCoder(Strict())
		for i := 0; i < b.N; i++ {
			if _, err := cr.Decode(buf); err != nil {
				b.Fatalf("Decode: %s", err)
			}
		}
	})

	b.Run("UnmarshalInterface", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var x interface{}
			if err := Unmarshal(buf, &x); err != nil {
				b.Fatalf("Unmarshal: %s", err)
			}
		}
	})
}
