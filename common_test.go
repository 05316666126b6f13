// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package bencode

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"io/ioutil"
	"math"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.e43.eu/bencode/value"
)

type testDirection int

const (
	bothTest testDirection = iota
	encodeTest
	decodeTest
)

// comparingWriter checks each write against the next bytes of R as it
// happens, so a failure points at the write which went wrong. Assert then
// compares the whole output
type comparingWriter struct {
	T *testing.T

	// The reader
	R io.Reader

	// Error returned by reader
	Rerr error

	// Bytes written
	B []byte

	// Bytes expected
	X []byte
}

func newComparingWriter(t *testing.T, r io.Reader) *comparingWriter {
	return &comparingWriter{
		T: t,
		R: r,
	}
}

func (w *comparingWriter) Write(buf []byte) (int, error) {
	w.T.Helper()

	w.B = append(w.B, buf...)

	// Gather the expected bytes
	var expected []byte
	if w.Rerr == nil {
		expected = make([]byte, len(buf))
		nr, err := io.ReadFull(w.R, expected)
		expected = expected[0:nr]
		w.X = append(w.X, expected...)
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}

		if err != nil {
			require.Equal(w.T, io.EOF, err, "comparingWriter: Comparison reader returned non-EOF error")
			assert.Failf(w.T, "Attempt to write after end", "Attempt to write %d bytes after end of expected data", len(buf)-nr)
			w.Rerr = err
		}
	}

	// If we read any bytes, cross compare them
	if len(expected) != 0 {
		assert.Equalf(w.T, expected, buf[0:len(expected)], "Expected equal value during %d byte write", len(buf))
	}

	return len(buf), nil
}

func (w *comparingWriter) Assert() {
	buf := make([]byte, 1024)
	err := w.Rerr

	var n int
	for err == nil {
		n, err = w.R.Read(buf)
		w.X = append(w.X, buf[0:n]...)
		require.Equal(w.T, io.EOF, err, "comparingWriter: Comparison reader must only return io.EOF error")
	}

	assert.Equalf(w.T, w.X, w.B, "Expected written data to match expected")
}

// singleByteReader returns at most one byte from each Read
type singleByteReader struct {
	R io.Reader
}

func (r *singleByteReader) Read(buf []byte) (int, error) {
	switch {
	case len(buf) == 0:
		return 0, nil
	default:
		return r.R.Read(buf[0:1])
	}
}

// infintelyPaddedReaderFactory yields buf followed by endless random bytes
func infintelyPaddedReaderFactory(buf []byte) func(*testing.T, testDirection) io.Reader {
	return func(*testing.T, testDirection) io.Reader {
		return io.MultiReader(bytes.NewBuffer(buf), rand.Reader)
	}
}

const (
	// maxUint is the maximum value a uint can hold
	maxUint = ^uint(0)
	// maxInt is the maximum value an int can hold
	maxInt = int(maxUint >> 1)
)

// Skips this test if on a 64-bit platform
func skipOn64(_ *testing.T, _ testDirection) (bool, string) {
	return int64(maxInt) == int64(math.MaxInt64), "Test not valid on 64-bit platforms"
}

// Skips this test if on a 32-bit platform
func skipOn32(_ *testing.T, _ testDirection) (bool, string) {
	return int64(maxInt) == int64(math.MaxInt32), "Test not valid on 32-bit platforms"
}

// sourceFor returns a ByteSource for r which never reads past the end of
// a value, so that tests can check what the decoder left behind
func sourceFor(r io.Reader) ByteSource {
	if br, ok := r.(io.ByteReader); ok {
		return br
	}
	return NewReaderSource(r)
}

// valueComparator compares trees structurally; reflect.DeepEqual looks
// at the internal representation of big.Int, which is not canonical
func valueComparator(t *testing.T, l, r interface{}) {
	t.Helper()
	assert.Truef(t, value.Equal(l.(value.Value), r.(value.Value)), "unmarshal output should match: %s != %s", l, r)
}

// encodePaths are the routes by which the runner turns an object into
// bytes. Each must produce identical output
var encodePaths = []struct {
	Name   string
	Encode func(w io.Writer, o interface{}) error
}{
	{"Encode", func(w io.Writer, o interface{}) error {
		return NewEncoder(w).Encode(o)
	}},
	// Addressable values take different codec paths
	{"EncodePtr", func(w io.Writer, o interface{}) error {
		v := reflect.ValueOf(o)
		vp := reflect.New(v.Type())
		vp.Elem().Set(v)
		return NewEncoder(w).Encode(vp.Interface())
	}},
	// Pooled buffer encoder
	{"Marshal", func(w io.Writer, o interface{}) error {
		buf, err := Marshal(o)
		if err == nil {
			_, err = w.Write(buf)
		}
		return err
	}},
	// Pooled bufio.Writer
	{"Write", func(w io.Writer, o interface{}) error {
		return Write(w, o)
	}},
}

type testcase struct {
	// Name of this test case
	Name string

	// Which directions to run this test in (defaults to both)
	Direction testDirection

	// When to skip this test, for tests which should only run sometimes
	// (e.g. tests which only work on 32-bit or 64-bit platforms)
	//
	// If returning true, it's a good idea to give a reason
	ShouldSkip func(*testing.T, testDirection) (bool, string)

	// The object to marshal, or to use for comparison on unmarshalling
	Object interface{}

	// The encoded representation of the object
	Bytes []byte

	// Returns a reader which returns a representation of the object. If specified,
	// will be used instead of Bytes
	//
	// Use testDirection to tell if you're in the encoder/decoder test, in case you've
	// made an asshole reader for testing the decoder and wish to inhibit its use on
	// the decoder side
	ReaderFactory func(*testing.T, testDirection) io.Reader

	// Error expected on en/decode
	EncErrorIs error
	DecErrorIs error

	// Comparator to use (instead of default) after successful decoding.
	// The default uses value.Equal for trees and assert.Equal otherwise
	DecodeComparator func(t *testing.T, expt, actual interface{})
}

func RunTestcases(t *testing.T, tcs []testcase) {
	// Preprocess testcases:
	// * Add ReaderFactories for those which specified Bytes
	// * Insert the defualt DecoderComparator
	for i := range tcs {
		tc := &tcs[i]

		if tc.ReaderFactory == nil {
			tc.ReaderFactory = func(*testing.T, testDirection) io.Reader {
				return bytes.NewBuffer(tc.Bytes)
			}
		}

		if tc.DecodeComparator == nil {
			if _, isValue := tc.Object.(value.Value); isValue {
				tc.DecodeComparator = valueComparator
			} else {
				tc.DecodeComparator = func(t *testing.T, l, r interface{}) {
					t.Helper()
					assert.Equal(t, l, r, "unmarshal output should match")
				}
			}
		}

		if tc.ShouldSkip == nil {
			tc.ShouldSkip = func(*testing.T, testDirection) (bool, string) {
				return false, ""
			}
		}
	}

	generatedTestcases := append([]testcase(nil), tcs...)
	t.Parallel()

	// For every case where the decoder is tested, build a variant with
	// the single byte reader
	for _, tc := range tcs {
		if tc.Direction == encodeTest {
			continue
		}
		tc := tc
		tc.Name += "+singleByteReader"
		tc.Direction = decodeTest
		innerFactory := tc.ReaderFactory
		tc.ReaderFactory = func(t *testing.T, d testDirection) io.Reader {
			return &singleByteReader{innerFactory(t, d)}
		}

		generatedTestcases = append(generatedTestcases, tc)
	}

	for _, tc := range generatedTestcases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			if tc.Direction != decodeTest {
				for _, ep := range encodePaths {
					ep := ep
					t.Run(ep.Name, func(t *testing.T) {
						t.Parallel()
						if skip, reason := tc.ShouldSkip(t, encodeTest); skip {
							t.Skip(reason)
						}

						if tc.EncErrorIs != nil {
							err := ep.Encode(ioutil.Discard, tc.Object)
							require.Error(t, err, "Encoding should have returned an error")
							require.Truef(t, errors.Is(err, tc.EncErrorIs), "Error expected to be %s, but was %s", tc.EncErrorIs, err)
							return
						}

						w := newComparingWriter(t, tc.ReaderFactory(t, encodeTest))
						require.NoError(t, ep.Encode(w, tc.Object), "Encode should succeed")
						w.Assert()
					})
				}
			}

			if tc.Direction != encodeTest {
				t.Run("Decode", func(t *testing.T) {
					t.Parallel()
					if skip, reason := tc.ShouldSkip(t, decodeTest); skip {
						t.Skip(reason)
					}

					r := tc.ReaderFactory(t, decodeTest)
					d := NewSourceDecoder(sourceFor(r))

					// If tc.Object is of type T, then construct new(T)
					tgtp := reflect.New(reflect.TypeOf(tc.Object)).Interface()

					// Do the read
					err := d.Decode(tgtp)
					if tc.DecErrorIs != nil {
						if assert.Error(t, err, "Decoding should have returned an error") {
							assert.Truef(t, errors.Is(err, tc.DecErrorIs), "Error expected to be %s, but was %s", tc.DecErrorIs, err)
						} else {
							t.Logf("Returned %+v", tgtp)
						}
					} else {
						require.NoError(t, err, "Decode should succeed")
						// Assert that we drained the reader
						var trail bytes.Buffer
						nb, err := io.Copy(&trail, r)
						assert.NoError(t, err, "Should have no error draining tail")
						assert.Equalf(t, int64(0), nb, "Decoder left trailing bytes after end: %x", trail.Bytes())

						// Dereference the pointer to get a T for comparison purposes
						o := reflect.ValueOf(tgtp).Elem().Interface()
						tc.DecodeComparator(t, o, tc.Object)
					}
				})
			}
		})
	}
}
