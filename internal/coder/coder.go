// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package coder

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math/big"
	"reflect"
	"sync"

	bencodeinterfaces "go.e43.eu/bencode/interfaces"
	"go.e43.eu/bencode/internal/errors"
	"go.e43.eu/bencode/value"
)

var (
	marshalerType   = reflect.TypeOf((*bencodeinterfaces.Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*bencodeinterfaces.Unmarshaler)(nil)).Elem()
	valueType       = reflect.TypeOf((*value.Value)(nil)).Elem()
	bigIntType      = reflect.TypeOf(big.Int{})
)

// type xCodec is the internal codec representation we use
type xCodec = bencodeinterfaces.Codec

type Coder struct {
	knownCodecs sync.Map // map[reflect.Type]xCodec

	strictMode      bool
	depthLimit      int
	maxStringLength int
}

func NewCoder(opts ...Option) *Coder {
	cr := new(Coder)
	for _, opt := range opts {
		opt(cr)
	}
	return cr
}

func (cr *Coder) getCodec(t reflect.Type) xCodec {
	// Common case: already known; just lookup type
	c, ok := cr.knownCodecs.Load(t)
	if ok {
		return c.(xCodec)
	}

	// Less common case: need to construct a codec
	return cr.getNewCodec(t)
}

// Types of object you are prevented from registering codecs for
var prohibitedCustomCodecKinds = map[reflect.Kind]struct{}{
	reflect.Invalid: struct{}{},

	// Would make behaviour of pointers in general inconsistent
	// It wouldn't be difficult to support this with good reason, however.
	reflect.Ptr: struct{}{},

	// Interfaces are resolved to their dynamic type
	reflect.Interface: struct{}{},

	// These make little sense to support
	reflect.Chan: struct{}{},
	reflect.Func: struct{}{},

	reflect.UnsafePointer: struct{}{},
}

// These are blocked because implementing different behaviour for
// the primitive types would be incredibly confusing
var prohibitedPrimitives = map[reflect.Type]struct{}{
	reflect.TypeOf(false):                struct{}{},
	reflect.TypeOf(int8(0)):              struct{}{},
	reflect.TypeOf(int16(0)):             struct{}{},
	reflect.TypeOf(int32(0)):             struct{}{},
	reflect.TypeOf(int64(0)):             struct{}{},
	reflect.TypeOf(int(0)):               struct{}{},
	reflect.TypeOf(uint8(0)):             struct{}{},
	reflect.TypeOf(uint16(0)):            struct{}{},
	reflect.TypeOf(uint32(0)):            struct{}{},
	reflect.TypeOf(uint64(0)):            struct{}{},
	reflect.TypeOf(uint(0)):              struct{}{},
	reflect.TypeOf(""):                   struct{}{},
	reflect.TypeOf([]byte(nil)):          struct{}{},
	reflect.TypeOf(value.Integer{}):      struct{}{},
	reflect.TypeOf(value.ByteString("")): struct{}{},
	reflect.TypeOf(value.List{}):         struct{}{},
	reflect.TypeOf(value.Dictionary{}):   struct{}{},
	bigIntType:                           struct{}{},
}

func (cr *Coder) RegisterCodec(template interface{}, c bencodeinterfaces.Codec) {
	cr.RegisterCodecReflect(reflect.TypeOf(template), c)
}

func (cr *Coder) RegisterCodecReflect(t reflect.Type, c bencodeinterfaces.Codec) {
	if t == nil {
		panic("Attempt to register codec for nil type")
	}

	if _, badKind := prohibitedCustomCodecKinds[t.Kind()]; badKind {
		panic(fmt.Sprintf("Attempt to register codec for type %s which is of a prohibited kind", t))
	}

	if _, isPrimitive := prohibitedPrimitives[t]; isPrimitive {
		panic(fmt.Sprintf("Attempt to register codec for primitive %s is prohibited", t))
	}

	existing, found := cr.knownCodecs.LoadOrStore(t, c)
	if found && existing.(xCodec) != c {
		panic(fmt.Sprintf("Attempt to register codec '%v' for type '%s' but '%v' is already registered", c, t, existing))
	}
}

func (cr *Coder) getNewCodec(t reflect.Type) xCodec {
	// We create a "deferred codec" in order to handle cycles in the type graph. Note
	// that we also need to be prepared for the possibility that another goroutine
	// is constructing a type related to this one or looking this one up simultaneously,
	// so this codec must not explode if called while being constructed
	//
	// Every call to the deferred codec will block until we finish constructing the
	// real one.
	dc := newDeferredCodec()

	// We were potentially racing against someone else to build the codec up to this point,
	// so we must check that here. If someone else has built (or is building) the codec,
	// we'll go with theirs instead
	c, ok := cr.knownCodecs.LoadOrStore(t, dc)
	if ok {
		return c.(xCodec)
	}

	// Actually construct the codec
	cc := cr.buildCodec(t)

	// Publish our newly built: Replace the deferred one in the store, and close the signalling channel
	// so that anyone waiting on us may progress
	cr.knownCodecs.Store(t, cc)
	dc.resolve(cc)
	return cc
}

func (cr *Coder) buildCodec(t reflect.Type) xCodec {
	pt := reflect.PtrTo(t)
	switch {
	case t.Implements(marshalerType),
		t.Implements(unmarshalerType),
		pt.Implements(marshalerType),
		pt.Implements(unmarshalerType):
		return makeMarshalerCodec(cr, t)
	}

	return cr.buildBaseCodec(t)
}

// buildBaseCodec builds the codec for t, ignoring any Marshaler or
// Unmarshaler implementation
func (cr *Coder) buildBaseCodec(t reflect.Type) xCodec {
	switch t {
	case valueType:
		return valueInterfaceCodecI
	case bigIntType:
		return bigIntCodecI
	}

	if t.Kind() != reflect.Ptr && t.Implements(valueType) {
		return valueCodecI
	}

	switch t.Kind() {
	case reflect.Bool:
		return boolCodecI
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64, reflect.Int:
		return intCodecI
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uint:
		return uintCodecI
	case reflect.String:
		return stringCodecI
	case reflect.Ptr:
		return makePtrCodec(cr, t)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return bytesCodecI
		}
		return makeSliceCodec(cr, t)
	case reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return makeByteArrayCodec(t)
		}
		return makeArrayCodec(cr, t)
	case reflect.Map:
		return makeMapCodec(cr, t)
	case reflect.Struct:
		return makeStructCodec(cr, t)
	case reflect.Interface:
		return &interfaceCodec{cr: cr, empty: t.NumMethod() == 0}
	default:
		return &errorCodec{errors.InvalidTypeError{T: t}}
	}
}

func (cr *Coder) ToValue(o interface{}) (value.Value, error) {
	if o == nil {
		return nil, errors.ErrNilValue
	}

	switch o.(type) {
	case value.Integer, value.ByteString, value.List, value.Dictionary:
		return o.(value.Value), nil
	}

	rv := reflect.ValueOf(o)
	return cr.getCodec(rv.Type()).ToValue(rv)
}

func (cr *Coder) FromValue(v value.Value, op interface{}) error {
	rv := reflect.ValueOf(op)
	switch {
	case rv.Kind() != reflect.Ptr:
		return errors.ErrNotPointer
	case rv.IsNil():
		return errors.ErrNilPointer
	case v == nil:
		return errors.ErrNilValue
	}

	ev := rv.Elem()
	return cr.getCodec(ev.Type()).FromValue(v, ev)
}

func (cr *Coder) NewEncoder(w io.Writer) bencodeinterfaces.Encoder {
	return cr.newEncoder(asSink(w))
}

func (cr *Coder) NewSinkEncoder(s bencodeinterfaces.ByteSink) bencodeinterfaces.Encoder {
	return cr.newEncoder(s)
}

func (cr *Coder) newEncoder(s bencodeinterfaces.ByteSink) *encoder {
	e := encoderPool.Get().(*encoder)
	e.reset(cr, s)
	return e
}

func (cr *Coder) NewDecoder(r io.Reader) bencodeinterfaces.Decoder {
	if br, ok := r.(io.ByteReader); ok {
		return cr.newDecoder(br)
	}
	return cr.newDecoder(bufio.NewReader(r))
}

func (cr *Coder) NewSourceDecoder(s bencodeinterfaces.ByteSource) bencodeinterfaces.Decoder {
	return cr.newDecoder(s)
}

func (cr *Coder) newDecoder(s bencodeinterfaces.ByteSource) *decoder {
	d := decoderPool.Get().(*decoder)
	d.reset(cr, s)
	return d
}

func (cr *Coder) Encode(v value.Value) ([]byte, error) {
	e := marshalEncoderPool.Get().(*marshalEncoder)
	defer e.release()

	e.reset(cr)
	if err := e.WriteValue(v); err != nil {
		return nil, err
	}
	return append([]byte(nil), e.b.Bytes()...), nil
}

func (cr *Coder) Marshal(o interface{}) ([]byte, error) {
	v, err := cr.ToValue(o)
	if err != nil {
		return nil, err
	}
	return cr.Encode(v)
}

func (cr *Coder) Decode(buf []byte) (value.Value, error) {
	d := decoderPool.Get().(*decoder)
	defer d.release()

	d.bufSrc.reset(buf)
	d.reset(cr, &d.bufSrc)

	v, err := d.ReadValue()
	if err != nil {
		return nil, err
	}

	if n := d.bufSrc.Len(); n > 0 {
		return nil, errors.TrailingDataError{Offset: d.off, Remaining: n}
	}
	return v, nil
}

func (cr *Coder) Unmarshal(buf []byte, op interface{}) error {
	v, err := cr.Decode(buf)
	if err != nil {
		return err
	}
	return cr.FromValue(v, op)
}

var writerPool = sync.Pool{
	New: func() interface{} {
		return bufio.NewWriter(nil)
	},
}

func (cr *Coder) Write(w io.Writer, o interface{}) error {
	v, err := cr.ToValue(o)
	if err != nil {
		return err
	}

	switch w.(type) {
	case *bytes.Buffer, *bufio.Writer:
		// Already buffered
		e := cr.newEncoder(asSink(w))
		err := e.WriteValue(v)
		e.release()
		return err
	}

	bw := writerPool.Get().(*bufio.Writer)
	bw.Reset(w)
	e := cr.newEncoder(bw)
	err = e.WriteValue(v)
	e.release()
	if err == nil {
		err = bw.Flush()
	}
	bw.Reset(nil)
	writerPool.Put(bw)
	return err
}

// Read decodes one value from r. Unless r is an io.ByteReader, it is read
// one byte at a time so that nothing past the value is consumed
func (cr *Coder) Read(r io.Reader, op interface{}) error {
	var src bencodeinterfaces.ByteSource
	if br, ok := r.(io.ByteReader); ok {
		src = br
	} else {
		src = NewReaderSource(r)
	}

	d := cr.newDecoder(src)
	err := d.Decode(op)
	d.release()
	return err
}
