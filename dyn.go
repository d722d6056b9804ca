/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package dyncast

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"

	"dirpx.dev/dyncast/apis"
)

// Dyn holds a value behind interface I and serializes it as a tagged
// envelope through the global codec, so fields of interface type survive a
// round trip. I must be an interface type and the held value a pointer to a
// registered type implementing it.
type Dyn[I any] struct {
	V I
}

// NewDyn wraps v.
func NewDyn[I any](v I) Dyn[I] { return Dyn[I]{V: v} }

// IsNil reports whether no value is held.
func (d Dyn[I]) IsNil() bool { return any(d.V) == nil }

func (d Dyn[I]) handle() (apis.Handle, error) {
	return HandleFor(any(d.V), apis.Shared)
}

// MarshalJSON implements json.Marshaler. A nil value encodes as null.
func (d Dyn[I]) MarshalJSON() ([]byte, error) {
	if d.IsNil() {
		return []byte("null"), nil
	}
	h, err := d.handle()
	if err != nil {
		return nil, err
	}
	return Codec().EncodeJSON(h)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Dyn[I]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero I
		d.V = zero
		return nil
	}
	h, err := Codec().DecodeJSON(data)
	if err != nil {
		return err
	}
	return d.take(h)
}

// EncodeMsgpack implements msgpack.CustomEncoder using the binary envelope.
func (d Dyn[I]) EncodeMsgpack(enc *msgpack.Encoder) error {
	if d.IsNil() {
		return enc.EncodeNil()
	}
	h, err := d.handle()
	if err != nil {
		return err
	}
	b, err := Codec().EncodeBinary(h)
	if err != nil {
		return err
	}
	return enc.EncodeBytes(b)
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Dyn[I]) DecodeMsgpack(dec *msgpack.Decoder) error {
	c, err := dec.PeekCode()
	if err != nil {
		return err
	}
	if c == msgpcode.Nil {
		var zero I
		d.V = zero
		return dec.DecodeNil()
	}
	b, err := dec.DecodeBytes()
	if err != nil {
		return err
	}
	h, err := Codec().DecodeBinary(b)
	if err != nil {
		return err
	}
	return d.take(h)
}

// take views a freshly decoded handle as I. Ownership is transferred when
// the implementation allows it.
func (d *Dyn[I]) take(h apis.Handle) error {
	mode := apis.Owned
	if !Can[I](h, apis.Owned) {
		mode = apis.Shared
	}
	v, err := As[I](h, mode)
	if err != nil {
		return err
	}
	d.V = v
	return nil
}

var (
	// Ensure Dyn implements msgpack.CustomEncoder.
	_ msgpack.CustomEncoder = Dyn[any]{}
	// Ensure *Dyn implements msgpack.CustomDecoder.
	_ msgpack.CustomDecoder = (*Dyn[any])(nil)
)
