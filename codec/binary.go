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

package codec

import (
	"github.com/vmihailenco/msgpack/v5"

	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
)

// binaryEnvelope is encoded as the MessagePack array [tag, content].
type binaryEnvelope struct {
	_msgpack struct{} `msgpack:",as_array"`

	Tag     string
	Content []byte
}

// EncodeBinary encodes h as a binary envelope.
func (c *Codec) EncodeBinary(h apis.Handle) ([]byte, error) {
	out, err := c.encodeBinary(h)
	c.observe("encode_binary", err)
	return out, err
}

// DecodeBinary decodes a binary envelope into an owned handle.
func (c *Codec) DecodeBinary(data []byte) (apis.Handle, error) {
	h, err := c.decodeBinary(data)
	c.observe("decode_binary", err)
	return h, err
}

func (c *Codec) encodeBinary(h apis.Handle) ([]byte, error) {
	const op = "Codec.EncodeBinary"
	p, _, err := c.encode(h, op)
	if err != nil {
		return nil, err
	}
	out, err := msgpack.Marshal(&binaryEnvelope{Tag: p.Tag, Content: p.Content})
	if err != nil {
		return nil, derr.New(derr.KindMalformedPayload, op).WithTag(p.Tag).Wrap(err)
	}
	return out, nil
}

func (c *Codec) decodeBinary(data []byte) (apis.Handle, error) {
	const op = "Codec.DecodeBinary"
	var env binaryEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, op).Wrap(err))
	}
	return c.decode(apis.Payload{Tag: env.Tag, Content: env.Content}, op)
}
