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
	"bytes"
	"encoding/json"
	"reflect"

	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
)

// EncodeJSON encodes h as a JSON envelope.
func (c *Codec) EncodeJSON(h apis.Handle) ([]byte, error) {
	out, err := c.encodeJSON(h)
	c.observe("encode_json", err)
	return out, err
}

// DecodeJSON decodes a JSON envelope into an owned handle.
func (c *Codec) DecodeJSON(data []byte) (apis.Handle, error) {
	h, err := c.decodeJSON(data)
	c.observe("decode_json", err)
	return h, err
}

const opEncodeJSON = "Codec.EncodeJSON"

func (c *Codec) encodeJSON(h apis.Handle) ([]byte, error) {
	p, d, err := c.encode(h, opEncodeJSON)
	if err != nil {
		return nil, err
	}
	content := bytes.TrimSpace(p.Content)
	if !json.Valid(content) {
		return nil, c.fail(derr.New(derr.KindMalformedPayload, opEncodeJSON).
			WithType(d.DisplayName).WithTag(d.Tag).WithDetail("content is not JSON"))
	}

	tag, err := json.Marshal(p.Tag)
	if err != nil {
		return nil, derr.New(derr.KindMalformedPayload, opEncodeJSON).WithTag(p.Tag).Wrap(err)
	}
	typeKey, _ := json.Marshal(c.typeField)

	var buf bytes.Buffer
	buf.WriteByte('{')
	buf.Write(typeKey)
	buf.WriteByte(':')
	buf.Write(tag)

	if !flattens(d) {
		valueKey, _ := json.Marshal(c.valueField)
		buf.WriteByte(',')
		buf.Write(valueKey)
		buf.WriteByte(':')
		buf.Write(content)
		buf.WriteByte('}')
		return buf.Bytes(), nil
	}

	var fields map[string]json.RawMessage
	if content[0] != '{' || json.Unmarshal(content, &fields) != nil {
		return nil, c.fail(derr.New(derr.KindMalformedPayload, opEncodeJSON).
			WithType(d.DisplayName).WithTag(d.Tag).WithDetail("struct content is not a JSON object"))
	}
	if _, clash := fields[c.typeField]; clash {
		return nil, c.fail(derr.New(derr.KindMalformedPayload, opEncodeJSON).
			WithType(d.DisplayName).WithTag(d.Tag).WithDetail("content already has a %q field", c.typeField))
	}

	// Splice the object's members after the tag, keeping their order.
	inner := bytes.TrimSpace(content[1 : len(content)-1])
	if len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

const opDecodeJSON = "Codec.DecodeJSON"

func (c *Codec) decodeJSON(data []byte) (apis.Handle, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, opDecodeJSON).Wrap(err))
	}
	rawTag, ok := fields[c.typeField]
	if !ok {
		return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, opDecodeJSON).
			WithDetail("missing %q field", c.typeField))
	}
	var tag string
	if err := json.Unmarshal(rawTag, &tag); err != nil {
		return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, opDecodeJSON).
			WithDetail("%q field is not a string", c.typeField).Wrap(err))
	}

	d, ok := c.reg.LookupByTag(tag)
	if !ok {
		return apis.Handle{}, c.fail(derr.New(derr.KindUnknownTag, opDecodeJSON).WithTag(tag))
	}

	var content []byte
	if flattens(d) {
		delete(fields, c.typeField)
		var err error
		if content, err = json.Marshal(fields); err != nil {
			return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, opDecodeJSON).WithTag(tag).Wrap(err))
		}
	} else {
		value, ok := fields[c.valueField]
		if !ok {
			return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, opDecodeJSON).
				WithType(d.DisplayName).WithTag(tag).WithDetail("missing %q field", c.valueField))
		}
		content = value
	}
	return c.decodeWith(d, content, opDecodeJSON)
}

// flattens reports whether d's content is spliced into the envelope.
func flattens(d *apis.TypeDescriptor) bool {
	return d.ID.Type().Kind() == reflect.Struct
}
