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
	"cmp"
	"log/slog"
	"reflect"

	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
)

const (
	// DefaultTypeField is the JSON envelope key holding the tag.
	DefaultTypeField = "type"
	// DefaultValueField is the JSON envelope key holding non-object content.
	DefaultValueField = "value"
)

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for failed operations.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.log = l
		}
	}
}

// WithObserver reports every codec outcome to o.
func WithObserver(o apis.Observer) Option {
	return func(c *Codec) { c.obs = o }
}

// Codec is the default apis.Codec. It is safe for concurrent use once its
// registry is frozen.
type Codec struct {
	reg        apis.Registry
	typeField  string
	valueField string
	log        *slog.Logger
	obs        apis.Observer
}

// Ensure Codec implements apis.Codec.
var _ apis.Codec = (*Codec)(nil)

// New returns a Codec reading reg. Only the envelope field names are taken
// from cfg.
func New(reg apis.Registry, cfg apis.Config, opts ...Option) *Codec {
	c := &Codec{
		reg:        reg,
		typeField:  cmp.Or(cfg.TypeField, DefaultTypeField),
		valueField: cmp.Or(cfg.ValueField, DefaultValueField),
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode serializes the concrete value behind h. Any access mode suffices.
func (c *Codec) Encode(h apis.Handle) (apis.Payload, error) {
	p, _, err := c.encode(h, "Codec.Encode")
	c.observe("encode", err)
	return p, err
}

// Decode reconstructs an owned value from p.
func (c *Codec) Decode(p apis.Payload) (apis.Handle, error) {
	h, err := c.decode(p, "Codec.Decode")
	c.observe("decode", err)
	return h, err
}

func (c *Codec) encode(h apis.Handle, op string) (apis.Payload, *apis.TypeDescriptor, error) {
	if h.Spent() {
		return apis.Payload{}, nil, derr.New(derr.KindHandleConsumed, op).WithType(h.TypeID().String())
	}
	d, ok := c.reg.LookupType(h.TypeID())
	if !ok {
		err := derr.New(derr.KindUnregisteredType, op).WithType(h.TypeID().String())
		c.log.Error("Encode of unregistered type", "type", h.TypeID().String(), "error", err)
		return apis.Payload{}, nil, err
	}
	if d.Hooks.Serialize == nil {
		return apis.Payload{}, nil, derr.New(derr.KindNotSerializable, op).WithType(d.DisplayName).WithTag(d.Tag)
	}

	content, err := d.Hooks.Serialize(h.Ref())
	if err != nil {
		return apis.Payload{}, nil, c.fail(derr.New(derr.KindMalformedPayload, op).
			WithType(d.DisplayName).WithTag(d.Tag).WithDetail("serialize").Wrap(err))
	}
	return apis.Payload{Tag: d.Tag, Content: content}, d, nil
}

func (c *Codec) decode(p apis.Payload, op string) (apis.Handle, error) {
	d, ok := c.reg.LookupByTag(p.Tag)
	if !ok {
		return apis.Handle{}, c.fail(derr.New(derr.KindUnknownTag, op).WithTag(p.Tag))
	}
	return c.decodeWith(d, p.Content, op)
}

func (c *Codec) decodeWith(d *apis.TypeDescriptor, content []byte, op string) (apis.Handle, error) {
	if d.Hooks.Deserialize == nil {
		return apis.Handle{}, derr.New(derr.KindNotSerializable, op).WithType(d.DisplayName).WithTag(d.Tag)
	}

	ref, err := d.Hooks.Deserialize(content)
	if err != nil {
		return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, op).
			WithType(d.DisplayName).WithTag(d.Tag).Wrap(err))
	}
	if want := reflect.PointerTo(d.ID.Type()); reflect.TypeOf(ref) != want {
		return apis.Handle{}, c.fail(derr.New(derr.KindMalformedPayload, op).
			WithType(d.DisplayName).WithTag(d.Tag).
			WithDetail("deserialize returned %T, want %v", ref, want))
	}
	return apis.NewHandle(d.ID, apis.Owned, ref), nil
}

// fail logs a recoverable failure at debug level and returns it.
func (c *Codec) fail(err *derr.Error) error {
	c.log.Debug("Codec failed", "op", err.Op, "kind", err.Kind.String(), "tag", err.Tag, "type", err.Type)
	return err
}

func (c *Codec) observe(op string, err error) {
	if c.obs != nil {
		c.obs.ObserveCodec(op, derr.Outcome(err))
	}
}
