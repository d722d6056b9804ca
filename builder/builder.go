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

package builder

import (
	"log/slog"

	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/cast"
	"dirpx.dev/dyncast/codec"
	"dirpx.dev/dyncast/registry"
)

// Option configures the builder.
type Option func(*builder)

// WithLogger sets the logger handed to every built component.
func WithLogger(l *slog.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithObserver sets the observer handed to built casters and codecs.
func WithObserver(o apis.Observer) Option {
	return func(b *builder) { b.obs = o }
}

// New creates and returns a new instance of an apis.Builder.
func New(opts ...Option) apis.Builder {
	b := &builder{log: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// builder carries the ambient dependencies of built components.
type builder struct {
	log *slog.Logger
	obs apis.Observer
}

// BuildRegistry builds and returns a new apis.Registry based on the provided configuration
// and pre-existing registry. If a pre-existing registry is provided, its types and
// implementations are copied into the new registry, and a frozen registry yields a
// frozen one. ext is unused.
func (b *builder) BuildRegistry(cfg apis.Config, prev apis.Registry, _ any) apis.Registry {
	nreg := registry.New(cfg, registry.WithLogger(b.log))
	if prev == nil {
		return nreg
	}

	types := prev.Types()
	for _, d := range types {
		err := nreg.RegisterType(apis.TypeDescriptor{
			ID:          d.ID,
			DisplayName: d.DisplayName,
			Tag:         d.Tag,
			Hooks:       d.Hooks,
		})
		if err != nil {
			b.log.Warn("Dropping type during registry migration", "type", d.DisplayName, "error", err)
		}
	}
	for _, d := range types {
		for iface, entry := range d.Interfaces {
			if err := nreg.RegisterImpl(d.ID, iface, entry); err != nil {
				b.log.Warn("Dropping implementation during registry migration",
					"type", d.DisplayName, "interface", iface.String(), "error", err)
			}
		}
	}
	if prev.Frozen() {
		nreg.Freeze()
	}
	return nreg
}

// BuildCaster builds a cast engine over reg. If ext is an apis.Observer it
// replaces the builder's observer.
func (b *builder) BuildCaster(_ apis.Config, reg apis.Registry, ext any) apis.Caster {
	return cast.New(reg, cast.WithLogger(b.log), cast.WithObserver(b.observer(ext)))
}

// BuildCodec builds a codec over reg using cfg's envelope field names. If ext
// is an apis.Observer it replaces the builder's observer.
func (b *builder) BuildCodec(cfg apis.Config, reg apis.Registry, ext any) apis.Codec {
	return codec.New(reg, cfg, codec.WithLogger(b.log), codec.WithObserver(b.observer(ext)))
}

func (b *builder) observer(ext any) apis.Observer {
	if o, ok := ext.(apis.Observer); ok {
		return o
	}
	return b.obs
}
