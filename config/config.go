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

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"

	"gopkg.in/yaml.v3"

	"dirpx.dev/dyncast/apis"
	uref "dirpx.dev/dyncast/utils/reflect"
)

const (
	// DefaultIncludeBuiltins represents the default for IncludeBuiltins.
	// When true, built-in types may receive derived tags.
	DefaultIncludeBuiltins = true
	// DefaultMaxUnwrap represents the default for MaxUnwrap.
	// A value of 8 should be sufficient for all practical purposes.
	DefaultMaxUnwrap = 8
	// DefaultMapPreferElem represents the default for MapPreferElem.
	// When true, map value types are preferred when searching for named inner types.
	DefaultMapPreferElem = true
	// DefaultDeriveTags represents the default for DeriveTags.
	// Tags are wire-visible, so deriving them from Go names is opt-in.
	DefaultDeriveTags = false
	// DefaultTypeField is the default JSON envelope key for the tag.
	DefaultTypeField = "type"
	// DefaultValueField is the default JSON envelope key for non-object content.
	DefaultValueField = "value"
)

// ErrInvalidConfig is returned when a configuration fails Validate.
var ErrInvalidConfig = errors.New("dyncast(config): invalid configuration")

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxUnwrap is valid.
	if cfg.MaxUnwrap < 0 {
		cfg.MaxUnwrap = DefaultMaxUnwrap
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		IncludeBuiltins: DefaultIncludeBuiltins,
		MaxUnwrap:       DefaultMaxUnwrap,
		MapPreferElem:   DefaultMapPreferElem,
		DeriveTags:      DefaultDeriveTags,
		TypeField:       DefaultTypeField,
		ValueField:      DefaultValueField,
	}
}

// Validate checks the envelope field names and every tag override.
func Validate(cfg apis.Config) error {
	if cfg.TypeField == "" || cfg.ValueField == "" {
		return fmt.Errorf("%w: envelope field names must not be empty", ErrInvalidConfig)
	}
	if cfg.TypeField == cfg.ValueField {
		return fmt.Errorf("%w: type_field and value_field are both %q", ErrInvalidConfig, cfg.TypeField)
	}
	if cfg.MaxUnwrap < 0 {
		return fmt.Errorf("%w: max_unwrap must not be negative", ErrInvalidConfig)
	}
	for name, tag := range cfg.TagOverrides {
		if !apis.ValidTag(tag) {
			return fmt.Errorf("%w: override for %s has invalid tag %q", ErrInvalidConfig, name, tag)
		}
	}
	return nil
}

// FromYAML parses a YAML document over DefaultConfig. Unknown fields are
// rejected and an empty document yields the defaults.
func FromYAML(data []byte) (apis.Config, error) {
	return decode(yaml.NewDecoder(bytes.NewReader(data)))
}

// LoadYAML is like FromYAML but reads from r.
func LoadYAML(r io.Reader) (apis.Config, error) {
	return decode(yaml.NewDecoder(r))
}

func decode(dec *yaml.Decoder) (apis.Config, error) {
	dec.KnownFields(true)

	cfg := DefaultConfig()
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return apis.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := Validate(cfg); err != nil {
		return apis.Config{}, err
	}
	return cfg, nil
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithIncludeBuiltins sets the IncludeBuiltins option.
func WithIncludeBuiltins(include bool) Option {
	return func(c *apis.Config) {
		c.IncludeBuiltins = include
	}
}

// WithMaxUnwrap sets the MaxUnwrap option.
// A negative value resets to the default.
func WithMaxUnwrap(max int) Option {
	return func(c *apis.Config) {
		if max < 0 {
			c.MaxUnwrap = DefaultMaxUnwrap
			return
		}
		c.MaxUnwrap = max
	}
}

// WithMapPreferElem sets the MapPreferElem option.
func WithMapPreferElem(prefer bool) Option {
	return func(c *apis.Config) {
		c.MapPreferElem = prefer
	}
}

// WithDeriveTags sets the DeriveTags option.
func WithDeriveTags(derive bool) Option {
	return func(c *apis.Config) {
		c.DeriveTags = derive
	}
}

// WithTagOverrides merges overrides (canonical type name -> tag) into the
// configuration. Later entries win.
func WithTagOverrides(overrides map[string]string) Option {
	return func(c *apis.Config) {
		if len(overrides) == 0 {
			return
		}
		// Copy so the caller's map and earlier Configs stay untouched.
		merged := make(map[string]string, len(c.TagOverrides)+len(overrides))
		maps.Copy(merged, c.TagOverrides)
		maps.Copy(merged, overrides)
		c.TagOverrides = merged
	}
}

// WithTagOverrideFor overrides the tag of T.
func WithTagOverrideFor[T any](tag string) Option {
	return WithTagOverrides(map[string]string{uref.CanonicalName(reflect.TypeFor[T]()): tag})
}

// WithEnvelopeFields sets the JSON envelope field names. Empty values keep
// the current ones.
func WithEnvelopeFields(typeField, valueField string) Option {
	return func(c *apis.Config) {
		if typeField != "" {
			c.TypeField = typeField
		}
		if valueField != "" {
			c.ValueField = valueField
		}
	}
}
