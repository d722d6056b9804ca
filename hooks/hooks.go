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

// Package hooks provides ready-made serialization hooks for registered
// types. Each constructor returns an apis.Hooks pair bound to one concrete
// type T: Serialize expects a *T, Deserialize returns a fresh *T.
//
//	desc := apis.TypeDescriptor{ID: identity.Of[Circle](), Tag: "circle", Hooks: hooks.JSON[Circle]()}
package hooks

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"dirpx.dev/dyncast/apis"
)

// MarshalFunc encodes v.
type MarshalFunc func(v any) ([]byte, error)

// UnmarshalFunc decodes data into v, which is always a non-nil pointer.
type UnmarshalFunc func(data []byte, v any) error

// Using binds an arbitrary marshal/unmarshal pair to T.
func Using[T any](marshal MarshalFunc, unmarshal UnmarshalFunc) apis.Hooks {
	var h apis.Hooks
	if marshal != nil {
		h.Serialize = func(ref any) ([]byte, error) {
			p, ok := ref.(*T)
			if !ok || p == nil {
				var want *T
				return nil, fmt.Errorf("hooks: expected %T, got %T", want, ref)
			}
			return marshal(p)
		}
	}
	if unmarshal != nil {
		h.Deserialize = func(content []byte) (any, error) {
			p := new(T)
			if err := unmarshal(content, p); err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	return h
}

// JSON returns hooks encoding T with encoding/json.
func JSON[T any]() apis.Hooks {
	return Using[T](json.Marshal, json.Unmarshal)
}

// YAML returns hooks encoding T with gopkg.in/yaml.v3.
func YAML[T any]() apis.Hooks {
	return Using[T](yaml.Marshal, yaml.Unmarshal)
}

// Msgpack returns hooks encoding T as MessagePack.
func Msgpack[T any]() apis.Hooks {
	return Using[T](msgpack.Marshal, msgpack.Unmarshal)
}

// SerializeOnly drops the deserialize side of h, for types that are written
// but never read back.
func SerializeOnly(h apis.Hooks) apis.Hooks {
	return apis.Hooks{Serialize: h.Serialize}
}
