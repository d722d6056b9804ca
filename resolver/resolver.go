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

package resolver

import (
	"reflect"

	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/strategy"
)

// New constructs an apis.TagResolver that tries the given strategies in order.
// Nil strategies are ignored. The returned resolver is safe for concurrent use
// provided strategies themselves are safe for concurrent TryResolveTag calls.
func New(strategies ...apis.TagStrategy) apis.TagResolver {
	// Filter out nils to avoid nil-interface panics on call sites.
	out := make([]apis.TagStrategy, 0, len(strategies))
	for _, s := range strategies {
		if s != nil {
			out = append(out, s)
		}
	}
	return chain{strats: out}
}

// Default returns the standard chain: overrides, then the type's own
// Tagger, then reflect-derived tags.
func Default() apis.TagResolver {
	return New(
		strategy.NewOverrideStrategy(),
		strategy.NewTaggerStrategy(),
		strategy.NewReflectStrategy(),
	)
}

// chain is an immutable, order-preserving resolver over a set of strategies.
type chain struct {
	strats []apis.TagStrategy
}

// ResolveTag runs strategies in order until one handles the type.
// Returns an empty string if no strategy produced a tag.
func (r chain) ResolveTag(t reflect.Type, cfg apis.Config) string {
	for _, s := range r.strats {
		if tag, ok := s.TryResolveTag(t, cfg); ok {
			return tag
		}
	}
	return ""
}
