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

package apis

// Config carries read-only knobs for tag derivation and the JSON envelope.
// It is passed by value; registries and codecs copy what they need at
// construction time.
type Config struct {
	// IncludeBuiltins controls whether builtin/no-package named types
	// (e.g., "int", "string") receive derived tags. If false, such types
	// must carry an explicit tag.
	IncludeBuiltins bool `yaml:"include_builtins"`

	// MaxUnwrap limits container unwrapping depth (ptr/slice/array/chan/map)
	// when deriving tags. Acts as a safety guard against pathological nesting.
	MaxUnwrap int `yaml:"max_unwrap"`

	// MapPreferElem controls which side of map[K]V is considered “primary”
	// when searching for a nearest named inner type. If true, prefer V; otherwise K.
	MapPreferElem bool `yaml:"map_prefer_elem"`

	// DeriveTags enables the reflect-derived "pkg.Type" tag fallback for
	// descriptors registered without a tag.
	DeriveTags bool `yaml:"derive_tags"`

	// TagOverrides maps canonical type names ("import/path.Type") to tags.
	// Overrides win over Tagger and derived tags, never over an explicit tag.
	TagOverrides map[string]string `yaml:"tag_overrides"`

	// TypeField is the JSON envelope key holding the tag.
	TypeField string `yaml:"type_field"`

	// ValueField is the JSON envelope key holding non-object content.
	ValueField string `yaml:"value_field"`
}
