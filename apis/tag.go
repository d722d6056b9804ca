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

import (
	"reflect"
)

// MaxTagLen is the longest tag a registry accepts.
const MaxTagLen = 255

// Tagger lets a type declare its own stable tag. It is consulted on the zero
// value of the type (or a pointer to it) when a descriptor has no tag.
type Tagger interface {
	TypeTag() string
}

// TagStrategy is one step in tag resolution. Strategies are consulted in
// order until one handles the type.
type TagStrategy interface {
	// TryResolveTag attempts to produce a tag for the concrete type t.
	// It returns (tag, true) if handled; otherwise ("", false) to fall through.
	TryResolveTag(t reflect.Type, cfg Config) (tag string, handled bool)
}

// TagResolver turns a concrete type into a tag, typically by running an
// ordered chain of TagStrategy values. Implementations must be safe for
// concurrent use.
type TagResolver interface {
	// ResolveTag returns a tag for t, or "" if none can be determined.
	ResolveTag(t reflect.Type, cfg Config) string
}

// ValidTag reports whether s is usable as a tag: 1..MaxTagLen bytes drawn
// from ASCII letters, digits and ._:/@+-.
func ValidTag(s string) bool {
	if len(s) == 0 || len(s) > MaxTagLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == ':', c == '/', c == '@', c == '+', c == '-':
		default:
			return false
		}
	}
	return true
}
