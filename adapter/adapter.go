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

// Package adapter builds apis.AdapterEntry values.
//
// Of covers the common case where *T satisfies I directly. Func accepts a
// hand-written view for types that reach I through a wrapper. Identity is the
// no-op entry used for same-interface casts.
package adapter

import (
	"fmt"
	"reflect"

	"dirpx.dev/dyncast/apis"
)

// allModes is used when no modes are given.
var allModes = []apis.Access{apis.Shared, apis.Mutable, apis.Owned}

// New returns an entry viewing *T through I in the given modes (all modes if
// none are given). It fails if *T does not implement I or I is not an
// interface type.
func New[T, I any](modes ...apis.Access) (apis.AdapterEntry, error) {
	it := reflect.TypeFor[I]()
	if it.Kind() != reflect.Interface {
		return apis.AdapterEntry{}, fmt.Errorf("adapter: %v is not an interface type", it)
	}
	pt := reflect.TypeFor[*T]()
	if !pt.Implements(it) {
		return apis.AdapterEntry{}, fmt.Errorf("adapter: %v does not implement %v", pt, it)
	}

	return entry(modes, func(ref any) (any, bool) {
		p, ok := ref.(*T)
		if !ok || p == nil {
			return nil, false
		}
		v, ok := any(p).(I)
		return v, ok
	}), nil
}

// Of is like New but panics on error.
func Of[T, I any](modes ...apis.Access) apis.AdapterEntry {
	e, err := New[T, I](modes...)
	if err != nil {
		panic(err)
	}
	return e
}

// Func returns an entry that produces views with view in the given modes
// (all modes if none are given).
func Func[T, I any](view func(*T) I, modes ...apis.Access) apis.AdapterEntry {
	if view == nil {
		panic("adapter: nil view function")
	}
	return entry(modes, func(ref any) (any, bool) {
		p, ok := ref.(*T)
		if !ok || p == nil {
			return nil, false
		}
		return view(p), true
	})
}

// Identity returns the entry that hands the current view back unchanged in
// every mode.
func Identity() apis.AdapterEntry {
	return entry(nil, identity)
}

func identity(ref any) (any, bool) { return ref, ref != nil }

func entry(modes []apis.Access, fn apis.AdapterFunc) apis.AdapterEntry {
	if len(modes) == 0 {
		modes = allModes
	}
	var e apis.AdapterEntry
	for _, m := range modes {
		switch m {
		case apis.Shared:
			e.Shared = fn
		case apis.Mutable:
			e.Mutable = fn
		case apis.Owned:
			e.Owned = fn
		}
	}
	return e
}
