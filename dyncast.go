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

package dyncast

import (
	"reflect"

	"dirpx.dev/dyncast/adapter"
	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/cast"
	derr "dirpx.dev/dyncast/errors"
	"dirpx.dev/dyncast/identity"
)

// RegisterType adds desc to the global registry.
func RegisterType(desc apis.TypeDescriptor) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	return st.Load().reg.RegisterType(desc)
}

// RegisterImpl records that type t can be viewed as interface i.
func RegisterImpl(t identity.TypeID, i identity.InterfaceID, entry apis.AdapterEntry) error {
	buildMu.Lock()
	defer buildMu.Unlock()

	return st.Load().reg.RegisterImpl(t, i, entry)
}

// Register adds T to the global registry under tag with the given hooks.
// An empty tag is resolved from the configured tag strategies.
func Register[T any](tag string, hooks apis.Hooks) error {
	id, err := identity.FromType(reflect.TypeFor[T]())
	if err != nil {
		return derr.New(derr.KindInvalidDescriptor, "dyncast.Register").Wrap(err)
	}
	return RegisterType(apis.TypeDescriptor{ID: id, Tag: tag, Hooks: hooks})
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](tag string, hooks apis.Hooks) {
	if err := Register[T](tag, hooks); err != nil {
		panic(err)
	}
}

// Implement records that *T is viewable as I in the given modes (all modes
// if none are given).
func Implement[T, I any](modes ...apis.Access) error {
	const op = "dyncast.Implement"

	e, err := adapter.New[T, I](modes...)
	if err != nil {
		return derr.New(derr.KindInvalidDescriptor, op).Wrap(err)
	}
	id, err := identity.FromType(reflect.TypeFor[T]())
	if err != nil {
		return derr.New(derr.KindInvalidDescriptor, op).Wrap(err)
	}
	return RegisterImpl(id, identity.InterfaceOf[I](), e)
}

// MustImplement is like Implement but panics on error.
func MustImplement[T, I any](modes ...apis.Access) {
	if err := Implement[T, I](modes...); err != nil {
		panic(err)
	}
}

// Freeze freezes the global registry. It reports whether this call did it.
func Freeze() bool {
	buildMu.Lock()
	defer buildMu.Unlock()

	return st.Load().reg.Freeze()
}

// Borrow returns a shared handle to v.
func Borrow[T any](v *T) apis.Handle { return apis.HandleOf(v, apis.Shared) }

// BorrowMut returns a mutable handle to v.
func BorrowMut[T any](v *T) apis.Handle { return apis.HandleOf(v, apis.Mutable) }

// Own returns an owned handle to v. The handle can be consumed once.
func Own[T any](v *T) apis.Handle { return apis.HandleOf(v, apis.Owned) }

// HandleFor returns a handle to the pointer held by v, which is typically an
// interface value obtained from a previous cast.
func HandleFor(v any, mode apis.Access) (apis.Handle, error) {
	const op = "dyncast.HandleFor"

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return apis.Handle{}, derr.New(derr.KindTypeMismatch, op).
			WithDetail("expected a non-nil pointer, got %T", v)
	}
	id, err := identity.FromType(rv.Type().Elem())
	if err != nil {
		return apis.Handle{}, derr.New(derr.KindTypeMismatch, op).Wrap(err)
	}
	return apis.NewHandle(id, mode, v), nil
}

// Cast casts h to target in mode using the global cast engine.
func Cast(h apis.Handle, target identity.Target, mode apis.Access) (apis.Handle, error) {
	return Caster().Cast(h, target, mode)
}

// As casts h to interface I and returns the typed view.
func As[I any](h apis.Handle, mode apis.Access) (I, error) {
	return cast.To[I](Caster(), h, mode)
}

// Downcast recovers the concrete *T behind h in a borrowing mode (shared or
// mutable). Owned handles are recovered with Into.
func Downcast[T any](h apis.Handle, mode apis.Access) (*T, error) {
	return cast.Downcast[T](Caster(), h, mode)
}

// Into recovers the concrete *T behind an owned h, consuming it.
func Into[T any](h apis.Handle) (*T, error) {
	return cast.Into[T](Caster(), h)
}

// Can reports whether h's concrete type is registered as I in mode.
func Can[I any](h apis.Handle, mode apis.Access) bool {
	return cast.Can[I](Registry(), h, mode)
}

// Encode serializes the value behind h into a tagged payload.
func Encode(h apis.Handle) (apis.Payload, error) {
	return Codec().Encode(h)
}

// Decode rebuilds an owned handle from a tagged payload.
func Decode(p apis.Payload) (apis.Handle, error) {
	return Codec().Decode(p)
}
