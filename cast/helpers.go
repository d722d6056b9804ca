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

package cast

import (
	"reflect"

	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
	"dirpx.dev/dyncast/identity"
)

// To casts h to interface I and returns the typed view.
// It panics if I is not an interface type.
func To[I any](c apis.Caster, h apis.Handle, mode apis.Access) (I, error) {
	var zero I
	out, err := c.Cast(h, identity.InterfaceOf[I](), mode)
	if err != nil {
		return zero, err
	}
	v, ok := out.View().(I)
	if !ok {
		return zero, derr.New(derr.KindTypeMismatch, "cast.To").
			WithType(h.TypeID().String()).WithDetail("view is %T", out.View())
	}
	return v, nil
}

// Downcast recovers the concrete *T behind h in a borrowing mode (shared or
// mutable). Owned handles are recovered with Into.
func Downcast[T any](c apis.Caster, h apis.Handle, mode apis.Access) (*T, error) {
	const op = "cast.Downcast"
	if mode == apis.Owned {
		return nil, derr.New(derr.KindAccessModeUnsupported, op).
			WithType(h.TypeID().String()).WithDetail("owned downcasts go through Into")
	}
	return downcast[T](c, h, mode, op)
}

// Into recovers the concrete *T behind an owned h, consuming it.
func Into[T any](c apis.Caster, h apis.Handle) (*T, error) {
	return downcast[T](c, h, apis.Owned, "cast.Into")
}

func downcast[T any](c apis.Caster, h apis.Handle, mode apis.Access, op string) (*T, error) {
	id, err := identity.FromType(reflect.TypeFor[T]())
	if err != nil {
		return nil, derr.New(derr.KindTypeMismatch, op).
			WithType(h.TypeID().String()).Wrap(err)
	}
	out, err := c.Cast(h, id, mode)
	if err != nil {
		return nil, err
	}
	p, ok := out.Ref().(*T)
	if !ok {
		return nil, derr.New(derr.KindTypeMismatch, op).
			WithType(h.TypeID().String()).WithDetail("reference is %T", out.Ref())
	}
	return p, nil
}

// Is reports whether the concrete type behind h is exactly T.
func Is[T any](h apis.Handle) bool {
	id, err := identity.FromType(reflect.TypeFor[T]())
	return err == nil && id == h.TypeID()
}

// Can reports whether h's concrete type has a registered adapter to I in mode.
// It does not consider the handle's own access mode and panics if I is not
// an interface type.
func Can[I any](reg apis.Registry, h apis.Handle, mode apis.Access) bool {
	_, ok := reg.LookupAdapter(h.TypeID(), identity.InterfaceOf[I](), mode)
	return ok
}
