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

package identity

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/cespare/xxhash/v2"

	uref "dirpx.dev/dyncast/utils/reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type is provided.
	ErrNilType = errors.New("identity: nil reflect.Type provided")
	// ErrNotInterface is returned when an interface identity is requested
	// for a non-interface type.
	ErrNotInterface = errors.New("identity: type is not an interface")
	// ErrInterfaceType is returned when a concrete identity is requested
	// for an interface type.
	ErrInterfaceType = errors.New("identity: interface types have no concrete identity")
)

// TypeID identifies one concrete type. The zero value identifies nothing.
type TypeID struct {
	fp uint64
	t  reflect.Type
}

// InterfaceID identifies one interface type. The zero value identifies nothing.
type InterfaceID struct {
	fp uint64
	t  reflect.Type
}

// Target is either a TypeID (exact downcast) or an InterfaceID
// (interface cast). It is sealed to this package.
type Target interface {
	fmt.Stringer
	target()
}

// Ensure both identities are cast targets.
var (
	_ Target = TypeID{}
	_ Target = InterfaceID{}
)

// Of returns the identity of T.
// It panics if T is an interface type; use InterfaceOf for those.
func Of[T any]() TypeID {
	id, err := FromType(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return id
}

// FromType returns the identity of the concrete type t.
func FromType(t reflect.Type) (TypeID, error) {
	if t == nil {
		return TypeID{}, ErrNilType
	}
	if t.Kind() == reflect.Interface {
		return TypeID{}, fmt.Errorf("%w: %s", ErrInterfaceType, t)
	}
	return TypeID{fp: fingerprint(t), t: t}, nil
}

// InterfaceOf returns the identity of the interface type I.
// It panics if I is not an interface type.
func InterfaceOf[I any]() InterfaceID {
	id, err := FromInterfaceType(reflect.TypeFor[I]())
	if err != nil {
		panic(err)
	}
	return id
}

// FromInterfaceType returns the identity of the interface type t.
func FromInterfaceType(t reflect.Type) (InterfaceID, error) {
	if t == nil {
		return InterfaceID{}, ErrNilType
	}
	if t.Kind() != reflect.Interface {
		return InterfaceID{}, fmt.Errorf("%w: %s", ErrNotInterface, t)
	}
	return InterfaceID{fp: fingerprint(t), t: t}, nil
}

// Type returns the underlying reflect.Type, or nil for the zero TypeID.
func (id TypeID) Type() reflect.Type { return id.t }

// Fingerprint returns the 64-bit fingerprint of the identity.
func (id TypeID) Fingerprint() uint64 { return id.fp }

// IsZero reports whether id identifies nothing.
func (id TypeID) IsZero() bool { return id.t == nil }

// Name returns the canonical "pkgpath.Name" of the type.
func (id TypeID) Name() string { return uref.CanonicalName(id.t) }

// String returns a diagnostic form of the identity.
func (id TypeID) String() string {
	if id.t == nil {
		return "<none>"
	}
	return id.t.String()
}

func (TypeID) target() {}

// Type returns the underlying interface type, or nil for the zero InterfaceID.
func (id InterfaceID) Type() reflect.Type { return id.t }

// Fingerprint returns the 64-bit fingerprint of the identity.
func (id InterfaceID) Fingerprint() uint64 { return id.fp }

// IsZero reports whether id identifies nothing.
func (id InterfaceID) IsZero() bool { return id.t == nil }

// Name returns the canonical "pkgpath.Name" of the interface.
func (id InterfaceID) Name() string { return uref.CanonicalName(id.t) }

// String returns a diagnostic form of the identity.
func (id InterfaceID) String() string {
	if id.t == nil {
		return "<none>"
	}
	return id.t.String()
}

// ImplementedBy reports whether values of type t satisfy the interface.
func (id InterfaceID) ImplementedBy(t reflect.Type) bool {
	return id.t != nil && t != nil && t.Implements(id.t)
}

func (InterfaceID) target() {}

// fingerprints caches derived fingerprints by type.
var fingerprints sync.Map // key: reflect.Type, val: uint64

// fingerprint hashes the canonical name and the structural shape of t.
func fingerprint(t reflect.Type) uint64 {
	if v, ok := fingerprints.Load(t); ok {
		return v.(uint64)
	}
	d := xxhash.New()
	_, _ = d.WriteString(uref.CanonicalName(t))
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(uref.Shape(t, uref.DefaultShapeDepth))
	fp := d.Sum64()
	fingerprints.Store(t, fp)
	return fp
}
