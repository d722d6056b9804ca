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
	"dirpx.dev/dyncast/identity"
)

// AdapterFunc turns a reference to the owning concrete type into a view
// through one interface. It reports false if ref is not of the expected type.
type AdapterFunc func(ref any) (view any, ok bool)

// AdapterEntry holds the adapters of one (concrete type, interface) pair,
// one per access mode. Any of them may be nil; an entry registered only for
// Shared cannot satisfy a Mutable request.
type AdapterEntry struct {
	Shared  AdapterFunc
	Mutable AdapterFunc
	Owned   AdapterFunc
}

// For returns the adapter registered for mode, or nil.
func (e AdapterEntry) For(mode Access) AdapterFunc {
	switch mode {
	case Shared:
		return e.Shared
	case Mutable:
		return e.Mutable
	case Owned:
		return e.Owned
	default:
		return nil
	}
}

// Supports reports whether an adapter is registered for mode.
func (e AdapterEntry) Supports(mode Access) bool {
	return e.For(mode) != nil
}

// Modes returns the registered modes in ascending order.
func (e AdapterEntry) Modes() []Access {
	out := make([]Access, 0, 3)
	for _, m := range []Access{Shared, Mutable, Owned} {
		if e.Supports(m) {
			out = append(out, m)
		}
	}
	return out
}

// SerializeFunc turns a reference to a value into a content payload.
type SerializeFunc func(ref any) ([]byte, error)

// DeserializeFunc reconstructs an owned value from a content payload and
// returns a reference to it (a *T for the registered T).
type DeserializeFunc func(content []byte) (any, error)

// Hooks are the serialization hooks of one concrete type. Either may be nil
// for types that are never encoded or decoded.
type Hooks struct {
	Serialize   SerializeFunc
	Deserialize DeserializeFunc
}

// TypeDescriptor is the identity and capability record of one concrete type.
//
// Callers fill ID, DisplayName, Tag and Hooks when registering. Interfaces is
// owned by the Registry: it is ignored on registration and populated by
// RegisterImpl. Descriptors returned by a Registry must not be mutated.
type TypeDescriptor struct {
	// ID is the process-local identity of the type.
	ID identity.TypeID
	// DisplayName is used for diagnostics only. Defaults to ID.Name().
	DisplayName string
	// Tag is the stable, wire-visible discriminant. Unique per registry.
	Tag string
	// Hooks turn instances into content payloads and back.
	Hooks Hooks
	// Interfaces maps each implemented interface to its adapters.
	Interfaces map[identity.InterfaceID]AdapterEntry
}

// Adapter returns the adapter entry for iface.
func (d *TypeDescriptor) Adapter(iface identity.InterfaceID) (AdapterEntry, bool) {
	if d == nil {
		return AdapterEntry{}, false
	}
	e, ok := d.Interfaces[iface]
	return e, ok
}

// InterfaceDescriptor is the identity of one interface plus the reverse
// index of concrete types implementing it.
type InterfaceDescriptor struct {
	// ID is the process-local identity of the interface.
	ID identity.InterfaceID
	// DisplayName is used for diagnostics only.
	DisplayName string
	// Implementors lists implementing types ordered by tag.
	Implementors []identity.TypeID
}

// Payload is the wire shape produced by a Codec: a stable tag and an opaque
// content encoding chosen by the type's serialize hook.
type Payload struct {
	Tag     string
	Content []byte
}
