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

// Registry is the two-phase catalogue of concrete types and their interface
// capabilities. It accepts registrations until Freeze; afterwards it is
// read-only and safe for unsynchronized concurrent lookups.
type Registry interface {
	// ID returns a unique instance identifier, for logs and metrics.
	ID() string

	// RegisterType records a concrete type. Fails with DuplicateType,
	// DuplicateTag, IdentityCollision, InvalidDescriptor or RegistryFrozen.
	RegisterType(desc TypeDescriptor) error
	// RegisterImpl records that concrete type t implements interface i.
	// Fails with UnknownType, DuplicateImplementation, InvalidDescriptor
	// or RegistryFrozen.
	RegisterImpl(t identity.TypeID, i identity.InterfaceID, entry AdapterEntry) error

	// Freeze transitions to the read-only phase. It is idempotent and
	// reports whether this call performed the transition.
	Freeze() bool
	// Frozen reports whether Freeze has completed.
	Frozen() bool

	// LookupType returns the descriptor of t.
	LookupType(t identity.TypeID) (*TypeDescriptor, bool)
	// LookupByTag returns the descriptor registered under tag.
	LookupByTag(tag string) (*TypeDescriptor, bool)
	// LookupAdapter returns the adapter for (t, i) in the given mode.
	LookupAdapter(t identity.TypeID, i identity.InterfaceID, mode Access) (AdapterFunc, bool)
	// LookupInterface returns the descriptor of i with its implementors.
	LookupInterface(i identity.InterfaceID) (*InterfaceDescriptor, bool)

	// Types returns all type descriptors ordered by tag.
	Types() []*TypeDescriptor
	// Interfaces returns all interface descriptors ordered by display name.
	Interfaces() []*InterfaceDescriptor
	// Count returns the number of registered types.
	Count() int
}
