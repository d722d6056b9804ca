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

// Package dyncast provides a process-wide runtime type registry, a cast engine
// over it and a tagged codec.
//
// Values are reached through handles. A handle carries the identity of the
// concrete type behind it, the interface it is currently viewed through and
// an access mode (shared, mutable or owned). Casting a handle either recovers
// the concrete type (downcast) or views it through another registered
// interface (sidecast). Casts never go through undeclared interfaces, never
// chain adapters and never grant a stronger mode than the handle holds.
//
// # Design
//
// The package holds a read-mostly global snapshot (state) with:
//
//   - Config: tag derivation rules and the JSON envelope field names.
//
//   - Registry: descriptors for every registered type and the implementation
//     table mapping (type, interface) pairs to adapters. Registration is
//     allowed until the registry is frozen; after that it is read-only and
//     lookups are lock-free.
//
//   - Caster and Codec: the cast engine and the tagged codec built over the
//     registry.
//
//   - Builder: constructs the registry, caster and codec from the config and
//     the previous registry.
//
// Writers build a fresh snapshot and publish it with a single atomic store.
// Readers load the current snapshot and never block on writers.
//
// # Global API
//
// Registration:
//
//	dyncast.MustRegister[Circle]("shapes.Circle", hooks.JSON[Circle]())
//	dyncast.MustImplement[Circle, Shape](apis.Shared, apis.Mutable)
//	dyncast.Freeze()
//
// Casting:
//
//	s, err := dyncast.As[Shape](dyncast.Borrow(&c), apis.Shared)
//	c2, err := dyncast.Downcast[Circle](h, apis.Shared)
//
// Serialization:
//
//	p, err := dyncast.Encode(h)                 // Payload{Tag, Content}
//	h, err := dyncast.Decode(p)                 // owned handle
//	b, err := json.Marshal(dyncast.NewDyn[Shape](s))
//
// # Reconfiguration and pinning
//
// SetConfig, SetBuilder and SetExt rebuild the registry from the current
// one, keeping every registered type (with the tag it already resolved to),
// every implementation and the frozen state. SetRegistry installs a registry
// and pins it: pinned registries are never rebuilt until UnpinRegistry.
//
// The ext value is opaque to this package and handed to the builder. The
// default builder uses an ext implementing apis.Observer to observe casts
// and codec calls, which is how metrics are attached:
//
//	m, _ := metrics.New(prometheus.DefaultRegisterer)
//	dyncast.SetExt(m)
package dyncast
