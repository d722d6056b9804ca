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

// Builder composes the registry, caster and codec layers from a Config.
// The global state calls it on every reconfiguration, passing the previous
// registry so registrations survive the rebuild.
type Builder interface {
	// BuildRegistry constructs a Registry for Config. May migrate entries from previous registry.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildRegistry(cfg Config, prev Registry, ext any) Registry
	// BuildCaster constructs a Caster over reg.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildCaster(cfg Config, reg Registry, ext any) Caster
	// BuildCodec constructs a Codec over reg.
	// ext is an optional extension context. Its meaning is implementation-defined.
	BuildCodec(cfg Config, reg Registry, ext any) Codec
}
