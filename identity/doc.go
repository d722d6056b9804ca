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

// Package identity derives the process-stable identities used by the
// registry, the cast engine and the codec.
//
// A TypeID names exactly one concrete Go type; an InterfaceID names exactly
// one Go interface type. Both are comparable values that carry a 64-bit
// fingerprint (xxhash of the canonical type name and its structural shape)
// next to the reflect.Type itself. Identities are derived once per type and
// memoized. They are valid only inside the running process: use serialize
// tags, not identities, for anything that leaves it.
package identity
