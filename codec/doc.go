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

// Package codec implements the tagged codec: it turns opaque handles into
// (tag, content) payloads and reconstructs owned handles from them.
//
// The tag, not the process-local type identity, is what goes on the wire.
// Content is whatever the type's serialize hook produces.
//
// Two envelopes wrap a payload into a single byte slice:
//
//   - JSON. Struct types flatten their fields next to the tag,
//     {"type":"shapes.Circle","radius":2}. Other types nest their content,
//     {"type":"units.celsius","value":21.5}. Requires JSON content.
//   - Binary. A two-element MessagePack array [tag, content].
//
// Decoding an unknown tag fails with UnknownTag, which is recoverable: the
// data may come from a newer build.
package codec
