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

// Caster converts handles between views without knowing concrete types at
// compile time.
type Caster interface {
	// Cast converts h to target in the requested mode. An interface target
	// yields a handle viewing the value through that interface; a concrete
	// target recovers the concrete reference. A failed cast leaves h usable.
	Cast(h Handle, target identity.Target, mode Access) (Handle, error)
}

// Codec maps handles to tagged payloads and back.
type Codec interface {
	// Encode serializes the concrete value behind h.
	Encode(h Handle) (Payload, error)
	// Decode reconstructs an owned value from p.
	Decode(p Payload) (Handle, error)

	// EncodeJSON encodes h as a JSON envelope carrying the tag.
	EncodeJSON(h Handle) ([]byte, error)
	// DecodeJSON decodes a JSON envelope into an owned handle.
	DecodeJSON(data []byte) (Handle, error)

	// EncodeBinary encodes h as a compact binary [tag, content] envelope.
	EncodeBinary(h Handle) ([]byte, error)
	// DecodeBinary decodes a binary envelope into an owned handle.
	DecodeBinary(data []byte) (Handle, error)
}

// Observer receives the outcome of each cast and codec operation.
// Outcome is "ok" or the failure kind name.
type Observer interface {
	ObserveCast(target string, mode Access, outcome string)
	ObserveCodec(op string, outcome string)
}
