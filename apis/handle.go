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
	"sync/atomic"

	"dirpx.dev/dyncast/identity"
)

// Handle is the run-time token for a value reached only through its
// registered identity and capabilities.
//
// A handle records the concrete TypeID of the value, the access mode it
// grants, the underlying reference (always *T for a registered T), and the
// current view: the value as seen through the interface the holder uses.
// Via names that interface for bookkeeping only; the engine re-checks it
// before relying on it.
//
// Shared and Mutable handles borrow. An Owned handle carries an ownership
// token that is spent when a consuming cast hands the value on.
type Handle struct {
	id    identity.TypeID
	via   identity.InterfaceID
	mode  Access
	ref   any
	view  any
	token *ownership
}

type ownership struct {
	spent atomic.Bool
}

// NewHandle returns a handle to ref, which must be a pointer to a value of
// the concrete type identified by id.
func NewHandle(id identity.TypeID, mode Access, ref any) Handle {
	h := Handle{id: id, mode: mode, ref: ref}
	if mode == Owned {
		h.token = &ownership{}
	}
	return h
}

// HandleOf returns a handle to v with the given mode.
func HandleOf[T any](v *T, mode Access) Handle {
	return NewHandle(identity.Of[T](), mode, v)
}

// TypeID returns the identity of the underlying concrete type.
func (h Handle) TypeID() identity.TypeID { return h.id }

// Via returns the interface the holder currently views the value through.
// It is zero for concrete views.
func (h Handle) Via() identity.InterfaceID { return h.via }

// Mode returns the access mode the handle grants.
func (h Handle) Mode() Access { return h.mode }

// Ref returns the underlying reference to the concrete value.
func (h Handle) Ref() any { return h.ref }

// View returns the value as seen through Via, or Ref for concrete views.
func (h Handle) View() any {
	if h.via.IsZero() || h.view == nil {
		return h.ref
	}
	return h.view
}

// IsZero reports whether h refers to nothing.
func (h Handle) IsZero() bool { return h.id.IsZero() && h.ref == nil }

// Spent reports whether ownership has already been transferred away.
func (h Handle) Spent() bool {
	return h.token != nil && h.token.spent.Load()
}

// Consume marks an owned handle as transferred. It reports false if the
// handle is not owned or was already consumed.
func (h Handle) Consume() bool {
	if h.mode != Owned || h.token == nil {
		return false
	}
	return h.token.spent.CompareAndSwap(false, true)
}

// Derive returns a new handle to the same value viewed through via with the
// given mode. Owned derivations receive a fresh ownership token; consuming
// the source is the caller's job. A mode stronger than h's yields the zero
// handle.
func (h Handle) Derive(via identity.InterfaceID, view any, mode Access) Handle {
	if !h.mode.Allows(mode) {
		return Handle{}
	}
	d := Handle{id: h.id, via: via, mode: mode, ref: h.ref, view: view}
	if mode == Owned {
		d.token = &ownership{}
	}
	return d
}
