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

// Package cast implements the cast engine: interface-to-interface casts,
// exact downcasts and consuming casts over opaque handles, driven entirely
// by registry lookups.
//
// A cast consults only the direct adapter table of the handle's concrete
// type. It never searches chains of interfaces, so each cast is one map
// lookup plus one adapter call and its result does not depend on
// registration order.
//
// Failures are *errors.Error values. TypeMismatch, NoImplementation and
// AccessModeUnsupported are recoverable and meant for branching:
//
//	if d, err := cast.To[Drawable](eng, h, apis.Shared); err == nil {
//		d.Draw()
//	} else if !errors.Is(err, derr.ErrNoImplementation) {
//		return err
//	}
package cast
