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

package strategy

import (
	"reflect"

	"dirpx.dev/dyncast/apis"
	uref "dirpx.dev/dyncast/utils/reflect"
)

// NewOverrideStrategy creates an apis.TagStrategy that consults
// Config.TagOverrides.
func NewOverrideStrategy() apis.TagStrategy {
	return &overrideStrategy{}
}

// overrideStrategy looks the canonical type name up in the configured
// overrides (reflection-free apart from naming).
type overrideStrategy struct{}

// Ensure overrideStrategy implements apis.TagStrategy.
var _ apis.TagStrategy = (*overrideStrategy)(nil)

// TryResolveTag returns the override for t, if any.
func (*overrideStrategy) TryResolveTag(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil || len(cfg.TagOverrides) == 0 {
		return "", false
	}
	tag, ok := cfg.TagOverrides[uref.CanonicalName(t)]
	if !ok || tag == "" {
		return "", false
	}
	return tag, true
}
