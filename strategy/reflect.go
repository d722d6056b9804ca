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
	"path"
	"reflect"
	"sync"

	"dirpx.dev/dyncast/apis"
	uref "dirpx.dev/dyncast/utils/reflect"
)

// NewReflectStrategy creates an apis.TagStrategy that derives tags via
// reflection using utils/reflect.Normalize and memoization.
func NewReflectStrategy() apis.TagStrategy {
	return reflectStrategy{}
}

// reflectStrategy is the opt-in fallback that computes a "pkg.Type" tag.
// It unwraps containers (ptr/slice/array/chan/map) via Normalize and can
// hide builtin/no-package names. Generic instantiations are not derived:
// "G[int]" and "G[string]" would otherwise share a tag.
type reflectStrategy struct{}

// Ensure reflectStrategy implements apis.TagStrategy.
var _ apis.TagStrategy = (*reflectStrategy)(nil)

// cacheKey ensures memoization respects all config knobs that affect resolution.
type cacheKey struct {
	t              reflect.Type
	includeBuiltin bool
	maxUnwrap      int16
	mapPreferElem  bool
}

// tagCache caches derived tags by (type, config knobs).
var tagCache sync.Map // key: cacheKey, val: string

// TryResolveTag computes the derived tag for t when cfg.DeriveTags is set.
func (reflectStrategy) TryResolveTag(t reflect.Type, cfg apis.Config) (string, bool) {
	if t == nil || !cfg.DeriveTags {
		return "", false
	}
	tag := byType(t, cfg)
	return tag, tag != ""
}

// byType derives the tag for t with memoization.
func byType(t reflect.Type, cfg apis.Config) string {
	key := cacheKey{
		t:              t,
		includeBuiltin: cfg.IncludeBuiltins,
		maxUnwrap:      int16(cfg.MaxUnwrap),
		mapPreferElem:  cfg.MapPreferElem,
	}
	if v, ok := tagCache.Load(key); ok {
		return v.(string)
	}

	tag := derive(t, cfg)
	tagCache.Store(key, tag)
	return tag
}

func derive(t reflect.Type, cfg apis.Config) string {
	base, err := uref.Normalize(t, cfg.MaxUnwrap, cfg.MapPreferElem)
	if err != nil || base == nil {
		return ""
	}

	name := base.Name()
	if !apis.ValidTag(name) {
		// Generic instantiation or otherwise unrepresentable.
		return ""
	}
	if p := base.PkgPath(); p != "" {
		return path.Base(p) + "." + name
	}
	if !cfg.IncludeBuiltins {
		return ""
	}
	return name
}
