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

package dyncast

import (
	"errors"
	"sync"
	"sync/atomic"

	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/builder"
	"dirpx.dev/dyncast/config"
)

// init initializes the global state.
func init() {
	// Initialize state with default cfg, reg, caster and codec.
	s := &state{cfg: config.DefaultConfig(), bld: builder.New()}
	s.reg = s.bld.BuildRegistry(s.cfg, nil, nil)
	s.cst = s.bld.BuildCaster(s.cfg, s.reg, nil)
	s.cdc = s.bld.BuildCodec(s.cfg, s.reg, nil)
	// Store the initial state atomically.
	st.Store(s)
}

var (
	// ErrNilRegistry is returned when a builder returns a nil registry.
	ErrNilRegistry = errors.New("dyncast: builder returned nil registry")
	// ErrNilCaster is returned when a builder returns a nil caster.
	ErrNilCaster = errors.New("dyncast: builder returned nil caster")
	// ErrNilCodec is returned when a builder returns a nil codec.
	ErrNilCodec = errors.New("dyncast: builder returned nil codec")
)

// buildMu serializes writers (reconfigurations, swaps and registrations) so
// we never publish partially-built snapshots or register into a registry
// that is being replaced.
var buildMu sync.Mutex

// st is the global state.
var st atomic.Pointer[state]

// state is the global state snapshot.
// Immutable snapshot published atomically via st.Store; never mutate fields
// of a published state. Writers create a new state and swap it atomically.
type state struct {
	// cfg is the global configuration.
	cfg apis.Config
	// ext is the global extension value handed to the builder.
	ext any
	// reg is the global registry.
	reg apis.Registry
	// cst is the global cast engine over reg.
	cst apis.Caster
	// cdc is the global codec over reg.
	cdc apis.Codec
	// bld is the global builder.
	bld apis.Builder
	// preg indicates whether reg is pinned (never rebuilt).
	preg bool
}

// publish builds the caster and codec for the given layers and swaps the
// snapshot in. Callers hold buildMu.
func publish(cfg apis.Config, ext any, reg apis.Registry, bld apis.Builder, preg bool) {
	if reg == nil {
		panic(ErrNilRegistry)
	}
	cst := bld.BuildCaster(cfg, reg, ext)
	if cst == nil {
		panic(ErrNilCaster)
	}
	cdc := bld.BuildCodec(cfg, reg, ext)
	if cdc == nil {
		panic(ErrNilCodec)
	}

	// Store the new state atomically.
	st.Store(
		&state{
			cfg:  cfg,
			ext:  ext,
			reg:  reg,
			cst:  cst,
			cdc:  cdc,
			bld:  bld,
			preg: preg,
		},
	)
}

// SetAll explicitly sets all global state components.
//
// Nil arguments leave the corresponding component unchanged,
// except for ext which is always replaced. A nil reg is rebuilt from the
// current one unless the current one is pinned; a given reg is pinned.
//
// This is mainly used by tests to get a clean deterministic state.
func SetAll(cfg *apis.Config, ext any, reg apis.Registry, bld apis.Builder) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	// Configuration
	ncfg := old.cfg
	if cfg != nil {
		ncfg = *cfg
	}

	// Builder
	nbld := old.bld
	if bld != nil {
		nbld = bld
	}

	// Registry
	nreg, npreg := reg, reg != nil
	if nreg == nil {
		nreg, npreg = old.reg, old.preg
		if !old.preg {
			nreg = nbld.BuildRegistry(ncfg, old.reg, ext)
		}
	}

	publish(ncfg, ext, nreg, nbld, npreg)
}

// Config returns the global configuration.
func Config() apis.Config {
	return st.Load().cfg
}

// SetConfig sets the global configuration to cfg.
// It rebuilds the registry (unless pinned), caster and codec using the new
// configuration. Migrated types keep their tags.
func SetConfig(cfg apis.Config) {
	buildMu.Lock()
	defer buildMu.Unlock()

	// Load the old state.
	old := st.Load()

	nreg := old.reg
	if !old.preg {
		nreg = old.bld.BuildRegistry(cfg, old.reg, old.ext)
	}
	publish(cfg, old.ext, nreg, old.bld, old.preg)
}

// Registry returns the global registry.
func Registry() apis.Registry {
	return st.Load().reg
}

// SetRegistry sets and pins the global registry to reg, rebuilding the caster
// and codec over it.
func SetRegistry(reg apis.Registry) {
	if reg == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	publish(old.cfg, old.ext, reg, old.bld, true)
}

// Caster returns the global cast engine.
func Caster() apis.Caster {
	return st.Load().cst
}

// Codec returns the global codec.
func Codec() apis.Codec {
	return st.Load().cdc
}

// Builder returns the global builder.
func Builder() apis.Builder {
	return st.Load().bld
}

// SetBuilder sets the global builder to b and rebuilds every unpinned layer
// with it.
func SetBuilder(b apis.Builder) {
	if b == nil {
		return
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := old.reg
	if !old.preg {
		nreg = b.BuildRegistry(old.cfg, old.reg, old.ext)
	}
	publish(old.cfg, old.ext, nreg, b, old.preg)
}

// SetExt replaces the extension value and rebuilds unpinned layers via the
// builder. The default builder uses an apis.Observer ext for casts and codec.
func SetExt[T any](ext T) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	nreg := old.reg
	if !old.preg {
		nreg = old.bld.BuildRegistry(old.cfg, old.reg, ext)
	}
	publish(old.cfg, ext, nreg, old.bld, old.preg)
}

// ExtAs returns the global extension value as type T.
func ExtAs[T any]() (T, bool) {
	ext, ok := st.Load().ext.(T)
	return ext, ok
}

// IsRegistryPinned returns whether the global registry is pinned.
func IsRegistryPinned() bool {
	return st.Load().preg
}

// PinRegistry stops the global registry from being rebuilt.
func PinRegistry() {
	setPinned(true)
}

// UnpinRegistry lets the global registry be rebuilt again.
func UnpinRegistry() {
	setPinned(false)
}

func setPinned(pinned bool) {
	buildMu.Lock()
	defer buildMu.Unlock()

	old := st.Load()
	next := *old
	next.preg = pinned
	st.Store(&next)
}
