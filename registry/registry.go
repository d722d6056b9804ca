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

package registry

import (
	"cmp"
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
	"dirpx.dev/dyncast/identity"
	"dirpx.dev/dyncast/resolver"
)

// Option configures a registry at construction time.
type Option func(*registry)

// WithLogger sets the logger used for registration and freeze events.
func WithLogger(l *slog.Logger) Option {
	return func(r *registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithTagResolver replaces the tag strategy chain consulted for descriptors
// registered without a tag.
func WithTagResolver(tr apis.TagResolver) Option {
	return func(r *registry) {
		if tr != nil {
			r.tags = tr
		}
	}
}

// New constructs an empty Registry that accepts registrations under cfg.
func New(cfg apis.Config, opts ...Option) apis.Registry {
	r := &registry{
		id:   uuid.NewString(),
		cfg:  cfg,
		tags: resolver.Default(),
		log:  slog.Default(),
		b:    newTables(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// registry is the default apis.Registry.
type registry struct {
	id   string
	cfg  apis.Config
	tags apis.TagResolver
	log  *slog.Logger

	// mu guards b and the accepting -> frozen transition.
	mu sync.Mutex
	// b holds the tables while accepting registrations; nil once frozen.
	b *tables
	// snap is the published read-only state; nil until Freeze.
	snap atomic.Pointer[tables]
}

// Ensure registry implements apis.Registry.
var _ apis.Registry = (*registry)(nil)

// tables is the full registry state. Once published through snap it is
// never written again.
type tables struct {
	types  map[identity.TypeID]*apis.TypeDescriptor
	byTag  map[string]*apis.TypeDescriptor
	ifaces map[identity.InterfaceID]*apis.InterfaceDescriptor
	// fps indexes every claimed fingerprint, types and interfaces alike.
	fps map[uint64]reflect.Type

	// Computed at freeze.
	orderedTypes  []*apis.TypeDescriptor
	orderedIfaces []*apis.InterfaceDescriptor
}

func newTables() *tables {
	return &tables{
		types:  make(map[identity.TypeID]*apis.TypeDescriptor),
		byTag:  make(map[string]*apis.TypeDescriptor),
		ifaces: make(map[identity.InterfaceID]*apis.InterfaceDescriptor),
		fps:    make(map[uint64]reflect.Type),
	}
}

func noop() {}

// acquire returns the current tables and the function releasing them.
// After freeze it takes no lock.
func (r *registry) acquire() (*tables, func()) {
	if s := r.snap.Load(); s != nil {
		return s, noop
	}
	r.mu.Lock()
	if s := r.snap.Load(); s != nil {
		r.mu.Unlock()
		return s, noop
	}
	return r.b, r.mu.Unlock
}

// ID returns the registry instance identifier.
func (r *registry) ID() string { return r.id }

// RegisterType records a concrete type, resolving its tag if omitted.
func (r *registry) RegisterType(desc apis.TypeDescriptor) error {
	const op = "Registry.RegisterType"

	if r.Frozen() {
		return derr.New(derr.KindRegistryFrozen, op).WithType(desc.ID.String())
	}
	if desc.ID.IsZero() {
		return derr.New(derr.KindInvalidDescriptor, op).WithDetail("zero type identity")
	}

	name := desc.ID.String()
	tag := desc.Tag
	if tag == "" {
		tag = r.tags.ResolveTag(desc.ID.Type(), r.cfg)
		if tag == "" {
			return derr.New(derr.KindInvalidDescriptor, op).WithType(name).
				WithDetail("no tag given and none could be resolved")
		}
	}
	if !apis.ValidTag(tag) {
		return derr.New(derr.KindInvalidDescriptor, op).WithType(name).WithTag(tag).
			WithDetail("tag must be 1..%d bytes of [A-Za-z0-9._:/@+-]", apis.MaxTagLen)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.b
	if b == nil {
		return derr.New(derr.KindRegistryFrozen, op).WithType(name)
	}
	if _, ok := b.types[desc.ID]; ok {
		return derr.New(derr.KindDuplicateType, op).WithType(name)
	}
	fp := desc.ID.Fingerprint()
	if other, ok := b.fps[fp]; ok && other != desc.ID.Type() {
		return derr.New(derr.KindIdentityCollision, op).WithType(name).
			WithDetail("fingerprint %016x already claimed by %s", fp, other)
	}
	if prev, ok := b.byTag[tag]; ok {
		return derr.New(derr.KindDuplicateTag, op).WithType(name).WithTag(tag).
			WithDetail("already used by %s", prev.ID)
	}

	d := &apis.TypeDescriptor{
		ID:          desc.ID,
		DisplayName: cmp.Or(desc.DisplayName, name),
		Tag:         tag,
		Hooks:       desc.Hooks,
		Interfaces:  make(map[identity.InterfaceID]apis.AdapterEntry),
	}
	b.types[d.ID] = d
	b.byTag[tag] = d
	b.fps[fp] = desc.ID.Type()

	r.log.Debug("Registering type", "registry", r.id, "type", name, "tag", tag)
	return nil
}

// RegisterImpl records that t implements i through entry.
func (r *registry) RegisterImpl(t identity.TypeID, i identity.InterfaceID, entry apis.AdapterEntry) error {
	const op = "Registry.RegisterImpl"

	if r.Frozen() {
		return derr.New(derr.KindRegistryFrozen, op).WithType(t.String()).WithInterface(i.String())
	}
	if i.IsZero() {
		return derr.New(derr.KindInvalidDescriptor, op).WithType(t.String()).
			WithDetail("zero interface identity")
	}
	if entry.Shared == nil {
		return derr.New(derr.KindInvalidDescriptor, op).WithType(t.String()).WithInterface(i.String()).
			WithDetail("shared adapter is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.b
	if b == nil {
		return derr.New(derr.KindRegistryFrozen, op).WithType(t.String()).WithInterface(i.String())
	}
	d, ok := b.types[t]
	if !ok {
		return derr.New(derr.KindUnknownType, op).WithType(t.String()).WithInterface(i.String())
	}
	if _, dup := d.Interfaces[i]; dup {
		return derr.New(derr.KindDuplicateImplementation, op).WithType(t.String()).WithInterface(i.String())
	}
	fp := i.Fingerprint()
	if other, ok := b.fps[fp]; ok && other != i.Type() {
		return derr.New(derr.KindIdentityCollision, op).WithInterface(i.String()).
			WithDetail("fingerprint %016x already claimed by %s", fp, other)
	}

	// Copy-on-write: descriptors already handed out stay untouched.
	nd := *d
	nd.Interfaces = maps.Clone(d.Interfaces)
	nd.Interfaces[i] = entry
	b.types[t] = &nd
	b.byTag[nd.Tag] = &nd

	var impls []identity.TypeID
	if id, ok := b.ifaces[i]; ok {
		impls = slices.Clip(id.Implementors)
	} else {
		b.fps[fp] = i.Type()
	}
	impls = append(impls, t)
	slices.SortFunc(impls, func(a, c identity.TypeID) int {
		return cmp.Compare(b.types[a].Tag, b.types[c].Tag)
	})
	b.ifaces[i] = &apis.InterfaceDescriptor{ID: i, DisplayName: i.String(), Implementors: impls}

	r.log.Debug("Registering implementation",
		"registry", r.id, "type", t.String(), "interface", i.String(), "modes", entry.Modes())
	return nil
}

// Freeze publishes the current tables as the read-only snapshot.
func (r *registry) Freeze() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.snap.Load() != nil {
		return false
	}
	b := r.b
	b.orderedTypes = sortedTypes(b)
	b.orderedIfaces = sortedInterfaces(b)
	r.snap.Store(b)
	r.b = nil

	r.log.Info("Registry frozen", "registry", r.id, "types", len(b.types), "interfaces", len(b.ifaces))
	return true
}

// Frozen reports whether the registry is read-only.
func (r *registry) Frozen() bool { return r.snap.Load() != nil }

// LookupType returns the descriptor of t.
func (r *registry) LookupType(t identity.TypeID) (*apis.TypeDescriptor, bool) {
	tb, release := r.acquire()
	defer release()
	d, ok := tb.types[t]
	return d, ok
}

// LookupByTag returns the descriptor registered under tag.
func (r *registry) LookupByTag(tag string) (*apis.TypeDescriptor, bool) {
	tb, release := r.acquire()
	defer release()
	d, ok := tb.byTag[tag]
	return d, ok
}

// LookupAdapter returns the adapter for (t, i) in mode.
func (r *registry) LookupAdapter(t identity.TypeID, i identity.InterfaceID, mode apis.Access) (apis.AdapterFunc, bool) {
	d, ok := r.LookupType(t)
	if !ok {
		return nil, false
	}
	e, ok := d.Adapter(i)
	if !ok {
		return nil, false
	}
	fn := e.For(mode)
	return fn, fn != nil
}

// LookupInterface returns the descriptor of i.
func (r *registry) LookupInterface(i identity.InterfaceID) (*apis.InterfaceDescriptor, bool) {
	tb, release := r.acquire()
	defer release()
	d, ok := tb.ifaces[i]
	return d, ok
}

// Types returns all type descriptors ordered by tag.
func (r *registry) Types() []*apis.TypeDescriptor {
	tb, release := r.acquire()
	defer release()
	if tb.orderedTypes != nil {
		return slices.Clone(tb.orderedTypes)
	}
	return sortedTypes(tb)
}

// Interfaces returns all interface descriptors ordered by display name.
func (r *registry) Interfaces() []*apis.InterfaceDescriptor {
	tb, release := r.acquire()
	defer release()
	if tb.orderedIfaces != nil {
		return slices.Clone(tb.orderedIfaces)
	}
	return sortedInterfaces(tb)
}

// Count returns the number of registered types.
func (r *registry) Count() int {
	tb, release := r.acquire()
	defer release()
	return len(tb.types)
}

func sortedTypes(tb *tables) []*apis.TypeDescriptor {
	out := slices.Collect(maps.Values(tb.byTag))
	slices.SortFunc(out, func(a, b *apis.TypeDescriptor) int { return cmp.Compare(a.Tag, b.Tag) })
	return out
}

func sortedInterfaces(tb *tables) []*apis.InterfaceDescriptor {
	out := slices.Collect(maps.Values(tb.ifaces))
	slices.SortFunc(out, func(a, b *apis.InterfaceDescriptor) int {
		return cmp.Or(
			cmp.Compare(a.DisplayName, b.DisplayName),
			cmp.Compare(a.ID.Fingerprint(), b.ID.Fingerprint()),
		)
	})
	return out
}
