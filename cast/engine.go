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

package cast

import (
	"log/slog"
	"reflect"

	"dirpx.dev/dyncast/adapter"
	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
	"dirpx.dev/dyncast/identity"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for failed casts.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver reports every cast outcome to o.
func WithObserver(o apis.Observer) Option {
	return func(e *Engine) { e.obs = o }
}

// Engine is the default apis.Caster. It is safe for concurrent use once its
// registry is frozen.
type Engine struct {
	reg apis.Registry
	log *slog.Logger
	obs apis.Observer
}

// Ensure Engine implements apis.Caster.
var _ apis.Caster = (*Engine)(nil)

// New returns an Engine reading reg.
func New(reg apis.Registry, opts ...Option) *Engine {
	e := &Engine{reg: reg, log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine reads.
func (e *Engine) Registry() apis.Registry { return e.reg }

// Cast converts h to target in mode.
//
// A concrete target succeeds iff it is h's own type and yields a handle whose
// View is the *T reference. An interface target yields a handle whose View
// implements that interface. An owned-mode success consumes h; any failure
// leaves h untouched.
func (e *Engine) Cast(h apis.Handle, target identity.Target, mode apis.Access) (apis.Handle, error) {
	out, err := e.cast(h, target, mode)
	if e.obs != nil {
		e.obs.ObserveCast(targetKind(target), mode, derr.Outcome(err))
	}
	return out, err
}

const opCast = "Engine.Cast"

func (e *Engine) cast(h apis.Handle, target identity.Target, mode apis.Access) (apis.Handle, error) {
	if h.Spent() {
		return apis.Handle{}, derr.New(derr.KindHandleConsumed, opCast).WithType(h.TypeID().String())
	}

	d, ok := e.reg.LookupType(h.TypeID())
	if !ok {
		err := derr.New(derr.KindUnregisteredType, opCast).WithType(h.TypeID().String())
		e.log.Error("Cast on unregistered type", "type", h.TypeID().String(), "target", targetName(target), "error", err)
		return apis.Handle{}, err
	}

	if !h.Mode().Allows(mode) {
		return apis.Handle{}, e.fail(derr.New(derr.KindAccessModeUnsupported, opCast).
			WithType(d.DisplayName).WithInterface(targetName(target)).
			WithDetail("handle grants %s, requested %s", h.Mode(), mode))
	}

	var out apis.Handle
	switch t := target.(type) {
	case identity.TypeID:
		if t != h.TypeID() {
			return apis.Handle{}, e.fail(derr.New(derr.KindTypeMismatch, opCast).
				WithType(d.DisplayName).WithDetail("cannot downcast to %s", t))
		}
		out = h.Derive(identity.InterfaceID{}, nil, mode)

	case identity.InterfaceID:
		view, err := e.adapt(h, d, t, mode)
		if err != nil {
			return apis.Handle{}, e.fail(err)
		}
		out = h.Derive(t, view, mode)

	default:
		return apis.Handle{}, derr.New(derr.KindInvalidDescriptor, opCast).
			WithType(d.DisplayName).WithDetail("unsupported cast target %T", target)
	}

	if mode == apis.Owned && !h.Consume() {
		return apis.Handle{}, derr.New(derr.KindHandleConsumed, opCast).WithType(d.DisplayName)
	}
	return out, nil
}

// adapt produces the view of h through iface. The view h currently holds is
// never trusted: a registered adapter always runs on h.Ref().
func (e *Engine) adapt(h apis.Handle, d *apis.TypeDescriptor, iface identity.InterfaceID, mode apis.Access) (any, *derr.Error) {
	if iface.IsZero() {
		return nil, derr.New(derr.KindNoImplementation, opCast).
			WithType(d.DisplayName).WithDetail("zero interface identity")
	}

	entry, ok := d.Adapter(iface)
	if !ok {
		// Same interface as currently held, viewing the reference itself.
		if h.Via() == iface && h.View() == h.Ref() && iface.ImplementedBy(reflect.TypeOf(h.Ref())) {
			if view, ok := adapter.Identity().For(mode)(h.Ref()); ok {
				return view, nil
			}
		}
		return nil, derr.New(derr.KindNoImplementation, opCast).
			WithType(d.DisplayName).WithInterface(iface.String())
	}
	fn := entry.For(mode)
	if fn == nil {
		return nil, derr.New(derr.KindAccessModeUnsupported, opCast).
			WithType(d.DisplayName).WithInterface(iface.String()).
			WithDetail("requested %s, registered %v", mode, entry.Modes())
	}

	view, ok := fn(h.Ref())
	if !ok {
		return nil, derr.New(derr.KindTypeMismatch, opCast).
			WithType(d.DisplayName).WithInterface(iface.String()).
			WithDetail("adapter rejected reference %T", h.Ref())
	}
	if !iface.ImplementedBy(reflect.TypeOf(view)) {
		return nil, derr.New(derr.KindTypeMismatch, opCast).
			WithType(d.DisplayName).WithInterface(iface.String()).
			WithDetail("adapter produced %T", view)
	}
	return view, nil
}

// fail logs a recoverable failure at debug level and returns it.
func (e *Engine) fail(err *derr.Error) error {
	e.log.Debug("Cast failed", "kind", err.Kind.String(), "type", err.Type, "target", err.Interface)
	return err
}

func targetKind(t identity.Target) string {
	switch t.(type) {
	case identity.TypeID:
		return "concrete"
	case identity.InterfaceID:
		return "interface"
	default:
		return "invalid"
	}
}

func targetName(t identity.Target) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
