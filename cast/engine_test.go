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

package cast_test

import (
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dyncast/adapter"
	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/cast"
	derr "dirpx.dev/dyncast/errors"
	"dirpx.dev/dyncast/identity"
	"dirpx.dev/dyncast/internal/testutil"
	"dirpx.dev/dyncast/registry"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newEngine(t *testing.T, opts ...cast.Option) *cast.Engine {
	t.Helper()
	reg := registry.New(apis.Config{}, registry.WithLogger(quiet))
	require.NoError(t, testutil.Register(reg))
	reg.Freeze()
	return cast.New(reg, append([]cast.Option{cast.WithLogger(quiet)}, opts...)...)
}

func requireKind(t *testing.T, err error, kind derr.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, derr.KindOf(err), "err=%v", err)
	assert.True(t, stderrors.Is(err, kind.Sentinel()), "err=%v", err)
}

func TestScenario_ShapesAndDrawables(t *testing.T) {
	eng := newEngine(t)
	circle := apis.HandleOf(&testutil.Circle{Radius: 2}, apis.Mutable)
	square := apis.HandleOf(&testutil.Square{Side: 3}, apis.Mutable)

	d, err := cast.To[testutil.Drawable](eng, circle, apis.Shared)
	require.NoError(t, err)
	assert.Equal(t, "circle(r=2)", d.Draw())

	_, err = eng.Cast(circle, testutil.DrawableID, apis.Mutable)
	requireKind(t, err, derr.KindAccessModeUnsupported)

	_, err = eng.Cast(square, testutil.DrawableID, apis.Shared)
	requireKind(t, err, derr.KindNoImplementation)
	assert.True(t, derr.IsRecoverable(err))
}

func TestCast_SidecastThenDowncastRecoversSameValue(t *testing.T) {
	eng := newEngine(t)
	c := &testutil.Circle{Radius: 1}
	h := apis.HandleOf(c, apis.Mutable)

	asShape, err := eng.Cast(h, testutil.ShapeID, apis.Mutable)
	require.NoError(t, err)
	assert.Equal(t, testutil.ShapeID, asShape.Via())
	asShape.View().(testutil.Shape).Scale(3)
	assert.Equal(t, 3.0, c.Radius, "mutable view writes through")

	asDrawable, err := eng.Cast(asShape, testutil.DrawableID, apis.Shared)
	require.NoError(t, err)
	assert.Equal(t, "circle(r=3)", asDrawable.View().(testutil.Drawable).Draw())

	back, err := cast.Downcast[testutil.Circle](eng, asDrawable, apis.Shared)
	require.NoError(t, err)
	assert.Same(t, c, back)
}

func TestCast_Downcast(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(&testutil.Circle{}, apis.Shared)

	out, err := eng.Cast(h, testutil.CircleID, apis.Shared)
	require.NoError(t, err)
	assert.True(t, out.Via().IsZero())
	assert.Same(t, h.Ref(), out.View())

	_, err = eng.Cast(h, testutil.SquareID, apis.Shared)
	requireKind(t, err, derr.KindTypeMismatch)

	_, err = cast.Downcast[testutil.Square](eng, h, apis.Shared)
	requireKind(t, err, derr.KindTypeMismatch)

	_, err = cast.Downcast[testutil.Shape](eng, h, apis.Shared)
	requireKind(t, err, derr.KindTypeMismatch)
}

func TestDowncast_RejectsOwned(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(&testutil.Circle{Radius: 3}, apis.Owned)

	_, err := cast.Downcast[testutil.Circle](eng, h, apis.Owned)
	requireKind(t, err, derr.KindAccessModeUnsupported)
	assert.False(t, h.Spent(), "a rejected downcast leaves the handle untouched")

	c, err := cast.Into[testutil.Circle](eng, h)
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.Radius)
	assert.True(t, h.Spent())
}

func TestCast_SharedHandleNeverUpgrades(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(&testutil.Circle{}, apis.Shared)

	// Circle registers a mutable Shape adapter, the handle still caps it.
	_, err := eng.Cast(h, testutil.ShapeID, apis.Mutable)
	requireKind(t, err, derr.KindAccessModeUnsupported)
	_, err = eng.Cast(h, testutil.CircleID, apis.Owned)
	requireKind(t, err, derr.KindAccessModeUnsupported)
	_, err = eng.Cast(h, testutil.ShapeID, apis.Access(9))
	requireKind(t, err, derr.KindAccessModeUnsupported)
}

func TestCast_SameInterfaceWithoutAdapter(t *testing.T) {
	reg := registry.New(apis.Config{}, registry.WithLogger(quiet))
	require.NoError(t, reg.RegisterType(apis.TypeDescriptor{ID: testutil.SquareID, Tag: testutil.SquareTag}))
	reg.Freeze()
	eng := cast.New(reg, cast.WithLogger(quiet))

	s := &testutil.Square{Side: 2}
	held := apis.HandleOf(s, apis.Mutable).Derive(testutil.ShapeID, testutil.Shape(s), apis.Mutable)

	out, err := eng.Cast(held, testutil.ShapeID, apis.Shared)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.View().(testutil.Shape).Area())

	// A lying Via is not trusted.
	lying := apis.HandleOf(s, apis.Shared).Derive(testutil.ShapeID, "not a shape", apis.Shared)
	_, err = eng.Cast(lying, testutil.ShapeID, apis.Shared)
	requireKind(t, err, derr.KindNoImplementation)
}

func TestCast_HeldViewIsNotTrusted(t *testing.T) {
	eng := newEngine(t)
	c := &testutil.Circle{Radius: 1}

	// The held view points at another Circle; the registered adapter runs on
	// the reference instead.
	forged := apis.HandleOf(c, apis.Shared).
		Derive(testutil.DrawableID, testutil.Drawable(&testutil.Circle{Radius: 99}), apis.Shared)
	out, err := eng.Cast(forged, testutil.DrawableID, apis.Shared)
	require.NoError(t, err)
	assert.Equal(t, "circle(r=1)", out.View().(testutil.Drawable).Draw())
	assert.Same(t, c, out.View())

	// Without a registered adapter a foreign view is rejected.
	s := &testutil.Square{Side: 1}
	foreign := apis.HandleOf(s, apis.Shared).
		Derive(testutil.DrawableID, testutil.Drawable(&testutil.Square{Side: 9}), apis.Shared)
	_, err = eng.Cast(foreign, testutil.DrawableID, apis.Shared)
	requireKind(t, err, derr.KindNoImplementation)
}

func TestCast_DerivedHandleCannotUpgrade(t *testing.T) {
	eng := newEngine(t)
	c := &testutil.Circle{Radius: 1}

	upgraded := apis.HandleOf(c, apis.Shared).Derive(testutil.ShapeID, testutil.Shape(c), apis.Mutable)
	require.True(t, upgraded.IsZero())
	_, err := eng.Cast(upgraded, testutil.ShapeID, apis.Mutable)
	requireKind(t, err, derr.KindUnregisteredType)
}

func TestCast_NotTransitive(t *testing.T) {
	eng := newEngine(t)

	// Square has Draw() but never registered Drawable; holding it as a
	// Shape that Circle also implements does not help.
	h := apis.HandleOf(&testutil.Square{}, apis.Shared)
	asShape, err := eng.Cast(h, testutil.ShapeID, apis.Shared)
	require.NoError(t, err)
	_, err = eng.Cast(asShape, testutil.DrawableID, apis.Shared)
	requireKind(t, err, derr.KindNoImplementation)
}

func TestCast_UnregisteredType(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(&testutil.Canvas{}, apis.Shared)

	_, err := eng.Cast(h, testutil.ShapeID, apis.Shared)
	requireKind(t, err, derr.KindUnregisteredType)
	assert.True(t, derr.IsFatal(err))
}

func TestCast_OwnedConsumesOnSuccessOnly(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(new(testutil.Celsius), apis.Owned)

	// Failure leaves the handle usable.
	_, err := eng.Cast(h, testutil.ShapeID, apis.Owned)
	requireKind(t, err, derr.KindNoImplementation)
	require.False(t, h.Spent())

	// Borrowing from an owned handle does not consume it either.
	_, err = eng.Cast(h, testutil.DrawableID, apis.Shared)
	require.NoError(t, err)
	require.False(t, h.Spent())

	out, err := eng.Cast(h, testutil.DrawableID, apis.Owned)
	require.NoError(t, err)
	assert.True(t, h.Spent())
	assert.Equal(t, apis.Owned, out.Mode())

	_, err = eng.Cast(h, testutil.DrawableID, apis.Shared)
	requireKind(t, err, derr.KindHandleConsumed)

	c, err := cast.Into[testutil.Celsius](eng, out)
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.True(t, out.Spent())
}

func TestCast_OwnedRace(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(new(testutil.Celsius), apis.Owned)

	var wg sync.WaitGroup
	results := make(chan error, 32)
	for i := 0; i < cap(results); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := eng.Cast(h, testutil.CelsiusID, apis.Owned)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
			continue
		}
		assert.Equal(t, derr.KindHandleConsumed, derr.KindOf(err))
	}
	assert.Equal(t, 1, wins)
}

func TestCast_AdapterRejections(t *testing.T) {
	reg := registry.New(apis.Config{}, registry.WithLogger(quiet))
	require.NoError(t, reg.RegisterType(apis.TypeDescriptor{ID: testutil.SquareID, Tag: testutil.SquareTag}))
	require.NoError(t, reg.RegisterImpl(testutil.SquareID, testutil.DrawableID, apis.AdapterEntry{
		Shared: func(any) (any, bool) { return 42, true },
	}))
	require.NoError(t, reg.RegisterImpl(testutil.SquareID, testutil.UnusedID, apis.AdapterEntry{
		Shared: func(any) (any, bool) { return nil, false },
	}))
	reg.Freeze()
	eng := cast.New(reg, cast.WithLogger(quiet))
	h := apis.HandleOf(&testutil.Square{}, apis.Shared)

	_, err := eng.Cast(h, testutil.DrawableID, apis.Shared)
	requireKind(t, err, derr.KindTypeMismatch)
	assert.Contains(t, err.Error(), "adapter produced int")

	_, err = eng.Cast(h, testutil.UnusedID, apis.Shared)
	requireKind(t, err, derr.KindTypeMismatch)

	_, err = eng.Cast(h, identity.InterfaceID{}, apis.Shared)
	requireKind(t, err, derr.KindNoImplementation)

	_, err = eng.Cast(h, nil, apis.Shared)
	requireKind(t, err, derr.KindInvalidDescriptor)
}

func TestCast_CustomViewAdapter(t *testing.T) {
	type labelled struct{ testutil.Drawable }

	reg := registry.New(apis.Config{}, registry.WithLogger(quiet))
	require.NoError(t, reg.RegisterType(apis.TypeDescriptor{ID: testutil.SquareID, Tag: testutil.SquareTag}))
	require.NoError(t, reg.RegisterImpl(testutil.SquareID, testutil.DrawableID,
		adapter.Func(func(s *testutil.Square) testutil.Drawable { return labelled{s} }, apis.Shared)))
	reg.Freeze()

	d, err := cast.To[testutil.Drawable](cast.New(reg, cast.WithLogger(quiet)),
		apis.HandleOf(&testutil.Square{Side: 1}, apis.Shared), apis.Shared)
	require.NoError(t, err)
	assert.Equal(t, "square(s=1)", d.Draw())
}

func TestIsAndCan(t *testing.T) {
	eng := newEngine(t)
	h := apis.HandleOf(&testutil.Circle{}, apis.Shared)

	assert.True(t, cast.Is[testutil.Circle](h))
	assert.False(t, cast.Is[testutil.Square](h))
	assert.False(t, cast.Is[testutil.Shape](h))

	assert.True(t, cast.Can[testutil.Shape](eng.Registry(), h, apis.Mutable))
	assert.False(t, cast.Can[testutil.Drawable](eng.Registry(), h, apis.Mutable))
}

type recorder struct {
	mu    sync.Mutex
	casts []string
}

func (r *recorder) ObserveCast(target string, mode apis.Access, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.casts = append(r.casts, target+"/"+mode.String()+"/"+outcome)
}

func (r *recorder) ObserveCodec(string, string) {}

func TestCast_Observer(t *testing.T) {
	rec := &recorder{}
	eng := newEngine(t, cast.WithObserver(rec))
	h := apis.HandleOf(&testutil.Square{}, apis.Shared)

	_, _ = eng.Cast(h, testutil.ShapeID, apis.Shared)
	_, _ = eng.Cast(h, testutil.DrawableID, apis.Shared)
	_, _ = eng.Cast(h, testutil.CircleID, apis.Shared)

	assert.Equal(t, []string{
		"interface/shared/ok",
		"interface/shared/no_implementation",
		"concrete/shared/type_mismatch",
	}, rec.casts)
}
