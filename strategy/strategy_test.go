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

package strategy_test

import (
	"path"
	"reflect"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/strategy"
)

// Named types for stable tags.
type Foo struct{}
type Bar[T any] struct{ X T }

type valueTagged struct{}

func (valueTagged) TypeTag() string { return "custom.value" }

type ptrTagged struct{ n *int }

func (p *ptrTagged) TypeTag() string { return "custom.ptr" }

type emptyTagged struct{}

func (emptyTagged) TypeTag() string { return "" }

type panicky struct{ n *int }

func (p panicky) TypeTag() string { return string(rune(*p.n)) }

// cfg returns a convenient baseline Config for tests.
func cfg(opts ...func(*apis.Config)) apis.Config {
	c := apis.Config{
		IncludeBuiltins: true,
		MaxUnwrap:       8,
		MapPreferElem:   true,
		DeriveTags:      true,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

func TestOverrideStrategy(t *testing.T) {
	s := strategy.NewOverrideStrategy()
	foo := reflect.TypeFor[Foo]()

	c := cfg(func(c *apis.Config) {
		c.TagOverrides = map[string]string{foo.PkgPath() + ".Foo": "foo.v1"}
	})
	tag, ok := s.TryResolveTag(foo, c)
	assert.True(t, ok)
	assert.Equal(t, "foo.v1", tag)

	_, ok = s.TryResolveTag(reflect.TypeFor[valueTagged](), c)
	assert.False(t, ok)
	_, ok = s.TryResolveTag(foo, cfg())
	assert.False(t, ok)
	_, ok = s.TryResolveTag(nil, c)
	assert.False(t, ok)
}

func TestTaggerStrategy(t *testing.T) {
	s := strategy.NewTaggerStrategy()
	c := apis.Config{} // config is irrelevant for the tagger strategy

	cases := []struct {
		name string
		typ  reflect.Type
		tag  string
		ok   bool
	}{
		{"value receiver", reflect.TypeFor[valueTagged](), "custom.value", true},
		{"pointer receiver", reflect.TypeFor[ptrTagged](), "custom.ptr", true},
		{"empty tag falls through", reflect.TypeFor[emptyTagged](), "", false},
		{"panicking tagger falls through", reflect.TypeFor[panicky](), "", false},
		{"non-tagger", reflect.TypeFor[Foo](), "", false},
		{"interface type", reflect.TypeFor[apis.Tagger](), "", false},
		{"nil", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tag, ok := s.TryResolveTag(tc.typ, c)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.tag, tag)
		})
	}
}

func TestReflectStrategy_Derive(t *testing.T) {
	s := strategy.NewReflectStrategy()
	pkg := path.Base(reflect.TypeFor[Foo]().PkgPath())

	cases := []struct {
		name string
		typ  reflect.Type
		cfg  apis.Config
		tag  string
		ok   bool
	}{
		{"plain struct", reflect.TypeFor[Foo](), cfg(), pkg + ".Foo", true},
		{"pointer unwraps", reflect.TypeFor[*Foo](), cfg(), pkg + ".Foo", true},
		{"map prefers elem", reflect.TypeFor[map[string]Foo](), cfg(), pkg + ".Foo", true},
		{"builtin", reflect.TypeFor[int32](), cfg(), "int32", true},
		{"builtin hidden", reflect.TypeFor[int32](), cfg(func(c *apis.Config) { c.IncludeBuiltins = false }), "", false},
		{"generic instantiation", reflect.TypeFor[Bar[int]](), cfg(), "", false},
		{"anonymous", reflect.TypeFor[struct{ A int }](), cfg(), "", false},
		{"disabled", reflect.TypeFor[Foo](), cfg(func(c *apis.Config) { c.DeriveTags = false }), "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tag, ok := s.TryResolveTag(tc.typ, tc.cfg)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.tag, tag)
		})
	}
}

// TestReflectStrategy_ConcurrentDerive_NoRace verifies that TryResolveTag is
// race-free and stable under heavy concurrency.
func TestReflectStrategy_ConcurrentDerive_NoRace(t *testing.T) {
	s := strategy.NewReflectStrategy()
	c := cfg()

	tys := []reflect.Type{
		reflect.TypeFor[Foo](),
		reflect.TypeFor[*Foo](),
		reflect.TypeFor[[]Foo](),
		reflect.TypeFor[map[string]int](),
		reflect.TypeFor[string](),
	}
	want := make([]string, len(tys))
	for i, tt := range tys {
		want[i], _ = s.TryResolveTag(tt, c)
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 2000; i++ {
				j := (i + id) % len(tys)
				if tag, ok := s.TryResolveTag(tys[j], c); !ok || tag != want[j] {
					t.Errorf("TryResolveTag(%v) = (%q,%v), want %q", tys[j], tag, ok, want[j])
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

// ---- Benchmarks ----

func BenchmarkReflectStrategy(b *testing.B) {
	s := strategy.NewReflectStrategy()

	types := []reflect.Type{
		reflect.TypeOf(Foo{}),
		reflect.TypeOf(&Foo{}),
		reflect.TypeOf([]Foo{}),
		reflect.TypeOf(map[string]Foo{}),
		reflect.TypeOf(Bar[int]{}),
		reflect.TypeOf(0),
	}

	configs := []struct {
		name string
		cfg  apis.Config
	}{
		{"default", cfg()},
		{"hide_builtins", cfg(func(c *apis.Config) { c.IncludeBuiltins = false })},
		{"prefer_key", cfg(func(c *apis.Config) { c.MapPreferElem = false })},
		{"low_maxunwrap", cfg(func(c *apis.Config) { c.MaxUnwrap = 1 })},
	}

	for _, cc := range configs {
		b.Run(cc.name, func(b *testing.B) {
			// Warm-up cache
			for _, t0 := range types {
				s.TryResolveTag(t0, cc.cfg)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.TryResolveTag(types[i%len(types)], cc.cfg)
			}
		})
	}
}

func BenchmarkTaggerStrategy(b *testing.B) {
	s := strategy.NewTaggerStrategy()
	t := reflect.TypeOf(ptrTagged{})
	c := cfg()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.TryResolveTag(t, c)
	}
}
