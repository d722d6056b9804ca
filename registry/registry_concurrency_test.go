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

package registry_test

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dyncast/apis"
	derr "dirpx.dev/dyncast/errors"
	"dirpx.dev/dyncast/identity"
	"dirpx.dev/dyncast/internal/testutil"
)

// A few named types to avoid anonymous/unnamed pitfalls.
type T0 struct{}
type T1 struct{}
type T2 struct{}
type T3 struct{}
type T4 struct{}
type T5 struct{}
type T6 struct{}
type T7 struct{}
type T8 struct{}
type T9 struct{}

var hammerTypes = []reflect.Type{
	reflect.TypeFor[T0](), reflect.TypeFor[T1](), reflect.TypeFor[T2](),
	reflect.TypeFor[T3](), reflect.TypeFor[T4](), reflect.TypeFor[T5](),
	reflect.TypeFor[T6](), reflect.TypeFor[T7](), reflect.TypeFor[T8](),
	reflect.TypeFor[T9](),
}

// TestConcurrentLookupsAfterFreeze verifies that lookups are race-free and
// consistent under concurrent use once frozen.
func TestConcurrentLookupsAfterFreeze(t *testing.T) {
	reg := fixture(t)
	require.True(t, reg.Freeze())

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				d, ok := reg.LookupType(testutil.CircleID)
				if !ok || d.Tag != testutil.CircleTag {
					t.Errorf("LookupType(Circle) = (%v, %v)", d, ok)
					return
				}
				if _, ok := reg.LookupAdapter(testutil.CircleID, testutil.DrawableID, apis.Shared); !ok {
					t.Error("missing Circle/Drawable shared adapter")
					return
				}
				if _, ok := reg.LookupAdapter(testutil.SquareID, testutil.DrawableID, apis.Shared); ok {
					t.Error("unexpected Square/Drawable adapter")
					return
				}
				_ = reg.Count()
				_ = reg.Types()
			}
		}()
	}
	wg.Wait()
}

// TestConcurrentFreeze ensures exactly one caller performs the transition.
func TestConcurrentFreeze(t *testing.T) {
	reg := fixture(t)

	var wins atomic.Int32
	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	start := make(chan struct{})
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			<-start
			if reg.Freeze() {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.True(t, reg.Frozen())
}

// TestConcurrentRegisterRacingFreeze registers distinct types while another
// goroutine freezes. Every registration either lands or fails RegistryFrozen.
func TestConcurrentRegisterRacingFreeze(t *testing.T) {
	reg := newRegistry(t, apis.Config{})

	var landed atomic.Int32
	wg := sync.WaitGroup{}
	wg.Add(len(hammerTypes) + 1)
	for i, rt := range hammerTypes {
		go func() {
			defer wg.Done()
			id, err := identity.FromType(rt)
			if err != nil {
				t.Errorf("FromType(%v): %v", rt, err)
				return
			}
			err = reg.RegisterType(apis.TypeDescriptor{ID: id, Tag: fmt.Sprintf("T%d", i)})
			switch {
			case err == nil:
				landed.Add(1)
			case derr.KindOf(err) != derr.KindRegistryFrozen:
				t.Errorf("RegisterType(%v): unexpected %v", rt, err)
			}
		}()
	}
	go func() {
		defer wg.Done()
		runtime.Gosched()
		reg.Freeze()
	}()
	wg.Wait()

	assert.Equal(t, int(landed.Load()), reg.Count())
	assert.Len(t, reg.Types(), reg.Count())
}

// TestConcurrentRegisterAndLookup hammers the building phase.
func TestConcurrentRegisterAndLookup(t *testing.T) {
	reg := newRegistry(t, apis.Config{})
	ids := make([]identity.TypeID, len(hammerTypes))
	for i, rt := range hammerTypes {
		id, err := identity.FromType(rt)
		require.NoError(t, err)
		ids[i] = id
	}

	wg := sync.WaitGroup{}
	workers := runtime.GOMAXPROCS(0) * 4
	wg.Add(workers * 2)
	for w := 0; w < workers; w++ {
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				j := (i + id) % len(ids)
				err := reg.RegisterType(apis.TypeDescriptor{ID: ids[j], Tag: fmt.Sprintf("T%d", j)})
				if err != nil && derr.KindOf(err) != derr.KindDuplicateType {
					t.Errorf("RegisterType: %v", err)
					return
				}
			}
		}(w)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				j := (i + id) % len(ids)
				if d, ok := reg.LookupType(ids[j]); ok && d.Tag != fmt.Sprintf("T%d", j) {
					t.Errorf("tag mismatch for %v: %q", ids[j], d.Tag)
					return
				}
				_ = reg.Count()
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, len(ids), reg.Count())
}
