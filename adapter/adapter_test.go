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

package adapter_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/dyncast/adapter"
	"dirpx.dev/dyncast/apis"
)

type counter struct{ n int }

func (c *counter) Inc() { c.n++ }

func (c *counter) Get() int { return c.n }

func (c counter) String() string { return fmt.Sprint(c.n) }

type incrementer interface{ Inc() }

type getter interface{ Get() int }

type labelled struct{ c *counter }

func (l labelled) Get() int { return l.c.n * 10 }

func TestNew_AllModesByDefault(t *testing.T) {
	e, err := adapter.New[counter, incrementer]()
	require.NoError(t, err)
	assert.Equal(t, []apis.Access{apis.Shared, apis.Mutable, apis.Owned}, e.Modes())

	c := &counter{}
	v, ok := e.Mutable(c)
	require.True(t, ok)
	v.(incrementer).Inc()
	assert.Equal(t, 1, c.n, "the view shares the underlying value")
}

func TestNew_SelectedModes(t *testing.T) {
	e := adapter.Of[counter, fmt.Stringer](apis.Shared)
	assert.Equal(t, []apis.Access{apis.Shared}, e.Modes())

	v, ok := e.Shared(&counter{n: 3})
	require.True(t, ok)
	assert.Equal(t, "3", v.(fmt.Stringer).String())
}

func TestNew_WrongReference(t *testing.T) {
	e := adapter.Of[counter, incrementer]()

	_, ok := e.Shared(counter{})
	assert.False(t, ok, "value instead of pointer")
	_, ok = e.Shared((*counter)(nil))
	assert.False(t, ok)
	_, ok = e.Shared("nope")
	assert.False(t, ok)
}

func TestNew_Errors(t *testing.T) {
	_, err := adapter.New[counter, counter]()
	assert.ErrorContains(t, err, "not an interface")

	_, err = adapter.New[labelled, incrementer]()
	assert.ErrorContains(t, err, "does not implement")

	assert.Panics(t, func() { adapter.Of[labelled, incrementer]() })
}

func TestFunc(t *testing.T) {
	e := adapter.Func(func(c *counter) getter { return labelled{c} }, apis.Shared, apis.Owned)
	assert.Equal(t, []apis.Access{apis.Shared, apis.Owned}, e.Modes())

	v, ok := e.Owned(&counter{n: 2})
	require.True(t, ok)
	assert.Equal(t, 20, v.(getter).Get())

	_, ok = e.Shared(&labelled{})
	assert.False(t, ok)

	assert.Panics(t, func() { adapter.Func[counter, getter](nil) })
}

func TestIdentity(t *testing.T) {
	e := adapter.Identity()
	c := &counter{}
	for _, m := range []apis.Access{apis.Shared, apis.Mutable, apis.Owned} {
		v, ok := e.For(m)(c)
		require.True(t, ok)
		assert.Same(t, c, v)
	}
	_, ok := e.Shared(nil)
	assert.False(t, ok)
}
