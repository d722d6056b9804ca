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

// Package testutil holds the shapes fixture shared by package tests.
//
// Circle implements Shape (shared and mutable) and Drawable (shared only).
// Square implements only Shape (shared only). Celsius is a non-struct type,
// Opaque has no serialization hooks, and Canvas is never registered.
package testutil

import (
	"fmt"
	"math"

	"dirpx.dev/dyncast/adapter"
	"dirpx.dev/dyncast/apis"
	"dirpx.dev/dyncast/hooks"
	"dirpx.dev/dyncast/identity"
)

// Tags used by Register.
const (
	CircleTag  = "shapes.Circle"
	SquareTag  = "shapes.Square"
	CelsiusTag = "units.celsius"
	OpaqueTag  = "misc.Opaque"
)

type Shape interface {
	Area() float64
	Scale(f float64)
}

type Drawable interface {
	Draw() string
}

// Unused is implemented by nothing registered.
type Unused interface {
	Unused()
}

type Circle struct {
	Radius float64 `json:"radius" yaml:"radius" msgpack:"radius"`
}

func (c *Circle) Area() float64   { return math.Pi * c.Radius * c.Radius }
func (c *Circle) Scale(f float64) { c.Radius *= f }
func (c *Circle) Draw() string    { return fmt.Sprintf("circle(r=%g)", c.Radius) }

type Square struct {
	Side float64 `json:"side" yaml:"side" msgpack:"side"`
}

func (s *Square) Area() float64   { return s.Side * s.Side }
func (s *Square) Scale(f float64) { s.Side *= f }

// Draw exists but Square never registers Drawable, so casts must not find it.
func (s *Square) Draw() string { return fmt.Sprintf("square(s=%g)", s.Side) }

type Celsius float64

func (c *Celsius) Draw() string { return fmt.Sprintf("%g°C", float64(*c)) }

type Opaque struct{ N int }

// Canvas is a concrete type that is never registered.
type Canvas struct{}

// Identities of the fixture.
var (
	CircleID   = identity.Of[Circle]()
	SquareID   = identity.Of[Square]()
	CelsiusID  = identity.Of[Celsius]()
	OpaqueID   = identity.Of[Opaque]()
	CanvasID   = identity.Of[Canvas]()
	ShapeID    = identity.InterfaceOf[Shape]()
	DrawableID = identity.InterfaceOf[Drawable]()
	UnusedID   = identity.InterfaceOf[Unused]()
)

// Register records the whole fixture in reg without freezing it.
func Register(reg apis.Registry) error {
	types := []apis.TypeDescriptor{
		{ID: CircleID, Tag: CircleTag, Hooks: hooks.JSON[Circle]()},
		{ID: SquareID, Tag: SquareTag, Hooks: hooks.JSON[Square]()},
		{ID: CelsiusID, Tag: CelsiusTag, Hooks: hooks.JSON[Celsius]()},
		{ID: OpaqueID, Tag: OpaqueTag},
	}
	for _, d := range types {
		if err := reg.RegisterType(d); err != nil {
			return err
		}
	}

	impls := []struct {
		t identity.TypeID
		i identity.InterfaceID
		e apis.AdapterEntry
	}{
		{CircleID, ShapeID, adapter.Of[Circle, Shape](apis.Shared, apis.Mutable)},
		{CircleID, DrawableID, adapter.Of[Circle, Drawable](apis.Shared)},
		{SquareID, ShapeID, adapter.Of[Square, Shape](apis.Shared)},
		{CelsiusID, DrawableID, adapter.Of[Celsius, Drawable]()},
	}
	for _, im := range impls {
		if err := reg.RegisterImpl(im.t, im.i, im.e); err != nil {
			return err
		}
	}
	return nil
}
