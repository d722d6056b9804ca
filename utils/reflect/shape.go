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

package reflect

import (
	"reflect"
	"strconv"
	"strings"
)

// DefaultShapeDepth bounds how far Shape descends into nested types.
const DefaultShapeDepth = 4

// CanonicalName returns "pkgpath.Name" for named types and the reflect
// string form for everything else. Builtin named types ("int") have no
// package path and are returned as-is.
func CanonicalName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if t.Name() == "" {
		return t.String()
	}
	if p := t.PkgPath(); p != "" {
		return p + "." + t.Name()
	}
	return t.Name()
}

// Shape returns a structural signature of t: its kind and, for composite
// types, the shapes of their components. Named component types are
// rendered by canonical name rather than expanded, which also breaks
// recursive definitions. Struct tags and method sets are not part of the
// shape.
//
// If depth <= 0, DefaultShapeDepth is used.
func Shape(t reflect.Type, depth int) string {
	if t == nil {
		return ""
	}
	if depth <= 0 {
		depth = DefaultShapeDepth
	}
	var b strings.Builder
	writeShape(&b, t, depth, true)
	return b.String()
}

func writeShape(b *strings.Builder, t reflect.Type, depth int, root bool) {
	if !root && t.Name() != "" {
		b.WriteString(CanonicalName(t))
		return
	}
	if depth == 0 {
		b.WriteString(t.String())
		return
	}
	switch t.Kind() {
	case reflect.Struct:
		b.WriteString("struct{")
		for i := 0; i < t.NumField(); i++ {
			if i > 0 {
				b.WriteString("; ")
			}
			f := t.Field(i)
			if f.Anonymous {
				b.WriteString("embed ")
			}
			b.WriteString(f.Name)
			b.WriteByte(' ')
			writeShape(b, f.Type, depth-1, false)
		}
		b.WriteByte('}')
	case reflect.Ptr:
		b.WriteByte('*')
		writeShape(b, t.Elem(), depth-1, false)
	case reflect.Slice:
		b.WriteString("[]")
		writeShape(b, t.Elem(), depth-1, false)
	case reflect.Array:
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(t.Len()))
		b.WriteByte(']')
		writeShape(b, t.Elem(), depth-1, false)
	case reflect.Map:
		b.WriteString("map[")
		writeShape(b, t.Key(), depth-1, false)
		b.WriteByte(']')
		writeShape(b, t.Elem(), depth-1, false)
	case reflect.Chan:
		b.WriteString(t.ChanDir().String())
		b.WriteByte(' ')
		writeShape(b, t.Elem(), depth-1, false)
	case reflect.Func, reflect.Interface:
		b.WriteString(t.String())
	default:
		b.WriteString(t.Kind().String())
	}
}
