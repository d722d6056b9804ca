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
	"reflect"

	"dirpx.dev/dyncast/apis"
)

// NewTaggerStrategy creates an apis.TagStrategy that uses apis.Tagger.
func NewTaggerStrategy() apis.TagStrategy {
	return &taggerStrategy{}
}

// taggerStrategy asks the type itself: if T or *T implements apis.Tagger,
// TypeTag is called on a zero instance.
type taggerStrategy struct{}

// Ensure taggerStrategy implements apis.TagStrategy.
var _ apis.TagStrategy = (*taggerStrategy)(nil)

var taggerType = reflect.TypeFor[apis.Tagger]()

// TryResolveTag calls TypeTag on a zero value of t.
func (*taggerStrategy) TryResolveTag(t reflect.Type, _ apis.Config) (tag string, handled bool) {
	if t == nil || t.Kind() == reflect.Interface {
		return "", false
	}

	// A TypeTag that dereferences its receiver must not take the registry down.
	defer func() {
		if recover() != nil {
			tag, handled = "", false
		}
	}()

	var tg apis.Tagger
	switch {
	case t.Kind() != reflect.Pointer && t.Implements(taggerType):
		tg, _ = reflect.Zero(t).Interface().(apis.Tagger)
	case reflect.PointerTo(t).Implements(taggerType):
		tg, _ = reflect.New(t).Interface().(apis.Tagger)
	}
	if tg == nil {
		return "", false
	}
	tag = tg.TypeTag()
	return tag, tag != ""
}
