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

// Package strategy provides the tag strategies consulted, in order, when a
// type descriptor is registered without an explicit tag:
//
//   - overrides: Config.TagOverrides keyed by canonical type name,
//   - tagger: the type's own apis.Tagger implementation,
//   - reflect: a derived "pkg.Type" tag, opt-in through Config.DeriveTags.
//
// Strategies are stateless and safe for concurrent use.
package strategy
