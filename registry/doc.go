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

// Package registry implements apis.Registry with a two-phase lifecycle.
//
// While accepting registrations, all access is serialized by a mutex and
// descriptors are replaced copy-on-write, so pointers handed out are never
// mutated. Freeze publishes the tables as an immutable snapshot through an
// atomic pointer; every read after that is lock-free.
package registry
