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

// Package errors defines the failure taxonomy shared by the registry, the
// cast engine and the codec.
//
// Every failure carries a Kind. Kinds fall into two classes:
//
//   - ClassFatal: registration-time inconsistencies (duplicate types, tags or
//     implementations, registering after freeze) and programming errors that
//     surface at runtime (a handle to a type that was never registered).
//     These should abort startup or fail the operation loudly.
//
//   - ClassRecoverable: expected outcomes in normal control flow (the
//     requested capability is not available, the payload came from a build
//     that registered types this process does not know). Callers branch on
//     them and fall back.
//
// Callers use the standard library to inspect errors:
//
//	if errors.Is(err, dcerrors.ErrNoImplementation) { ... }
//	if dcerrors.IsRecoverable(err) { ... }
package errors
