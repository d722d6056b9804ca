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

package apis

import (
	"fmt"
	"strings"
)

// Access is the borrow mode a handle grants or a cast requests.
//
// Modes are ordered Shared < Mutable < Owned. A handle's mode is an upper
// bound: it can satisfy any request at or below it and nothing above it.
// Go does not enforce read-only references; Shared is a contract honored by
// the engine, which never upgrades a handle.
type Access int

const (
	// Shared grants read access through a borrowed reference.
	Shared Access = iota

	// Mutable grants exclusive write access through a borrowed reference.
	Mutable

	// Owned transfers ownership of the value to the next holder.
	Owned
)

// String returns the canonical lowercase name of the mode.
func (a Access) String() string {
	switch a {
	case Shared:
		return "shared"
	case Mutable:
		return "mutable"
	case Owned:
		return "owned"
	default:
		return fmt.Sprintf("Unknown(%d)", int(a))
	}
}

// Valid reports whether a is one of the declared modes.
func (a Access) Valid() bool {
	return a >= Shared && a <= Owned
}

// Allows reports whether a handle granting a can serve a request for req.
func (a Access) Allows(req Access) bool {
	return a.Valid() && req.Valid() && req <= a
}

// ParseAccess converts a string into an Access (case-insensitive).
// Surrounding whitespace is ignored.
func ParseAccess(s string) (Access, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Shared, fmt.Errorf("access: empty mode")
	}

	switch strings.ToLower(trimmed) {
	case "shared":
		return Shared, nil
	case "mutable":
		return Mutable, nil
	case "owned":
		return Owned, nil
	default:
		return Shared, fmt.Errorf("access: unknown mode %q", s)
	}
}

// MustParseAccess is like ParseAccess but panics on error.
func MustParseAccess(s string) Access {
	a, err := ParseAccess(s)
	if err != nil {
		panic(err)
	}
	return a
}

// MarshalText implements encoding.TextMarshaler.
func (a Access) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("access: cannot marshal unknown mode %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Access) UnmarshalText(text []byte) error {
	v, err := ParseAccess(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
