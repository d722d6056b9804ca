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

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one failure in the taxonomy.
type Kind int

const (
	// KindUnknown is the kind of errors that did not originate here.
	KindUnknown Kind = iota

	// Registration-time kinds.

	KindDuplicateType
	KindDuplicateTag
	KindDuplicateImplementation
	KindUnknownType
	KindRegistryFrozen
	KindIdentityCollision
	KindInvalidDescriptor

	// Cast-time kinds.

	KindTypeMismatch
	KindNoImplementation
	KindAccessModeUnsupported
	KindUnregisteredType
	KindHandleConsumed

	// Codec-time kinds.

	KindUnknownTag
	KindMalformedPayload
	KindNotSerializable
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindDuplicateType:
		return "duplicate_type"
	case KindDuplicateTag:
		return "duplicate_tag"
	case KindDuplicateImplementation:
		return "duplicate_implementation"
	case KindUnknownType:
		return "unknown_type"
	case KindRegistryFrozen:
		return "registry_frozen"
	case KindIdentityCollision:
		return "identity_collision"
	case KindInvalidDescriptor:
		return "invalid_descriptor"
	case KindTypeMismatch:
		return "type_mismatch"
	case KindNoImplementation:
		return "no_implementation"
	case KindAccessModeUnsupported:
		return "access_mode_unsupported"
	case KindUnregisteredType:
		return "unregistered_type"
	case KindHandleConsumed:
		return "handle_consumed"
	case KindUnknownTag:
		return "unknown_tag"
	case KindMalformedPayload:
		return "malformed_payload"
	case KindNotSerializable:
		return "not_serializable"
	default:
		return "unknown"
	}
}

// Class groups kinds by how callers are expected to react.
type Class int

const (
	// ClassFatal marks build or programming inconsistencies.
	ClassFatal Class = iota
	// ClassRecoverable marks outcomes callers are expected to branch on.
	ClassRecoverable
)

// String returns the string representation of Class.
func (c Class) String() string {
	switch c {
	case ClassFatal:
		return "fatal"
	case ClassRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// Class returns the class of k. Unknown kinds are fatal.
func (k Kind) Class() Class {
	switch k {
	case KindTypeMismatch, KindNoImplementation, KindAccessModeUnsupported,
		KindUnknownTag, KindMalformedPayload:
		return ClassRecoverable
	default:
		return ClassFatal
	}
}

// Sentinel errors, one per kind. *Error values match the sentinel of their
// kind under errors.Is.
var (
	ErrDuplicateType           = errors.New("dyncast: duplicate type")
	ErrDuplicateTag            = errors.New("dyncast: duplicate serialize tag")
	ErrDuplicateImplementation = errors.New("dyncast: duplicate interface implementation")
	ErrUnknownType             = errors.New("dyncast: unknown type")
	ErrRegistryFrozen          = errors.New("dyncast: registry frozen")
	ErrIdentityCollision       = errors.New("dyncast: type identity collision")
	ErrInvalidDescriptor       = errors.New("dyncast: invalid descriptor")

	ErrTypeMismatch          = errors.New("dyncast: type mismatch")
	ErrNoImplementation      = errors.New("dyncast: no implementation")
	ErrAccessModeUnsupported = errors.New("dyncast: access mode unsupported")
	ErrUnregisteredType      = errors.New("dyncast: unregistered type")
	ErrHandleConsumed        = errors.New("dyncast: handle consumed")

	ErrUnknownTag       = errors.New("dyncast: unknown tag")
	ErrMalformedPayload = errors.New("dyncast: malformed payload")
	ErrNotSerializable  = errors.New("dyncast: type not serializable")
)

var sentinels = map[Kind]error{
	KindDuplicateType:           ErrDuplicateType,
	KindDuplicateTag:            ErrDuplicateTag,
	KindDuplicateImplementation: ErrDuplicateImplementation,
	KindUnknownType:             ErrUnknownType,
	KindRegistryFrozen:          ErrRegistryFrozen,
	KindIdentityCollision:       ErrIdentityCollision,
	KindInvalidDescriptor:       ErrInvalidDescriptor,
	KindTypeMismatch:            ErrTypeMismatch,
	KindNoImplementation:        ErrNoImplementation,
	KindAccessModeUnsupported:   ErrAccessModeUnsupported,
	KindUnregisteredType:        ErrUnregisteredType,
	KindHandleConsumed:          ErrHandleConsumed,
	KindUnknownTag:              ErrUnknownTag,
	KindMalformedPayload:        ErrMalformedPayload,
	KindNotSerializable:         ErrNotSerializable,
}

// Sentinel returns the sentinel error of k, or nil for KindUnknown.
func (k Kind) Sentinel() error {
	return sentinels[k]
}

// Error is a classified failure with the context it happened in.
type Error struct {
	// Kind is the taxonomy entry.
	Kind Kind
	// Op is the operation that failed (e.g. "Registry.RegisterType", "Engine.Cast").
	Op string
	// Type is the display name of the concrete type involved, if any.
	Type string
	// Interface is the display name of the interface involved, if any.
	Interface string
	// Tag is the serialize tag involved, if any.
	Tag string
	// Detail is an optional human-readable note.
	Detail string
	// Err is the nested cause, if any.
	Err error
}

// New returns an *Error of the given kind for op.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// WithType sets the concrete type and returns e.
func (e *Error) WithType(name string) *Error { e.Type = name; return e }

// WithInterface sets the interface and returns e.
func (e *Error) WithInterface(name string) *Error { e.Interface = name; return e }

// WithTag sets the serialize tag and returns e.
func (e *Error) WithTag(tag string) *Error { e.Tag = tag; return e }

// WithDetail sets a formatted detail note and returns e.
func (e *Error) WithDetail(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// Wrap sets the nested cause and returns e.
func (e *Error) Wrap(err error) *Error { e.Err = err; return e }

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	if s := e.Kind.Sentinel(); s != nil {
		b.WriteString(s.Error())
	} else {
		b.WriteString("dyncast: error")
	}
	if e.Op != "" {
		b.WriteString(" in ")
		b.WriteString(e.Op)
	}
	var parts []string
	if e.Type != "" {
		parts = append(parts, "type="+e.Type)
	}
	if e.Interface != "" {
		parts = append(parts, "interface="+e.Interface)
	}
	if e.Tag != "" {
		parts = append(parts, fmt.Sprintf("tag=%q", e.Tag))
	}
	if len(parts) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(parts, " "))
		b.WriteByte(')')
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the nested cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && s == target
}

// KindOf returns the kind of the first *Error in err's chain, or the kind of
// a bare sentinel, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for k, s := range sentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return KindUnknown
}

// IsFatal reports whether err is a classified fatal failure.
func IsFatal(err error) bool {
	k := KindOf(err)
	return k != KindUnknown && k.Class() == ClassFatal
}

// IsRecoverable reports whether err is a classified recoverable failure.
func IsRecoverable(err error) bool {
	k := KindOf(err)
	return k != KindUnknown && k.Class() == ClassRecoverable
}

// Outcome returns a stable label for err suitable for metrics:
// "ok" for nil, the kind name otherwise.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return KindOf(err).String()
}
