// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package parseargs

import (
	"fmt"
	"slices"

	"tailscale.com/util/mak"
)

type valueKind uint8

const (
	valBool valueKind = iota + 1
	valString
	valList
)

// Value is a parsed option value. It is exactly one of a boolean, a string
// (which may be an explicit null, as produced by "--name="), or an ordered
// list of strings.
type Value struct {
	kind valueKind
	b    bool
	s    *string
	list []string
}

// BoolValue returns a boolean Value.
func BoolValue(b bool) Value { return Value{kind: valBool, b: b} }

// StringValue returns a non-null string Value.
func StringValue(s string) Value { return Value{kind: valString, s: &s} }

// NullValue returns the explicit empty string value produced by "--name=".
func NullValue() Value { return Value{kind: valString} }

// ListValue returns a list Value holding a copy of items.
func ListValue(items ...string) Value {
	return Value{kind: valList, list: append([]string{}, items...)}
}

func (v Value) IsBool() bool { return v.kind == valBool }
func (v Value) IsString() bool { return v.kind == valString && v.s != nil }
func (v Value) IsNull() bool { return v.kind == valString && v.s == nil }
func (v Value) IsList() bool { return v.kind == valList }

// Bool returns the boolean held by v and whether v is a boolean.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == valBool
}

// Str returns the string held by v and whether v is a non-null string.
func (v Value) Str() (string, bool) {
	if !v.IsString() {
		return "", false
	}
	return *v.s, true
}

// List returns a copy of the list held by v, or nil if v is not a list.
func (v Value) List() []string {
	if v.kind != valList {
		return nil
	}
	return slices.Clone(v.list)
}

// Any converts v to a plain Go value: bool, string, nil or []string.
func (v Value) Any() any {
	switch v.kind {
	case valBool:
		return v.b
	case valString:
		if v.s == nil {
			return nil
		}
		return *v.s
	case valList:
		return slices.Clone(v.list)
	}
	return nil
}

// Equal reports whether v and o hold the same variant and contents.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case valBool:
		return v.b == o.b
	case valString:
		if v.s == nil || o.s == nil {
			return v.s == o.s
		}
		return *v.s == *o.s
	case valList:
		return slices.Equal(v.list, o.list)
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case valBool:
		return fmt.Sprint(v.b)
	case valString:
		if v.s == nil {
			return "null"
		}
		return fmt.Sprintf("%q", *v.s)
	case valList:
		return fmt.Sprintf("%q", v.list)
	}
	return "<unset>"
}

// set reports whether v counts as "already set" for duplicate detection.
// An explicit null does not.
func (v Value) set() bool {
	return v.kind != 0 && !v.IsNull()
}

// Result is the outcome of Parse.
type Result struct {
	// Positional holds non-flag tokens and everything after "--", in order.
	Positional []string
	// Options maps canonical option names to their values.
	Options map[string]Value
}

// Get returns the value of the named option.
func (r *Result) Get(name string) (Value, bool) {
	v, ok := r.Options[name]
	return v, ok
}

// Map returns the options as plain Go values, see Value.Any.
// Positional arguments are not included.
func (r *Result) Map() map[string]any {
	m := make(map[string]any, len(r.Options))
	for k, v := range r.Options {
		m[k] = v.Any()
	}
	return m
}

func (r *Result) put(name string, v Value) {
	mak.Set(&r.Options, name, v)
}

func (r *Result) isSet(name string) bool {
	return r.Options[name].set()
}
