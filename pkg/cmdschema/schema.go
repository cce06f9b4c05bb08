// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmdschema describes the options each CLI command accepts and
// validates parsed options against those descriptions.
package cmdschema

import (
	"fmt"
	"sort"
	"strings"
)

// OptionType is the declared value type of an option.
type OptionType uint8

const (
	TypeString OptionType = iota + 1
	TypeBoolean
	TypeNumber
	// TypeMultiple options accept repeated values collected into a list.
	TypeMultiple
	// TypeArray options are free-form lists validated elsewhere.
	TypeArray
)

var optionTypeNames = map[OptionType]string{
	TypeString:   "string",
	TypeBoolean:  "boolean",
	TypeNumber:   "number",
	TypeMultiple: "multiple",
	TypeArray:    "array",
}

func (t OptionType) String() string {
	if s, ok := optionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("OptionType(%d)", uint8(t))
}

// ParseOptionType parses the textual form used in schema files.
func ParseOptionType(s string) (OptionType, error) {
	for t, name := range optionTypeNames {
		if strings.EqualFold(s, name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown option type %q", s)
}

// Option describes one accepted option.
type Option struct {
	Type     OptionType
	Required bool
	// Shortcut is an optional single-character alias, e.g. "s" for -s.
	Shortcut string
	Usage    string
}

// Options maps option names (without leading dashes) to their schema.
type Options map[string]Option

// Names returns the option names in sorted order.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ServiceDependency tells whether a command runs in the context of a service
// configuration file.
type ServiceDependency uint8

const (
	ServiceNone ServiceDependency = iota
	ServiceOptional
	ServiceRequired
)

func (d ServiceDependency) String() string {
	switch d {
	case ServiceOptional:
		return "optional"
	case ServiceRequired:
		return "required"
	}
	return "none"
}

// Command is the schema of a single command. Name may contain spaces for
// nested commands such as "deploy function".
type Command struct {
	Name              string
	Usage             string
	Options           Options
	ServiceDependency ServiceDependency
	Hidden            bool
}

// Registry holds every known command plus the options shared by all of them.
type Registry struct {
	Commands      map[string]*Command
	CommonOptions Options
}

// Lookup returns the schema of the named command.
func (r *Registry) Lookup(name string) (*Command, bool) {
	if r == nil {
		return nil, false
	}
	c, ok := r.Commands[name]
	return c, ok
}

// Names returns all command names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Commands))
	for name := range r.Commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve returns the schema of option for cmd, falling back to the common
// options.
func (r *Registry) Resolve(option string, cmd *Command) (Option, bool) {
	if cmd != nil {
		if o, ok := cmd.Options[option]; ok {
			return o, true
		}
	}
	if r != nil {
		if o, ok := r.CommonOptions[option]; ok {
			return o, true
		}
	}
	return Option{}, false
}
