// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package parseargs classifies a raw CLI token sequence into positional
// arguments and typed option values according to a Grammar.
//
// Parsing is a single left-to-right pass. Structurally invalid input yields a
// *clierr.Error, except when the tokens contain "-h" or "--help", in which
// case the result built so far is returned without an error.
package parseargs

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/yeetrun/sls/pkg/clierr"
	"tailscale.com/util/set"
)

const (
	helpFlagLong  = "--help"
	helpFlagShort = "-h"
	terminator    = "--"
	negatePrefix  = "no-"
)

// Kind is the declared shape of an option.
type Kind uint8

const (
	KindBoolean Kind = iota + 1
	KindString
	KindMultiple
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindMultiple:
		return "multiple"
	}
	return "unknown"
}

// Grammar describes how flags are interpreted. It is read-only during Parse.
//
// A name may appear in more than one set; Kind resolves it with the
// precedence multiple > string > boolean. Names in no set are free-form.
type Grammar struct {
	Boolean  set.Set[string]
	String   set.Set[string]
	Multiple set.Set[string]
	// Alias maps single-character short names to canonical long names.
	Alias map[string]string
}

// Kind returns the declared kind of name, if any.
func (g Grammar) Kind(name string) (Kind, bool) {
	switch {
	case g.Multiple.Contains(name):
		return KindMultiple, true
	case g.String.Contains(name):
		return KindString, true
	case g.Boolean.Contains(name):
		return KindBoolean, true
	}
	return 0, false
}

func (g Grammar) resolveAlias(short string) string {
	if long, ok := g.Alias[short]; ok && long != "" {
		return long
	}
	return short
}

// flagToken is a decomposed flag: either a long name or a cluster of short
// names, with an optional inline "=value".
type flagToken struct {
	raw      string
	name     string
	long     bool
	value    string
	hasValue bool
}

// splitFlag decomposes tok if it has flag syntax: --name, --name=value, -x,
// -xyz or -x=value. A lone "-" and "--=v" are not flags.
func splitFlag(tok string) (flagToken, bool) {
	if body, ok := strings.CutPrefix(tok, "--"); ok {
		name, value, hasValue := strings.Cut(body, "=")
		if name == "" {
			return flagToken{}, false
		}
		return flagToken{raw: tok, name: name, long: true, value: value, hasValue: hasValue}, true
	}
	if body, ok := strings.CutPrefix(tok, "-"); ok {
		names, value, hasValue := strings.Cut(body, "=")
		if names == "" {
			return flagToken{}, false
		}
		return flagToken{raw: tok, name: names, value: value, hasValue: hasValue}, true
	}
	return flagToken{}, false
}

func looksLikeFlag(tok string) bool {
	_, ok := splitFlag(tok)
	return ok
}

// hasHelpMarker reports whether tokens request help anywhere.
func hasHelpMarker(tokens []string) bool {
	return slices.Contains(tokens, helpFlagLong) || slices.Contains(tokens, helpFlagShort)
}

func displayName(name string) string {
	if utf8.RuneCountInString(name) == 1 {
		return "-" + name
	}
	return "--" + name
}

func missingValue(name string) error {
	return clierr.New(clierr.MissingParamValue, "Missing value for CLI parameter %q", displayName(name))
}

func unexpectedValue(param string) error {
	return clierr.New(clierr.UnexpectedParamValue, "Unexpected value for CLI parameter %q", param)
}

func multipleValues(name string) error {
	return clierr.New(clierr.UnexpectedMultipleValue, "Unexpected multiple values for CLI parameter %q", displayName(name))
}

// Parse classifies tokens (the argument vector without program and command
// name) according to g.
//
// Rules, in order, for each token:
//   - "--" appends every following token to Positional and stops.
//   - tokens without flag syntax are appended to Positional.
//   - a short cluster (-abc) sets each resolved alias to true.
//   - a single short alias is resolved to its long name.
//   - string and multiple options take the inline value or consume the
//     next token; "--name=" yields an explicit null.
//   - "--no-name" sets name to false when name is boolean or no value follows.
//   - boolean options, and any option with no value available, become true.
//   - other options take a value; repeats collect into a list.
func Parse(tokens []string, g Grammar) (*Result, error) {
	p := &parser{
		grammar: g,
		res:     &Result{Positional: []string{}},
	}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok == terminator {
			p.res.Positional = append(p.res.Positional, tokens[i+1:]...)
			break
		}
		f, ok := splitFlag(tok)
		if !ok {
			p.res.Positional = append(p.res.Positional, tok)
			continue
		}
		next := tokens[i+1:]
		consumed, err := p.apply(f, next)
		if err != nil {
			if hasHelpMarker(tokens) {
				return p.res, nil
			}
			return nil, err
		}
		if consumed {
			i++
		}
	}
	return p.res, nil
}

type parser struct {
	grammar Grammar
	res     *Result
}

// isBoolean is the lookahead test: no inline value and nothing usable as a
// value follows.
func isBoolean(f flagToken, next []string) bool {
	if f.hasValue {
		return false
	}
	if len(next) == 0 {
		return true
	}
	return next[0] == terminator || looksLikeFlag(next[0])
}

// apply records f and reports whether the following token was consumed as
// its value.
func (p *parser) apply(f flagToken, next []string) (bool, error) {
	name := f.name
	if !f.long {
		if utf8.RuneCountInString(f.name) > 1 {
			return false, p.applyCluster(f)
		}
		name = p.grammar.resolveAlias(f.name)
	}
	boolean := isBoolean(f, next)

	if kind, ok := p.grammar.Kind(name); ok && kind != KindBoolean {
		if boolean {
			return false, missingValue(name)
		}
		value, consumed := p.takeValue(f, next)
		if kind == KindMultiple {
			return consumed, p.appendMultiple(name, value)
		}
		if p.res.isSet(name) {
			return false, multipleValues(name)
		}
		p.res.put(name, value)
		return consumed, nil
	}

	if base, ok := strings.CutPrefix(name, negatePrefix); ok && base != "" &&
		(p.grammar.Boolean.Contains(base) || boolean) {
		if f.hasValue {
			return false, unexpectedValue(f.raw)
		}
		if p.res.isSet(base) {
			return false, multipleValues(base)
		}
		p.res.put(base, BoolValue(false))
		return false, nil
	}

	if p.grammar.Boolean.Contains(name) || boolean {
		if f.hasValue {
			return false, unexpectedValue(f.raw)
		}
		if p.res.isSet(name) {
			return false, multipleValues(name)
		}
		p.res.put(name, BoolValue(true))
		return false, nil
	}

	value, consumed := p.takeValue(f, next)
	return consumed, p.accumulate(name, value)
}

// takeValue returns the inline value (empty meaning null) or the next token.
// Callers guarantee a value is available.
func (p *parser) takeValue(f flagToken, next []string) (Value, bool) {
	if f.hasValue {
		if f.value == "" {
			return NullValue(), false
		}
		return StringValue(f.value), false
	}
	return StringValue(next[0]), true
}

func (p *parser) appendMultiple(name string, v Value) error {
	item, _ := v.Str()
	existing, ok := p.res.Options[name]
	switch {
	case !ok || existing.IsNull():
		p.res.put(name, ListValue(item))
	case existing.IsList():
		p.res.put(name, ListValue(append(existing.list, item)...))
	default:
		// Set to true by a short cluster earlier on.
		return multipleValues(name)
	}
	return nil
}

// accumulate stores a value for a free-form option. A repeat turns the value
// into a list, but a value that started out boolean cannot become a list.
func (p *parser) accumulate(name string, v Value) error {
	existing, ok := p.res.Options[name]
	switch {
	case !ok || existing.IsNull():
		p.res.put(name, v)
	case existing.IsBool():
		return multipleValues(name)
	case existing.IsList():
		item, _ := v.Str()
		p.res.put(name, ListValue(append(existing.list, item)...))
	default:
		prev, _ := existing.Str()
		item, _ := v.Str()
		p.res.put(name, ListValue(prev, item))
	}
	return nil
}

func (p *parser) applyCluster(f flagToken) error {
	if f.hasValue {
		return unexpectedValue(f.raw)
	}
	for _, r := range f.name {
		name := p.grammar.resolveAlias(string(r))
		// Multiple options always hold lists. A string option is set to
		// true and left for the validator to reject.
		if kind, ok := p.grammar.Kind(name); ok && kind == KindMultiple {
			return missingValue(name)
		}
		if p.res.isSet(name) {
			return multipleValues(name)
		}
		p.res.put(name, BoolValue(true))
	}
	return nil
}
