// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argv decodes a free-form argument vector into named options and a
// default bucket of positional values.
//
// The grammar is deliberately loose:
//
//	--           route following values to the default bucket
//	--name       declare an option; following values accumulate on it
//	-5           a negative integer value, appended to the current target
//	-xyz         short flags x, y and z, each set to true; following values
//	             accumulate on all of them
//	anything     a value, coerced by value.Coerce
//
// An option with exactly one value collapses to that value, an option with
// several is a list and an option declared without values is an empty list.
// Negative decimals such as -3.5 are not recognised and parse as short flags.
package argv

import (
	"errors"
	"fmt"
	"sort"

	"github.com/yeetrun/yel/pkg/value"
)

// DefaultsKey is the reserved option name of the default bucket. It never
// appears in Arguments.Named.
const DefaultsKey = "__defaults__"

// ParseError is returned when a token cannot be coerced in strict mode.
type ParseError struct {
	Index int    // position of the token in the input
	Token string // the raw token
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("argument %d (%q): %v", e.Index, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Arguments is the result of Parse.
type Arguments struct {
	// Named holds the named options. A value is true for a bare short flag,
	// an empty list for a long option without values, the value itself for a
	// single value and a list otherwise.
	Named map[string]any

	// Defaults is the collapsed default bucket. It is only meaningful when
	// HasDefaults is set.
	Defaults    any
	HasDefaults bool
}

// Lookup returns the named option and whether it was given.
func (a *Arguments) Lookup(name string) (any, bool) {
	v, ok := a.Named[name]
	return v, ok
}

// Get returns the named option or def when it was not given.
func (a *Arguments) Get(name string, def any) any {
	if v, ok := a.Named[name]; ok {
		return v
	}
	return def
}

func (a *Arguments) Has(name string) bool {
	_, ok := a.Named[name]
	return ok
}

func (a *Arguments) Len() int { return len(a.Named) }

// Names returns the option names in ascending order.
func (a *Arguments) Names() []string {
	names := make([]string, 0, len(a.Named))
	for k := range a.Named {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Map returns a copy of the named options with the default bucket stored
// under DefaultsKey when present.
func (a *Arguments) Map() map[string]any {
	m := make(map[string]any, len(a.Named)+1)
	for k, v := range a.Named {
		m[k] = v
	}
	if a.HasDefaults {
		m[DefaultsKey] = a.Defaults
	}
	return m
}

// Parser holds the per-command parse settings.
type Parser struct {
	// Aliases expands short option letters to long option names. Letters
	// without an entry name themselves.
	Aliases map[rune]string

	// Strict makes value coercion fail on invalid JSON instead of keeping
	// the raw token.
	Strict bool
}

// Parse is shorthand for (&Parser{Aliases: aliases, Strict: strict}).Parse(tokens).
func Parse(tokens []string, aliases map[rune]string, strict bool) (*Arguments, error) {
	p := &Parser{Aliases: aliases, Strict: strict}
	return p.Parse(tokens)
}

// slots maps an option name to either true (short flag) or []any.
type slots map[string]any

// Parse decodes tokens in a single left to right pass.
func (p *Parser) Parse(tokens []string) (*Arguments, error) {
	vals := make(slots)
	target := []string{DefaultsKey}

	for i, tok := range tokens {
		switch {
		case tok == "--":
			target = []string{DefaultsKey}

		case len(tok) > 2 && tok[:2] == "--":
			name := tok[2:]
			if _, ok := vals[name].([]any); !ok {
				vals[name] = []any{}
			}
			target = []string{name}

		case len(tok) > 1 && tok[0] == '-':
			if isDigits(tok[1:]) {
				if err := p.add(vals, target, i, tok); err != nil {
					return nil, err
				}
				continue
			}
			target = p.expandShort(vals, tok[1:])

		default:
			if err := p.add(vals, target, i, tok); err != nil {
				return nil, err
			}
		}
	}
	return vals.collapse(), nil
}

// expandShort sets every flag in letters to true and returns them as the
// new composite target.
func (p *Parser) expandShort(vals slots, letters string) []string {
	target := make([]string, 0, len(letters))
	seen := make(map[string]bool, len(letters))
	for _, r := range letters {
		name, ok := p.Aliases[r]
		if !ok {
			name = string(r)
		}
		vals[name] = true
		if !seen[name] {
			seen[name] = true
			target = append(target, name)
		}
	}
	return target
}

func (p *Parser) add(vals slots, target []string, index int, tok string) error {
	v, err := value.Coerce(tok, p.Strict)
	if err != nil {
		return &ParseError{Index: index, Token: tok, Err: err}
	}
	for _, name := range target {
		if list, ok := vals[name].([]any); ok {
			vals[name] = append(list, v)
		} else {
			vals[name] = []any{v}
		}
	}
	return nil
}

func (s slots) collapse() *Arguments {
	args := &Arguments{Named: make(map[string]any, len(s))}
	for name, v := range s {
		if list, ok := v.([]any); ok && len(list) == 1 {
			v = list[0]
		}
		if name == DefaultsKey {
			args.Defaults = v
			args.HasDefaults = true
			continue
		}
		args.Named[name] = v
	}
	return args
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsParseError reports whether err came from Parse.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
