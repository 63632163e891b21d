// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package commands

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yeetrun/yel/pkg/command"
	"github.com/yeetrun/yel/pkg/value"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// strOp is a string operation applied to every string item. Other items
// pass through unchanged. min and max bound the number of --args; max < 0
// means no limit.
type strOp struct {
	short, long string
	min, max    int
	fn          func(s string, args []any) (any, error)
}

var strOps = []strOp{
	{short: "s.upper", long: "s.uppercase", fn: noArgs(strings.ToUpper)},
	{short: "s.lower", long: "s.lowercase", fn: noArgs(strings.ToLower)},
	{short: "s.title", fn: noArgs(func(s string) string { return cases.Title(language.Und).String(s) })},
	{short: "s.startswith", min: 1, max: 1, fn: withString(strings.HasPrefix)},
	{short: "s.endswith", min: 1, max: 1, fn: withString(strings.HasSuffix)},
	{short: "s.contains", min: 1, max: 1, fn: withString(strings.Contains)},
	{short: "s.find", min: 1, max: 1, fn: find(strings.Index)},
	{short: "s.lfind", long: "s.left.find", min: 1, max: 1, fn: find(strings.Index)},
	{short: "s.rfind", long: "s.right.find", min: 1, max: 1, fn: find(strings.LastIndex)},
	{short: "s.is.alnum", fn: every(func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) })},
	{short: "s.is.alpha", fn: every(unicode.IsLetter)},
	{short: "s.is.digit", fn: every(unicode.IsDigit)},
	{short: "s.is.space", fn: every(unicode.IsSpace)},
	{short: "s.is.lower", fn: caseCheck(unicode.IsLower)},
	{short: "s.is.upper", fn: caseCheck(unicode.IsUpper)},
	{short: "s.is.title", fn: func(s string, _ []any) (any, error) { return isTitle(s), nil }},
	{short: "s.join", max: -1, fn: func(s string, args []any) (any, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i] = value.String(a)
		}
		return strings.Join(parts, s), nil
	}},
	{short: "s.replace", min: 2, max: 3, fn: replace},
	{short: "s.strip", max: 1, fn: strip(strings.TrimSpace, strings.Trim)},
	{short: "s.lstrip", long: "s.left.strip", max: 1, fn: strip(trimLeftSpace, strings.TrimLeft)},
	{short: "s.rstrip", long: "s.right.strip", max: 1, fn: strip(trimRightSpace, strings.TrimRight)},
	{short: "s.ljustify", long: "s.left.justify", min: 1, max: 2, fn: justify(true)},
	{short: "s.rjustify", long: "s.right.justify", min: 1, max: 2, fn: justify(false)},
	{short: "s.split", max: 2, fn: split},
}

func stringCommands() []command.Descriptor {
	ds := make([]command.Descriptor, 0, len(strOps))
	for _, op := range strOps {
		long := op.long
		if long == "" {
			long = op.short
		}
		ds = append(ds, command.Descriptor{
			Short:        op.short,
			Long:         long,
			Usage:        op.short + " -a ARG... -- STRING...",
			Description:  "String operation " + strings.TrimPrefix(op.short, "s."),
			ShortOptions: map[rune]string{'a': "args"},
			New:          op.factory,
		})
	}
	return ds
}

func (op strOp) factory(inv *command.Invocation) command.Command {
	return &shaped{
		inv:  inv,
		list: func(items []any) (any, error) { return op.apply(items, nil) },
		object: overDefaults(inv, true, func(items []any) (any, error) {
			return op.apply(items, inv.ListArg("args"))
		}),
		single: func(v any) (any, error) {
			out, err := op.apply([]any{v}, nil)
			if err != nil {
				return nil, err
			}
			return out[0], nil
		},
	}
}

func (op strOp) apply(items, args []any) ([]any, error) {
	if len(args) < op.min || (op.max >= 0 && len(args) > op.max) {
		return nil, command.BadRequestf("%s expects %s, got %d", op.short, op.arity(), len(args))
	}
	out := make([]any, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			out[i] = it
			continue
		}
		v, err := op.fn(s, args)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (op strOp) arity() string {
	switch {
	case op.max < 0:
		return fmt.Sprintf("at least %d arguments", op.min)
	case op.min == op.max && op.min == 1:
		return "1 argument"
	case op.min == op.max:
		return fmt.Sprintf("%d arguments", op.min)
	}
	return fmt.Sprintf("%d to %d arguments", op.min, op.max)
}

func stringArg(args []any, i int) (string, error) {
	a := args[i]
	if value.IsList(a) || value.IsObject(a) {
		return "", &command.ArgError{Name: fmt.Sprintf("argument %d", i+1), Want: "string", Got: a}
	}
	return value.String(a), nil
}

func intArg(args []any, i int) (int, error) {
	n, ok := value.AsInt(args[i])
	if !ok {
		return 0, &command.ArgError{Name: fmt.Sprintf("argument %d", i+1), Want: "integer", Got: args[i]}
	}
	return int(n), nil
}

func noArgs(f func(string) string) func(string, []any) (any, error) {
	return func(s string, _ []any) (any, error) { return f(s), nil }
}

func withString(f func(s, arg string) bool) func(string, []any) (any, error) {
	return func(s string, args []any) (any, error) {
		arg, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return f(s, arg), nil
	}
}

// find reports the position in runes, or -1.
func find(index func(s, sub string) int) func(string, []any) (any, error) {
	return func(s string, args []any) (any, error) {
		sub, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		i := index(s, sub)
		if i < 0 {
			return int64(-1), nil
		}
		return int64(utf8.RuneCountInString(s[:i])), nil
	}
}

func every(pred func(rune) bool) func(string, []any) (any, error) {
	return func(s string, _ []any) (any, error) {
		if s == "" {
			return false, nil
		}
		for _, r := range s {
			if !pred(r) {
				return false, nil
			}
		}
		return true, nil
	}
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}

// caseCheck reports whether s has a cased rune and every cased rune
// satisfies want.
func caseCheck(want func(rune) bool) func(string, []any) (any, error) {
	return func(s string, _ []any) (any, error) {
		cased := false
		for _, r := range s {
			if !isCased(r) {
				continue
			}
			if !want(r) {
				return false, nil
			}
			cased = true
		}
		return cased, nil
	}
}

// isTitle reports whether uppercase runes only follow uncased ones and
// lowercase runes only follow cased ones.
func isTitle(s string) bool {
	cased, prev := false, false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			if prev {
				return false
			}
			prev, cased = true, true
		case unicode.IsLower(r):
			if !prev {
				return false
			}
		default:
			prev = false
		}
	}
	return cased
}

func replace(s string, args []any) (any, error) {
	old, err := stringArg(args, 0)
	if err != nil {
		return nil, err
	}
	repl, err := stringArg(args, 1)
	if err != nil {
		return nil, err
	}
	n := -1
	if len(args) == 3 {
		if n, err = intArg(args, 2); err != nil {
			return nil, err
		}
	}
	return strings.Replace(s, old, repl, n), nil
}

func trimLeftSpace(s string) string  { return strings.TrimLeftFunc(s, unicode.IsSpace) }
func trimRightSpace(s string) string { return strings.TrimRightFunc(s, unicode.IsSpace) }

func strip(space func(string) string, chars func(s, cutset string) string) func(string, []any) (any, error) {
	return func(s string, args []any) (any, error) {
		if len(args) == 0 || args[0] == nil {
			return space(s), nil
		}
		cutset, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		return chars(s, cutset), nil
	}
}

func justify(left bool) func(string, []any) (any, error) {
	return func(s string, args []any) (any, error) {
		width, err := intArg(args, 0)
		if err != nil {
			return nil, err
		}
		fill := " "
		if len(args) == 2 {
			if fill, err = stringArg(args, 1); err != nil {
				return nil, err
			}
			if utf8.RuneCountInString(fill) != 1 {
				return nil, command.BadRequestf("fill character must be exactly one character, got: %q", fill)
			}
		}
		pad := width - utf8.RuneCountInString(s)
		if pad <= 0 {
			return s, nil
		}
		if left {
			return s + strings.Repeat(fill, pad), nil
		}
		return strings.Repeat(fill, pad) + s, nil
	}
}

// split splits on runs of white space without a separator, and on the
// separator otherwise. An optional second argument caps the number of
// splits.
func split(s string, args []any) (any, error) {
	limit := -1
	if len(args) == 2 {
		n, err := intArg(args, 1)
		if err != nil {
			return nil, err
		}
		limit = n
	}
	var parts []string
	if len(args) == 0 || args[0] == nil {
		parts = splitFields(s, limit)
	} else {
		sep, err := stringArg(args, 0)
		if err != nil {
			return nil, err
		}
		if sep == "" {
			return nil, command.BadRequestf("empty separator")
		}
		if limit < 0 {
			parts = strings.Split(s, sep)
		} else {
			parts = strings.SplitN(s, sep, limit+1)
		}
	}
	return stringsToList(parts), nil
}

func splitFields(s string, limit int) []string {
	if limit < 0 {
		return strings.Fields(s)
	}
	var parts []string
	rest := strings.TrimLeftFunc(s, unicode.IsSpace)
	for rest != "" && len(parts) < limit {
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			break
		}
		parts = append(parts, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	if rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
